package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hotel-analytics-service/internal/broker"
	"hotel-analytics-service/internal/forecast"
	"hotel-analytics-service/internal/ingredient"
	"hotel-analytics-service/internal/models"
	"hotel-analytics-service/internal/pipeline"
	"hotel-analytics-service/internal/preprocess"
	"hotel-analytics-service/internal/redisclient"
	"hotel-analytics-service/internal/staffing"
	"hotel-analytics-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AnalysisService runs the forecast-to-derived-metrics pipeline. Each run
// is independent and synchronous: preprocessing or forecasting failures
// abort the run, while ingredient and staffing failures are isolated per
// component so one misconfiguration does not hide the sibling results.
type AnalysisService struct {
	forecaster forecast.Forecaster
	recipes    models.RecipeTable
	cache      *redisclient.Client
	publisher  *broker.EventPublisher
	logger     *zap.Logger

	mu   sync.RWMutex
	runs map[string]*models.AnalysisSnapshot
}

// NewAnalysisService creates a new analysis service. cache and publisher
// may be nil (degraded mode: memory-only snapshots, no events).
func NewAnalysisService(
	forecaster forecast.Forecaster,
	recipes models.RecipeTable,
	cache *redisclient.Client,
	publisher *broker.EventPublisher,
) *AnalysisService {
	return &AnalysisService{
		forecaster: forecaster,
		recipes:    recipes,
		cache:      cache,
		publisher:  publisher,
		logger:     util.GetLogger(),
		runs:       make(map[string]*models.AnalysisSnapshot),
	}
}

// AnalysisRequest is one pipeline invocation.
type AnalysisRequest struct {
	Rows          []models.OrderLineItem
	HorizonDays   int
	ConfidencePct int
	Staffing      models.StaffingConfig
	Now           time.Time // zero means time.Now()
}

// Run executes the full pipeline and returns the snapshot.
func (s *AnalysisService) Run(ctx context.Context, req *AnalysisRequest) (*models.AnalysisSnapshot, error) {
	ctx, span := util.StartSpan(ctx, "AnalysisService.Run")
	defer span.End()

	util.AnalysisRunsTotal.Inc()

	if err := validateRequest(req); err != nil {
		util.AnalysisRunsFailed.WithLabelValues("validate").Inc()
		return nil, err
	}
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	cleaned, err := s.runPreprocess(ctx, req.Rows, now)
	if err != nil {
		util.AnalysisRunsFailed.WithLabelValues("preprocess").Inc()
		return nil, err
	}
	if len(cleaned) == 0 {
		util.AnalysisRunsFailed.WithLabelValues("preprocess").Inc()
		return nil, &pipeline.EmptySeriesError{RawRows: len(req.Rows)}
	}
	util.AnalysisRowsRetained.Observe(float64(len(cleaned)))

	series, lowConfidence, err := s.runForecast(ctx, cleaned, req.HorizonDays, req.ConfidencePct)
	if err != nil {
		util.AnalysisRunsFailed.WithLabelValues("forecast").Inc()
		return nil, err
	}

	snap := &models.AnalysisSnapshot{
		RunID:           uuid.New().String(),
		GeneratedAt:     now,
		HorizonDays:     req.HorizonDays,
		ConfidencePct:   req.ConfidencePct,
		RowsIngested:    len(req.Rows),
		RowsRetained:    len(cleaned),
		Forecast:        series,
		LowConfidence:   lowConfidence,
		Metrics:         preprocess.Metrics(cleaned),
		PeakHours:       forecast.HourlyPeaks(cleaned, req.HorizonDays, now),
		ComponentErrors: make(map[string]string),
	}

	// Ingredient projection and staffing consume the same forecast
	// independently; a failure in one is recorded and the other kept.
	s.runIngredients(ctx, snap, cleaned, series, req.HorizonDays)
	s.runStaffing(ctx, snap, series, req.Staffing, now)
	if len(snap.ComponentErrors) == 0 {
		snap.ComponentErrors = nil
	}

	s.mu.Lock()
	s.runs[snap.RunID] = snap
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.SaveSnapshot(ctx, snap); err != nil {
			s.logger.Warn("Failed to cache snapshot", zap.String("run_id", snap.RunID), zap.Error(err))
		}
	}
	s.publishCompleted(ctx, snap)

	s.logger.Info("Analysis run completed",
		zap.String("run_id", snap.RunID),
		zap.Int("rows_retained", snap.RowsRetained),
		zap.Int("horizon_days", snap.HorizonDays),
		zap.Bool("low_confidence", snap.LowConfidence))

	return snap, nil
}

// Get returns a snapshot by run ID, preferring the Redis cache.
func (s *AnalysisService) Get(ctx context.Context, runID string) (*models.AnalysisSnapshot, error) {
	if s.cache != nil {
		snap, err := s.cache.GetSnapshot(ctx, runID)
		if err != nil {
			s.logger.Warn("Snapshot cache read failed", zap.String("run_id", runID), zap.Error(err))
		} else if snap != nil {
			util.SnapshotCacheHits.Inc()
			return snap, nil
		}
	}
	util.SnapshotCacheMisses.Inc()

	s.mu.RLock()
	snap, ok := s.runs[runID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("analysis run not found: %s", runID)
	}
	return snap, nil
}

// Recipes exposes the read-only recipe table configured for this session.
func (s *AnalysisService) Recipes() models.RecipeTable {
	return s.recipes
}

func (s *AnalysisService) runPreprocess(ctx context.Context, rows []models.OrderLineItem, now time.Time) ([]models.OrderLineItem, error) {
	_, span := util.StartSpan(ctx, "pipeline.preprocess")
	defer span.End()
	start := time.Now()
	defer func() {
		util.PipelineStageDuration.WithLabelValues("preprocess").Observe(time.Since(start).Seconds())
	}()

	return preprocess.Clean(rows, now)
}

func (s *AnalysisService) runForecast(ctx context.Context, cleaned []models.OrderLineItem, horizon, confidence int) ([]models.ForecastPoint, bool, error) {
	_, span := util.StartSpan(ctx, "pipeline.forecast")
	defer span.End()
	start := time.Now()
	defer func() {
		util.PipelineStageDuration.WithLabelValues("forecast").Observe(time.Since(start).Seconds())
	}()

	series, err := forecast.DailySeries(cleaned)
	if err != nil {
		return nil, false, err
	}

	lowConfidence := false
	if warn := forecast.CheckHistory(series); warn != nil {
		lowConfidence = true
		util.LowConfidenceForecastsTotal.Inc()
		s.logger.Warn("Forecast history below stable minimum", zap.Error(warn))
	}

	points, err := s.forecaster.FitAndPredict(series, horizon, confidence)
	if err != nil {
		return nil, false, fmt.Errorf("forecast failed: %w", err)
	}
	return points, lowConfidence, nil
}

func (s *AnalysisService) runIngredients(ctx context.Context, snap *models.AnalysisSnapshot, cleaned []models.OrderLineItem, series []models.ForecastPoint, horizon int) {
	_, span := util.StartSpan(ctx, "pipeline.ingredients")
	defer span.End()
	start := time.Now()
	defer func() {
		util.PipelineStageDuration.WithLabelValues("ingredients").Observe(time.Since(start).Seconds())
	}()

	fc, err := ingredient.Project(cleaned, series, s.recipes, horizon)
	if err != nil {
		snap.ComponentErrors["ingredients"] = err.Error()
		s.logger.Error("Ingredient projection failed", zap.Error(err))
		return
	}
	snap.Ingredients = fc
}

func (s *AnalysisService) runStaffing(ctx context.Context, snap *models.AnalysisSnapshot, series []models.ForecastPoint, cfg models.StaffingConfig, now time.Time) {
	_, span := util.StartSpan(ctx, "pipeline.staffing")
	defer span.End()
	start := time.Now()
	defer func() {
		util.PipelineStageDuration.WithLabelValues("staffing").Observe(time.Since(start).Seconds())
	}()

	if err := validateStaffing(cfg); err != nil {
		snap.ComponentErrors["staffing"] = err.Error()
		s.logger.Error("Staffing configuration rejected", zap.Error(err))
		return
	}
	snap.Staffing = staffing.Optimize(series, cfg, now)
}

func (s *AnalysisService) publishCompleted(ctx context.Context, snap *models.AnalysisSnapshot) {
	if s.publisher == nil {
		return
	}
	event := &models.AnalysisCompletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeAnalysisCompleted,
			Timestamp: time.Now(),
		},
		RunID:         snap.RunID,
		HorizonDays:   snap.HorizonDays,
		ConfidencePct: snap.ConfidencePct,
		RowsRetained:  snap.RowsRetained,
		LowConfidence: snap.LowConfidence,
	}
	if err := s.publisher.PublishAnalysisCompleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish AnalysisCompleted event", zap.Error(err))
	}
}

func validateRequest(req *AnalysisRequest) error {
	if req.HorizonDays < 1 || req.HorizonDays > 30 {
		return fmt.Errorf("horizon_days must be within 1..30, got %d", req.HorizonDays)
	}
	if req.ConfidencePct < 80 || req.ConfidencePct > 95 {
		return fmt.Errorf("confidence_pct must be within 80..95, got %d", req.ConfidencePct)
	}
	return nil
}

func validateStaffing(cfg models.StaffingConfig) error {
	if cfg.OrdersPerStaff < 1 || cfg.OrdersPerStaff > 20 {
		return fmt.Errorf("orders_per_staff must be within 1..20, got %d", cfg.OrdersPerStaff)
	}
	if cfg.MinStaff < 1 || cfg.MinStaff > 10 {
		return fmt.Errorf("min_staff must be within 1..10, got %d", cfg.MinStaff)
	}
	if cfg.PrepTimeFactor < 0.5 || cfg.PrepTimeFactor > 2.0 {
		return fmt.Errorf("prep_time_factor must be within 0.5..2.0, got %g", cfg.PrepTimeFactor)
	}
	known := make(map[string]bool, len(staffing.RolePolicy))
	for _, rs := range staffing.RolePolicy {
		known[rs.Name] = true
	}
	for _, role := range cfg.Roles {
		if !known[role] {
			return fmt.Errorf("unknown staffing role %q", role)
		}
	}
	return nil
}
