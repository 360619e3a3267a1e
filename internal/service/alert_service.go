package service

import (
	"context"
	"fmt"
	"time"

	"hotel-analytics-service/internal/alert"
	"hotel-analytics-service/internal/broker"
	"hotel-analytics-service/internal/models"
	"hotel-analytics-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AlertService renders alert text from a completed analysis run and hands
// it to the dispatch worker via the broker. Rendering failures affect only
// the requested alert; the snapshot itself is untouched.
type AlertService struct {
	analysis  *AnalysisService
	publisher *broker.EventPublisher
	logger    *zap.Logger
}

// NewAlertService creates a new alert service.
func NewAlertService(analysis *AnalysisService, publisher *broker.EventPublisher) *AlertService {
	return &AlertService{
		analysis:  analysis,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// AlertRequest selects what to render and where to send it.
type AlertRequest struct {
	RunID       string
	Type        string // peak_time, inventory or staffing
	Destination string
	Threshold   *float64   // peak_time only
	Date        *time.Time // staffing only
	TopN        int        // peak_time only, default 3
}

// RequestAlert renders the alert body and publishes an AlertRequested
// event for asynchronous dispatch. The rendered body is returned so the
// caller can preview it.
func (s *AlertService) RequestAlert(ctx context.Context, req *AlertRequest) (string, error) {
	ctx, span := util.StartSpan(ctx, "AlertService.RequestAlert")
	defer span.End()

	snap, err := s.analysis.Get(ctx, req.RunID)
	if err != nil {
		return "", err
	}

	body, err := s.render(snap, req)
	if err != nil {
		return "", err
	}

	util.AlertsRequestedTotal.WithLabelValues(req.Type).Inc()

	event := &models.AlertRequestedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeAlertRequested,
			Timestamp: time.Now(),
		},
		RunID:       req.RunID,
		AlertType:   req.Type,
		Destination: req.Destination,
		Body:        body,
	}
	if s.publisher != nil {
		if err := s.publisher.PublishAlertRequested(ctx, event); err != nil {
			s.logger.Error("Failed to publish AlertRequested event", zap.Error(err))
			return body, fmt.Errorf("alert rendered but dispatch enqueue failed: %w", err)
		}
	}

	return body, nil
}

func (s *AlertService) render(snap *models.AnalysisSnapshot, req *AlertRequest) (string, error) {
	switch req.Type {
	case models.AlertTypePeakTime:
		return alert.FormatPeakTimeAlert(snap.Forecast, req.Threshold, req.TopN)
	case models.AlertTypeInventory:
		return alert.FormatInventoryAlert(snap.Ingredients)
	case models.AlertTypeStaffing:
		// GeneratedAt anchors the default 3-day window so re-rendering a
		// run later yields the same bytes.
		return alert.FormatStaffingAlert(snap.Staffing, req.Date, snap.GeneratedAt)
	default:
		return "", fmt.Errorf("unknown alert type %q", req.Type)
	}
}
