package service

import (
	"context"
	"testing"
	"time"

	"hotel-analytics-service/internal/forecast"
	"hotel-analytics-service/internal/models"
	"hotel-analytics-service/internal/pipeline"
	"hotel-analytics-service/internal/sample"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *AnalysisService {
	return NewAnalysisService(forecast.NewSeasonalModel(), sample.DefaultRecipeTable(), nil, nil)
}

func sampleRequest(end time.Time) *AnalysisRequest {
	start := end.AddDate(0, 0, -60)
	return &AnalysisRequest{
		Rows:          sample.GenerateOrders(3000, start, end, 42),
		HorizonDays:   7,
		ConfidencePct: 90,
		Staffing: models.StaffingConfig{
			OrdersPerStaff: 5,
			MinStaff:       2,
			PrepTimeFactor: 1.0,
			Roles:          []string{"Chefs", "Waiters", "Kitchen helpers"},
		},
		Now: end,
	}
}

func TestRunFullPipeline(t *testing.T) {
	end := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)
	svc := newTestService()

	snap, err := svc.Run(context.Background(), sampleRequest(end))
	require.NoError(t, err)

	assert.NotEmpty(t, snap.RunID)
	assert.Equal(t, end, snap.GeneratedAt)
	assert.Greater(t, snap.RowsRetained, 0)
	assert.LessOrEqual(t, snap.RowsRetained, snap.RowsIngested)
	assert.Nil(t, snap.ComponentErrors)

	// The series carries the history plus exactly the requested horizon.
	require.GreaterOrEqual(t, len(snap.Forecast), 7)
	suffix := snap.Forecast[len(snap.Forecast)-7:]
	for _, p := range suffix {
		assert.True(t, p.Future)
		assert.GreaterOrEqual(t, p.Lower, 0.0)
		assert.GreaterOrEqual(t, p.Point, p.Lower)
		assert.GreaterOrEqual(t, p.Upper, p.Point)
	}

	assert.Len(t, snap.Ingredients, 7)
	assert.Len(t, snap.Staffing, 7)
	assert.Len(t, snap.PeakHours, 7)
	assert.NotEmpty(t, snap.Metrics.StatusDistribution)

	for _, day := range snap.Staffing {
		assert.True(t, day.Date.After(end))
		assert.GreaterOrEqual(t, day.TotalStaff, 2)
	}
}

func TestRunIsDeterministicPerSeed(t *testing.T) {
	end := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)
	svc := newTestService()

	first, err := svc.Run(context.Background(), sampleRequest(end))
	require.NoError(t, err)
	second, err := svc.Run(context.Background(), sampleRequest(end))
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Forecast, second.Forecast)
	assert.Equal(t, first.Ingredients, second.Ingredients)
	assert.Equal(t, first.Staffing, second.Staffing)
}

func TestRunIsolatesStaffingFailure(t *testing.T) {
	end := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)
	svc := newTestService()

	req := sampleRequest(end)
	req.Staffing.OrdersPerStaff = 0

	snap, err := svc.Run(context.Background(), req)
	require.NoError(t, err)

	require.Contains(t, snap.ComponentErrors, "staffing")
	assert.Contains(t, snap.ComponentErrors["staffing"], "orders_per_staff")
	assert.Nil(t, snap.Staffing)
	assert.NotEmpty(t, snap.Ingredients)
	assert.NotEmpty(t, snap.Forecast)
}

func TestRunRejectsUnknownRole(t *testing.T) {
	end := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)
	svc := newTestService()

	req := sampleRequest(end)
	req.Staffing.Roles = []string{"Chefs", "Lifeguards"}

	snap, err := svc.Run(context.Background(), req)
	require.NoError(t, err)
	require.Contains(t, snap.ComponentErrors, "staffing")
	assert.Contains(t, snap.ComponentErrors["staffing"], "Lifeguards")
}

func TestRunValidatesRequest(t *testing.T) {
	svc := newTestService()
	end := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)

	req := sampleRequest(end)
	req.HorizonDays = 0
	_, err := svc.Run(context.Background(), req)
	assert.ErrorContains(t, err, "horizon_days")

	req = sampleRequest(end)
	req.HorizonDays = 31
	_, err = svc.Run(context.Background(), req)
	assert.ErrorContains(t, err, "horizon_days")

	req = sampleRequest(end)
	req.ConfidencePct = 50
	_, err = svc.Run(context.Background(), req)
	assert.ErrorContains(t, err, "confidence_pct")
}

func TestRunEmptyAfterCleaning(t *testing.T) {
	svc := newTestService()
	now := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)

	// Every row is in the future relative to now, so cleaning drops all.
	rows := sample.GenerateOrders(50, now.Add(time.Hour), now.Add(48*time.Hour), 7)
	req := &AnalysisRequest{
		Rows:          rows,
		HorizonDays:   7,
		ConfidencePct: 90,
		Staffing: models.StaffingConfig{
			OrdersPerStaff: 5,
			MinStaff:       2,
			PrepTimeFactor: 1.0,
			Roles:          []string{"Chefs"},
		},
		Now: now,
	}

	_, err := svc.Run(context.Background(), req)
	require.Error(t, err)

	var emptyErr *pipeline.EmptySeriesError
	assert.ErrorAs(t, err, &emptyErr)
}

func TestRunFlagsShortHistory(t *testing.T) {
	svc := newTestService()
	end := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)

	req := sampleRequest(end)
	req.Rows = sample.GenerateOrders(800, end.AddDate(0, 0, -5), end, 42)

	snap, err := svc.Run(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, snap.LowConfidence)
}

func TestGet(t *testing.T) {
	end := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)
	svc := newTestService()

	snap, err := svc.Run(context.Background(), sampleRequest(end))
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), snap.RunID)
	require.NoError(t, err)
	assert.Equal(t, snap.RunID, got.RunID)

	_, err = svc.Get(context.Background(), "no-such-run")
	assert.ErrorContains(t, err, "not found")
}
