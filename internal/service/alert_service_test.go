package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"hotel-analytics-service/internal/models"
	"hotel-analytics-service/internal/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runAnalysis(t *testing.T) (*AnalysisService, *models.AnalysisSnapshot) {
	t.Helper()
	end := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)
	svc := newTestService()
	snap, err := svc.Run(context.Background(), sampleRequest(end))
	require.NoError(t, err)
	return svc, snap
}

func TestRequestAlertPeakTime(t *testing.T) {
	analysis, snap := runAnalysis(t)
	alerts := NewAlertService(analysis, nil)

	body, err := alerts.RequestAlert(context.Background(), &AlertRequest{
		RunID:       snap.RunID,
		Type:        models.AlertTypePeakTime,
		Destination: "+15550100",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(body, "🏨 HOTEL ORDER FORECAST ALERT 🏨"))
}

func TestRequestAlertInventory(t *testing.T) {
	analysis, snap := runAnalysis(t)
	alerts := NewAlertService(analysis, nil)

	body, err := alerts.RequestAlert(context.Background(), &AlertRequest{
		RunID:       snap.RunID,
		Type:        models.AlertTypeInventory,
		Destination: "+15550100",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(body, "🥗 INGREDIENT INVENTORY ALERT 🥗"))
	assert.Contains(t, body, "units")
}

func TestRequestAlertStaffing(t *testing.T) {
	analysis, snap := runAnalysis(t)
	alerts := NewAlertService(analysis, nil)

	body, err := alerts.RequestAlert(context.Background(), &AlertRequest{
		RunID:       snap.RunID,
		Type:        models.AlertTypeStaffing,
		Destination: "+15550100",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(body, "👥 STAFFING REQUIREMENTS ALERT 👥"))
	assert.Contains(t, body, "- Total staff:")

	// The default window anchors on the run's GeneratedAt, so re-rendering
	// later gives identical bytes.
	again, err := alerts.RequestAlert(context.Background(), &AlertRequest{
		RunID:       snap.RunID,
		Type:        models.AlertTypeStaffing,
		Destination: "+15550100",
	})
	require.NoError(t, err)
	assert.Equal(t, body, again)
}

func TestRequestAlertStaffingDateFilter(t *testing.T) {
	analysis, snap := runAnalysis(t)
	alerts := NewAlertService(analysis, nil)

	target := snap.GeneratedAt.AddDate(0, 0, 5)
	body, err := alerts.RequestAlert(context.Background(), &AlertRequest{
		RunID:       snap.RunID,
		Type:        models.AlertTypeStaffing,
		Destination: "+15550100",
		Date:        &target,
	})
	require.NoError(t, err)
	assert.Contains(t, body, target.Format("Monday, Jan 02"))
}

func TestRequestAlertUnknownType(t *testing.T) {
	analysis, snap := runAnalysis(t)
	alerts := NewAlertService(analysis, nil)

	_, err := alerts.RequestAlert(context.Background(), &AlertRequest{
		RunID: snap.RunID,
		Type:  "carrier_pigeon",
	})
	assert.ErrorContains(t, err, "unknown alert type")
}

func TestRequestAlertUnknownRun(t *testing.T) {
	analysis, _ := runAnalysis(t)
	alerts := NewAlertService(analysis, nil)

	_, err := alerts.RequestAlert(context.Background(), &AlertRequest{
		RunID: "missing",
		Type:  models.AlertTypePeakTime,
	})
	assert.ErrorContains(t, err, "not found")
}

func TestRequestAlertRenderFailureIsIsolated(t *testing.T) {
	end := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)
	svc := newTestService()

	// Break staffing only; the snapshot still completes.
	req := sampleRequest(end)
	req.Staffing.MinStaff = 0
	snap, err := svc.Run(context.Background(), req)
	require.NoError(t, err)
	require.Contains(t, snap.ComponentErrors, "staffing")

	alerts := NewAlertService(svc, nil)
	_, err = alerts.RequestAlert(context.Background(), &AlertRequest{
		RunID: snap.RunID,
		Type:  models.AlertTypeStaffing,
	})
	require.Error(t, err)

	var renderErr *pipeline.RenderError
	assert.ErrorAs(t, err, &renderErr)

	// Other alert types for the same run still render.
	body, err := alerts.RequestAlert(context.Background(), &AlertRequest{
		RunID: snap.RunID,
		Type:  models.AlertTypeInventory,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, body)
}
