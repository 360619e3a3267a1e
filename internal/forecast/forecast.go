// Package forecast builds the daily order-volume series and predicts its
// future with uncertainty bounds.
package forecast

import (
	"sort"
	"time"

	"hotel-analytics-service/internal/models"
	"hotel-analytics-service/internal/pipeline"
)

// MinHistoryDays is the shortest history the seasonal model considers
// stable. Shorter series still forecast, but callers should surface a
// low-confidence indicator (see pipeline.DegenerateForecastWarning).
const MinHistoryDays = 14

// Forecaster is the pluggable seasonal forecasting capability. Any
// implementation producing mean and interval-bounded predictions for the
// historical range plus horizon future days satisfies the contract.
type Forecaster interface {
	FitAndPredict(series []models.DailyCount, horizon int, confidencePct int) ([]models.ForecastPoint, error)
}

// DailySeries aggregates cleaned order rows into a gap-free daily count
// series spanning the observed history. A day with no orders is a true
// zero, not missing data.
func DailySeries(rows []models.OrderLineItem) ([]models.DailyCount, error) {
	if len(rows) == 0 {
		return nil, &pipeline.EmptySeriesError{}
	}

	counts := make(map[time.Time]int)
	var first, last time.Time
	for _, row := range rows {
		day := row.OrderDate
		if day.IsZero() {
			day = time.Date(row.CreatedAt.Year(), row.CreatedAt.Month(), row.CreatedAt.Day(), 0, 0, 0, 0, time.UTC)
		}
		counts[day]++
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if last.IsZero() || day.After(last) {
			last = day
		}
	}

	var series []models.DailyCount
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		series = append(series, models.DailyCount{Date: day, Count: counts[day]})
	}
	return series, nil
}

// CheckHistory returns a DegenerateForecastWarning when the series is too
// short for a stable seasonal fit, nil otherwise.
func CheckHistory(series []models.DailyCount) error {
	if len(series) < MinHistoryDays {
		return &pipeline.DegenerateForecastWarning{HistoryDays: len(series), MinDays: MinHistoryDays}
	}
	return nil
}

// HourlyPeaks returns the three historically busiest hours of day, assigned
// to each forecast date. Order volume by hour is assumed stable across the
// horizon.
func HourlyPeaks(rows []models.OrderLineItem, horizon int, now time.Time) map[string][]int {
	byHour := make(map[int]int)
	for _, row := range rows {
		byHour[row.OrderHour]++
	}

	hours := make([]int, 0, len(byHour))
	for h := range byHour {
		hours = append(hours, h)
	}
	sort.Slice(hours, func(i, j int) bool {
		if byHour[hours[i]] != byHour[hours[j]] {
			return byHour[hours[i]] > byHour[hours[j]]
		}
		return hours[i] < hours[j]
	})
	if len(hours) > 3 {
		hours = hours[:3]
	}

	peaks := make(map[string][]int, horizon)
	for i := 1; i <= horizon; i++ {
		date := now.AddDate(0, 0, i).Format("2006-01-02")
		peaks[date] = append([]int(nil), hours...)
	}
	return peaks
}

// Suffix returns the forecast-only tail of a series.
func Suffix(series []models.ForecastPoint, horizon int) []models.ForecastPoint {
	if horizon <= 0 || horizon > len(series) {
		horizon = len(series)
	}
	return series[len(series)-horizon:]
}
