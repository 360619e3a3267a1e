// Package alert renders forecast, ingredient and staffing summaries into
// plain-text messages suitable for an SMS-like channel, and defines the
// outbound gateway boundary.
package alert

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"hotel-analytics-service/internal/models"
	"hotel-analytics-service/internal/pipeline"
	"hotel-analytics-service/internal/staffing"
)

const alertDateFormat = "Monday, Jan 02"

// DefaultTopPeaks is how many peak days a peak-time alert lists.
const DefaultTopPeaks = 3

// FormatPeakTimeAlert renders the top forecast days of the last week of the
// series. When threshold is set, only days whose point estimate exceeds it
// qualify; the filter applies before the top-N cut. The wrapper text is
// retained even when no day qualifies. Same input, same output bytes.
func FormatPeakTimeAlert(series []models.ForecastPoint, threshold *float64, topN int) (string, error) {
	if len(series) == 0 {
		return "", &pipeline.RenderError{Template: "peak_time", Reason: "empty forecast series"}
	}
	if topN <= 0 {
		topN = DefaultTopPeaks
	}

	window := series
	if len(window) > 7 {
		window = window[len(window)-7:]
	}

	peaks := make([]models.ForecastPoint, 0, len(window))
	for _, p := range window {
		if threshold != nil && p.Point <= *threshold {
			continue
		}
		peaks = append(peaks, p)
	}
	sort.SliceStable(peaks, func(i, j int) bool {
		if peaks[i].Point != peaks[j].Point {
			return peaks[i].Point > peaks[j].Point
		}
		return peaks[i].Date.Before(peaks[j].Date)
	})
	if len(peaks) > topN {
		peaks = peaks[:topN]
	}

	var b strings.Builder
	b.WriteString("🏨 HOTEL ORDER FORECAST ALERT 🏨\n\n")
	b.WriteString("Expected peak order times for the coming week:\n\n")
	for i, p := range peaks {
		fmt.Fprintf(&b, "%d. %s: ~%d orders\n", i+1, p.Date.Format(alertDateFormat), int(p.Point))
	}
	b.WriteString("\nThis forecast helps you prepare staffing and inventory in advance.")
	return b.String(), nil
}

// FormatInventoryAlert renders the five ingredients with the highest total
// forecast demand across the horizon.
func FormatInventoryAlert(fc models.IngredientForecast) (string, error) {
	if len(fc) == 0 {
		return "", &pipeline.RenderError{Template: "inventory", Reason: "empty ingredient forecast"}
	}

	totals := make(map[string]float64)
	for _, day := range fc {
		if day == nil {
			return "", &pipeline.RenderError{Template: "inventory", Reason: "missing ingredient quantities for a day"}
		}
		for ing, qty := range day {
			totals[ing] += qty
		}
	}

	type ingTotal struct {
		name string
		qty  float64
	}
	sorted := make([]ingTotal, 0, len(totals))
	for ing, qty := range totals {
		sorted = append(sorted, ingTotal{ing, qty})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].qty != sorted[j].qty {
			return sorted[i].qty > sorted[j].qty
		}
		return sorted[i].name < sorted[j].name
	})
	if len(sorted) > 5 {
		sorted = sorted[:5]
	}

	var b strings.Builder
	b.WriteString("🥗 INGREDIENT INVENTORY ALERT 🥗\n\n")
	b.WriteString("Top 5 ingredients needed for the coming week:\n\n")
	for i, it := range sorted {
		fmt.Fprintf(&b, "%d. %s: %.1f units\n", i+1, it.name, it.qty)
	}
	b.WriteString("\nMake sure to stock up on these ingredients to meet demand.")
	return b.String(), nil
}

// FormatStaffingAlert renders staffing requirements for a specific date, or
// for the next three days after now when dateFilter is nil.
func FormatStaffingAlert(plan []models.StaffingDay, dateFilter *time.Time, now time.Time) (string, error) {
	if plan == nil {
		return "", &pipeline.RenderError{Template: "staffing", Reason: "missing staffing plan"}
	}

	sameDay := func(a, b time.Time) bool {
		return a.Format("2006-01-02") == b.Format("2006-01-02")
	}

	var selected []models.StaffingDay
	for _, day := range plan {
		if dateFilter != nil {
			if sameDay(day.Date, *dateFilter) {
				selected = append(selected, day)
			}
			continue
		}
		for i := 1; i <= 3; i++ {
			if sameDay(day.Date, now.AddDate(0, 0, i)) {
				selected = append(selected, day)
				break
			}
		}
	}

	var b strings.Builder
	b.WriteString("👥 STAFFING REQUIREMENTS ALERT 👥\n\n")
	if len(selected) == 0 {
		b.WriteString("No staffing data available for the requested period.\n\n")
	}
	for _, day := range selected {
		if day.Roles == nil {
			return "", &pipeline.RenderError{Template: "staffing", Reason: "missing role allocation for " + day.Date.Format("2006-01-02")}
		}
		fmt.Fprintf(&b, "Date: %s\n", day.Date.Format(alertDateFormat))
		fmt.Fprintf(&b, "- Predicted orders: %d\n", day.PredictedOrders)
		fmt.Fprintf(&b, "- Total staff: %d\n", day.TotalStaff)
		for _, rs := range staffing.RolePolicy {
			if count, ok := day.Roles[rs.Name]; ok {
				fmt.Fprintf(&b, "- %s: %d\n", rs.Name, count)
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("Please adjust staffing schedules accordingly to ensure proper coverage during peak times.")
	return b.String(), nil
}
