// Package preprocess turns raw order line items into the analysis-ready
// table the rest of the pipeline consumes.
package preprocess

import (
	"strings"
	"time"

	"hotel-analytics-service/internal/models"
	"hotel-analytics-service/internal/pipeline"

	"github.com/shopspring/decimal"
)

// Clean validates and enriches raw order rows. It returns a new slice; the
// caller's rows are never mutated. Rows are dropped when the quantity is
// not positive, the price is negative, or createdAt is in the future
// relative to now. A zero createdAt/updatedAt means the ingest boundary
// failed to parse it, which is fatal to the run.
func Clean(rows []models.OrderLineItem, now time.Time) ([]models.OrderLineItem, error) {
	cleaned := make([]models.OrderLineItem, 0, len(rows))

	for i, row := range rows {
		if row.CreatedAt.IsZero() {
			return nil, &pipeline.DataFormatError{Column: "createdAt", Row: i}
		}
		if row.UpdatedAt.IsZero() {
			return nil, &pipeline.DataFormatError{Column: "updatedAt", Row: i}
		}

		if row.ItemQuantity <= 0 {
			continue
		}
		if row.ItemPrice.IsNegative() {
			continue
		}
		// Future-dated rows would poison the daily series.
		if row.CreatedAt.After(now) {
			continue
		}

		row.OrderHour = row.CreatedAt.Hour()
		row.OrderDay = row.CreatedAt.Weekday().String()
		row.OrderDate = truncateToDay(row.CreatedAt)
		row.OrderMonth = int(row.CreatedAt.Month())
		row.OrderYear = row.CreatedAt.Year()
		row.IsWeekend = IsWeekend(row.CreatedAt)

		// May be negative when the feed reports updatedAt before
		// createdAt; kept as-is rather than rejected.
		row.ProcessingTime = row.UpdatedAt.Sub(row.CreatedAt).Minutes()

		row.TotalPrice = row.ItemPrice.Mul(decimal.NewFromInt(int64(row.ItemQuantity)))

		status := strings.ToLower(row.Status)
		row.IsCompleted = status == models.StatusCompleted
		row.IsCanceled = status == models.StatusCanceled

		cleaned = append(cleaned, row)
	}

	return cleaned, nil
}

// Metrics summarizes a cleaned order table.
func Metrics(rows []models.OrderLineItem) models.ProcessingMetrics {
	m := models.ProcessingMetrics{
		StatusDistribution: make(map[string]int),
	}

	var procSum float64
	var procCount int
	orderValues := make(map[string]float64)
	orderItems := make(map[string]int)

	for _, row := range rows {
		m.StatusDistribution[row.Status]++
		if row.IsCompleted {
			procSum += row.ProcessingTime
			procCount++
		}
		value, _ := row.TotalPrice.Float64()
		orderValues[row.OrderID] += value
		orderItems[row.OrderID] += row.ItemQuantity
	}

	if procCount > 0 {
		m.AvgProcessingTime = procSum / float64(procCount)
	}
	if len(orderValues) > 0 {
		var valueSum float64
		for _, v := range orderValues {
			valueSum += v
		}
		m.AvgOrderValue = valueSum / float64(len(orderValues))

		var itemSum int
		for _, n := range orderItems {
			itemSum += n
		}
		m.AvgItemsPerOrder = float64(itemSum) / float64(len(orderItems))
	}

	return m
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
