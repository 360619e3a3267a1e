package forecast

import (
	"fmt"
	"math"
	"time"

	"hotel-analytics-service/internal/models"
	"hotel-analytics-service/internal/pipeline"
	"hotel-analytics-service/internal/preprocess"
)

// SeasonalModel is the in-repo Forecaster: multiplicative decomposition
// into a linear trend, day-of-week indices, month-of-year indices (when a
// full year of history exists) and an extra weekend-conditioned term, with
// symmetric intervals derived from the relative residual spread.
// Multiplicative because absolute order-count variance grows with baseline
// volume.
type SeasonalModel struct {
	// MinRelativeSpread floors the residual spread so intervals never
	// collapse to zero width on near-constant history.
	MinRelativeSpread float64
}

// NewSeasonalModel returns a model with the default interval floor.
func NewSeasonalModel() *SeasonalModel {
	return &SeasonalModel{MinRelativeSpread: 0.05}
}

const trendFloor = 1e-9

// FitAndPredict fits the series and returns one point per historical day
// (with the observed count carried) followed by horizon future days.
func (m *SeasonalModel) FitAndPredict(series []models.DailyCount, horizon int, confidencePct int) ([]models.ForecastPoint, error) {
	if len(series) == 0 {
		return nil, &pipeline.EmptySeriesError{}
	}
	if horizon < 1 {
		return nil, fmt.Errorf("horizon must be positive, got %d", horizon)
	}
	if confidencePct < 1 || confidencePct > 99 {
		return nil, fmt.Errorf("confidence must be within 1..99, got %d", confidencePct)
	}

	n := len(series)
	y := make([]float64, n)
	for i, dc := range series {
		y[i] = float64(dc.Count)
	}

	slope, intercept := linearTrend(y)
	trendAt := func(t int) float64 {
		return math.Max(intercept+slope*float64(t), trendFloor)
	}

	weekly := weekdayIndices(series, y, trendAt)
	yearly := monthIndices(series, y, trendAt, weekly)
	weekendTerm := weekendMultiplier(series, y, trendAt, weekly, yearly)

	expected := func(t int, dc models.DailyCount) float64 {
		v := trendAt(t) * weekly[int(dc.Date.Weekday())] * yearly[int(dc.Date.Month())]
		if preprocess.IsWeekend(dc.Date) {
			v *= weekendTerm
		}
		return math.Max(v, 0)
	}

	// Relative residual spread over the fitted history.
	var residuals []float64
	for t, dc := range series {
		fit := expected(t, dc)
		if fit > trendFloor {
			residuals = append(residuals, y[t]/fit-1)
		}
	}
	spread := math.Max(stddev(residuals), m.MinRelativeSpread)
	z := normalQuantile(0.5 + float64(confidencePct)/200)

	points := make([]models.ForecastPoint, 0, n+horizon)
	for t, dc := range series {
		points = append(points, makePoint(dc.Date, y[t], expected(t, dc), z*spread, false))
	}

	last := series[n-1].Date
	for i := 1; i <= horizon; i++ {
		date := last.AddDate(0, 0, i)
		dc := models.DailyCount{Date: date}
		points = append(points, makePoint(date, 0, expected(n-1+i, dc), z*spread, true))
	}

	return points, nil
}

// makePoint clamps the estimate and bounds to >= 0 and keeps
// lower <= point <= upper.
func makePoint(date time.Time, observed, point, relWidth float64, future bool) models.ForecastPoint {
	point = math.Max(point, 0)
	lower := math.Max(point*(1-relWidth), 0)
	upper := math.Max(point*(1+relWidth), 0)
	if lower > point {
		lower = point
	}
	if upper < point {
		upper = point
	}
	return models.ForecastPoint{
		Date:      date,
		Observed:  observed,
		Point:     point,
		Lower:     lower,
		Upper:     upper,
		IsWeekend: preprocess.IsWeekend(date),
		Future:    future,
	}
}

func linearTrend(y []float64) (slope, intercept float64) {
	n := float64(len(y))
	if len(y) == 1 {
		return 0, y[0]
	}
	var sumT, sumY, sumTY, sumTT float64
	for t, v := range y {
		ft := float64(t)
		sumT += ft
		sumY += v
		sumTY += ft * v
		sumTT += ft * ft
	}
	denom := n*sumTT - sumT*sumT
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumTY - sumT*sumY) / denom
	intercept = (sumY - slope*sumT) / n
	return slope, intercept
}

// weekdayIndices returns multiplicative day-of-week indices normalized to
// mean 1 over the observed weekdays. Unobserved weekdays get 1.
func weekdayIndices(series []models.DailyCount, y []float64, trendAt func(int) float64) [7]float64 {
	var sums [7]float64
	var counts [7]int
	for t, dc := range series {
		wd := int(dc.Date.Weekday())
		sums[wd] += y[t] / trendAt(t)
		counts[wd]++
	}

	var idx [7]float64
	var total float64
	var observed int
	for wd := 0; wd < 7; wd++ {
		if counts[wd] > 0 {
			idx[wd] = sums[wd] / float64(counts[wd])
			total += idx[wd]
			observed++
		}
	}
	mean := 1.0
	if observed > 0 && total > 0 {
		mean = total / float64(observed)
	}
	for wd := 0; wd < 7; wd++ {
		if counts[wd] > 0 {
			idx[wd] /= mean
		} else {
			idx[wd] = 1
		}
	}
	return idx
}

// monthIndices returns month-of-year indices when at least a full year of
// history exists, otherwise all ones (a shorter window cannot separate
// yearly seasonality from trend).
func monthIndices(series []models.DailyCount, y []float64, trendAt func(int) float64, weekly [7]float64) [13]float64 {
	var idx [13]float64
	for m := range idx {
		idx[m] = 1
	}
	span := series[len(series)-1].Date.Sub(series[0].Date)
	if span < 365*24*time.Hour {
		return idx
	}

	var sums [13]float64
	var counts [13]int
	for t, dc := range series {
		base := trendAt(t) * weekly[int(dc.Date.Weekday())]
		if base <= trendFloor {
			continue
		}
		m := int(dc.Date.Month())
		sums[m] += y[t] / base
		counts[m]++
	}

	var total float64
	var observed int
	for m := 1; m <= 12; m++ {
		if counts[m] > 0 {
			idx[m] = sums[m] / float64(counts[m])
			total += idx[m]
			observed++
		}
	}
	if observed == 0 || total == 0 {
		return idx
	}
	mean := total / float64(observed)
	for m := 1; m <= 12; m++ {
		if counts[m] > 0 {
			idx[m] /= mean
		} else {
			idx[m] = 1
		}
	}
	return idx
}

// weekendMultiplier captures elevated weekend demand beyond the generic
// day-of-week effect: the mean residual ratio on weekend days relative to
// weekdays after trend, weekly and yearly terms are removed.
func weekendMultiplier(series []models.DailyCount, y []float64, trendAt func(int) float64, weekly [7]float64, yearly [13]float64) float64 {
	var wkndSum, wkdaySum float64
	var wkndN, wkdayN int
	for t, dc := range series {
		base := trendAt(t) * weekly[int(dc.Date.Weekday())] * yearly[int(dc.Date.Month())]
		if base <= trendFloor {
			continue
		}
		r := y[t] / base
		if preprocess.IsWeekend(dc.Date) {
			wkndSum += r
			wkndN++
		} else {
			wkdaySum += r
			wkdayN++
		}
	}
	if wkndN == 0 || wkdayN == 0 {
		return 1
	}
	wknd := wkndSum / float64(wkndN)
	wkday := wkdaySum / float64(wkdayN)
	if wkday <= 0 || wknd <= 0 {
		return 1
	}
	return wknd / wkday
}

func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// normalQuantile is the inverse standard normal CDF (Acklam's rational
// approximation, relative error below 1.15e-9).
func normalQuantile(p float64) float64 {
	if p <= 0 || p >= 1 {
		if p <= 0 {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	a := [6]float64{-3.969683028665376e+01, 2.209460984245205e+02, -2.759285104469687e+02,
		1.383577518672690e+02, -3.066479806614716e+01, 2.506628277459239e+00}
	b := [5]float64{-5.447609879822406e+01, 1.615858368580409e+02, -1.556989798598866e+02,
		6.680131188771972e+01, -1.328068155288572e+01}
	c := [6]float64{-7.784894002430293e-03, -3.223964580411365e-01, -2.400758277161838e+00,
		-2.549732539343734e+00, 4.374664141464968e+00, 2.938163982698783e+00}
	d := [4]float64{7.784695709041462e-03, 3.224671290700398e-01, 2.445134137142996e+00,
		3.754408661907416e+00}

	const plow = 0.02425
	const phigh = 1 - plow

	switch {
	case p < plow:
		q := math.Sqrt(-2 * math.Log(p))
		return (((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	case p <= phigh:
		q := p - 0.5
		r := q * q
		return (((((a[0]*r+a[1])*r+a[2])*r+a[3])*r+a[4])*r + a[5]) * q /
			(((((b[0]*r+b[1])*r+b[2])*r+b[3])*r+b[4])*r + 1)
	default:
		q := math.Sqrt(-2 * math.Log(1-p))
		return -(((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	}
}
