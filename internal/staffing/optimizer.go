// Package staffing converts the order-volume forecast into per-role
// headcount recommendations.
package staffing

import (
	"math"
	"time"

	"hotel-analytics-service/internal/models"
)

// OperatingHours is the assumed daily service window the forecast volume is
// spread across.
const OperatingHours = 12.0

// RoleShare is one entry of the static allocation policy.
type RoleShare struct {
	Name  string
	Share float64
}

// RolePolicy is the static share table. Shares are policy, not derived
// from data, and are NOT renormalized when only a subset of roles is
// enabled; role counts are independent floored allocations and need not
// sum to the total.
var RolePolicy = []RoleShare{
	{Name: "Chefs", Share: 0.35},
	{Name: "Waiters", Share: 0.40},
	{Name: "Kitchen helpers", Share: 0.15},
	{Name: "Bartenders", Share: 0.10},
}

// Optimize produces one staffing recommendation per forecast point dated
// strictly after now. Estimates are clamped to >= 0 before use and
// total staff never drops below cfg.MinStaff; every enabled role gets at
// least one person.
func Optimize(series []models.ForecastPoint, cfg models.StaffingConfig, now time.Time) []models.StaffingDay {
	enabled := make(map[string]bool, len(cfg.Roles))
	for _, role := range cfg.Roles {
		enabled[role] = true
	}

	var plan []models.StaffingDay
	for _, point := range series {
		if !point.Date.After(now) {
			continue
		}

		predicted := math.Max(point.Point, 0)
		lower := math.Max(point.Lower, 0)
		upper := math.Max(point.Upper, 0)

		adjusted := predicted * cfg.PrepTimeFactor
		hourlyRate := adjusted / OperatingHours
		total := math.Max(math.Ceil(hourlyRate/float64(cfg.OrdersPerStaff)), float64(cfg.MinStaff))

		day := models.StaffingDay{
			Date:            point.Date,
			PredictedOrders: int(predicted),
			LowerBound:      int(lower),
			UpperBound:      int(upper),
			TotalStaff:      int(total),
			Roles:           make(map[string]int),
		}

		for _, rs := range RolePolicy {
			if !enabled[rs.Name] {
				continue
			}
			count := int(total * rs.Share)
			if count < 1 {
				count = 1
			}
			day.Roles[rs.Name] = count
		}

		plan = append(plan, day)
	}

	return plan
}

// Costs extends a staffing plan with wage costs. Roles without a known
// hourly rate are skipped.
func Costs(plan []models.StaffingDay, hourlyRates map[string]float64, shiftHours float64) models.StaffingCosts {
	costs := models.StaffingCosts{
		CostByRole: make(map[string]float64),
	}

	for _, day := range plan {
		dayCost := models.DailyStaffingCost{
			Date:  day.Date,
			Costs: make(map[string]float64),
		}
		for role, count := range day.Roles {
			rate, ok := hourlyRates[role]
			if !ok {
				continue
			}
			c := float64(count) * rate * shiftHours
			dayCost.Costs[role] = c
			dayCost.Total += c
			costs.CostByRole[role] += c
		}
		costs.DailyCosts = append(costs.DailyCosts, dayCost)
		costs.TotalCost += dayCost.Total
	}

	return costs
}
