// Package ingredient maps forecasted order volume onto per-ingredient
// demand through the static recipe table.
package ingredient

import (
	"math"

	"hotel-analytics-service/internal/forecast"
	"hotel-analytics-service/internal/models"
	"hotel-analytics-service/internal/pipeline"
)

// ItemDistribution computes each item's historical share of total ordered
// quantity. The distribution is assumed stationary across the forecast
// window; that is a modeling approximation, not a guarantee.
func ItemDistribution(rows []models.OrderLineItem) map[string]float64 {
	totals := make(map[string]int)
	var grand int
	for _, row := range rows {
		totals[row.ItemName] += row.ItemQuantity
		grand += row.ItemQuantity
	}

	dist := make(map[string]float64, len(totals))
	if grand == 0 {
		return dist
	}
	for item, qty := range totals {
		dist[item] = float64(qty) / float64(grand)
	}
	return dist
}

// Project predicts per-ingredient quantities for the last horizon points of
// the forecast series. Items absent from the recipe contribute nothing;
// that is documented policy, not an error. The recipe is never mutated.
func Project(rows []models.OrderLineItem, series []models.ForecastPoint, recipe models.RecipeTable, horizon int) (models.IngredientForecast, error) {
	if len(series) == 0 {
		return nil, &pipeline.EmptySeriesError{}
	}

	dist := ItemDistribution(rows)
	out := make(models.IngredientForecast, horizon)

	for _, point := range forecast.Suffix(series, horizon) {
		date := point.Date.Format("2006-01-02")
		day := make(map[string]float64)

		volume := math.Max(point.Point, 0)
		for item, share := range dist {
			ingredients, ok := recipe[item]
			if !ok {
				continue
			}
			expectedQty := volume * share
			for ing, perUnit := range ingredients {
				day[ing] += expectedQty * perUnit
			}
		}

		for ing, qty := range day {
			day[ing] = round2(qty)
		}
		out[date] = day
	}

	return out, nil
}

// InventoryNeeds totals the forecast across the horizon and recommends
// reorders where current inventory falls short. A missing threshold
// defaults to 20% of the needed quantity.
func InventoryNeeds(fc models.IngredientForecast, current map[string]float64, thresholds map[string]float64) models.InventoryNeeds {
	needs := models.InventoryNeeds{
		TotalNeeded: make(map[string]float64),
		Reorder:     make(map[string]models.ReorderRecommendation),
	}

	for _, day := range fc {
		for ing, qty := range day {
			needs.TotalNeeded[ing] += qty
		}
	}

	for ing, needed := range needs.TotalNeeded {
		have := current[ing]
		threshold, ok := thresholds[ing]
		if !ok {
			threshold = needed * 0.2
		}
		if have < needed {
			needs.Reorder[ing] = models.ReorderRecommendation{
				CurrentInventory: have,
				NeededQuantity:   needed,
				Deficit:          needed - have,
				ReorderSuggested: have < threshold,
			}
		}
	}

	return needs
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
