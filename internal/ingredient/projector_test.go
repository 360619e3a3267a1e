package ingredient

import (
	"testing"
	"time"

	"hotel-analytics-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemRow(item string, qty int) models.OrderLineItem {
	return models.OrderLineItem{
		OrderID:      "ORD-000001",
		ItemName:     item,
		ItemQuantity: qty,
	}
}

func futurePoint(date time.Time, point float64) models.ForecastPoint {
	return models.ForecastPoint{Date: date, Point: point, Lower: point, Upper: point, Future: true}
}

func TestItemDistribution(t *testing.T) {
	rows := []models.OrderLineItem{
		itemRow("Burger", 60),
		itemRow("Coffee", 30),
		itemRow("Burger", 10),
	}

	dist := ItemDistribution(rows)
	assert.InDelta(t, 0.7, dist["Burger"], 1e-9)
	assert.InDelta(t, 0.3, dist["Coffee"], 1e-9)

	assert.Empty(t, ItemDistribution(nil))
}

func TestProjectSingleItemRecipe(t *testing.T) {
	// History is 100% Burger; a day forecast at 50 orders needs 50 units
	// of flour at 1.0 per burger.
	rows := []models.OrderLineItem{itemRow("Burger", 100)}
	recipe := models.RecipeTable{"Burger": {"Flour": 1.0}}

	date := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
	series := []models.ForecastPoint{futurePoint(date, 50)}

	fc, err := Project(rows, series, recipe, 1)
	require.NoError(t, err)
	require.Contains(t, fc, "2024-06-20")
	assert.InDelta(t, 50.0, fc["2024-06-20"]["Flour"], 1e-9)
}

func TestProjectZeroVolumeDay(t *testing.T) {
	rows := []models.OrderLineItem{itemRow("Burger", 10)}
	recipe := models.RecipeTable{"Burger": {"Flour": 1.0, "Bun": 2.0}}

	date := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
	series := []models.ForecastPoint{futurePoint(date, 0)}

	fc, err := Project(rows, series, recipe, 1)
	require.NoError(t, err)

	var total float64
	for _, qty := range fc["2024-06-20"] {
		total += qty
	}
	assert.Zero(t, total)
}

func TestProjectSkipsItemsWithoutRecipe(t *testing.T) {
	rows := []models.OrderLineItem{
		itemRow("Burger", 50),
		itemRow("Mystery Dish", 50),
	}
	recipe := models.RecipeTable{"Burger": {"Flour": 1.0}}

	date := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
	series := []models.ForecastPoint{futurePoint(date, 100)}

	fc, err := Project(rows, series, recipe, 1)
	require.NoError(t, err)

	day := fc["2024-06-20"]
	require.Len(t, day, 1)
	// Only the Burger share contributes: 100 * 0.5 * 1.0.
	assert.InDelta(t, 50.0, day["Flour"], 1e-9)
}

func TestProjectRoundsToTwoDecimals(t *testing.T) {
	rows := []models.OrderLineItem{itemRow("Burger", 3)}
	recipe := models.RecipeTable{"Burger": {"Flour": 0.333}}

	date := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
	series := []models.ForecastPoint{futurePoint(date, 10)}

	fc, err := Project(rows, series, recipe, 1)
	require.NoError(t, err)
	assert.Equal(t, 3.33, fc["2024-06-20"]["Flour"])
}

func TestProjectUsesForecastSuffixOnly(t *testing.T) {
	rows := []models.OrderLineItem{itemRow("Burger", 10)}
	recipe := models.RecipeTable{"Burger": {"Flour": 1.0}}

	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	series := []models.ForecastPoint{
		{Date: start, Point: 99},
		futurePoint(start.AddDate(0, 0, 1), 10),
		futurePoint(start.AddDate(0, 0, 2), 20),
	}

	fc, err := Project(rows, series, recipe, 2)
	require.NoError(t, err)
	require.Len(t, fc, 2)
	assert.NotContains(t, fc, "2024-06-10")
}

func TestProjectEmptySeries(t *testing.T) {
	_, err := Project(nil, nil, models.RecipeTable{}, 7)
	assert.Error(t, err)
}

func TestInventoryNeeds(t *testing.T) {
	fc := models.IngredientForecast{
		"2024-06-20": {"Flour": 30, "Eggs": 10},
		"2024-06-21": {"Flour": 20},
	}

	needs := InventoryNeeds(fc, map[string]float64{"Flour": 5, "Eggs": 40}, nil)

	assert.InDelta(t, 50.0, needs.TotalNeeded["Flour"], 1e-9)
	assert.InDelta(t, 10.0, needs.TotalNeeded["Eggs"], 1e-9)

	rec, ok := needs.Reorder["Flour"]
	require.True(t, ok)
	assert.InDelta(t, 45.0, rec.Deficit, 1e-9)
	assert.True(t, rec.ReorderSuggested) // 5 < 20% of 50

	// Eggs are covered, no recommendation.
	assert.NotContains(t, needs.Reorder, "Eggs")
}
