// Package sample generates deterministic order fixtures for tests and
// local seeding.
package sample

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"hotel-analytics-service/internal/models"

	"github.com/shopspring/decimal"
)

// Menu holds the fixture menu items with their prices.
var Menu = map[string]string{
	"Burger and Fries":   "15.99",
	"Pasta Carbonara":    "18.99",
	"Grilled Salmon":     "24.99",
	"Caesar Salad":       "12.99",
	"Club Sandwich":      "14.99",
	"Steak Dinner":       "29.99",
	"Chicken Curry":      "19.99",
	"Pizza Margherita":   "17.99",
	"Chocolate Cake":     "8.99",
	"Coffee":             "3.99",
	"Soft Drink":         "2.99",
	"Glass of Wine":      "10.99",
}

// GenerateOrders produces order line items between start and end with
// meal-time and weekend demand patterns baked in. The same seed yields the
// same rows.
func GenerateOrders(numOrders int, start, end time.Time, seed int64) []models.OrderLineItem {
	rng := rand.New(rand.NewSource(seed))

	items := make([]string, 0, len(Menu))
	for name := range Menu {
		items = append(items, name)
	}
	sort.Strings(items)

	statuses := []string{models.StatusCompleted, models.StatusPending, models.StatusCanceled}
	statusWeights := []float64{0.85, 0.10, 0.05}

	span := end.Sub(start)
	var rows []models.OrderLineItem

	for i := 1; i <= numOrders; i++ {
		createdAt := start.Add(time.Duration(rng.Int63n(int64(span))))

		// Thin out non-peak hours and weekdays so the series has real
		// hourly and weekly seasonality.
		hour := createdAt.Hour()
		switch {
		case hour < 7 || hour > 22:
			if rng.Float64() < 0.9 {
				continue
			}
		case !isMealHour(hour):
			if rng.Float64() < 0.6 {
				continue
			}
		}
		wd := createdAt.Weekday()
		if wd != time.Saturday && wd != time.Sunday && rng.Float64() < 0.3 {
			continue
		}

		orderID := fmt.Sprintf("ORD-%06d", i)
		orderNo := fmt.Sprintf("ON-%06d", i)
		hotelID := 1 + rng.Intn(5)

		numItems := 1 + rng.Intn(5)
		for j := 0; j < numItems; j++ {
			name := items[rng.Intn(len(items))]
			price, _ := decimal.NewFromString(Menu[name])
			updatedAt := createdAt.Add(time.Duration(10+rng.Intn(50)) * time.Minute)

			rows = append(rows, models.OrderLineItem{
				OrderID:      orderID,
				HotelID:      hotelID,
				OrderNo:      orderNo,
				ItemName:     name,
				ItemQuantity: 1 + rng.Intn(3),
				ItemPrice:    price,
				Status:       pickWeighted(rng, statuses, statusWeights),
				CreatedAt:    createdAt,
				UpdatedAt:    updatedAt,
			})
		}
	}

	return rows
}

// DefaultRecipeTable returns a static recipe table covering the fixture
// menu. Quantities are per unit of the item.
func DefaultRecipeTable() models.RecipeTable {
	return models.RecipeTable{
		"Burger and Fries": {"Beef patty": 1, "Burger bun": 1, "Potatoes": 0.3, "Cheese": 0.05},
		"Pasta Carbonara":  {"Pasta": 0.12, "Eggs": 2, "Bacon": 0.08, "Parmesan": 0.04},
		"Grilled Salmon":   {"Salmon fillet": 0.2, "Lemon": 0.5, "Butter": 0.03},
		"Caesar Salad":     {"Lettuce": 0.15, "Parmesan": 0.03, "Croutons": 0.05, "Chicken breast": 0.1},
		"Club Sandwich":    {"Bread": 3, "Chicken breast": 0.12, "Bacon": 0.05, "Lettuce": 0.03},
		"Steak Dinner":     {"Beef steak": 0.3, "Potatoes": 0.25, "Butter": 0.02},
		"Chicken Curry":    {"Chicken breast": 0.25, "Rice": 0.15, "Curry paste": 0.05},
		"Pizza Margherita": {"Flour": 0.25, "Tomato sauce": 0.1, "Mozzarella": 0.15},
		"Chocolate Cake":   {"Flour": 0.1, "Chocolate": 0.08, "Eggs": 1, "Sugar": 0.06},
		"Coffee":           {"Coffee beans": 0.02, "Milk": 0.05},
		"Soft Drink":       {"Syrup": 0.04},
		"Glass of Wine":    {"Wine": 0.15},
	}
}

func isMealHour(hour int) bool {
	switch hour {
	case 7, 8, 12, 13, 18, 19, 20:
		return true
	}
	return false
}

func pickWeighted(rng *rand.Rand, values []string, weights []float64) string {
	r := rng.Float64()
	var acc float64
	for i, w := range weights {
		acc += w
		if r < acc {
			return values[i]
		}
	}
	return values[len(values)-1]
}
