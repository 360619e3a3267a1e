package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineItem represents one item row within a hotel order. The base
// fields come straight from the ingest source (CSV upload or the orders
// database); the derived fields are populated by the preprocessor and are
// pure functions of the base fields.
type OrderLineItem struct {
	OrderID      string          `json:"order_id" db:"order_id"`
	HotelID      int             `json:"hotel_id" db:"hotel_id"`
	OrderNo      string          `json:"order_no" db:"order_no"`
	ItemName     string          `json:"item_name" db:"item_name"`
	ItemQuantity int             `json:"item_quantity" db:"item_quantity"`
	ItemPrice    decimal.Decimal `json:"item_price" db:"item_price"`
	Status       string          `json:"status" db:"status"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`

	// Derived during preprocessing. Never persisted independently.
	OrderHour      int             `json:"order_hour,omitempty" db:"-"`
	OrderDay       string          `json:"order_day,omitempty" db:"-"`
	OrderDate      time.Time       `json:"order_date,omitempty" db:"-"`
	OrderMonth     int             `json:"order_month,omitempty" db:"-"`
	OrderYear      int             `json:"order_year,omitempty" db:"-"`
	IsWeekend      bool            `json:"is_weekend,omitempty" db:"-"`
	ProcessingTime float64         `json:"processing_time,omitempty" db:"-"` // minutes, may be negative
	TotalPrice     decimal.Decimal `json:"total_price,omitempty" db:"-"`
	IsCompleted    bool            `json:"is_completed,omitempty" db:"-"`
	IsCanceled     bool            `json:"is_canceled,omitempty" db:"-"`
}

// DailyCount is one calendar day of order volume. Series built by the
// forecaster are gap-free: days without orders carry an explicit zero.
type DailyCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// ForecastPoint is one day of the forecast series. The series covers the
// full historical range (fitted, with the observed count carried) followed
// by the requested horizon (Future=true). Lower <= Point <= Upper always
// holds and all three are clamped to >= 0.
type ForecastPoint struct {
	Date      time.Time `json:"date"`
	Observed  float64   `json:"observed"`
	Point     float64   `json:"point"`
	Lower     float64   `json:"lower"`
	Upper     float64   `json:"upper"`
	IsWeekend bool      `json:"is_weekend"`
	Future    bool      `json:"future"`
}

// RecipeTable maps a menu item name to its ingredients and the quantity of
// each ingredient consumed per unit of the item. It is read-only
// configuration: the pipeline never mutates it.
type RecipeTable map[string]map[string]float64

// Clone returns a deep copy, for callers that want to mutate a recipe
// between runs.
func (r RecipeTable) Clone() RecipeTable {
	out := make(RecipeTable, len(r))
	for item, ingredients := range r {
		m := make(map[string]float64, len(ingredients))
		for ing, qty := range ingredients {
			m[ing] = qty
		}
		out[item] = m
	}
	return out
}

// IngredientForecast maps an ISO date (2006-01-02) to predicted ingredient
// quantities for that day, rounded to 2 decimals.
type IngredientForecast map[string]map[string]float64

// ReorderRecommendation is produced when forecast demand exceeds the current
// inventory level for an ingredient.
type ReorderRecommendation struct {
	CurrentInventory float64 `json:"current_inventory"`
	NeededQuantity   float64 `json:"needed_quantity"`
	Deficit          float64 `json:"deficit"`
	ReorderSuggested bool    `json:"reorder_suggested"`
}

// InventoryNeeds aggregates an ingredient forecast across the horizon.
type InventoryNeeds struct {
	TotalNeeded map[string]float64               `json:"total_needed"`
	Reorder     map[string]ReorderRecommendation `json:"reorder_recommendations"`
}

// StaffingDay is the staffing recommendation for one forecast day. Role
// counts are independent floored proportional allocations and do not need
// to sum to TotalStaff.
type StaffingDay struct {
	Date            time.Time      `json:"date"`
	PredictedOrders int            `json:"predicted_orders"`
	LowerBound      int            `json:"lower_bound"`
	UpperBound      int            `json:"upper_bound"`
	TotalStaff      int            `json:"total_staff"`
	Roles           map[string]int `json:"roles"`
}

// StaffingConfig holds the operator-tunable staffing knobs.
type StaffingConfig struct {
	OrdersPerStaff int      `json:"orders_per_staff"`
	MinStaff       int      `json:"min_staff"`
	PrepTimeFactor float64  `json:"prep_time_factor"`
	Roles          []string `json:"roles"`
}

// DailyStaffingCost is the cost extension for one staffed day.
type DailyStaffingCost struct {
	Date  time.Time          `json:"date"`
	Costs map[string]float64 `json:"costs"`
	Total float64            `json:"total"`
}

// StaffingCosts aggregates staffing cost across the plan.
type StaffingCosts struct {
	DailyCosts []DailyStaffingCost `json:"daily_costs"`
	TotalCost  float64             `json:"total_cost"`
	CostByRole map[string]float64  `json:"cost_by_role"`
}

// ProcessingMetrics summarizes the cleaned order table.
type ProcessingMetrics struct {
	AvgProcessingTime  float64        `json:"avg_processing_time"`
	StatusDistribution map[string]int `json:"status_distribution"`
	AvgOrderValue      float64        `json:"avg_order_value"`
	AvgItemsPerOrder   float64        `json:"avg_items_per_order"`
}

// AnalysisSnapshot is the full result of one pipeline run. Each snapshot is
// owned by the run that produced it; runs share no mutable state.
type AnalysisSnapshot struct {
	RunID         string    `json:"run_id"`
	GeneratedAt   time.Time `json:"generated_at"`
	HorizonDays   int       `json:"horizon_days"`
	ConfidencePct int       `json:"confidence_pct"`
	RowsIngested  int       `json:"rows_ingested"`
	RowsRetained  int       `json:"rows_retained"`

	Forecast      []ForecastPoint    `json:"forecast"`
	LowConfidence bool               `json:"low_confidence"`
	Ingredients   IngredientForecast `json:"ingredients,omitempty"`
	Staffing      []StaffingDay      `json:"staffing,omitempty"`
	PeakHours     map[string][]int   `json:"peak_hours,omitempty"`
	Metrics       ProcessingMetrics  `json:"metrics"`

	// Non-fatal per-component failures (ingredient, staffing). The
	// surviving components are still populated.
	ComponentErrors map[string]string `json:"component_errors,omitempty"`
}

// Order statuses recognized by the preprocessor.
const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusCanceled  = "canceled"
)
