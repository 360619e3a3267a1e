package models

import "time"

// Event types
const (
	EventTypeAnalysisCompleted = "ANALYSIS_COMPLETED"
	EventTypeAlertRequested    = "ALERT_REQUESTED"
	EventTypeAlertSent         = "ALERT_SENT"
	EventTypeAlertFailed       = "ALERT_FAILED"
)

// Alert types carried by AlertRequestedEvent
const (
	AlertTypePeakTime  = "peak_time"
	AlertTypeInventory = "inventory"
	AlertTypeStaffing  = "staffing"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// AnalysisCompletedEvent published when a pipeline run finishes
type AnalysisCompletedEvent struct {
	BaseEvent
	RunID         string `json:"run_id"`
	HorizonDays   int    `json:"horizon_days"`
	ConfidencePct int    `json:"confidence_pct"`
	RowsRetained  int    `json:"rows_retained"`
	LowConfidence bool   `json:"low_confidence"`
}

// AlertRequestedEvent published when an operator requests an alert; the
// dispatch worker consumes it and hands the body to the SMS gateway.
type AlertRequestedEvent struct {
	BaseEvent
	RunID       string `json:"run_id"`
	AlertType   string `json:"alert_type"`
	Destination string `json:"destination"`
	Body        string `json:"body"`
}

// AlertSentEvent published after the gateway accepts a message
type AlertSentEvent struct {
	BaseEvent
	RunID       string `json:"run_id"`
	AlertType   string `json:"alert_type"`
	Destination string `json:"destination"`
	Detail      string `json:"detail"`
}

// AlertFailedEvent published when the gateway rejects a message
type AlertFailedEvent struct {
	BaseEvent
	RunID       string `json:"run_id"`
	AlertType   string `json:"alert_type"`
	Destination string `json:"destination"`
	Reason      string `json:"reason"`
}
