package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"hotel-analytics-service/internal/models"
	"hotel-analytics-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing analysis and alert domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishAnalysisCompleted publishes AnalysisCompleted event
func (ep *EventPublisher) PublishAnalysisCompleted(ctx context.Context, event *models.AnalysisCompletedEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("run-%s", event.RunID), event)
}

// PublishAlertRequested publishes AlertRequested event
func (ep *EventPublisher) PublishAlertRequested(ctx context.Context, event *models.AlertRequestedEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("run-%s", event.RunID), event)
}

// PublishAlertSent publishes AlertSent event
func (ep *EventPublisher) PublishAlertSent(ctx context.Context, event *models.AlertSentEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("run-%s", event.RunID), event)
}

// PublishAlertFailed publishes AlertFailed event
func (ep *EventPublisher) PublishAlertFailed(ctx context.Context, event *models.AlertFailedEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("run-%s", event.RunID), event)
}

// EventHandler routes incoming events to registered callbacks
type EventHandler struct {
	logger           *zap.Logger
	onAlertRequested func(context.Context, *models.AlertRequestedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnAlertRequested registers a handler for AlertRequested events
func (eh *EventHandler) OnAlertRequested(handler func(context.Context, *models.AlertRequestedEvent) error) {
	eh.onAlertRequested = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeAlertRequested:
		if eh.onAlertRequested != nil {
			var event models.AlertRequestedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal AlertRequested event: %w", err)
			}
			return eh.onAlertRequested(ctx, &event)
		}

	case models.EventTypeAlertSent, models.EventTypeAlertFailed, models.EventTypeAnalysisCompleted:
		// Informational; consumed by downstream reporting, nothing to do
		// here.

	default:
		eh.logger.Warn("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
