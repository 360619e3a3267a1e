package worker

import (
	"context"
	"time"

	"hotel-analytics-service/internal/alert"
	"hotel-analytics-service/internal/broker"
	"hotel-analytics-service/internal/models"
	"hotel-analytics-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AlertWorker consumes AlertRequested events and pushes each message
// through the SMS gateway, reporting the outcome back onto the bus.
type AlertWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	gateway      alert.Gateway
	publisher    *broker.EventPublisher
	logger       *zap.Logger
}

// NewAlertWorker creates a new alert dispatch worker
func NewAlertWorker(consumer *broker.Consumer, gateway alert.Gateway, publisher *broker.EventPublisher) *AlertWorker {
	w := &AlertWorker{
		consumer:  consumer,
		gateway:   gateway,
		publisher: publisher,
		logger:    util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnAlertRequested(w.dispatch)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *AlertWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting alert dispatch worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *AlertWorker) Stop() error {
	w.logger.Info("Stopping alert dispatch worker")
	return w.consumer.Close()
}

func (w *AlertWorker) dispatch(ctx context.Context, event *models.AlertRequestedEvent) error {
	ok, detail, err := w.gateway.Send(ctx, event.Destination, event.Body)
	if err != nil {
		// Transport error: leave the message uncommitted so it is retried.
		w.logger.Error("Gateway transport error",
			zap.String("run_id", event.RunID),
			zap.String("type", event.AlertType),
			zap.Error(err))
		return err
	}

	base := models.BaseEvent{
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
	}

	if ok {
		util.AlertsSentTotal.WithLabelValues(event.AlertType).Inc()
		base.EventType = models.EventTypeAlertSent
		sent := &models.AlertSentEvent{
			BaseEvent:   base,
			RunID:       event.RunID,
			AlertType:   event.AlertType,
			Destination: event.Destination,
			Detail:      detail,
		}
		if err := w.publisher.PublishAlertSent(ctx, sent); err != nil {
			w.logger.Error("Failed to publish AlertSent event", zap.Error(err))
		}
		return nil
	}

	// Gateway declined: recorded, not retried.
	util.AlertsFailedTotal.WithLabelValues(event.AlertType, "gateway_declined").Inc()
	w.logger.Warn("Gateway declined alert",
		zap.String("run_id", event.RunID),
		zap.String("type", event.AlertType),
		zap.String("detail", detail))

	base.EventType = models.EventTypeAlertFailed
	failed := &models.AlertFailedEvent{
		BaseEvent:   base,
		RunID:       event.RunID,
		AlertType:   event.AlertType,
		Destination: event.Destination,
		Reason:      detail,
	}
	if err := w.publisher.PublishAlertFailed(ctx, failed); err != nil {
		w.logger.Error("Failed to publish AlertFailed event", zap.Error(err))
	}
	return nil
}
