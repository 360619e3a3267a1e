package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"hotel-analytics-service/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alertRequestedMessage(t *testing.T) kafka.Message {
	t.Helper()
	event := models.AlertRequestedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-1",
			EventType: models.EventTypeAlertRequested,
			Timestamp: time.Now(),
		},
		RunID:       "run-1",
		AlertType:   models.AlertTypePeakTime,
		Destination: "+15550100",
		Body:        "test body",
	}
	value, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: value}
}

func TestHandleMessageRoutesAlertRequested(t *testing.T) {
	handler := NewEventHandler()

	var got *models.AlertRequestedEvent
	handler.OnAlertRequested(func(ctx context.Context, event *models.AlertRequestedEvent) error {
		got = event
		return nil
	})

	err := handler.HandleMessage(context.Background(), alertRequestedMessage(t))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, models.AlertTypePeakTime, got.AlertType)
	assert.Equal(t, "test body", got.Body)
}

func TestHandleMessageNoHandlerRegistered(t *testing.T) {
	handler := NewEventHandler()
	assert.NoError(t, handler.HandleMessage(context.Background(), alertRequestedMessage(t)))
}

func TestHandleMessageIgnoresInformationalEvents(t *testing.T) {
	handler := NewEventHandler()
	handler.OnAlertRequested(func(ctx context.Context, event *models.AlertRequestedEvent) error {
		t.Fatal("handler should not fire for AlertSent")
		return nil
	})

	value, err := json.Marshal(models.AlertSentEvent{
		BaseEvent: models.BaseEvent{EventID: "evt-2", EventType: models.EventTypeAlertSent},
		RunID:     "run-1",
	})
	require.NoError(t, err)

	assert.NoError(t, handler.HandleMessage(context.Background(), kafka.Message{Value: value}))
}

func TestHandleMessageInvalidJSON(t *testing.T) {
	handler := NewEventHandler()
	err := handler.HandleMessage(context.Background(), kafka.Message{Value: []byte("not json")})
	assert.Error(t, err)
}
