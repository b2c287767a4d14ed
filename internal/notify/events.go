package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jeferson-peter/forecast-etl/internal/domain"
	"github.com/jeferson-peter/forecast-etl/pkg/activity"
	"github.com/jeferson-peter/forecast-etl/pkg/events"
)

// notificationSentEvent records a delivered run notification.
type notificationSentEvent struct {
	Pipeline string `json:"pipeline"`
	Status   string `json:"status"`
}

// EventEmitter handles event emission for the notification tasks.
type EventEmitter struct {
	base activity.BaseActivities
}

// NewEventEmitter creates an EventEmitter with the provided base activities.
func NewEventEmitter(base activity.BaseActivities) *EventEmitter {
	return &EventEmitter{base: base}
}

// EmitNotificationSent emits an event for a delivered notification.
func (e *EventEmitter) EmitNotificationSent(ctx context.Context, pipeline, status string, rc activity.RunContext) {
	body, err := json.Marshal(notificationSentEvent{Pipeline: pipeline, Status: status})
	if err != nil {
		activity.SafeLogError(ctx, "Failed to marshal notification event",
			"event_type", "notify.notification_sent",
			"error", err)
		return
	}

	e.base.EmitEventSafe(ctx, events.Envelope{
		ID:             uuid.New().String(),
		Type:           "notify.notification_sent",
		Source:         "notify-activity",
		Version:        "1.0.0",
		Timestamp:      time.Now(),
		IdempotencyKey: domain.IdempotencyKey(rc.WorkflowID, rc.RunID, "notification_sent", status),
		WorkflowID:     rc.WorkflowID,
		RunID:          rc.RunID,
		Payload:        body,
	}, "NotificationSent["+pipeline+"]")
}
