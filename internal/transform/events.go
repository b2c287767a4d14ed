package transform

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jeferson-peter/forecast-etl/internal/domain"
	"github.com/jeferson-peter/forecast-etl/pkg/activity"
	"github.com/jeferson-peter/forecast-etl/pkg/events"
)

// forecastTransformedEvent records a payload successfully mapped to a row.
type forecastTransformedEvent struct {
	City       string    `json:"city"`
	Weather    string    `json:"weather"`
	ObservedAt time.Time `json:"observed_at"`
}

// hourlyTransformedEvent records an hourly payload exploded into rows.
type hourlyTransformedEvent struct {
	Rows int `json:"rows"`
}

// EventEmitter handles event emission for the transform tasks.
type EventEmitter struct {
	base activity.BaseActivities
}

// NewEventEmitter creates an EventEmitter with the provided base activities.
func NewEventEmitter(base activity.BaseActivities) *EventEmitter {
	return &EventEmitter{base: base}
}

// EmitForecastTransformed emits an event for a completed weather transform.
func (e *EventEmitter) EmitForecastTransformed(
	ctx context.Context,
	forecast domain.CityForecast,
	rc activity.RunContext,
) {
	event := forecastTransformedEvent{
		City:       forecast.CityName,
		Weather:    forecast.Weather,
		ObservedAt: forecast.CreatedAt,
	}
	e.emit(ctx, "transform.forecast_transformed",
		domain.IdempotencyKey(rc.WorkflowID, rc.RunID, "forecast_transformed", forecast.CityName),
		event, rc, "ForecastTransformed["+forecast.CityName+"]")
}

// EmitHourlyTransformed emits an event for a completed hourly transform.
func (e *EventEmitter) EmitHourlyTransformed(ctx context.Context, rows int, rc activity.RunContext) {
	e.emit(ctx, "transform.hourly_transformed",
		domain.IdempotencyKey(rc.WorkflowID, rc.RunID, "hourly_transformed"),
		hourlyTransformedEvent{Rows: rows}, rc,
		"HourlyTransformed["+strconv.Itoa(rows)+"]")
}

func (e *EventEmitter) emit(
	ctx context.Context,
	eventType, idemKey string,
	payload any,
	rc activity.RunContext,
	description string,
) {
	body, err := json.Marshal(payload)
	if err != nil {
		activity.SafeLogError(ctx, "Failed to marshal transform event",
			"event_type", eventType,
			"error", err)
		return
	}

	e.base.EmitEventSafe(ctx, events.Envelope{
		ID:             uuid.New().String(),
		Type:           eventType,
		Source:         "transform-activity",
		Version:        "1.0.0",
		Timestamp:      time.Now(),
		IdempotencyKey: idemKey,
		WorkflowID:     rc.WorkflowID,
		RunID:          rc.RunID,
		Payload:        body,
	}, description)
}
