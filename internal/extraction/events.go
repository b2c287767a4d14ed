package extraction

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

// weatherFetchedEvent records one successful current-weather extraction.
type weatherFetchedEvent struct {
	City       string    `json:"city"`
	Provider   string    `json:"provider"`
	ObservedAt int64     `json:"observed_at"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// hourlyFetchedEvent records one successful hourly-forecast extraction.
type hourlyFetchedEvent struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Readings  int       `json:"readings"`
	FetchedAt time.Time `json:"fetched_at"`
}

// EventEmitter handles event emission for the extraction tasks.
type EventEmitter struct {
	base activity.BaseActivities
}

// NewEventEmitter creates an EventEmitter with the provided base activities.
func NewEventEmitter(base activity.BaseActivities) *EventEmitter {
	return &EventEmitter{base: base}
}

// EmitWeatherFetched emits an event for a completed current-weather fetch.
func (e *EventEmitter) EmitWeatherFetched(
	ctx context.Context,
	out *domain.ExtractWeatherOutput,
	city string,
	rc activity.RunContext,
) {
	event := weatherFetchedEvent{
		City:       city,
		Provider:   "openweathermap",
		ObservedAt: out.Payload.Dt,
		FetchedAt:  out.FetchedAt,
	}
	e.emit(ctx, "extraction.weather_fetched",
		domain.IdempotencyKey(rc.WorkflowID, rc.RunID, "weather_fetched", city),
		event, rc, "WeatherFetched["+city+"]")
}

// EmitHourlyFetched emits an event for a completed hourly-forecast fetch.
func (e *EventEmitter) EmitHourlyFetched(
	ctx context.Context,
	out *domain.ExtractHourlyOutput,
	rc activity.RunContext,
) {
	event := hourlyFetchedEvent{
		Latitude:  out.Payload.Latitude,
		Longitude: out.Payload.Longitude,
		Readings:  out.Payload.Len(),
		FetchedAt: out.FetchedAt,
	}
	e.emit(ctx, "extraction.hourly_fetched",
		domain.IdempotencyKey(rc.WorkflowID, rc.RunID, "hourly_fetched"),
		event, rc, "HourlyFetched["+strconv.Itoa(out.Payload.Len())+"]")
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
		activity.SafeLogError(ctx, "Failed to marshal extraction event",
			"event_type", eventType,
			"error", err)
		return
	}

	e.base.EmitEventSafe(ctx, events.Envelope{
		ID:             uuid.New().String(),
		Type:           eventType,
		Source:         "extraction-activity",
		Version:        "1.0.0",
		Timestamp:      time.Now(),
		IdempotencyKey: idemKey,
		WorkflowID:     rc.WorkflowID,
		RunID:          rc.RunID,
		Payload:        body,
	}, description)
}
