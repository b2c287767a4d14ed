// Package extraction implements the extract tasks of the pipelines: fetching
// raw weather payloads from the third-party APIs through the weather client.
package extraction

import (
	"context"
	"time"

	"go.temporal.io/sdk/temporal"

	"github.com/jeferson-peter/forecast-etl/internal/domain"
	"github.com/jeferson-peter/forecast-etl/internal/weather"
	"github.com/jeferson-peter/forecast-etl/pkg/activity"
)

// Registered activity names, referenced by the workflow definitions.
const (
	ActivityExtractWeather        = "ExtractWeather"
	ActivityExtractHourlyForecast = "ExtractHourlyForecast"
)

// Defaults supplies the externally managed variables used when a request
// does not name a city or coordinates explicitly.
type Defaults struct {
	City         string
	Latitude     float64
	Longitude    float64
	ForecastDays int
}

// Activities handles extraction-specific Temporal activities.
type Activities struct {
	activity.BaseActivities
	client   weather.Client
	defaults Defaults
	events   *EventEmitter
}

// NewActivities creates extraction activities around the weather client.
func NewActivities(base activity.BaseActivities, client weather.Client, defaults Defaults) *Activities {
	return &Activities{
		BaseActivities: base,
		client:         client,
		defaults:       defaults,
		events:         NewEventEmitter(base),
	}
}

// ExtractWeather fetches the current-weather observation for the requested
// city (or the configured default). Transport and server-side failures are
// retryable; missing configuration and bad-city responses are not.
func (a *Activities) ExtractWeather(
	ctx context.Context,
	input domain.ExtractWeatherInput,
) (out *domain.ExtractWeatherOutput, err error) {
	start := time.Now()
	defer func() { a.ObserveTask(domain.PipelineForecast, "extract", start, err) }()

	if input.City == "" {
		input.City = a.defaults.City
	}
	if err = input.Validate(); err != nil {
		err = nonRetryable(ActivityExtractWeather, err, "invalid input")
		return nil, err
	}

	rc := a.GetRunContext(ctx)
	activity.SafeLog(ctx, "Starting ExtractWeather activity",
		"workflow_id", rc.WorkflowID,
		"city", input.City,
		"attempt", rc.Attempt)

	payload, ferr := a.client.CurrentWeather(ctx, input.City)
	if ferr != nil {
		if weather.IsRetryable(ferr) {
			err = retryable(ActivityExtractWeather, ferr, "weather fetch failed")
		} else {
			err = nonRetryable(ActivityExtractWeather, ferr, "weather fetch failed")
		}
		return nil, err
	}

	out = &domain.ExtractWeatherOutput{
		Payload:   *payload,
		FetchedAt: time.Now().UTC(),
	}
	a.events.EmitWeatherFetched(ctx, out, input.City, rc)

	activity.SafeLog(ctx, "ExtractWeather completed",
		"city", payload.Name,
		"observed_at", payload.Dt)
	return out, nil
}

// ExtractHourlyForecast fetches the hourly forecast for the requested
// coordinates (or the configured default location).
func (a *Activities) ExtractHourlyForecast(
	ctx context.Context,
	input domain.ExtractHourlyInput,
) (out *domain.ExtractHourlyOutput, err error) {
	start := time.Now()
	defer func() { a.ObserveTask(domain.PipelineHourly, "extract", start, err) }()

	if input.Latitude == 0 && input.Longitude == 0 {
		input.Latitude = a.defaults.Latitude
		input.Longitude = a.defaults.Longitude
	}
	if input.ForecastDays == 0 {
		input.ForecastDays = a.defaults.ForecastDays
	}
	if err = input.Validate(); err != nil {
		err = nonRetryable(ActivityExtractHourlyForecast, err, "invalid input")
		return nil, err
	}

	rc := a.GetRunContext(ctx)
	activity.SafeLog(ctx, "Starting ExtractHourlyForecast activity",
		"workflow_id", rc.WorkflowID,
		"latitude", input.Latitude,
		"longitude", input.Longitude,
		"forecast_days", input.ForecastDays)

	payload, ferr := a.client.HourlyForecast(ctx, input.Latitude, input.Longitude, input.ForecastDays)
	if ferr != nil {
		if weather.IsRetryable(ferr) {
			err = retryable(ActivityExtractHourlyForecast, ferr, "forecast fetch failed")
		} else {
			err = nonRetryable(ActivityExtractHourlyForecast, ferr, "forecast fetch failed")
		}
		return nil, err
	}

	out = &domain.ExtractHourlyOutput{
		Payload:   *payload,
		FetchedAt: time.Now().UTC(),
	}
	a.events.EmitHourlyFetched(ctx, out, rc)

	activity.SafeLog(ctx, "ExtractHourlyForecast completed",
		"readings", payload.Len())
	return out, nil
}

// Error helpers - wrap errors as Temporal application errors

func nonRetryable(tag string, cause error, msg string) error {
	return temporal.NewNonRetryableApplicationError(msg, tag, cause)
}

func retryable(tag string, cause error, msg string) error {
	return temporal.NewApplicationErrorWithCause(msg, tag, cause)
}
