// Package transform implements the transform tasks of the pipelines: mapping
// raw API payloads into the row shapes expected by the sink tables.
package transform

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"

	"github.com/jeferson-peter/forecast-etl/internal/domain"
	"github.com/jeferson-peter/forecast-etl/pkg/activity"
)

// Registered activity names, referenced by the workflow definitions.
const (
	ActivityTransformWeather        = "TransformWeather"
	ActivityTransformHourlyForecast = "TransformHourlyForecast"
)

// openMeteoTimeLayout is the hour format used by the Open-Meteo hourly block.
const openMeteoTimeLayout = "2006-01-02T15:04"

// Activities handles transform-specific Temporal activities.
// Transforms are pure mappings; every failure here is permanent.
type Activities struct {
	activity.BaseActivities
	events *EventEmitter
}

// NewActivities creates transform activities with the provided base infrastructure.
func NewActivities(base activity.BaseActivities) *Activities {
	return &Activities{
		BaseActivities: base,
		events:         NewEventEmitter(base),
	}
}

// TransformWeather maps a current-weather payload to the weather_data row
// shape: city name, wind speed, leading condition description, sun times and
// observation time converted from Unix epoch, humidity, and temperature.
func (a *Activities) TransformWeather(
	ctx context.Context,
	input domain.TransformWeatherInput,
) (out *domain.TransformWeatherOutput, err error) {
	start := time.Now()
	defer func() { a.ObserveTask(domain.PipelineForecast, "transform", start, err) }()

	if err = input.Validate(); err != nil {
		err = nonRetryable(ActivityTransformWeather, err, "no data to transform")
		return nil, err
	}

	rc := a.GetRunContext(ctx)
	activity.SafeLog(ctx, "Starting TransformWeather activity",
		"workflow_id", rc.WorkflowID,
		"city", input.Payload.Name)

	forecast := cityForecastFrom(input.Payload)
	if err = forecast.Validate(); err != nil {
		err = nonRetryable(ActivityTransformWeather, err, "transformed record invalid")
		return nil, err
	}

	out = &domain.TransformWeatherOutput{Forecast: forecast}
	a.events.EmitForecastTransformed(ctx, forecast, rc)

	activity.SafeLog(ctx, "TransformWeather completed", "city", forecast.CityName)
	return out, nil
}

// TransformHourlyForecast explodes the columnar hourly payload into one row
// per reading, parsing hour stamps in the payload's timezone and stamping
// every row with the collection time.
func (a *Activities) TransformHourlyForecast(
	ctx context.Context,
	input domain.TransformHourlyInput,
) (out *domain.TransformHourlyOutput, err error) {
	start := time.Now()
	defer func() { a.ObserveTask(domain.PipelineHourly, "transform", start, err) }()

	if err = input.Validate(); err != nil {
		err = nonRetryable(ActivityTransformHourlyForecast, err, "no data to transform")
		return nil, err
	}

	rc := a.GetRunContext(ctx)
	activity.SafeLog(ctx, "Starting TransformHourlyForecast activity",
		"workflow_id", rc.WorkflowID,
		"readings", input.Payload.Len())

	rows, terr := hourlyRowsFrom(input.Payload, time.Now().UTC())
	if terr != nil {
		err = nonRetryable(ActivityTransformHourlyForecast, terr, "transform failed")
		return nil, err
	}

	out = &domain.TransformHourlyOutput{Rows: rows}
	a.events.EmitHourlyTransformed(ctx, len(rows), rc)

	activity.SafeLog(ctx, "TransformHourlyForecast completed", "rows", len(rows))
	return out, nil
}

// cityForecastFrom maps the raw observation onto the sink row shape.
func cityForecastFrom(p domain.OpenWeatherResponse) domain.CityForecast {
	return domain.CityForecast{
		CityName:  p.Name,
		WindSpeed: p.Wind.Speed,
		Weather:   p.Description(),
		Sunrise:   epochTime(p.Sys.Sunrise),
		Sunset:    epochTime(p.Sys.Sunset),
		Humidity:  p.Main.Humidity,
		Temp:      p.Main.Temp,
		CreatedAt: epochTime(p.Dt),
	}
}

// hourlyRowsFrom explodes the parallel hourly arrays into rows. The arrays
// must be the same length; a mismatch means a malformed payload.
func hourlyRowsFrom(p domain.OpenMeteoForecast, collectedAt time.Time) ([]domain.HourlyForecast, error) {
	n := p.Len()
	if len(p.Hourly.WeatherCode) != n || len(p.Hourly.Temperature2M) != n {
		return nil, fmt.Errorf("hourly arrays length mismatch: time=%d weather_code=%d temperature_2m=%d",
			n, len(p.Hourly.WeatherCode), len(p.Hourly.Temperature2M))
	}

	loc := time.UTC
	if p.Timezone != "" {
		if l, err := time.LoadLocation(p.Timezone); err == nil {
			loc = l
		}
	}

	rows := make([]domain.HourlyForecast, 0, n)
	for i := 0; i < n; i++ {
		ts, err := time.ParseInLocation(openMeteoTimeLayout, p.Hourly.Time[i], loc)
		if err != nil {
			return nil, fmt.Errorf("parse hourly time %q: %w", p.Hourly.Time[i], err)
		}
		rows = append(rows, domain.HourlyForecast{
			Time:          ts.UTC(),
			WeatherCode:   p.Hourly.WeatherCode[i],
			Temperature2M: p.Hourly.Temperature2M[i],
			Latitude:      p.Latitude,
			Longitude:     p.Longitude,
			CollectedAt:   collectedAt,
		})
	}
	return rows, nil
}

// epochTime converts Unix epoch seconds to UTC, mapping 0 (field absent in
// the payload) to the zero time so the sink column stays NULL.
func epochTime(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.Unix(v, 0).UTC()
}

func nonRetryable(tag string, cause error, msg string) error {
	return temporal.NewNonRetryableApplicationError(msg, tag, cause)
}
