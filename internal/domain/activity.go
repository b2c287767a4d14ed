package domain

import (
	"time"
)

// Pipeline names used in workflow IDs, events, metrics, and notifications.
const (
	// PipelineForecast is the daily current-weather pipeline.
	PipelineForecast = "forecast_etl"

	// PipelineHourly is the hourly forecast collection pipeline.
	PipelineHourly = "hourly_forecast_etl"
)

// ForecastRequest starts a run of the forecast pipeline.
// City overrides the configured default when set.
type ForecastRequest struct {
	City string `json:"city" validate:"omitempty,min=1,max=100"`
}

// Validate checks the request against its constraints.
func (r *ForecastRequest) Validate() error { return validate.Struct(r) }

// HourlyForecastRequest starts a run of the hourly forecast pipeline.
// Zero coordinates fall back to the configured default location.
type HourlyForecastRequest struct {
	Latitude     float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude    float64 `json:"longitude" validate:"min=-180,max=180"`
	ForecastDays int     `json:"forecast_days" validate:"min=0,max=16"`
}

// Validate checks the request against its constraints.
func (r *HourlyForecastRequest) Validate() error { return validate.Struct(r) }

// PipelineResult summarizes a completed pipeline run.
type PipelineResult struct {
	Pipeline     string    `json:"pipeline"`
	City         string    `json:"city,omitempty"`
	RowsInserted int64     `json:"rows_inserted"`
	CompletedAt  time.Time `json:"completed_at"`
}

// ExtractWeatherInput names the city to fetch current weather for.
type ExtractWeatherInput struct {
	City string `json:"city" validate:"required,min=1,max=100"`
}

// Validate checks the input against its constraints.
func (i *ExtractWeatherInput) Validate() error { return validate.Struct(i) }

// ExtractWeatherOutput carries the raw API payload downstream.
type ExtractWeatherOutput struct {
	Payload   OpenWeatherResponse `json:"payload"`
	FetchedAt time.Time           `json:"fetched_at"`
}

// TransformWeatherInput carries the extracted payload into the transform step.
type TransformWeatherInput struct {
	Payload OpenWeatherResponse `json:"payload"`
}

// Validate rejects empty payloads; transforming nothing is a permanent error.
func (i *TransformWeatherInput) Validate() error {
	if i.Payload.IsZero() {
		return ErrNoData
	}
	return nil
}

// TransformWeatherOutput carries the sink-shaped record downstream.
type TransformWeatherOutput struct {
	Forecast CityForecast `json:"forecast"`
}

// GenerateInsertSQLInput carries the transformed record into SQL generation.
type GenerateInsertSQLInput struct {
	Forecast CityForecast `json:"forecast"`
}

// Validate rejects records that would not conform to the sink columns.
func (i *GenerateInsertSQLInput) Validate() error {
	if i.Forecast.CityName == "" && i.Forecast.CreatedAt.IsZero() {
		return ErrNoData
	}
	return i.Forecast.Validate()
}

// InsertStatement is a generated SQL statement with its bound argument list.
// Arguments travel separately from the statement text so values are never
// interpolated into SQL.
type InsertStatement struct {
	SQL  string `json:"sql" validate:"required"`
	Args []any  `json:"args"`
}

// Validate checks the statement against its constraints.
func (s *InsertStatement) Validate() error { return validate.Struct(s) }

// GenerateInsertSQLOutput carries the generated statement to the insert step.
type GenerateInsertSQLOutput struct {
	Statement InsertStatement `json:"statement"`
}

// InsertForecastInput carries the statement to execute against the sink.
type InsertForecastInput struct {
	Statement InsertStatement `json:"statement"`
}

// Validate checks the input against its constraints.
func (i *InsertForecastInput) Validate() error { return i.Statement.Validate() }

// InsertForecastOutput reports rows written by the insert step.
type InsertForecastOutput struct {
	RowsInserted int64 `json:"rows_inserted"`
}

// ExtractHourlyInput names the coordinates and horizon for an hourly fetch.
type ExtractHourlyInput struct {
	Latitude     float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude    float64 `json:"longitude" validate:"min=-180,max=180"`
	ForecastDays int     `json:"forecast_days" validate:"min=1,max=16"`
}

// Validate checks the input against its constraints.
func (i *ExtractHourlyInput) Validate() error { return validate.Struct(i) }

// ExtractHourlyOutput carries the raw Open-Meteo payload downstream.
type ExtractHourlyOutput struct {
	Payload   OpenMeteoForecast `json:"payload"`
	FetchedAt time.Time         `json:"fetched_at"`
}

// TransformHourlyInput carries the columnar payload into the transform step.
type TransformHourlyInput struct {
	Payload OpenMeteoForecast `json:"payload"`
}

// Validate rejects payloads without hourly readings.
func (i *TransformHourlyInput) Validate() error {
	if i.Payload.Len() == 0 {
		return ErrNoData
	}
	return nil
}

// TransformHourlyOutput carries the exploded row set downstream.
type TransformHourlyOutput struct {
	Rows []HourlyForecast `json:"rows"`
}

// InsertHourlyInput carries the rows to upsert into the sink.
type InsertHourlyInput struct {
	Rows []HourlyForecast `json:"rows" validate:"min=1,dive"`
}

// Validate checks the input against its constraints.
func (i *InsertHourlyInput) Validate() error { return validate.Struct(i) }

// InsertHourlyOutput reports rows written by the insert step.
type InsertHourlyOutput struct {
	RowsInserted int64 `json:"rows_inserted"`
}

// NotificationInput describes a finished pipeline run for the email templates.
// Error is empty for success notifications.
type NotificationInput struct {
	Pipeline    string    `json:"pipeline" validate:"required"`
	WorkflowID  string    `json:"workflow_id" validate:"required"`
	RunID       string    `json:"run_id"`
	Task        string    `json:"task"`
	Error       string    `json:"error"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// Validate checks the input against its constraints.
func (n *NotificationInput) Validate() error { return validate.Struct(n) }

// Duration returns the wall-clock duration of the run described by n.
func (n *NotificationInput) Duration() time.Duration {
	if n.CompletedAt.IsZero() || n.StartedAt.IsZero() {
		return 0
	}
	return n.CompletedAt.Sub(n.StartedAt)
}
