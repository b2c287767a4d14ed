// Package domain provides the core types for the forecast ETL pipelines:
// the rows persisted to the relational sink, the raw weather API payloads,
// and the typed inputs/outputs exchanged between pipeline tasks. Types are
// designed for deterministic serialization across workflow boundaries.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Common errors returned by domain operations.
var (
	// ErrNoData indicates a transform or SQL generation step received an
	// empty upstream payload. Always non-retryable.
	ErrNoData = errors.New("no data to transform")

	// ErrInvalidRequest indicates a pipeline request contains invalid data.
	ErrInvalidRequest = errors.New("invalid pipeline request")
)

// validate is the package-level validator instance used for struct validation.
var validate = validator.New(validator.WithRequiredStructEnabled())

// CityForecast is the row shape persisted to the weather_data sink table.
// One row is created per pipeline run; rows are never updated or deleted
// by this code path. Column widths mirror the sink DDL.
type CityForecast struct {
	// CityName is the resolved city name reported by the weather API.
	CityName string `json:"city_name" gorm:"column:city_name" validate:"required,max=100"`

	// WindSpeed is the observed wind speed in m/s.
	WindSpeed float64 `json:"wind_speed" gorm:"column:wind_speed" validate:"min=0"`

	// Weather is the leading condition description, e.g. "scattered clouds".
	Weather string `json:"weather" gorm:"column:weather" validate:"max=50"`

	// Sunrise and Sunset are local observation-day boundaries reported by
	// the API, converted from Unix epoch seconds.
	Sunrise time.Time `json:"sunrise" gorm:"column:sunrise"`
	Sunset  time.Time `json:"sunset" gorm:"column:sunset"`

	// Humidity is relative humidity in percent.
	Humidity int `json:"humidity" gorm:"column:humidity" validate:"min=0,max=100"`

	// Temp is the temperature exactly as reported by the API.
	Temp float64 `json:"temp" gorm:"column:temp"`

	// CreatedAt is the observation timestamp (the API's dt field).
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

// TableName specifies the sink table for CityForecast.
func (CityForecast) TableName() string { return "weather_data" }

// Validate checks the transformed record conforms to the sink table's columns.
// Returns nil if valid, or a validation error for the first violated constraint.
func (f *CityForecast) Validate() error { return validate.Struct(f) }

// HourlyForecast is the row shape persisted to the hourly_forecast sink table.
// The (time, latitude, longitude) triple is the primary key; re-collecting the
// same hour refreshes the reading instead of duplicating it.
type HourlyForecast struct {
	Time          time.Time `json:"time" gorm:"column:time;primaryKey"`
	WeatherCode   int       `json:"weather_code" gorm:"column:weather_code"`
	Temperature2M float64   `json:"temperature_2m" gorm:"column:temperature_2m"`
	Latitude      float64   `json:"latitude" gorm:"column:latitude;primaryKey" validate:"min=-90,max=90"`
	Longitude     float64   `json:"longitude" gorm:"column:longitude;primaryKey" validate:"min=-180,max=180"`
	CollectedAt   time.Time `json:"collected_at" gorm:"column:collected_at"`
}

// TableName specifies the sink table for HourlyForecast.
func (HourlyForecast) TableName() string { return "hourly_forecast" }

// Validate checks the hourly row conforms to the sink table's columns.
func (h *HourlyForecast) Validate() error { return validate.Struct(h) }

// IdempotencyKey builds a deterministic key from the given parts, used to
// deduplicate events re-emitted when an activity is retried.
func IdempotencyKey(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(hash[:])[:24]
}
