// Package loading implements the sink-facing tasks of the pipelines: table
// creation, SQL generation, and row insertion.
package loading

import (
	"time"

	"github.com/jeferson-peter/forecast-etl/internal/domain"
)

// createForecastTableSQL creates the weather_data sink table when absent.
const createForecastTableSQL = `
CREATE TABLE IF NOT EXISTS weather_data (
    id SERIAL PRIMARY KEY,
    city_name VARCHAR(100),
    wind_speed FLOAT,
    weather VARCHAR(50),
    sunrise TIMESTAMP,
    sunset TIMESTAMP,
    humidity INT,
    temp FLOAT,
    created_at TIMESTAMP
);`

// createHourlyTableSQL creates the hourly_forecast sink table when absent.
const createHourlyTableSQL = `
CREATE TABLE IF NOT EXISTS hourly_forecast (
    time TIMESTAMP NOT NULL,
    weather_code INT,
    temperature_2m FLOAT,
    latitude FLOAT NOT NULL,
    longitude FLOAT NOT NULL,
    collected_at TIMESTAMP,
    PRIMARY KEY (time, latitude, longitude)
);`

// insertForecastSQL is the statement template produced by GenerateInsertSQL.
const insertForecastSQL = `INSERT INTO weather_data (city_name, wind_speed, weather, sunrise, sunset, humidity, temp, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`

// timestampLayout is how timestamp arguments are rendered for the sink.
const timestampLayout = "2006-01-02 15:04:05"

// generateForecastInsert builds the insert statement for a transformed row.
// Values travel as bound arguments, never interpolated into the SQL text.
func generateForecastInsert(f domain.CityForecast) domain.InsertStatement {
	return domain.InsertStatement{
		SQL: insertForecastSQL,
		Args: []any{
			f.CityName,
			f.WindSpeed,
			f.Weather,
			timestampArg(f.Sunrise),
			timestampArg(f.Sunset),
			f.Humidity,
			f.Temp,
			timestampArg(f.CreatedAt),
		},
	}
}

// timestampArg renders a timestamp argument, mapping the zero time to NULL.
// Arguments cross the workflow boundary as JSON, so timestamps are passed
// in their rendered string form rather than as time.Time values.
func timestampArg(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timestampLayout)
}
