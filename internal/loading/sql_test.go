package loading

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeferson-peter/forecast-etl/internal/domain"
)

func TestGenerateForecastInsert(t *testing.T) {
	f := domain.CityForecast{
		CityName:  "London",
		WindSpeed: 4.6,
		Weather:   "light rain",
		Sunrise:   time.Date(2024, 6, 1, 3, 43, 0, 0, time.UTC),
		Sunset:    time.Date(2024, 6, 1, 19, 8, 0, 0, time.UTC),
		Humidity:  72,
		Temp:      289.15,
		CreatedAt: time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC),
	}

	stmt := generateForecastInsert(f)

	assert.Contains(t, stmt.SQL, "INSERT INTO weather_data")
	assert.Contains(t, stmt.SQL, "(city_name, wind_speed, weather, sunrise, sunset, humidity, temp, created_at)")
	for _, placeholder := range []string{"$1", "$2", "$3", "$4", "$5", "$6", "$7", "$8"} {
		assert.Contains(t, stmt.SQL, placeholder)
	}

	require.Len(t, stmt.Args, 8)
	assert.Equal(t, "London", stmt.Args[0])
	assert.Equal(t, 4.6, stmt.Args[1])
	assert.Equal(t, "light rain", stmt.Args[2])
	assert.Equal(t, "2024-06-01 03:43:00", stmt.Args[3])
	assert.Equal(t, "2024-06-01 19:08:00", stmt.Args[4])
	assert.Equal(t, 72, stmt.Args[5])
	assert.Equal(t, 289.15, stmt.Args[6])
	assert.Equal(t, "2024-06-01 11:00:00", stmt.Args[7])
}

func TestGenerateForecastInsertNeverInterpolatesValues(t *testing.T) {
	f := domain.CityForecast{
		CityName:  "Town'); DROP TABLE weather_data; --",
		CreatedAt: time.Now().UTC(),
	}

	stmt := generateForecastInsert(f)

	assert.NotContains(t, stmt.SQL, "DROP TABLE")
	assert.Equal(t, f.CityName, stmt.Args[0])
}

func TestTimestampArg(t *testing.T) {
	assert.Nil(t, timestampArg(time.Time{}))

	loc := time.FixedZone("UTC+9", 9*60*60)
	local := time.Date(2024, 6, 1, 9, 0, 0, 0, loc)
	assert.Equal(t, "2024-06-01 00:00:00", timestampArg(local))
}

func TestCreateTableStatementsAreIdempotent(t *testing.T) {
	for _, ddl := range []string{createForecastTableSQL, createHourlyTableSQL} {
		assert.True(t, strings.Contains(ddl, "CREATE TABLE IF NOT EXISTS"))
	}
	assert.Contains(t, createHourlyTableSQL, "PRIMARY KEY (time, latitude, longitude)")
}
