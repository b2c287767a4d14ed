package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOpenWeatherResponseHelpers(t *testing.T) {
	empty := OpenWeatherResponse{}
	assert.True(t, empty.IsZero())
	assert.Empty(t, empty.Description())

	full := OpenWeatherResponse{
		Name:    "London",
		Weather: []WeatherCondition{{Description: "light rain"}, {Description: "mist"}},
		Dt:      1717243200,
	}
	assert.False(t, full.IsZero())
	assert.Equal(t, "light rain", full.Description())
}

func TestTransformWeatherInputValidate(t *testing.T) {
	in := TransformWeatherInput{}
	assert.ErrorIs(t, in.Validate(), ErrNoData)

	in.Payload = OpenWeatherResponse{Name: "London", Dt: 1717243200}
	assert.NoError(t, in.Validate())
}

func TestTransformHourlyInputValidate(t *testing.T) {
	in := TransformHourlyInput{}
	assert.ErrorIs(t, in.Validate(), ErrNoData)

	in.Payload = OpenMeteoForecast{
		Hourly: OpenMeteoHourly{Time: []string{"2024-06-01T09:00"}},
	}
	assert.NoError(t, in.Validate())
}

func TestGenerateInsertSQLInputValidate(t *testing.T) {
	in := GenerateInsertSQLInput{}
	assert.ErrorIs(t, in.Validate(), ErrNoData)

	in.Forecast = validCityForecast()
	assert.NoError(t, in.Validate())

	in.Forecast.Humidity = 200
	assert.Error(t, in.Validate())
}

func TestExtractHourlyInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   ExtractHourlyInput
		wantErr bool
	}{
		{name: "valid", input: ExtractHourlyInput{Latitude: 35.6586, Longitude: 139.7454, ForecastDays: 3}},
		{name: "zero_days", input: ExtractHourlyInput{Latitude: 1, Longitude: 1}, wantErr: true},
		{name: "days_above_horizon", input: ExtractHourlyInput{ForecastDays: 17}, wantErr: true},
		{name: "latitude_out_of_range", input: ExtractHourlyInput{Latitude: -90.5, ForecastDays: 1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNotificationInputDuration(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	in := NotificationInput{StartedAt: start, CompletedAt: start.Add(90 * time.Second)}
	assert.Equal(t, 90*time.Second, in.Duration())

	in.CompletedAt = time.Time{}
	assert.Zero(t, in.Duration())
}
