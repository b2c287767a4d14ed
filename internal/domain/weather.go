package domain

// OpenWeatherResponse is the raw current-weather payload returned by the
// OpenWeatherMap API. Only the fields consumed by the transform step are
// modeled; everything else in the response is ignored on decode.
type OpenWeatherResponse struct {
	// Name is the resolved city name.
	Name string `json:"name"`

	// Wind carries wind metrics for the observation.
	Wind Wind `json:"wind"`

	// Weather lists the active conditions; the first entry is the leading one.
	Weather []WeatherCondition `json:"weather"`

	// Sys carries sunrise/sunset as Unix epoch seconds.
	Sys SunTimes `json:"sys"`

	// Main carries the primary observation metrics.
	Main MainMetrics `json:"main"`

	// Dt is the observation timestamp as Unix epoch seconds.
	Dt int64 `json:"dt"`
}

// Wind holds the wind portion of an OpenWeatherMap observation.
type Wind struct {
	Speed float64 `json:"speed"`
}

// WeatherCondition is a single entry of the conditions list.
type WeatherCondition struct {
	Description string `json:"description"`
}

// SunTimes holds sunrise and sunset for the observation day.
type SunTimes struct {
	Sunrise int64 `json:"sunrise"`
	Sunset  int64 `json:"sunset"`
}

// MainMetrics holds the primary observation metrics.
type MainMetrics struct {
	Humidity int     `json:"humidity"`
	Temp     float64 `json:"temp"`
}

// Description returns the leading condition description, or "" when the
// conditions list is empty.
func (r *OpenWeatherResponse) Description() string {
	if len(r.Weather) == 0 {
		return ""
	}
	return r.Weather[0].Description
}

// IsZero reports whether the payload carries no observation at all,
// which upstream treats the same as a missing extract result.
func (r *OpenWeatherResponse) IsZero() bool {
	return r.Name == "" && r.Dt == 0
}

// OpenMeteoHourly is the columnar hourly block of an Open-Meteo forecast:
// parallel arrays indexed by hour.
type OpenMeteoHourly struct {
	Time          []string  `json:"time"`
	WeatherCode   []int     `json:"weather_code"`
	Temperature2M []float64 `json:"temperature_2m"`
}

// OpenMeteoForecast is the raw hourly forecast payload returned by the
// Open-Meteo API for a coordinate pair.
type OpenMeteoForecast struct {
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	Timezone  string          `json:"timezone"`
	Hourly    OpenMeteoHourly `json:"hourly"`
}

// Len returns the number of hourly readings in the payload.
func (f *OpenMeteoForecast) Len() int { return len(f.Hourly.Time) }
