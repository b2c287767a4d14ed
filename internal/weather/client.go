package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jeferson-peter/forecast-etl/internal/domain"
)

// Provider identifiers used in error reporting and logging.
const (
	ProviderOpenWeatherMap = "openweathermap"
	ProviderOpenMeteo      = "open-meteo"
)

// maxErrorBodyBytes caps how much of an error response body is kept for diagnostics.
const maxErrorBodyBytes = 512

// Client fetches raw weather payloads from the third-party APIs.
// Implementations must be safe for concurrent use by activity workers.
type Client interface {
	// CurrentWeather fetches the OpenWeatherMap current-weather observation
	// for the named city.
	CurrentWeather(ctx context.Context, city string) (*domain.OpenWeatherResponse, error)

	// HourlyForecast fetches the Open-Meteo hourly forecast for the
	// coordinate pair over the given horizon in days.
	HourlyForecast(ctx context.Context, latitude, longitude float64, days int) (*domain.OpenMeteoForecast, error)
}

// Config holds the client's endpoints, credentials, and retry behavior.
type Config struct {
	// OpenWeatherEndpoint is the OpenWeatherMap API base, e.g.
	// "http://api.openweathermap.org/data/2.5".
	OpenWeatherEndpoint string

	// OpenMeteoEndpoint is the Open-Meteo API base, e.g.
	// "https://api.open-meteo.com/v1".
	OpenMeteoEndpoint string

	// APIKey authenticates OpenWeatherMap requests. Open-Meteo accepts it
	// optionally for commercial plans.
	APIKey string

	// Timeout bounds each individual HTTP attempt.
	Timeout time.Duration

	// Retry controls in-client retries for transient failures. The
	// orchestrator retries the whole task on top of this.
	Retry RetryConfig
}

// client is the HTTP implementation of Client.
type client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a weather client from cfg, applying defaults for
// unset timeout and retry settings.
func NewClient(cfg Config) (Client, error) {
	if cfg.OpenWeatherEndpoint == "" && cfg.OpenMeteoEndpoint == "" {
		return nil, errors.New("no weather API endpoint configured")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.Retry = cfg.Retry.withDefaults()

	return &client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// getJSON performs a GET with in-client retries and decodes the 200 body
// into out. Non-retryable errors and context cancellation end the attempt
// loop immediately.
func (c *client) getJSON(ctx context.Context, provider, url string, out any) error {
	var lastErr error
	for attempt := 1; attempt <= c.cfg.Retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := c.cfg.Retry.backoffFor(attempt)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := c.doOnce(ctx, provider, url, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !IsRetryable(err) {
			return err
		}
	}
	return lastErr
}

// doOnce performs a single GET attempt.
func (c *client) doOnce(ctx context.Context, provider, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &Error{Type: ErrorValidation, Provider: provider, Message: "build request", Cause: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Type: ErrorTransport, Provider: provider, Message: "request failed", Cause: err, Retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return classifyStatus(provider, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Type: ErrorDecoding, Provider: provider, Message: "decode response", Cause: err}
	}
	return nil
}

// CurrentWeather implements Client.
func (c *client) CurrentWeather(ctx context.Context, city string) (*domain.OpenWeatherResponse, error) {
	if city == "" {
		return nil, &Error{Type: ErrorValidation, Provider: ProviderOpenWeatherMap, Message: "missing city", Cause: ErrMissingCity}
	}
	if c.cfg.APIKey == "" {
		return nil, &Error{Type: ErrorValidation, Provider: ProviderOpenWeatherMap, Message: "missing API key", Cause: ErrMissingAPIKey}
	}

	u := fmt.Sprintf("%s/weather?q=%s&appid=%s",
		c.cfg.OpenWeatherEndpoint, url.QueryEscape(city), c.cfg.APIKey)

	var out domain.OpenWeatherResponse
	if err := c.getJSON(ctx, ProviderOpenWeatherMap, u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HourlyForecast implements Client.
func (c *client) HourlyForecast(ctx context.Context, latitude, longitude float64, days int) (*domain.OpenMeteoForecast, error) {
	if days <= 0 {
		days = 3
	}

	u := fmt.Sprintf("%s/forecast?latitude=%.4f&longitude=%.4f&hourly=temperature_2m,weather_code&timezone=auto&forecast_days=%d",
		c.cfg.OpenMeteoEndpoint, latitude, longitude, days)
	if c.cfg.APIKey != "" {
		u = fmt.Sprintf("%s&apikey=%s", u, c.cfg.APIKey)
	}

	var out domain.OpenMeteoForecast
	if err := c.getJSON(ctx, ProviderOpenMeteo, u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
