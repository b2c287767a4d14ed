// Package worker provides initialization and setup utilities for the pipeline
// worker. This keeps startup wiring here so the activity packages stay focused
// on pure task logic.
package worker

import (
	"fmt"
	"time"

	"github.com/jeferson-peter/forecast-etl/internal/config"
	"github.com/jeferson-peter/forecast-etl/internal/extraction"
	"github.com/jeferson-peter/forecast-etl/internal/notify"
	"github.com/jeferson-peter/forecast-etl/internal/storage"
	"github.com/jeferson-peter/forecast-etl/internal/weather"
)

// NewWeatherClient creates the weather API client from configuration.
func NewWeatherClient(cfg *config.Config) (weather.Client, error) {
	client, err := weather.NewClient(weather.Config{
		OpenWeatherEndpoint: cfg.Weather.OpenWeatherEndpoint,
		OpenMeteoEndpoint:   cfg.Weather.OpenMeteoEndpoint,
		APIKey:              cfg.Weather.APIKey,
		Timeout:             time.Duration(cfg.Weather.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize weather client: %w", err)
	}
	return client, nil
}

// OpenStore connects to the Postgres sink.
func OpenStore(cfg *config.Config) (*storage.ForecastStore, error) {
	store, err := storage.Open(cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open forecast store: %w", err)
	}
	return store, nil
}

// NewNotifier builds the email notifier. When SMTP is not configured the
// returned notifier is disabled and notification activities become no-ops.
func NewNotifier(cfg *config.Config) *notify.Notifier {
	if !cfg.SMTP.Enabled() {
		return notify.NewNotifier(nil, nil)
	}
	sender := notify.NewSMTPSender(cfg.SMTP.Addr(), cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	return notify.NewNotifier(sender, cfg.SMTP.Recipients)
}

// ExtractionDefaults carries the configured city, coordinates, and forecast
// horizon into the extraction activities as request fallbacks.
func ExtractionDefaults(cfg *config.Config) extraction.Defaults {
	return extraction.Defaults{
		City:         cfg.Weather.City,
		Latitude:     cfg.Weather.Latitude,
		Longitude:    cfg.Weather.Longitude,
		ForecastDays: cfg.Weather.ForecastDays,
	}
}
