// Package config loads application configuration for the pipeline worker and
// trigger binaries. Sources are merged in order: built-in defaults, an optional
// YAML file (with ${VAR} expansion), then well-known environment variables.
// A .env file in the working directory is honored via godotenv.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config aggregates all settings consumed by the binaries.
type Config struct {
	Weather  WeatherConfig  `yaml:"weather"`
	Database DatabaseConfig `yaml:"database"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Temporal TemporalConfig `yaml:"temporal"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// WeatherConfig holds the externally managed variables for the weather APIs:
// the OpenWeatherMap key and city for the forecast pipeline, and the default
// coordinates and horizon for the hourly pipeline.
type WeatherConfig struct {
	OpenWeatherEndpoint string  `yaml:"openWeatherEndpoint" validate:"required,url"`
	OpenMeteoEndpoint   string  `yaml:"openMeteoEndpoint" validate:"required,url"`
	APIKey              string  `yaml:"apiKey"`
	City                string  `yaml:"city"`
	Latitude            float64 `yaml:"latitude" validate:"min=-90,max=90"`
	Longitude           float64 `yaml:"longitude" validate:"min=-180,max=180"`
	ForecastDays        int     `yaml:"forecastDays" validate:"min=1,max=16"`
	TimeoutSeconds      int     `yaml:"timeoutSeconds" validate:"min=1"`
}

// DatabaseConfig identifies the relational sink. URL takes precedence when
// set; otherwise the DSN is assembled from the individual fields.
type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port" validate:"min=1,max=65535"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslMode"`
}

// DSN returns the Postgres connection string for the sink.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// SMTPConfig holds the notification transport settings. Notifications are
// disabled when Host is empty.
type SMTPConfig struct {
	Host       string   `yaml:"host"`
	Port       int      `yaml:"port" validate:"min=0,max=65535"`
	Username   string   `yaml:"username"`
	Password   string   `yaml:"password"`
	From       string   `yaml:"from"`
	Recipients []string `yaml:"recipients"`
}

// Addr returns the host:port address of the SMTP server.
func (s SMTPConfig) Addr() string { return fmt.Sprintf("%s:%d", s.Host, s.Port) }

// Enabled reports whether a notification transport is configured.
func (s SMTPConfig) Enabled() bool { return s.Host != "" && len(s.Recipients) > 0 }

// TemporalConfig locates the orchestration framework's frontend.
type TemporalConfig struct {
	HostPort  string `yaml:"hostPort" validate:"required"`
	Namespace string `yaml:"namespace" validate:"required"`
	TaskQueue string `yaml:"taskQueue" validate:"required"`
}

// MetricsConfig controls the worker's Prometheus endpoint.
type MetricsConfig struct {
	ListenAddr string `yaml:"listenAddr"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the built-in configuration, suitable for local development
// against the docker-compose stack.
func Default() *Config {
	return &Config{
		Weather: WeatherConfig{
			OpenWeatherEndpoint: "http://api.openweathermap.org/data/2.5",
			OpenMeteoEndpoint:   "https://api.open-meteo.com/v1",
			Latitude:            35.6586,
			Longitude:           139.7454,
			ForecastDays:        3,
			TimeoutSeconds:      10,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			Name:    "forecast",
			SSLMode: "disable",
		},
		SMTP: SMTPConfig{
			Port: 587,
		},
		Temporal: TemporalConfig{
			HostPort:  "127.0.0.1:7233",
			Namespace: "default",
			TaskQueue: "forecast-etl",
		},
		Metrics: MetricsConfig{
			ListenAddr: ":9464",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, and environment variables. Call once during startup.
func Load(path string) (*Config, error) {
	// A missing .env file is fine; variables may come from the real environment.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		// ${VAR} placeholders in the file resolve against the environment.
		expanded := os.ExpandEnv(string(raw))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := bindEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the merged configuration against its constraints.
func (c *Config) Validate() error { return validate.Struct(c) }

// envOverrides maps well-known variable names onto config fields. The names
// match the variables the deployment already manages (API key, city, email
// recipients, connection strings).
var envOverrides = map[string][]string{
	"OPEN_WEATHER_API":         {"weather", "apiKey"},
	"OPEN_WEATHER_CITY":        {"weather", "city"},
	"OPEN_WEATHER_ENDPOINT":    {"weather", "openWeatherEndpoint"},
	"OPEN_METEO_ENDPOINT":      {"weather", "openMeteoEndpoint"},
	"FORECAST_LATITUDE":        {"weather", "latitude"},
	"FORECAST_LONGITUDE":       {"weather", "longitude"},
	"FORECAST_DAYS":            {"weather", "forecastDays"},
	"DATABASE_URL":             {"database", "url"},
	"DATABASE_HOST":            {"database", "host"},
	"DATABASE_PORT":            {"database", "port"},
	"DATABASE_USER":            {"database", "user"},
	"DATABASE_PASSWORD":        {"database", "password"},
	"DATABASE_NAME":            {"database", "name"},
	"SMTP_HOST":                {"smtp", "host"},
	"SMTP_PORT":                {"smtp", "port"},
	"SMTP_USERNAME":            {"smtp", "username"},
	"SMTP_PASSWORD":            {"smtp", "password"},
	"SMTP_FROM":                {"smtp", "from"},
	"DEFAULT_EMAIL_RECIPIENTS": {"smtp", "recipients"},
	"TEMPORAL_HOSTPORT":        {"temporal", "hostPort"},
	"TEMPORAL_NAMESPACE":       {"temporal", "namespace"},
	"TEMPORAL_TASK_QUEUE":      {"temporal", "taskQueue"},
	"METRICS_LISTEN_ADDR":      {"metrics", "listenAddr"},
}

// bindEnvOverrides folds set environment variables into cfg. Values are
// decoded weakly typed, so numeric fields accept their string form.
func bindEnvOverrides(cfg *Config) error {
	overrides := map[string]any{}
	for name, fieldPath := range envOverrides {
		value, ok := os.LookupEnv(name)
		if !ok || value == "" {
			continue
		}
		section, ok := overrides[fieldPath[0]].(map[string]any)
		if !ok {
			section = map[string]any{}
			overrides[fieldPath[0]] = section
		}
		if fieldPath[1] == "recipients" {
			section[fieldPath[1]] = splitRecipients(value)
			continue
		}
		section[fieldPath[1]] = value
	}
	if len(overrides) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		TagName:          "yaml",
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	return decoder.Decode(overrides)
}

// splitRecipients parses a comma-separated recipient list, dropping blanks.
func splitRecipients(value string) []string {
	parts := strings.Split(value, ",")
	recipients := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			recipients = append(recipients, p)
		}
	}
	return recipients
}
