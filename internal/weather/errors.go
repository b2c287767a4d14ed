// Package weather provides the HTTP client for the third-party weather APIs.
// It defines structured error types for robust handling across fetch attempts,
// with built-in retry classification used by the extraction activities.
package weather

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard errors returned by the weather client.
var (
	// ErrMissingAPIKey indicates the OpenWeatherMap key variable is not set.
	ErrMissingAPIKey = errors.New("weather API key not configured")

	// ErrMissingCity indicates no city was supplied or configured.
	ErrMissingCity = errors.New("city not configured")
)

// ErrorType classifies fetch errors to guide retry decisions.
type ErrorType string

const (
	// ErrorValidation signals malformed input or missing configuration.
	// Non-retryable; requires caller correction.
	ErrorValidation ErrorType = "validation"

	// ErrorProvider indicates an API-side failure (5xx responses).
	// Retryable with backoff.
	ErrorProvider ErrorType = "provider"

	// ErrorRateLimit indicates the API rejected the request with 429.
	// Retryable with backoff.
	ErrorRateLimit ErrorType = "rate_limit"

	// ErrorTransport indicates a network-level failure reaching the API.
	// Retryable with backoff.
	ErrorTransport ErrorType = "transport"

	// ErrorDecoding indicates an unparseable API response body.
	// Non-retryable; the payload will not change on retry.
	ErrorDecoding ErrorType = "decoding"
)

// Error provides structured error information for weather fetch failures.
// It supports error wrapping, retry classification, and diagnostics.
type Error struct {
	// Type classifies the error for routing and retry decisions.
	Type ErrorType
	// Provider names the API the failure came from ("openweathermap", "open-meteo").
	Provider string
	// StatusCode holds the HTTP status for response errors, 0 otherwise.
	StatusCode int
	// Message provides human-readable context.
	Message string
	// Cause wraps the underlying error.
	Cause error
	// Retryable indicates whether the fetch might succeed if retried.
	Retryable bool
}

// Error formats the error as "<provider> <type> error: <message>[: <cause>]".
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s error: %s: %v", e.Provider, e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s %s error: %s", e.Provider, e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As traversal.
func (e *Error) Unwrap() error { return e.Cause }

// IsRetryable reports whether err is a weather Error marked retryable.
// Unknown error values are treated as non-retryable.
func IsRetryable(err error) bool {
	var werr *Error
	if errors.As(err, &werr) {
		return werr.Retryable
	}
	return false
}

// classifyStatus maps a non-2xx HTTP response to a structured error.
// Server-side failures and rate limits are retryable; everything else
// (bad city, bad key) is permanent.
func classifyStatus(provider string, status int, body string) *Error {
	switch {
	case status == http.StatusTooManyRequests:
		return &Error{
			Type:       ErrorRateLimit,
			Provider:   provider,
			StatusCode: status,
			Message:    "rate limited",
			Retryable:  true,
		}
	case status >= 500:
		return &Error{
			Type:       ErrorProvider,
			Provider:   provider,
			StatusCode: status,
			Message:    fmt.Sprintf("status %d: %s", status, body),
			Retryable:  true,
		}
	default:
		return &Error{
			Type:       ErrorValidation,
			Provider:   provider,
			StatusCode: status,
			Message:    fmt.Sprintf("status %d: %s", status, body),
			Retryable:  false,
		}
	}
}
