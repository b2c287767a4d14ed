// Package events provides the generic event infrastructure for pipeline event emission.
// It defines the Envelope type that wraps pipeline events with consistent metadata
// and the EventSink interface for event storage/transmission.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Envelope wraps pipeline events with consistent metadata for reliable processing.
// It is a generic container for any task-specific payload while keeping standard
// fields for routing, deduplication, and run correlation.
type Envelope struct {
	// ID uniquely identifies this event instance.
	// Generated as a UUID for each emission.
	ID string `json:"id"`

	// Type identifies the event for routing and processing.
	// Examples: "extraction.weather_fetched", "loading.rows_inserted"
	Type string `json:"type"`

	// Source identifies the component that emitted this event.
	// Examples: "extraction-activity", "loading-activity"
	Source string `json:"source"`

	// Version enables schema evolution. Starts at "1.0.0".
	Version string `json:"version"`

	// Timestamp records when the event was emitted.
	Timestamp time.Time `json:"timestamp"`

	// IdempotencyKey deduplicates events re-emitted by activity retries.
	// Derived deterministically from the run context and event content.
	IdempotencyKey string `json:"idempotency_key"`

	// WorkflowID identifies the pipeline execution that produced this event.
	WorkflowID string `json:"workflow_id"`

	// RunID distinguishes retries of the same pipeline execution.
	RunID string `json:"run_id"`

	// Payload carries the task-specific event data as JSON.
	// Schema varies by Type and Version.
	Payload json.RawMessage `json:"payload"`
}

// EventSink is the interface for emitting events to downstream consumers.
// Implementations may append to a database outbox, a message queue, or a log.
//
// Sink failures must never fail the pipeline step that emitted the event;
// events exist for observability, not correctness.
type EventSink interface {
	// Append adds an event to the sink with best-effort delivery.
	// Implementations should treat duplicate idempotency keys as no-ops
	// and return quickly to avoid blocking the caller.
	Append(ctx context.Context, envelope Envelope) error
}

// NoOpEventSink is a null EventSink for tests or deployments without an outbox.
// All Append calls succeed immediately without side effects.
type NoOpEventSink struct{}

// Append implements EventSink.Append with no-op behavior.
func (n *NoOpEventSink) Append(_ context.Context, _ Envelope) error { return nil }

// NewNoOpEventSink creates a new no-op event sink.
func NewNoOpEventSink() EventSink { return &NoOpEventSink{} }
