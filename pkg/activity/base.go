// Package activity provides common infrastructure for all Temporal activity implementations.
// It includes base types, context extraction, safe logging, and event emission utilities
// shared across the pipeline task packages.
package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"

	"github.com/jeferson-peter/forecast-etl/pkg/events"
)

// RunContext contains metadata extracted from the Temporal activity context.
// It gives every task a consistent view of the pipeline execution it belongs
// to, with generated fallback values for plain-context test scenarios.
type RunContext struct {
	WorkflowID string
	RunID      string
	ActivityID string
	Attempt    int32
}

// TaskRecorder receives per-task measurements from activities.
// The metrics package provides the Prometheus implementation; a nil recorder
// disables recording entirely.
type TaskRecorder interface {
	ObserveTask(pipeline, task string, duration time.Duration, err error)
}

// BaseActivities provides common infrastructure for all task packages:
// event emission, run-context extraction, metrics, and safe logging that
// works both inside Temporal activity contexts and in plain test contexts.
type BaseActivities struct {
	eventSink events.EventSink
	recorder  TaskRecorder
}

// NewBaseActivities creates a BaseActivities with the provided event sink and
// task recorder. Either may be nil when events or metrics are not wanted.
func NewBaseActivities(sink events.EventSink, recorder TaskRecorder) BaseActivities {
	return BaseActivities{eventSink: sink, recorder: recorder}
}

// GetRunContext safely extracts the pipeline run context from the activity context.
// Inside a Temporal activity it returns the actual execution details; in plain
// contexts (unit tests calling the activity method directly) activity.GetInfo
// panics, so deterministic test identifiers are substituted instead.
func (b BaseActivities) GetRunContext(ctx context.Context) RunContext {
	var rc RunContext

	func() {
		defer func() {
			if r := recover(); r != nil {
				rc.WorkflowID = "test-workflow"
				rc.RunID = "test-run-" + uuid.New().String()[:8]
				rc.ActivityID = "test-activity"
				rc.Attempt = 1
			}
		}()

		info := activity.GetInfo(ctx)
		rc.WorkflowID = info.WorkflowExecution.ID
		rc.RunID = info.WorkflowExecution.RunID
		rc.ActivityID = info.ActivityID
		rc.Attempt = info.Attempt
	}()

	return rc
}

// ObserveTask records a completed task measurement on the configured recorder.
// Intended for use in a defer at the top of an activity method:
//
//	defer func() { a.ObserveTask(pipeline, task, start, err) }()
func (b BaseActivities) ObserveTask(pipeline, task string, start time.Time, err error) {
	if b.recorder == nil {
		return
	}
	b.recorder.ObserveTask(pipeline, task, time.Since(start), err)
}

// EmitEventSafe provides best-effort event emission with a short bounded retry.
// Event emission must never fail the task that produced the event, so errors
// are logged and swallowed after the final attempt.
func (b BaseActivities) EmitEventSafe(ctx context.Context, envelope events.Envelope, description string) {
	if b.eventSink == nil {
		return
	}

	const maxAttempts = 2
	const retryDelay = 200 * time.Millisecond

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				SafeLogError(ctx, fmt.Sprintf("Event emission cancelled: %s", description),
					"event_type", envelope.Type)
				return
			}
		}

		if err := b.eventSink.Append(ctx, envelope); err != nil {
			lastErr = err
			continue
		}

		SafeLog(ctx, fmt.Sprintf("Event emitted: %s", description),
			"event_type", envelope.Type,
			"idempotency_key", envelope.IdempotencyKey)
		return
	}

	SafeLogError(ctx, fmt.Sprintf("Failed to emit %s after %d attempts", description, maxAttempts),
		"event_type", envelope.Type,
		"error", lastErr)
}

// RecordHeartbeat safely records an activity heartbeat.
// Safe to call in non-activity contexts where it is ignored.
func (b BaseActivities) RecordHeartbeat(ctx context.Context, details ...any) {
	RecordHeartbeat(ctx, details...)
}

// SafeLog performs context-safe INFO logging that works in both activity and
// test contexts. Outside an activity context the call is silently ignored.
func SafeLog(ctx context.Context, msg string, keyvals ...any) {
	defer func() {
		if recover() != nil {
			// Not an activity context, ignore
		}
	}()
	activity.GetLogger(ctx).Info(msg, keyvals...)
}

// SafeLogError performs context-safe ERROR logging, mirroring SafeLog.
func SafeLogError(ctx context.Context, msg string, keyvals ...any) {
	defer func() {
		if recover() != nil {
			// Not an activity context, ignore
		}
	}()
	activity.GetLogger(ctx).Error(msg, keyvals...)
}

// RecordHeartbeat safely records activity heartbeat details, ignoring calls
// made outside an activity context.
func RecordHeartbeat(ctx context.Context, details ...any) {
	defer func() {
		if recover() != nil {
			// Not an activity context, ignore
		}
	}()
	activity.RecordHeartbeat(ctx, details...)
}
