package notify

import (
	"context"
	"time"

	"go.temporal.io/sdk/temporal"

	"github.com/jeferson-peter/forecast-etl/internal/domain"
	"github.com/jeferson-peter/forecast-etl/internal/metrics"
	"github.com/jeferson-peter/forecast-etl/pkg/activity"
)

// Registered activity names, referenced by the workflow definitions.
const (
	ActivityNotifyPipelineFailure = "NotifyPipelineFailure"
	ActivityNotifyPipelineSuccess = "NotifyPipelineSuccess"
)

// PipelineRecorder counts finished pipeline runs. May be nil.
type PipelineRecorder interface {
	RecordPipeline(pipeline, status string)
}

// Activities handles notification Temporal activities. They run after the
// pipeline body has finished, so they also record the run's final status.
type Activities struct {
	activity.BaseActivities
	notifier *Notifier
	recorder PipelineRecorder
	events   *EventEmitter
}

// NewActivities creates notification activities around the notifier.
func NewActivities(base activity.BaseActivities, notifier *Notifier, recorder PipelineRecorder) *Activities {
	return &Activities{
		BaseActivities: base,
		notifier:       notifier,
		recorder:       recorder,
		events:         NewEventEmitter(base),
	}
}

// NotifyPipelineFailure sends the failure email for a finished run.
// Send errors are retryable; the workflow logs but never fails on them.
func (a *Activities) NotifyPipelineFailure(ctx context.Context, input domain.NotificationInput) (err error) {
	return a.notify(ctx, input, false)
}

// NotifyPipelineSuccess sends the success email for a finished run.
func (a *Activities) NotifyPipelineSuccess(ctx context.Context, input domain.NotificationInput) (err error) {
	return a.notify(ctx, input, true)
}

func (a *Activities) notify(ctx context.Context, input domain.NotificationInput, succeeded bool) (err error) {
	tag := ActivityNotifyPipelineFailure
	status := metrics.StatusFailed
	if succeeded {
		tag = ActivityNotifyPipelineSuccess
		status = metrics.StatusSucceeded
	}

	start := time.Now()
	defer func() { a.ObserveTask(input.Pipeline, "notify", start, err) }()

	if err = input.Validate(); err != nil {
		err = temporal.NewNonRetryableApplicationError("invalid input", tag, err)
		return err
	}

	if a.recorder != nil {
		a.recorder.RecordPipeline(input.Pipeline, status)
	}

	rc := a.GetRunContext(ctx)
	if !a.notifier.Enabled() {
		activity.SafeLog(ctx, "Notifications disabled, skipping",
			"pipeline", input.Pipeline,
			"status", status)
		return nil
	}

	if succeeded {
		err = a.notifier.NotifySuccess(ctx, input)
	} else {
		err = a.notifier.NotifyFailure(ctx, input)
	}
	if err != nil {
		err = temporal.NewApplicationErrorWithCause("notification delivery failed", tag, err)
		return err
	}

	a.events.EmitNotificationSent(ctx, input.Pipeline, status, rc)
	activity.SafeLog(ctx, "Notification sent",
		"pipeline", input.Pipeline,
		"status", status)
	return nil
}
