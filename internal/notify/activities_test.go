package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	"github.com/jeferson-peter/forecast-etl/internal/domain"
	"github.com/jeferson-peter/forecast-etl/internal/metrics"
	"github.com/jeferson-peter/forecast-etl/pkg/activity"
)

// fakePipelineRecorder captures the final run status reported to metrics.
type fakePipelineRecorder struct {
	pipeline string
	status   string
	calls    int
}

func (f *fakePipelineRecorder) RecordPipeline(pipeline, status string) {
	f.pipeline, f.status = pipeline, status
	f.calls++
}

func TestNotifyPipelineSuccess(t *testing.T) {
	sender := &fakeSender{}
	recorder := &fakePipelineRecorder{}
	a := NewActivities(activity.NewBaseActivities(nil, nil),
		NewNotifier(sender, []string{"one@example.com"}), recorder)

	in := sampleNotification()
	in.Task = ""
	in.Error = ""
	require.NoError(t, a.NotifyPipelineSuccess(context.Background(), in))

	assert.Equal(t, domain.PipelineForecast, recorder.pipeline)
	assert.Equal(t, metrics.StatusSucceeded, recorder.status)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Subject, "Succeeded")
}

func TestNotifyPipelineFailure(t *testing.T) {
	sender := &fakeSender{}
	recorder := &fakePipelineRecorder{}
	a := NewActivities(activity.NewBaseActivities(nil, nil),
		NewNotifier(sender, []string{"one@example.com"}), recorder)

	require.NoError(t, a.NotifyPipelineFailure(context.Background(), sampleNotification()))

	assert.Equal(t, metrics.StatusFailed, recorder.status)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Subject, "Failed")
	assert.Contains(t, sender.sent[0].HTML, "weather fetch failed")
}

func TestNotifyRecordsStatusEvenWhenDisabled(t *testing.T) {
	recorder := &fakePipelineRecorder{}
	a := NewActivities(activity.NewBaseActivities(nil, nil), NewNotifier(nil, nil), recorder)

	require.NoError(t, a.NotifyPipelineSuccess(context.Background(), func() domain.NotificationInput {
		in := sampleNotification()
		in.Error = ""
		return in
	}()))

	assert.Equal(t, 1, recorder.calls)
	assert.Equal(t, metrics.StatusSucceeded, recorder.status)
}

func TestNotifyDeliveryErrorIsRetryable(t *testing.T) {
	sender := &fakeSender{failFor: map[string]error{"one@example.com": errors.New("relay refused")}}
	a := NewActivities(activity.NewBaseActivities(nil, nil),
		NewNotifier(sender, []string{"one@example.com"}), nil)

	err := a.NotifyPipelineFailure(context.Background(), sampleNotification())
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.False(t, appErr.NonRetryable())
}

func TestNotifyInvalidInput(t *testing.T) {
	a := NewActivities(activity.NewBaseActivities(nil, nil), NewNotifier(nil, nil), nil)

	err := a.NotifyPipelineSuccess(context.Background(), domain.NotificationInput{})
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.True(t, appErr.NonRetryable())
}
