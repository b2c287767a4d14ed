// Package worker exposes helpers to register workflows/activities with a Temporal worker.
package worker

import (
	sdkactivity "go.temporal.io/sdk/activity"
	sdkworker "go.temporal.io/sdk/worker"

	"github.com/jeferson-peter/forecast-etl/internal/extraction"
	"github.com/jeferson-peter/forecast-etl/internal/loading"
	"github.com/jeferson-peter/forecast-etl/internal/metrics"
	"github.com/jeferson-peter/forecast-etl/internal/notify"
	"github.com/jeferson-peter/forecast-etl/internal/storage"
	"github.com/jeferson-peter/forecast-etl/internal/transform"
	"github.com/jeferson-peter/forecast-etl/internal/weather"
	"github.com/jeferson-peter/forecast-etl/internal/workflow"
	"github.com/jeferson-peter/forecast-etl/pkg/activity"
	"github.com/jeferson-peter/forecast-etl/pkg/events"
)

// Dependencies bundles everything the activity packages need. Recorder and
// EventSink may be nil, which disables metrics and event emission.
type Dependencies struct {
	WeatherClient weather.Client
	Store         *storage.ForecastStore
	Notifier      *notify.Notifier
	Recorder      *metrics.Recorder
	EventSink     events.EventSink
	Defaults      extraction.Defaults
}

// RegisterAll registers both pipeline workflows and every activity with the
// Temporal worker. Must be called once during worker startup, before the
// worker is started; registration is not thread-safe.
func RegisterAll(w sdkworker.Worker, deps Dependencies) {
	sink := deps.EventSink
	if sink == nil {
		sink = events.NewNoOpEventSink()
	}

	// A typed nil must not end up inside the recorder interfaces.
	var taskRecorder activity.TaskRecorder
	var rowsRecorder loading.RowsRecorder
	var pipelineRecorder notify.PipelineRecorder
	if deps.Recorder != nil {
		taskRecorder = deps.Recorder
		rowsRecorder = deps.Recorder
		pipelineRecorder = deps.Recorder
	}

	base := activity.NewBaseActivities(sink, taskRecorder)

	extractionActivities := extraction.NewActivities(base, deps.WeatherClient, deps.Defaults)
	transformActivities := transform.NewActivities(base)
	loadingActivities := loading.NewActivities(base, deps.Store, rowsRecorder)
	notifyActivities := notify.NewActivities(base, deps.Notifier, pipelineRecorder)

	w.RegisterWorkflow(workflow.ForecastWorkflow)
	w.RegisterWorkflow(workflow.HourlyForecastWorkflow)

	register := func(fn any, name string) {
		w.RegisterActivityWithOptions(fn, sdkactivity.RegisterOptions{Name: name})
	}
	register(extractionActivities.ExtractWeather, extraction.ActivityExtractWeather)
	register(extractionActivities.ExtractHourlyForecast, extraction.ActivityExtractHourlyForecast)
	register(transformActivities.TransformWeather, transform.ActivityTransformWeather)
	register(transformActivities.TransformHourlyForecast, transform.ActivityTransformHourlyForecast)
	register(loadingActivities.EnsureForecastTable, loading.ActivityEnsureForecastTable)
	register(loadingActivities.EnsureHourlyTable, loading.ActivityEnsureHourlyTable)
	register(loadingActivities.GenerateInsertSQL, loading.ActivityGenerateInsertSQL)
	register(loadingActivities.InsertForecast, loading.ActivityInsertForecast)
	register(loadingActivities.InsertHourlyForecast, loading.ActivityInsertHourlyForecast)
	register(notifyActivities.NotifyPipelineFailure, notify.ActivityNotifyPipelineFailure)
	register(notifyActivities.NotifyPipelineSuccess, notify.ActivityNotifyPipelineSuccess)
}
