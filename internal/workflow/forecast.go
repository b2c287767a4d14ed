package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/jeferson-peter/forecast-etl/internal/domain"
	"github.com/jeferson-peter/forecast-etl/internal/extraction"
	"github.com/jeferson-peter/forecast-etl/internal/loading"
	"github.com/jeferson-peter/forecast-etl/internal/notify"
	"github.com/jeferson-peter/forecast-etl/internal/transform"
)

// ForecastWorkflow runs the daily current-weather pipeline:
// ensure the sink table exists, fetch the current conditions for a city,
// shape them into a sink record, generate the parameterized insert, and
// execute it. Whatever the outcome, a notification activity is dispatched
// before the workflow returns; notification failures are logged but never
// change the pipeline result.
func ForecastWorkflow(
	ctx workflow.Context,
	req domain.ForecastRequest,
) (*domain.PipelineResult, error) {
	// Version gate enables safe evolution of the task chain.
	const currentVersion = 1
	_ = workflow.GetVersion(ctx, "forecast.v", workflow.DefaultVersion, currentVersion)

	if err := req.Validate(); err != nil {
		return nil, temporal.NewNonRetryableApplicationError(
			"invalid forecast request",
			"Validation",
			err,
		)
	}

	startedAt := workflow.Now(ctx)
	actx := workflow.WithActivityOptions(ctx, pipelineActivityOptions())

	result, failedTask, err := runForecastPipeline(actx, req)

	notifyOutcome(ctx, domain.PipelineForecast, failedTask, startedAt, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// runForecastPipeline executes the task chain and reports which task failed.
func runForecastPipeline(
	ctx workflow.Context,
	req domain.ForecastRequest,
) (*domain.PipelineResult, string, error) {
	if err := workflow.ExecuteActivity(
		ctx, loading.ActivityEnsureForecastTable,
	).Get(ctx, nil); err != nil {
		return nil, loading.ActivityEnsureForecastTable, err
	}

	var extracted domain.ExtractWeatherOutput
	if err := workflow.ExecuteActivity(
		ctx, extraction.ActivityExtractWeather,
		domain.ExtractWeatherInput{City: req.City},
	).Get(ctx, &extracted); err != nil {
		return nil, extraction.ActivityExtractWeather, err
	}

	var transformed domain.TransformWeatherOutput
	if err := workflow.ExecuteActivity(
		ctx, transform.ActivityTransformWeather,
		domain.TransformWeatherInput{Payload: extracted.Payload},
	).Get(ctx, &transformed); err != nil {
		return nil, transform.ActivityTransformWeather, err
	}

	var generated domain.GenerateInsertSQLOutput
	if err := workflow.ExecuteActivity(
		ctx, loading.ActivityGenerateInsertSQL,
		domain.GenerateInsertSQLInput{Forecast: transformed.Forecast},
	).Get(ctx, &generated); err != nil {
		return nil, loading.ActivityGenerateInsertSQL, err
	}

	var inserted domain.InsertForecastOutput
	if err := workflow.ExecuteActivity(
		ctx, loading.ActivityInsertForecast,
		domain.InsertForecastInput{Statement: generated.Statement},
	).Get(ctx, &inserted); err != nil {
		return nil, loading.ActivityInsertForecast, err
	}

	return &domain.PipelineResult{
		Pipeline:     domain.PipelineForecast,
		City:         transformed.Forecast.CityName,
		RowsInserted: inserted.RowsInserted,
		CompletedAt:  workflow.Now(ctx),
	}, "", nil
}

// pipelineActivityOptions mirrors the scheduler defaults the pipelines were
// designed around: one retry after a five-minute pause, tasks bounded to five
// minutes of execution.
func pipelineActivityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Minute,
			BackoffCoefficient: 1.0,
			MaximumAttempts:    2,
		},
	}
}

// notifyActivityOptions bounds the notification activity more tightly than the
// pipeline body; email delivery should not hold a finished run open for long.
func notifyActivityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumAttempts:    3,
		},
	}
}

// notifyOutcome dispatches the success or failure notification for the run.
// The notification carries the run timing and, on failure, the task that
// failed and its error. Delivery problems are logged and swallowed so they
// cannot mask the pipeline's own result.
func notifyOutcome(
	ctx workflow.Context,
	pipeline, failedTask string,
	startedAt time.Time,
	runErr error,
) {
	info := workflow.GetInfo(ctx)
	input := domain.NotificationInput{
		Pipeline:    pipeline,
		WorkflowID:  info.WorkflowExecution.ID,
		RunID:       info.WorkflowExecution.RunID,
		Task:        failedTask,
		StartedAt:   startedAt,
		CompletedAt: workflow.Now(ctx),
	}

	name := notify.ActivityNotifyPipelineSuccess
	if runErr != nil {
		name = notify.ActivityNotifyPipelineFailure
		input.Error = runErr.Error()
	}

	nctx := workflow.WithActivityOptions(ctx, notifyActivityOptions())
	if err := workflow.ExecuteActivity(nctx, name, input).Get(nctx, nil); err != nil {
		workflow.GetLogger(ctx).Error("Pipeline notification failed",
			"pipeline", pipeline,
			"notification", name,
			"error", err)
	}
}
