package workflow

import (
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/jeferson-peter/forecast-etl/internal/domain"
	"github.com/jeferson-peter/forecast-etl/internal/extraction"
	"github.com/jeferson-peter/forecast-etl/internal/loading"
	"github.com/jeferson-peter/forecast-etl/internal/transform"
)

// HourlyForecastWorkflow runs the hourly forecast collection pipeline:
// ensure the hourly sink table exists, fetch the hour-by-hour forecast for a
// coordinate pair, explode the columnar payload into rows, and upsert them.
// Reruns for the same hours overwrite previous readings instead of
// accumulating duplicates.
func HourlyForecastWorkflow(
	ctx workflow.Context,
	req domain.HourlyForecastRequest,
) (*domain.PipelineResult, error) {
	const currentVersion = 1
	_ = workflow.GetVersion(ctx, "hourly.v", workflow.DefaultVersion, currentVersion)

	if err := req.Validate(); err != nil {
		return nil, temporal.NewNonRetryableApplicationError(
			"invalid hourly forecast request",
			"Validation",
			err,
		)
	}

	startedAt := workflow.Now(ctx)
	actx := workflow.WithActivityOptions(ctx, pipelineActivityOptions())

	result, failedTask, err := runHourlyPipeline(actx, req)

	notifyOutcome(ctx, domain.PipelineHourly, failedTask, startedAt, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func runHourlyPipeline(
	ctx workflow.Context,
	req domain.HourlyForecastRequest,
) (*domain.PipelineResult, string, error) {
	if err := workflow.ExecuteActivity(
		ctx, loading.ActivityEnsureHourlyTable,
	).Get(ctx, nil); err != nil {
		return nil, loading.ActivityEnsureHourlyTable, err
	}

	var extracted domain.ExtractHourlyOutput
	if err := workflow.ExecuteActivity(
		ctx, extraction.ActivityExtractHourlyForecast,
		domain.ExtractHourlyInput{
			Latitude:     req.Latitude,
			Longitude:    req.Longitude,
			ForecastDays: req.ForecastDays,
		},
	).Get(ctx, &extracted); err != nil {
		return nil, extraction.ActivityExtractHourlyForecast, err
	}

	var transformed domain.TransformHourlyOutput
	if err := workflow.ExecuteActivity(
		ctx, transform.ActivityTransformHourlyForecast,
		domain.TransformHourlyInput{Payload: extracted.Payload},
	).Get(ctx, &transformed); err != nil {
		return nil, transform.ActivityTransformHourlyForecast, err
	}

	var inserted domain.InsertHourlyOutput
	if err := workflow.ExecuteActivity(
		ctx, loading.ActivityInsertHourlyForecast,
		domain.InsertHourlyInput{Rows: transformed.Rows},
	).Get(ctx, &inserted); err != nil {
		return nil, loading.ActivityInsertHourlyForecast, err
	}

	return &domain.PipelineResult{
		Pipeline:     domain.PipelineHourly,
		RowsInserted: inserted.RowsInserted,
		CompletedAt:  workflow.Now(ctx),
	}, "", nil
}
