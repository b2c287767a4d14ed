package loading

import (
	"context"
	"time"

	"go.temporal.io/sdk/temporal"

	"github.com/jeferson-peter/forecast-etl/internal/domain"
	"github.com/jeferson-peter/forecast-etl/pkg/activity"
)

// Registered activity names, referenced by the workflow definitions.
const (
	ActivityEnsureForecastTable   = "EnsureForecastTable"
	ActivityEnsureHourlyTable     = "EnsureHourlyTable"
	ActivityGenerateInsertSQL     = "GenerateInsertSQL"
	ActivityInsertForecast        = "InsertForecast"
	ActivityInsertHourlyForecast  = "InsertHourlyForecast"
)

// Store is the sink surface the loading tasks need. The storage package
// provides the Postgres implementation.
type Store interface {
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
	UpsertHourly(ctx context.Context, rows []domain.HourlyForecast) (int64, error)
}

// RowsRecorder counts rows written to the sink. May be nil.
type RowsRecorder interface {
	AddRowsInserted(pipeline, table string, n int64)
}

// Activities handles sink-facing Temporal activities.
type Activities struct {
	activity.BaseActivities
	store    Store
	recorder RowsRecorder
	events   *EventEmitter
}

// NewActivities creates loading activities over the sink store.
func NewActivities(base activity.BaseActivities, store Store, recorder RowsRecorder) *Activities {
	return &Activities{
		BaseActivities: base,
		store:          store,
		recorder:       recorder,
		events:         NewEventEmitter(base),
	}
}

// EnsureForecastTable creates the weather_data table if it does not exist.
// Idempotent; safe to run at the start of every pipeline execution.
func (a *Activities) EnsureForecastTable(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { a.ObserveTask(domain.PipelineForecast, "create_table", start, err) }()

	rc := a.GetRunContext(ctx)
	activity.SafeLog(ctx, "Starting EnsureForecastTable activity", "workflow_id", rc.WorkflowID)

	if _, err = a.store.Exec(ctx, createForecastTableSQL); err != nil {
		err = retryable(ActivityEnsureForecastTable, err, "create table failed")
		return err
	}
	return nil
}

// EnsureHourlyTable creates the hourly_forecast table if it does not exist.
func (a *Activities) EnsureHourlyTable(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { a.ObserveTask(domain.PipelineHourly, "create_table", start, err) }()

	rc := a.GetRunContext(ctx)
	activity.SafeLog(ctx, "Starting EnsureHourlyTable activity", "workflow_id", rc.WorkflowID)

	if _, err = a.store.Exec(ctx, createHourlyTableSQL); err != nil {
		err = retryable(ActivityEnsureHourlyTable, err, "create table failed")
		return err
	}
	return nil
}

// GenerateInsertSQL builds the insert statement for the transformed record.
// A distinct step so the statement is visible in the run history before it
// executes, mirroring the source pipeline's task graph.
func (a *Activities) GenerateInsertSQL(
	ctx context.Context,
	input domain.GenerateInsertSQLInput,
) (out *domain.GenerateInsertSQLOutput, err error) {
	start := time.Now()
	defer func() { a.ObserveTask(domain.PipelineForecast, "generate_sql", start, err) }()

	if err = input.Validate(); err != nil {
		err = nonRetryable(ActivityGenerateInsertSQL, err, "no data to generate SQL")
		return nil, err
	}

	rc := a.GetRunContext(ctx)
	statement := generateForecastInsert(input.Forecast)
	a.events.EmitStatementGenerated(ctx, input.Forecast.CityName, rc)

	activity.SafeLog(ctx, "GenerateInsertSQL completed",
		"workflow_id", rc.WorkflowID,
		"args", len(statement.Args))
	return &domain.GenerateInsertSQLOutput{Statement: statement}, nil
}

// InsertForecast executes the generated statement against the sink.
func (a *Activities) InsertForecast(
	ctx context.Context,
	input domain.InsertForecastInput,
) (out *domain.InsertForecastOutput, err error) {
	start := time.Now()
	defer func() { a.ObserveTask(domain.PipelineForecast, "insert", start, err) }()

	if err = input.Validate(); err != nil {
		err = nonRetryable(ActivityInsertForecast, err, "invalid input")
		return nil, err
	}

	rc := a.GetRunContext(ctx)
	rows, xerr := a.store.Exec(ctx, input.Statement.SQL, input.Statement.Args...)
	if xerr != nil {
		err = retryable(ActivityInsertForecast, xerr, "insert failed")
		return nil, err
	}

	if a.recorder != nil {
		a.recorder.AddRowsInserted(domain.PipelineForecast, "weather_data", rows)
	}
	a.events.EmitRowsInserted(ctx, domain.PipelineForecast, "weather_data", rows, rc)

	activity.SafeLog(ctx, "InsertForecast completed",
		"workflow_id", rc.WorkflowID,
		"rows", rows)
	return &domain.InsertForecastOutput{RowsInserted: rows}, nil
}

// InsertHourlyForecast bulk-upserts the transformed hourly rows.
func (a *Activities) InsertHourlyForecast(
	ctx context.Context,
	input domain.InsertHourlyInput,
) (out *domain.InsertHourlyOutput, err error) {
	start := time.Now()
	defer func() { a.ObserveTask(domain.PipelineHourly, "insert", start, err) }()

	if err = input.Validate(); err != nil {
		err = nonRetryable(ActivityInsertHourlyForecast, err, "invalid input")
		return nil, err
	}

	rc := a.GetRunContext(ctx)
	a.RecordHeartbeat(ctx, "upserting", len(input.Rows))

	rows, xerr := a.store.UpsertHourly(ctx, input.Rows)
	if xerr != nil {
		err = retryable(ActivityInsertHourlyForecast, xerr, "upsert failed")
		return nil, err
	}

	if a.recorder != nil {
		a.recorder.AddRowsInserted(domain.PipelineHourly, "hourly_forecast", rows)
	}
	a.events.EmitRowsInserted(ctx, domain.PipelineHourly, "hourly_forecast", rows, rc)

	activity.SafeLog(ctx, "InsertHourlyForecast completed",
		"workflow_id", rc.WorkflowID,
		"rows", rows)
	return &domain.InsertHourlyOutput{RowsInserted: rows}, nil
}

// Error helpers - wrap errors as Temporal application errors

func nonRetryable(tag string, cause error, msg string) error {
	return temporal.NewNonRetryableApplicationError(msg, tag, cause)
}

func retryable(tag string, cause error, msg string) error {
	return temporal.NewApplicationErrorWithCause(msg, tag, cause)
}
