package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkactivity "go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/jeferson-peter/forecast-etl/internal/domain"
	"github.com/jeferson-peter/forecast-etl/internal/extraction"
	"github.com/jeferson-peter/forecast-etl/internal/loading"
	"github.com/jeferson-peter/forecast-etl/internal/notify"
	"github.com/jeferson-peter/forecast-etl/internal/transform"
)

type hourlyStubs struct {
	calls        []string
	transformErr error
	notifyInput  domain.NotificationInput
	notifyName   string
	gotExtract   domain.ExtractHourlyInput
	gotRows      []domain.HourlyForecast
}

func (s *hourlyStubs) register(env *testsuite.TestWorkflowEnvironment) {
	env.RegisterActivityWithOptions(func(ctx context.Context) error {
		s.calls = append(s.calls, loading.ActivityEnsureHourlyTable)
		return nil
	}, sdkactivity.RegisterOptions{Name: loading.ActivityEnsureHourlyTable})

	env.RegisterActivityWithOptions(func(ctx context.Context, in domain.ExtractHourlyInput) (*domain.ExtractHourlyOutput, error) {
		s.calls = append(s.calls, extraction.ActivityExtractHourlyForecast)
		s.gotExtract = in
		return &domain.ExtractHourlyOutput{
			Payload: domain.OpenMeteoForecast{
				Latitude:  in.Latitude,
				Longitude: in.Longitude,
				Hourly: domain.OpenMeteoHourly{
					Time:          []string{"2024-06-01T00:00", "2024-06-01T01:00"},
					WeatherCode:   []int{1, 3},
					Temperature2M: []float64{18.2, 17.9},
				},
			},
		}, nil
	}, sdkactivity.RegisterOptions{Name: extraction.ActivityExtractHourlyForecast})

	env.RegisterActivityWithOptions(func(ctx context.Context, in domain.TransformHourlyInput) (*domain.TransformHourlyOutput, error) {
		s.calls = append(s.calls, transform.ActivityTransformHourlyForecast)
		if s.transformErr != nil {
			return nil, s.transformErr
		}
		rows := make([]domain.HourlyForecast, in.Payload.Len())
		for i := range rows {
			rows[i] = domain.HourlyForecast{
				Time:          time.Date(2024, 6, 1, i, 0, 0, 0, time.UTC),
				WeatherCode:   in.Payload.Hourly.WeatherCode[i],
				Temperature2M: in.Payload.Hourly.Temperature2M[i],
				Latitude:      in.Payload.Latitude,
				Longitude:     in.Payload.Longitude,
			}
		}
		return &domain.TransformHourlyOutput{Rows: rows}, nil
	}, sdkactivity.RegisterOptions{Name: transform.ActivityTransformHourlyForecast})

	env.RegisterActivityWithOptions(func(ctx context.Context, in domain.InsertHourlyInput) (*domain.InsertHourlyOutput, error) {
		s.calls = append(s.calls, loading.ActivityInsertHourlyForecast)
		s.gotRows = in.Rows
		return &domain.InsertHourlyOutput{RowsInserted: int64(len(in.Rows))}, nil
	}, sdkactivity.RegisterOptions{Name: loading.ActivityInsertHourlyForecast})

	env.RegisterActivityWithOptions(func(ctx context.Context, in domain.NotificationInput) error {
		s.calls = append(s.calls, notify.ActivityNotifyPipelineSuccess)
		s.notifyName = notify.ActivityNotifyPipelineSuccess
		s.notifyInput = in
		return nil
	}, sdkactivity.RegisterOptions{Name: notify.ActivityNotifyPipelineSuccess})

	env.RegisterActivityWithOptions(func(ctx context.Context, in domain.NotificationInput) error {
		s.calls = append(s.calls, notify.ActivityNotifyPipelineFailure)
		s.notifyName = notify.ActivityNotifyPipelineFailure
		s.notifyInput = in
		return nil
	}, sdkactivity.RegisterOptions{Name: notify.ActivityNotifyPipelineFailure})
}

func TestHourlyForecastWorkflow(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	stubs := &hourlyStubs{}
	stubs.register(env)
	env.RegisterWorkflow(HourlyForecastWorkflow)

	env.ExecuteWorkflow(HourlyForecastWorkflow, domain.HourlyForecastRequest{
		Latitude:     35.6586,
		Longitude:    139.7454,
		ForecastDays: 2,
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result domain.PipelineResult
	require.NoError(t, env.GetWorkflowResult(&result))
	assert.Equal(t, domain.PipelineHourly, result.Pipeline)
	assert.Equal(t, int64(2), result.RowsInserted)

	assert.Equal(t, []string{
		loading.ActivityEnsureHourlyTable,
		extraction.ActivityExtractHourlyForecast,
		transform.ActivityTransformHourlyForecast,
		loading.ActivityInsertHourlyForecast,
		notify.ActivityNotifyPipelineSuccess,
	}, stubs.calls)

	assert.Equal(t, 35.6586, stubs.gotExtract.Latitude)
	assert.Equal(t, 2, stubs.gotExtract.ForecastDays)
	require.Len(t, stubs.gotRows, 2)
	assert.Equal(t, 1, stubs.gotRows[0].WeatherCode)
}

func TestHourlyForecastWorkflowTransformFailure(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	stubs := &hourlyStubs{
		transformErr: temporal.NewNonRetryableApplicationError("no data to transform", "TransformHourlyForecast", nil),
	}
	stubs.register(env)
	env.RegisterWorkflow(HourlyForecastWorkflow)

	env.ExecuteWorkflow(HourlyForecastWorkflow, domain.HourlyForecastRequest{ForecastDays: 2})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())

	assert.Equal(t, notify.ActivityNotifyPipelineFailure, stubs.notifyName)
	assert.Equal(t, domain.PipelineHourly, stubs.notifyInput.Pipeline)
	assert.Equal(t, transform.ActivityTransformHourlyForecast, stubs.notifyInput.Task)
	assert.Contains(t, stubs.notifyInput.Error, "no data to transform")
	assert.NotContains(t, stubs.calls, loading.ActivityInsertHourlyForecast)
}

func TestHourlyForecastWorkflowInvalidRequest(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	stubs := &hourlyStubs{}
	stubs.register(env)
	env.RegisterWorkflow(HourlyForecastWorkflow)

	env.ExecuteWorkflow(HourlyForecastWorkflow, domain.HourlyForecastRequest{Latitude: 123.4})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.True(t, appErr.NonRetryable())
	assert.Empty(t, stubs.calls)
}
