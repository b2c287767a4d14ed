// Package metrics provides the Prometheus recorder for pipeline observability.
// The worker exposes the recorder's registry on its /metrics endpoint.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run status labels recorded by the pipelines.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Recorder collects pipeline and task measurements on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	pipelineRuns *prometheus.CounterVec
	taskDuration *prometheus.HistogramVec
	rowsInserted *prometheus.CounterVec
}

// NewRecorder creates a Recorder with Go runtime and process collectors
// registered alongside the pipeline metrics.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Recorder{
		registry: registry,
		pipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Total number of pipeline runs by final status.",
		}, []string{"pipeline", "status"}),
		taskDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pipeline_task_duration_seconds",
			Help:    "Duration of pipeline task executions.",
			Buckets: prometheus.DefBuckets,
		}, []string{"pipeline", "task", "status"}),
		rowsInserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pipeline_rows_inserted_total",
			Help: "Total rows written to the sink by pipeline and table.",
		}, []string{"pipeline", "table"}),
	}

	registry.MustRegister(r.pipelineRuns)
	registry.MustRegister(r.taskDuration)
	registry.MustRegister(r.rowsInserted)

	return r
}

// Handler returns the HTTP handler serving this recorder's registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveTask records one task execution. Implements pkgactivity.TaskRecorder.
func (r *Recorder) ObserveTask(pipeline, task string, duration time.Duration, err error) {
	status := StatusSucceeded
	if err != nil {
		status = StatusFailed
	}
	r.taskDuration.WithLabelValues(pipeline, task, status).Observe(duration.Seconds())
}

// RecordPipeline counts a finished pipeline run by status.
func (r *Recorder) RecordPipeline(pipeline, status string) {
	r.pipelineRuns.WithLabelValues(pipeline, status).Inc()
}

// AddRowsInserted counts rows written to a sink table.
func (r *Recorder) AddRowsInserted(pipeline, table string, n int64) {
	if n <= 0 {
		return
	}
	r.rowsInserted.WithLabelValues(pipeline, table).Add(float64(n))
}
