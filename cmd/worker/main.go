// Command worker runs the Temporal worker hosting both weather pipelines.
// It connects to the Temporal frontend, registers the workflows and
// activities, and serves Prometheus metrics until interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	sdkworker "go.temporal.io/sdk/worker"

	"github.com/jeferson-peter/forecast-etl/internal/config"
	"github.com/jeferson-peter/forecast-etl/internal/metrics"
	"github.com/jeferson-peter/forecast-etl/internal/worker"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(*configPath, logger); err != nil {
		logger.Error("Worker exited", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, logger *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	weatherClient, err := worker.NewWeatherClient(cfg)
	if err != nil {
		return err
	}

	store, err := worker.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Closing forecast store failed", "error", err)
		}
	}()

	recorder := metrics.NewRecorder()

	temporalClient, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    tlog.NewStructuredLogger(logger),
	})
	if err != nil {
		return err
	}
	defer temporalClient.Close()

	w := sdkworker.New(temporalClient, cfg.Temporal.TaskQueue, sdkworker.Options{})
	worker.RegisterAll(w, worker.Dependencies{
		WeatherClient: weatherClient,
		Store:         store,
		Notifier:      worker.NewNotifier(cfg),
		Recorder:      recorder,
		Defaults:      worker.ExtractionDefaults(cfg),
	})

	metricsSrv := startMetricsServer(cfg.Metrics.ListenAddr, recorder, logger)

	logger.Info("Worker starting",
		"task_queue", cfg.Temporal.TaskQueue,
		"namespace", cfg.Temporal.Namespace,
		"host_port", cfg.Temporal.HostPort)

	// InterruptCh turns SIGINT/SIGTERM into a graceful worker stop.
	runErr := w.Run(sdkworker.InterruptCh())

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server shutdown failed", "error", err)
		}
	}
	return runErr
}

// startMetricsServer exposes the Prometheus registry on addr. Returns nil
// when the endpoint is disabled by configuration.
func startMetricsServer(addr string, recorder *metrics.Recorder, logger *slog.Logger) *http.Server {
	if addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", recorder.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Metrics server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "error", err)
		}
	}()
	return srv
}
