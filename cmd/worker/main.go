package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"cameo-backend/internal/bootstrap"
	"cameo-backend/internal/shared/config"
	"cameo-backend/internal/shared/telemetry"
	"cameo-backend/internal/workerproc"
)

func main() {
	cfg := config.Load()
	if cfg.QueueBackend == "" || cfg.QueueBackend == "memory" {
		log.Fatal("QUEUE_BACKEND must be sqs or redis for a standalone worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	if app.DB != nil {
		defer app.DB.Close()
	}

	runner := runnerFromEnv(app)
	telemetry.Info("worker.started", map[string]any{
		"queue_backend": cfg.QueueBackend,
		"concurrency":   runner.Concurrency,
		"max_receives":  runner.MaxReceives,
	})

	if err := runner.Run(ctx); err != nil {
		log.Fatalf("worker: %v", err)
	}
	telemetry.Info("worker.stopped", nil)
}

func runnerFromEnv(app *bootstrap.App) *workerproc.Runner {
	return &workerproc.Runner{
		Consumer:        app.Consumer,
		Processor:       app.GenerationProcessor,
		Concurrency:     envInt("WORKER_CONCURRENCY", workerproc.DefaultConcurrency),
		BatchSize:       envInt("WORKER_BATCH_SIZE", workerproc.DefaultBatchSize),
		MaxReceives:     envInt("WORKER_MAX_RECEIVES", workerproc.DefaultMaxReceives),
		ShutdownTimeout: time.Duration(envInt("SHUTDOWN_TIMEOUT_SECONDS", int(workerproc.DefaultShutdownTimeout/time.Second))) * time.Second,
	}
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return def
	}
	return val
}
