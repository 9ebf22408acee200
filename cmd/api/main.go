package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cameo-backend/internal/bootstrap"
	"cameo-backend/internal/shared/config"
	"cameo-backend/internal/shared/server"
	"cameo-backend/internal/shared/telemetry"
	"cameo-backend/internal/workerproc"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	if app.DB != nil {
		defer app.DB.Close()
	}

	// A memory queue is consumed in-process.
	workerDone := make(chan struct{})
	if app.Config.QueueBackend == "memory" && app.Consumer != nil {
		runner := &workerproc.Runner{Consumer: app.Consumer, Processor: app.GenerationProcessor}
		go func() {
			defer close(workerDone)
			if err := runner.Run(ctx); err != nil {
				telemetry.Error("api.embedded_worker_failed", map[string]any{"error": err.Error()})
			}
		}()
	} else {
		close(workerDone)
	}

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		telemetry.Info("api.listening", map[string]any{"addr": srv.Addr, "env": app.Config.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	telemetry.Info("api.shutting_down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		telemetry.Error("api.shutdown_failed", map[string]any{"error": err.Error()})
	}
	<-workerDone
}
