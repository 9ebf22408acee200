package workerproc

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"cameo-backend/internal/queue"
	"cameo-backend/internal/shared/metrics"
	"cameo-backend/internal/shared/telemetry"
)

const (
	DefaultConcurrency     = 4
	DefaultBatchSize       = 10
	DefaultMaxReceives     = 5
	DefaultShutdownTimeout = 30 * time.Second

	receiveErrorBackoff = time.Second
)

// Runner polls a queue consumer and processes deliveries with bounded concurrency.
type Runner struct {
	Consumer    queue.Consumer
	Processor   Processor
	Concurrency int
	BatchSize   int
	// MaxReceives drops a failing message once it has been delivered this many times.
	// Zero keeps retrying forever.
	MaxReceives     int
	ShutdownTimeout time.Duration
}

// Run polls until ctx is done, then waits up to ShutdownTimeout for in-flight
// jobs. Jobs keep running after ctx is canceled so a render is not cut short.
func (r *Runner) Run(ctx context.Context) error {
	if r.Consumer == nil || r.Processor == nil {
		return errors.New("worker requires a consumer and a processor")
	}
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	batch := r.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}

	jobCtx := context.WithoutCancel(ctx)
	var g errgroup.Group
	g.SetLimit(concurrency)

	for ctx.Err() == nil {
		deliveries, err := r.Consumer.Receive(ctx, batch)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			telemetry.Error("worker.receive_failed", map[string]any{"error": err.Error()})
			sleep(ctx, receiveErrorBackoff)
			continue
		}
		for _, d := range deliveries {
			metrics.IncWorkerJobsReceived()
			g.Go(func() error {
				r.handle(jobCtx, d)
				return nil
			})
		}
	}

	timeout := r.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	telemetry.Info("worker.draining", map[string]any{"timeout_ms": timeout.Milliseconds()})
	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		telemetry.Warn("worker.shutdown_timeout", nil)
		return context.DeadlineExceeded
	}
}

func (r *Runner) handle(ctx context.Context, d queue.Delivery) {
	body := string(d.Body)
	fields := map[string]any{
		"message_id":    d.ID,
		"receive_count": d.ReceiveCount,
	}

	msg, meta, err := ParseMessage(body)
	if err != nil {
		fields["body_len"] = meta.BodyLen
		fields["body_sha256"] = meta.BodySHA
		fields["error"] = err.Error()
		telemetry.Error("worker.generation.decode_failed", fields)
		r.drop(ctx, d, fields)
		return
	}
	fields["generation_id"] = msg.GenerationID
	if msg.RequestID != "" {
		fields["request_id"] = msg.RequestID
	}
	telemetry.Info("worker.generation.received", fields)

	if err := HandleMessage(WithParsedMessage(ctx, msg), r.Processor, body); err != nil {
		fields["error"] = err.Error()
		telemetry.Error("worker.generation.failed", fields)
		metrics.IncWorkerJobsFailed()
		if Unrecoverable(err) || (r.MaxReceives > 0 && d.ReceiveCount >= r.MaxReceives) {
			r.drop(ctx, d, fields)
		}
		return
	}

	if err := r.Consumer.Ack(ctx, d); err != nil {
		fields["error"] = err.Error()
		telemetry.Error("worker.generation.ack_failed", fields)
		return
	}
	telemetry.Info("worker.generation.completed", fields)
	metrics.IncWorkerJobsCompleted()
}

func (r *Runner) drop(ctx context.Context, d queue.Delivery, fields map[string]any) {
	if err := r.Consumer.Ack(ctx, d); err != nil {
		fields["ack_error"] = err.Error()
		telemetry.Error("worker.generation.ack_failed", fields)
		return
	}
	metrics.IncWorkerJobsDeletedUnrecoverable()
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
