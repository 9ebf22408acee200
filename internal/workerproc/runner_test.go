package workerproc

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"cameo-backend/internal/generations"
	"cameo-backend/internal/queue"
)

func timeNow() time.Time { return time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC) }

type recordingConsumer struct {
	mu    sync.Mutex
	acked []string
}

func (c *recordingConsumer) Receive(ctx context.Context, _ int) ([]queue.Delivery, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (c *recordingConsumer) Ack(_ context.Context, d queue.Delivery) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.acked = append(c.acked, d.ID)
	return nil
}

func TestRunnerHandleAcksByOutcome(t *testing.T) {
	consumer := &recordingConsumer{}
	proc := &fakeProcessor{errs: map[string]error{
		"retry":    errors.New("transient"),
		"poison":   errors.New("transient"),
		"gone":     generations.ErrNotFound,
		"rendered": nil,
	}}
	r := &Runner{Consumer: consumer, Processor: proc, MaxReceives: 5}

	deliveries := []queue.Delivery{
		{ID: "ok", Body: []byte(encode(t, queue.Message{GenerationID: "rendered", Version: 1})), ReceiveCount: 1},
		{ID: "retry", Body: []byte(encode(t, queue.Message{GenerationID: "retry", Version: 1})), ReceiveCount: 1},
		{ID: "poison", Body: []byte(encode(t, queue.Message{GenerationID: "poison", Version: 1})), ReceiveCount: 5},
		{ID: "gone", Body: []byte(encode(t, queue.Message{GenerationID: "gone", Version: 1})), ReceiveCount: 1},
		{ID: "garbage", Body: []byte("nope"), ReceiveCount: 1},
	}
	for _, d := range deliveries {
		r.handle(context.Background(), d)
	}

	got := slices.Clone(consumer.acked)
	slices.Sort(got)
	want := []string{"garbage", "gone", "ok", "poison"}
	if !slices.Equal(got, want) {
		t.Fatalf("acked = %v, want %v", got, want)
	}
}

type signalProcessor struct {
	done chan string
}

func (p signalProcessor) ProcessGeneration(_ context.Context, id string) error {
	p.done <- id
	return nil
}

func TestRunnerProcessesUntilCanceled(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	q := queue.NewMemoryQueue(4)
	if err := q.Send(context.Background(), queue.NewMessage("gen-1", "", timeNow())); err != nil {
		t.Fatalf("Send: %v", err)
	}
	proc := signalProcessor{done: make(chan string, 1)}
	r := &Runner{Consumer: q, Processor: proc, Concurrency: 2, ShutdownTimeout: time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- r.Run(ctx) }()

	select {
	case id := <-proc.done:
		if id != "gen-1" {
			t.Fatalf("unexpected generation %q", id)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for processing")
	}
	cancel()

	select {
	case err := <-result:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("runner did not stop")
	}
}

func TestRunnerRequiresDependencies(t *testing.T) {
	if err := (&Runner{}).Run(context.Background()); err == nil {
		t.Fatalf("expected error without consumer")
	}
}
