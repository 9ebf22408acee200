package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newTestRedisQueue(t *testing.T) (*RedisQueue, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	q := NewRedisQueueFromClient(redis.NewClient(&redis.Options{Addr: srv.Addr()}), "")
	t.Cleanup(func() { _ = q.Close() })
	return q, srv
}

func TestRedisQueueIsFIFO(t *testing.T) {
	q, srv := newTestRedisQueue(t)
	ctx := context.Background()

	for _, id := range []string{"first", "second"} {
		if err := q.Send(ctx, Message{GenerationID: id, Version: MessageVersion}); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}
	if items, _ := srv.List(DefaultRedisKey); len(items) != 2 {
		t.Fatalf("expected 2 items on list, got %d", len(items))
	}

	for _, want := range []string{"first", "second"} {
		got, err := q.Receive(ctx, 1)
		if err != nil {
			t.Fatalf("Receive: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected one delivery, got %d", len(got))
		}
		msg, err := DecodeMessage(got[0].Body)
		if err != nil || msg.GenerationID != want {
			t.Fatalf("expected %s, got %+v %v", want, msg, err)
		}
	}
}

func TestRedisQueueReceiveEmpty(t *testing.T) {
	q, _ := newTestRedisQueue(t)
	q.wait = time.Second

	got, err := q.Receive(context.Background(), 1)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no deliveries, got %d", len(got))
	}
}

func TestNewRedisQueueParsesURL(t *testing.T) {
	q, err := NewRedisQueue("redis://localhost:6379/2", "custom")
	if err != nil {
		t.Fatalf("NewRedisQueue: %v", err)
	}
	defer q.Close()
	if q.key != "custom" || q.rdb.Options().DB != 2 {
		t.Fatalf("unexpected queue config: key=%s db=%d", q.key, q.rdb.Options().DB)
	}
	if _, err := NewRedisQueue("", ""); err == nil {
		t.Fatalf("expected error for empty url")
	}
}
