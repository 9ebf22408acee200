package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"cameo-backend/internal/shared/storage/kv"
)

const (
	DefaultRedisKey = "cameo:generations"
	redisWait       = 5 * time.Second
)

// RedisQueue uses a Redis list as a work queue: LPUSH to send, BRPOP to receive.
// Popped messages are removed immediately, so Ack is a no-op.
type RedisQueue struct {
	rdb  *redis.Client
	key  string
	wait time.Duration
}

// NewRedisQueue connects to redisURL (redis://host:port/db or host:port).
func NewRedisQueue(redisURL, key string) (*RedisQueue, error) {
	rdb, err := kv.NewRedisClient(redisURL)
	if err != nil {
		return nil, err
	}
	return NewRedisQueueFromClient(rdb, key), nil
}

// NewRedisQueueFromClient wraps an existing client.
func NewRedisQueueFromClient(rdb *redis.Client, key string) *RedisQueue {
	if strings.TrimSpace(key) == "" {
		key = DefaultRedisKey
	}
	return &RedisQueue{rdb: rdb, key: key, wait: redisWait}
}

func (q *RedisQueue) Send(ctx context.Context, msg Message) error {
	payload, err := EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("encode redis message: %w", err)
	}
	if err := q.rdb.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("redis lpush: %w", err)
	}
	return nil
}

// Receive blocks for one message. max is ignored beyond the first pop.
func (q *RedisQueue) Receive(ctx context.Context, max int) ([]Delivery, error) {
	result, err := q.rdb.BRPop(ctx, q.wait, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Delivery{}, nil
		}
		return nil, fmt.Errorf("redis brpop: %w", err)
	}
	// BRPOP replies with [key, value].
	return []Delivery{{Body: []byte(result[1]), ReceiveCount: 1}}, nil
}

func (q *RedisQueue) Ack(context.Context, Delivery) error {
	return nil
}

// Close releases the underlying connection pool.
func (q *RedisQueue) Close() error {
	return q.rdb.Close()
}

var (
	_ Client   = (*RedisQueue)(nil)
	_ Consumer = (*RedisQueue)(nil)
)
