package queue

import (
	"context"
	"errors"
	"time"
)

// ErrQueueFull is returned when the in-memory buffer cannot accept more messages.
var ErrQueueFull = errors.New("queue full")

// MemoryQueue is a buffered in-process queue for local runs and tests.
type MemoryQueue struct {
	ch   chan Message
	wait time.Duration
}

// NewMemoryQueue creates a queue holding up to size messages.
func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 100
	}
	return &MemoryQueue{ch: make(chan Message, size), wait: time.Second}
}

func (q *MemoryQueue) Send(ctx context.Context, msg Message) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case q.ch <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Receive waits briefly for the first message, then drains up to max without blocking.
func (q *MemoryQueue) Receive(ctx context.Context, max int) ([]Delivery, error) {
	if max <= 0 {
		max = 1
	}
	timer := time.NewTimer(q.wait)
	defer timer.Stop()

	var first Message
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return []Delivery{}, nil
	case first = <-q.ch:
	}

	out := make([]Delivery, 0, max)
	if d, err := toDelivery(first); err == nil {
		out = append(out, d)
	}
	for len(out) < max {
		select {
		case msg := <-q.ch:
			if d, err := toDelivery(msg); err == nil {
				out = append(out, d)
			}
		default:
			return out, nil
		}
	}
	return out, nil
}

func (q *MemoryQueue) Ack(context.Context, Delivery) error {
	return nil
}

// Len reports buffered messages.
func (q *MemoryQueue) Len() int {
	return len(q.ch)
}

func toDelivery(msg Message) (Delivery, error) {
	body, err := EncodeMessage(msg)
	if err != nil {
		return Delivery{}, err
	}
	return Delivery{ID: msg.GenerationID, Body: body, ReceiveCount: 1}, nil
}

var (
	_ Client   = (*MemoryQueue)(nil)
	_ Consumer = (*MemoryQueue)(nil)
)
