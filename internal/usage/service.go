package usage

import (
	"context"
	"time"
)

type store interface {
	EnsurePeriod(ctx context.Context, userID string) (Usage, error)
	Consume(ctx context.Context, userID string, n int) (Usage, error)
	Refund(ctx context.Context, userID string, n int, window time.Time) (Usage, error)
	Reset(ctx context.Context, userID string) (Usage, error)
}

// Service meters generation credits. Each user gets Policy.Limit credits per
// window; an expired window is rolled over lazily on the next read or write.
type Service struct {
	store store
}

// NewService returns a Service backed by process memory.
func NewService(policy Policy) *Service {
	return &Service{store: newMemoryStore(policy, nil)}
}

// NewPostgresService returns a Service backed by the usage table.
func NewPostgresService(pg *PGStore) *Service {
	return &Service{store: pg}
}

func (s *Service) Get(ctx context.Context, userID string) (Usage, error) {
	return s.EnsurePeriod(ctx, userID)
}

// EnsurePeriod returns the caller's usage after rolling over an expired window.
func (s *Service) EnsurePeriod(ctx context.Context, userID string) (Usage, error) {
	if s == nil || s.store == nil {
		return Usage{}, errNoStore
	}
	return s.store.EnsurePeriod(ctx, userID)
}

// CanConsume reports whether n credits fit in the current window without spending them.
func (s *Service) CanConsume(ctx context.Context, userID string, n int) (bool, Usage, error) {
	u, err := s.EnsurePeriod(ctx, userID)
	if err != nil {
		return false, Usage{}, err
	}
	return n <= 0 || u.Used+n <= u.Limit, u, nil
}

// Consume spends n credits or returns ErrLimitReached.
func (s *Service) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	if s == nil || s.store == nil {
		return Usage{}, errNoStore
	}
	return s.store.Consume(ctx, userID, n)
}

// Refund gives back n credits charged in the window ending at window, as
// reported by Consume. Once that window has been replaced the refund is a
// no-op. Used never drops below zero.
func (s *Service) Refund(ctx context.Context, userID string, n int, window time.Time) (Usage, error) {
	if s == nil || s.store == nil {
		return Usage{}, errNoStore
	}
	if n <= 0 {
		return s.store.EnsurePeriod(ctx, userID)
	}
	return s.store.Refund(ctx, userID, n, window)
}

// Reset zeroes usage and starts a new window.
func (s *Service) Reset(ctx context.Context, userID string) (Usage, error) {
	if s == nil || s.store == nil {
		return Usage{}, errNoStore
	}
	return s.store.Reset(ctx, userID)
}

func utcNow() time.Time {
	return time.Now().UTC()
}
