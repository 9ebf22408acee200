package usage

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu     sync.Mutex
	policy Policy
	now    func() time.Time
	data   map[string]Usage
}

func newMemoryStore(policy Policy, now func() time.Time) *memoryStore {
	if now == nil {
		now = utcNow
	}
	return &memoryStore{
		policy: policy.normalized(),
		now:    now,
		data:   make(map[string]Usage),
	}
}

func (s *memoryStore) EnsurePeriod(ctx context.Context, userID string) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.current(userID)
	s.data[userID] = u
	return u, nil
}

func (s *memoryStore) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.current(userID)
	if n > 0 {
		if u.Used+n > u.Limit {
			s.data[userID] = u
			return Usage{}, ErrLimitReached
		}
		u.Used += n
	}
	s.data[userID] = u
	return u, nil
}

func (s *memoryStore) Refund(ctx context.Context, userID string, n int, window time.Time) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.current(userID)
	if u.ResetsAt.Equal(window) {
		u.Used = max(u.Used-n, 0)
	}
	s.data[userID] = u
	return u, nil
}

func (s *memoryStore) Reset(ctx context.Context, userID string) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.current(userID)
	u.Used = 0
	u.ResetsAt = s.now().Add(s.policy.Window)
	s.data[userID] = u
	return u, nil
}

// current must be called with mu held.
func (s *memoryStore) current(userID string) Usage {
	now := s.now()
	u, ok := s.data[userID]
	if !ok {
		return s.policy.fresh(now)
	}
	if u.expired(now) {
		u.Used = 0
		u.ResetsAt = now.Add(s.policy.Window)
	}
	return u
}
