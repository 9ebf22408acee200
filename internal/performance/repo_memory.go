package performance

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Metric // userId -> metrics
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]Metric)}
}

func (r *MemoryRepo) Create(ctx context.Context, m Metric) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[m.UserID] = append(r.data[m.UserID], m)
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, userID string, f Filter, limit, offset int) ([]Metric, error) {
	all, err := r.All(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	if offset >= len(all) {
		return []Metric{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

func (r *MemoryRepo) All(ctx context.Context, userID string, f Filter) ([]Metric, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Metric, 0)
	for _, m := range r.data[userID] {
		if f.CampaignID != "" && m.CampaignID != f.CampaignID {
			continue
		}
		if f.GenerationID != "" && m.GenerationID != f.GenerationID {
			continue
		}
		out = append(out, m)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	return out, nil
}

// ClaimGuest moves guestUserID's metrics to authedUserID.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	moved := r.data[guestUserID]
	for i := range moved {
		moved[i].UserID = authedUserID
	}
	r.data[authedUserID] = append(r.data[authedUserID], moved...)
	delete(r.data, guestUserID)
	return len(moved), nil
}
