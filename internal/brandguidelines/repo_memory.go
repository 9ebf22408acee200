package brandguidelines

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]BrandGuideline
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]BrandGuideline)}
}

func (r *MemoryRepo) Create(ctx context.Context, g BrandGuideline) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[g.ID] = g
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, id string) (BrandGuideline, error) {
	if err := ctx.Err(); err != nil {
		return BrandGuideline{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.data[id]
	if !ok || g.UserID != userID {
		return BrandGuideline{}, ErrNotFound
	}
	return g, nil
}

func (r *MemoryRepo) List(ctx context.Context, userID string, limit, offset int) ([]BrandGuideline, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]BrandGuideline, 0)
	for _, g := range r.data {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return []BrandGuideline{}, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

func (r *MemoryRepo) Update(ctx context.Context, g BrandGuideline) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.data[g.ID]
	if !ok || existing.UserID != g.UserID {
		return ErrNotFound
	}
	r.data[g.ID] = g
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.data[id]
	if !ok || existing.UserID != userID {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

// ClaimGuest reassigns every record owned by guestUserID to authedUserID.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, g := range r.data {
		if g.UserID != guestUserID {
			continue
		}
		g.UserID = authedUserID
		r.data[id] = g
		n++
	}
	return n, nil
}
