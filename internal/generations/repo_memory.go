package generations

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores generations in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Generation
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Generation)}
}

func (r *MemoryRepo) Create(ctx context.Context, g Generation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[g.ID] = g
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, id string) (Generation, error) {
	g, err := r.GetByID(ctx, id)
	if err != nil {
		return Generation{}, err
	}
	if g.UserID != userID {
		return Generation{}, ErrNotFound
	}
	return g, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Generation, error) {
	if err := ctx.Err(); err != nil {
		return Generation{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.byID[id]
	if !ok {
		return Generation{}, ErrNotFound
	}
	return g, nil
}

// List returns a user's generations newest first.
func (r *MemoryRepo) List(ctx context.Context, userID string, limit, offset int) ([]Generation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Generation, 0)
	for _, g := range r.byID {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return []Generation{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) MarkProcessing(ctx context.Context, id string, startedAt, staleBefore time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.byID[id]
	if !ok {
		return false, ErrNotFound
	}
	stale := g.Status == StatusProcessing && g.StartedAt != nil && g.StartedAt.Before(staleBefore)
	if g.Status != StatusQueued && !stale {
		return false, nil
	}
	g.Status = StatusProcessing
	g.StartedAt = &startedAt
	r.byID[id] = g
	return true, nil
}

func (r *MemoryRepo) MarkCompleted(ctx context.Context, id, videoURI string, completedAt time.Time) error {
	return r.update(ctx, id, func(g *Generation) {
		g.Status = StatusCompleted
		g.VideoURI = videoURI
		g.ErrorCode = ""
		g.ErrorMessage = ""
		g.CompletedAt = &completedAt
	})
}

func (r *MemoryRepo) MarkFailed(ctx context.Context, id, code, message string, completedAt time.Time) error {
	return r.update(ctx, id, func(g *Generation) {
		g.Status = StatusFailed
		g.ErrorCode = code
		g.ErrorMessage = message
		g.CompletedAt = &completedAt
	})
}

func (r *MemoryRepo) update(ctx context.Context, id string, fn func(*Generation)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	fn(&g)
	r.byID[id] = g
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
	for id, g := range r.byID {
		if g.UserID != guestUserID {
			continue
		}
		g.UserID = authedUserID
		r.byID[id] = g
		n++
	}
	return n, nil
}
