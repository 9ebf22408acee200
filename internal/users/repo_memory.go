package users

import (
	"context"
	"sync"
	"time"

	"cameo-backend/internal/prompts/analyzer"
)

// MemoryRepo keeps users in a map for dev and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	users map[string]User
	now   func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: make(map[string]User), now: func() time.Time { return time.Now().UTC() }}
}

func (r *MemoryRepo) Upsert(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	user.CreatedAt = now
	if existing, ok := r.users[user.ID]; ok {
		user.CreatedAt = existing.CreatedAt
		user.DefaultPlatform = existing.DefaultPlatform
		user.DefaultCharacter = existing.DefaultCharacter
	}
	user.UpdatedAt = now
	r.users[user.ID] = user
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if user, ok := r.users[userID]; ok {
		return user, nil
	}
	return User{}, ErrNotFound
}

func (r *MemoryRepo) SetPreferences(ctx context.Context, userID string, prefs Preferences) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	user.DefaultPlatform = analyzer.Platform(prefs.DefaultPlatform)
	user.DefaultCharacter = prefs.DefaultCharacter
	user.UpdatedAt = r.now()
	r.users[userID] = user
	return user, nil
}
