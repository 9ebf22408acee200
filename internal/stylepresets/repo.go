package stylepresets

import "context"

// Repo persists style presets, scoped to the owning user.
type Repo interface {
	Create(ctx context.Context, p StylePreset) error
	Get(ctx context.Context, userID, id string) (StylePreset, error)
	List(ctx context.Context, userID string, limit, offset int) ([]StylePreset, error)
	Update(ctx context.Context, p StylePreset) error
	Delete(ctx context.Context, userID, id string) error
}
