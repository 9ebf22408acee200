package campaigns

import "context"

// Repo persists campaigns, scoped to the owning user.
type Repo interface {
	Create(ctx context.Context, c Campaign) error
	Get(ctx context.Context, userID, id string) (Campaign, error)
	List(ctx context.Context, userID string, limit, offset int) ([]Campaign, error)
	Update(ctx context.Context, c Campaign) error
	Delete(ctx context.Context, userID, id string) error
}
