package brandguidelines

import "context"

// Repo persists brand guidelines. Every lookup is scoped to the owning user.
type Repo interface {
	Create(ctx context.Context, g BrandGuideline) error
	Get(ctx context.Context, userID, id string) (BrandGuideline, error)
	List(ctx context.Context, userID string, limit, offset int) ([]BrandGuideline, error)
	Update(ctx context.Context, g BrandGuideline) error
	Delete(ctx context.Context, userID, id string) error
}
