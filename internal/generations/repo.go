package generations

import (
	"context"
	"time"
)

// Repo defines persistence operations for generations.
type Repo interface {
	Create(ctx context.Context, g Generation) error
	// Get is owner-scoped; GetByID is used by workers.
	Get(ctx context.Context, userID, id string) (Generation, error)
	GetByID(ctx context.Context, id string) (Generation, error)
	List(ctx context.Context, userID string, limit, offset int) ([]Generation, error)
	// MarkProcessing claims a queued generation, or a processing one whose
	// start predates staleBefore. It reports false when nothing was claimed.
	MarkProcessing(ctx context.Context, id string, startedAt, staleBefore time.Time) (bool, error)
	MarkCompleted(ctx context.Context, id, videoURI string, completedAt time.Time) error
	MarkFailed(ctx context.Context, id, code, message string, completedAt time.Time) error
}
