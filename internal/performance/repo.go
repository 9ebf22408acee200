package performance

import "context"

// Repo persists performance metrics.
type Repo interface {
	Create(ctx context.Context, m Metric) error
	List(ctx context.Context, userID string, f Filter, limit, offset int) ([]Metric, error)
	// All returns every metric matching f, newest first, for aggregation.
	All(ctx context.Context, userID string, f Filter) ([]Metric, error)
}
