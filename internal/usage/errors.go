package usage

import "errors"

var (
	// ErrLimitReached means the window has too few credits left for the request.
	ErrLimitReached = errors.New("limit reached")
	errNoStore      = errors.New("usage store not configured")
)
