package generations

import "errors"

var (
	ErrNotFound     = errors.New("generation not found")
	ErrInvalidInput = errors.New("invalid generation input")
)

const (
	ErrorCodeVideoTimeout     = "VIDEO_TIMEOUT"
	ErrorCodeVideoRejected    = "VIDEO_REJECTED"
	ErrorCodeVideoUnavailable = "VIDEO_UNAVAILABLE"
	ErrorCodeInternal         = "INTERNAL_ERROR"
)
