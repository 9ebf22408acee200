package campaigns

import "errors"

var (
	ErrNotFound     = errors.New("campaign not found")
	ErrInvalidInput = errors.New("invalid input")
)
