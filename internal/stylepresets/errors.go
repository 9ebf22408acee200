package stylepresets

import "errors"

var (
	ErrNotFound     = errors.New("style preset not found")
	ErrInvalidInput = errors.New("invalid input")
)
