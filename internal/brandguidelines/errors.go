package brandguidelines

import "errors"

var (
	ErrNotFound     = errors.New("brand guideline not found")
	ErrInvalidInput = errors.New("invalid input")
)
