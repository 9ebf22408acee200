package performance

import "errors"

var ErrInvalidInput = errors.New("invalid input")
