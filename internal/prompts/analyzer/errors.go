package analyzer

import "errors"

var (
	ErrUnknownPlatform          = errors.New("unknown platform")
	ErrUnknownSuggestionContext = errors.New("unknown suggestion context")
)
