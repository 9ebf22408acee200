package videogen

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured is returned when no video provider credentials are set.
	ErrNotConfigured = errors.New("video provider not configured")
	// ErrTimeout is returned when the provider does not finish before the deadline.
	ErrTimeout = errors.New("video generation timed out")
	// ErrRejected is returned when the provider refuses the prompt or filters every output.
	ErrRejected = errors.New("video generation rejected")
	// ErrUnavailable is returned when the provider fails on its side, for
	// example an internal error or exhausted quota.
	ErrUnavailable = errors.New("video provider unavailable")
)

// Request describes one video to render.
type Request struct {
	Prompt          string
	NegativePrompt  string
	AspectRatio     string
	DurationSeconds int
}

// Result points at the rendered video.
type Result struct {
	VideoURI string
	MIMEType string
	Model    string
}

// Client renders videos from text prompts. Implementations block until the
// video is ready, the context is done, or the provider fails.
type Client interface {
	Generate(ctx context.Context, req Request) (Result, error)
}

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

func (PlaceholderClient) Generate(context.Context, Request) (Result, error) {
	return Result{}, ErrNotConfigured
}
