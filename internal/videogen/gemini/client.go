package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"cameo-backend/internal/shared/telemetry"
	"cameo-backend/internal/videogen"
)

const (
	DefaultModel        = "veo-3.0-fast-generate-001"
	defaultPollInterval = 10 * time.Second
	defaultMaxWait      = 6 * time.Minute

	// google.rpc.Code INVALID_ARGUMENT, which Veo uses for prompts it refuses.
	codeInvalidArgument = 3
)

// operations is the subset of the genai SDK the client drives.
type operations interface {
	start(ctx context.Context, model, prompt string, cfg *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error)
	poll(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error)
}

type sdkOperations struct {
	client *genai.Client
}

func (s sdkOperations) start(ctx context.Context, model, prompt string, cfg *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error) {
	return s.client.Models.GenerateVideos(ctx, model, prompt, nil, cfg)
}

func (s sdkOperations) poll(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
	return s.client.Operations.GetVideosOperation(ctx, op, nil)
}

// Client generates videos with Veo through the Gemini API.
type Client struct {
	ops          operations
	model        string
	PollInterval time.Duration
	MaxWait      time.Duration
}

// New builds a Client. An empty apiKey yields videogen.ErrNotConfigured.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, videogen.ErrNotConfigured
	}
	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newClient(sdkOperations{client: sdk}, model), nil
}

func newClient(ops operations, model string) *Client {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &Client{
		ops:          ops,
		model:        model,
		PollInterval: defaultPollInterval,
		MaxWait:      defaultMaxWait,
	}
}

// Generate starts a long-running generation and polls until it completes.
func (c *Client) Generate(ctx context.Context, req videogen.Request) (videogen.Result, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return videogen.Result{}, fmt.Errorf("%w: empty prompt", videogen.ErrRejected)
	}
	if c.MaxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.MaxWait)
		defer cancel()
	}

	started := time.Now()
	op, err := c.ops.start(ctx, c.model, req.Prompt, buildConfig(req))
	if err != nil {
		return videogen.Result{}, wrapContextErr(ctx, fmt.Errorf("start video generation: %w", err))
	}
	telemetry.Info("videogen.started", map[string]any{"model": c.model, "operation": op.Name})

	ticker := time.NewTicker(c.PollInterval)
	defer ticker.Stop()
	for !op.Done {
		select {
		case <-ctx.Done():
			return videogen.Result{}, wrapContextErr(ctx, ctx.Err())
		case <-ticker.C:
		}
		op, err = c.ops.poll(ctx, op)
		if err != nil {
			return videogen.Result{}, wrapContextErr(ctx, fmt.Errorf("poll video operation: %w", err))
		}
	}

	result, err := c.resultFrom(op)
	if err != nil {
		return videogen.Result{}, err
	}
	telemetry.Info("videogen.completed", map[string]any{
		"model":       c.model,
		"operation":   op.Name,
		"duration_ms": time.Since(started).Milliseconds(),
	})
	return result, nil
}

func (c *Client) resultFrom(op *genai.GenerateVideosOperation) (videogen.Result, error) {
	if len(op.Error) > 0 {
		code := statusCode(op.Error)
		if code == codeInvalidArgument {
			return videogen.Result{}, fmt.Errorf("%w: %v", videogen.ErrRejected, op.Error["message"])
		}
		return videogen.Result{}, fmt.Errorf("%w: code %d: %v", videogen.ErrUnavailable, code, op.Error["message"])
	}
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 {
		reason := "no video returned"
		if op.Response != nil && len(op.Response.RAIMediaFilteredReasons) > 0 {
			reason = strings.Join(op.Response.RAIMediaFilteredReasons, "; ")
		}
		return videogen.Result{}, fmt.Errorf("%w: %s", videogen.ErrRejected, reason)
	}
	video := op.Response.GeneratedVideos[0].Video
	if video == nil || video.URI == "" {
		return videogen.Result{}, errors.New("generated video has no uri")
	}
	return videogen.Result{VideoURI: video.URI, MIMEType: video.MIMEType, Model: c.model}, nil
}

// statusCode reads the numeric code of a google.rpc.Status decoded into a map.
func statusCode(status map[string]any) int {
	switch v := status["code"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	default:
		return 0
	}
}

func buildConfig(req videogen.Request) *genai.GenerateVideosConfig {
	cfg := &genai.GenerateVideosConfig{
		NumberOfVideos: 1,
		AspectRatio:    req.AspectRatio,
		NegativePrompt: req.NegativePrompt,
	}
	if req.DurationSeconds > 0 {
		d := int32(req.DurationSeconds)
		cfg.DurationSeconds = &d
	}
	return cfg
}

func wrapContextErr(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", videogen.ErrTimeout, err)
	}
	return err
}
