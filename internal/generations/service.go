package generations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"cameo-backend/internal/campaigns"
	"cameo-backend/internal/prompts/analyzer"
	"cameo-backend/internal/queue"
	"cameo-backend/internal/shared/metrics"
	"cameo-backend/internal/shared/telemetry"
	"cameo-backend/internal/stylepresets"
	"cameo-backend/internal/usage"
	"cameo-backend/internal/videogen"
)

const (
	maxPromptLen = 4000
	// A processing generation older than this is assumed abandoned by its worker.
	staleProcessingAfter = 15 * time.Minute
)

// PresetLookup resolves an owner-scoped style preset.
type PresetLookup interface {
	Get(ctx context.Context, userID, id string) (stylepresets.StylePreset, error)
}

// CampaignLookup resolves an owner-scoped campaign.
type CampaignLookup interface {
	Get(ctx context.Context, userID, id string) (campaigns.Campaign, error)
}

// UsageMeter consumes and refunds generation credits. Refund only applies
// while window is still the caller's current usage window.
type UsageMeter interface {
	Consume(ctx context.Context, userID string, n int) (usage.Usage, error)
	Refund(ctx context.Context, userID string, n int, window time.Time) (usage.Usage, error)
}

// Service contains generation business logic. Presets, Campaigns, Usage and
// Queue are optional; with no Queue, generations render in-process.
type Service struct {
	Repo       Repo
	Video      videogen.Client
	Presets    PresetLookup
	Campaigns  CampaignLookup
	Usage      UsageMeter
	Queue      queue.Client
	CreditCost int

	now func() time.Time
	// async runs in-process processing; tests replace it to run synchronously.
	async func(func())
}

// NewService constructs a Service with the required repository and video client.
func NewService(repo Repo, video videogen.Client) *Service {
	if video == nil {
		video = videogen.PlaceholderClient{}
	}
	return &Service{
		Repo:       repo,
		Video:      video,
		CreditCost: 1,
		now:        func() time.Time { return time.Now().UTC() },
		async:      func(fn func()) { go fn() },
	}
}

// Create validates the request, charges credits, persists a queued
// generation and dispatches it to the queue or to an in-process goroutine.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Generation, error) {
	if strings.TrimSpace(userID) == "" {
		return Generation{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	g, err := s.build(ctx, userID, in)
	if err != nil {
		return Generation{}, err
	}

	if err := s.charge(ctx, &g); err != nil {
		return Generation{}, err
	}
	if err := s.Repo.Create(ctx, g); err != nil {
		s.refund(ctx, g, err)
		return Generation{}, err
	}

	telemetry.Info("generation.status", map[string]any{
		"request_id":    requestIDFromContext(ctx),
		"user_id":       userID,
		"generation_id": g.ID,
		"status":        StatusQueued,
		"intent":        g.Analysis.Intent,
		"score":         g.Analysis.PerformanceScore,
	})
	s.dispatch(ctx, g.ID)
	return g, nil
}

// charge takes the generation's credits and records which window paid for them.
func (s *Service) charge(ctx context.Context, g *Generation) error {
	if s.Usage == nil || s.CreditCost <= 0 {
		return nil
	}
	u, err := s.Usage.Consume(ctx, g.UserID, s.CreditCost)
	if err != nil {
		return err
	}
	window := u.ResetsAt
	g.CreditsCharged = s.CreditCost
	g.CreditWindow = &window
	return nil
}

func (s *Service) build(ctx context.Context, userID string, in CreateInput) (Generation, error) {
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return Generation{}, fmt.Errorf("%w: prompt is required", ErrInvalidInput)
	}
	if len(prompt) > maxPromptLen {
		return Generation{}, fmt.Errorf("%w: prompt exceeds %d characters", ErrInvalidInput, maxPromptLen)
	}

	g := Generation{
		ID:              uuid.NewString(),
		UserID:          userID,
		CharacterID:     strings.TrimSpace(in.CharacterID),
		Prompt:          prompt,
		EffectivePrompt: prompt,
		AspectRatio:     strings.TrimSpace(in.AspectRatio),
		DurationSeconds: in.DurationSeconds,
		Status:          StatusQueued,
		CreatedAt:       s.now(),
	}

	if raw := strings.TrimSpace(in.Platform); raw != "" {
		p, err := analyzer.ParsePlatform(raw)
		if err != nil {
			return Generation{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		g.Platform = p
	}

	actx := &analyzer.Context{CharacterID: g.CharacterID}
	if id := strings.TrimSpace(in.CampaignID); id != "" {
		if s.Campaigns == nil {
			return Generation{}, fmt.Errorf("%w: campaigns are not available", ErrInvalidInput)
		}
		c, err := s.Campaigns.Get(ctx, userID, id)
		if errors.Is(err, campaigns.ErrNotFound) {
			return Generation{}, fmt.Errorf("%w: campaign not found", ErrInvalidInput)
		}
		if err != nil {
			return Generation{}, err
		}
		g.CampaignID = c.ID
		if c.BrandGuidelineID != "" {
			actx.BrandGuidelines = c.BrandGuidelineID
		}
		if g.Platform == "" && len(c.TargetPlatforms) > 0 {
			g.Platform = c.TargetPlatforms[0]
		}
	}

	if id := strings.TrimSpace(in.StylePresetID); id != "" {
		if s.Presets == nil {
			return Generation{}, fmt.Errorf("%w: style presets are not available", ErrInvalidInput)
		}
		p, err := s.Presets.Get(ctx, userID, id)
		if errors.Is(err, stylepresets.ErrNotFound) {
			return Generation{}, fmt.Errorf("%w: style preset not found", ErrInvalidInput)
		}
		if err != nil {
			return Generation{}, err
		}
		g.StylePresetID = p.ID
		g.EffectivePrompt = p.Apply(prompt)
		if g.AspectRatio == "" {
			g.AspectRatio = p.AspectRatio
		}
		if g.DurationSeconds == 0 {
			g.DurationSeconds = p.DurationSeconds
		}
	}

	if g.AspectRatio == "" {
		g.AspectRatio = stylepresets.DefaultAspectRatio
	}
	if !stylepresets.ValidAspectRatio(g.AspectRatio) {
		return Generation{}, fmt.Errorf("%w: unsupported aspect ratio %q", ErrInvalidInput, g.AspectRatio)
	}
	if g.DurationSeconds == 0 {
		g.DurationSeconds = stylepresets.DefaultDurationSeconds
	}
	if g.DurationSeconds < stylepresets.MinDurationSeconds || g.DurationSeconds > stylepresets.MaxDurationSeconds {
		return Generation{}, fmt.Errorf("%w: duration must be between %d and %d seconds", ErrInvalidInput, stylepresets.MinDurationSeconds, stylepresets.MaxDurationSeconds)
	}

	analysis := analyzer.Analyze(prompt, actx)
	g.Analysis = &analysis
	return g, nil
}

func (s *Service) dispatch(ctx context.Context, id string) {
	if s.Queue != nil {
		msg := queue.NewMessage(id, requestIDFromContext(ctx), s.now())
		err := s.Queue.Send(ctx, msg)
		if err == nil {
			return
		}
		telemetry.Warn("generation.enqueue_failed", map[string]any{
			"request_id":    msg.RequestID,
			"generation_id": id,
			"error":         err.Error(),
		})
	}
	bg := backgroundWithRequestID(ctx)
	s.async(func() { s.completeAsync(bg, id) })
}

// Get returns an owner-scoped generation.
func (s *Service) Get(ctx context.Context, userID, id string) (Generation, error) {
	if strings.TrimSpace(id) == "" {
		return Generation{}, ErrNotFound
	}
	return s.Repo.Get(ctx, userID, id)
}

// List returns a user's generations newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Generation, error) {
	return s.Repo.List(ctx, userID, limit, offset)
}

func (s *Service) completeAsync(ctx context.Context, id string) {
	defer func() {
		if r := recover(); r != nil {
			telemetry.Error("generation.panic", map[string]any{"generation_id": id, "panic": fmt.Sprint(r)})
			s.fail(ctx, Generation{ID: id}, fmt.Errorf("panic: %v", r), nil)
		}
	}()
	if err := s.ProcessGeneration(ctx, id); err != nil {
		telemetry.Error("generation.process_failed", map[string]any{
			"request_id":    requestIDFromContext(ctx),
			"generation_id": id,
			"error":         err.Error(),
		})
	}
}

// ProcessGeneration renders a queued generation and records the outcome.
// Terminal or already-claimed generations are left untouched. Errors are
// returned only when the outcome could not be recorded, so callers may retry.
func (s *Service) ProcessGeneration(ctx context.Context, id string) error {
	g, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if g.Status.Terminal() {
		telemetry.Info("generation.skip_terminal", map[string]any{
			"request_id":    requestIDFromContext(ctx),
			"generation_id": id,
			"status":        g.Status,
		})
		return nil
	}

	startedAt := s.now()
	claimed, err := s.Repo.MarkProcessing(ctx, id, startedAt, startedAt.Add(-staleProcessingAfter))
	if err != nil {
		return fmt.Errorf("set processing: %w", err)
	}
	if !claimed {
		return nil
	}
	metrics.IncGenerationStarted()
	telemetry.Info("generation.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           g.UserID,
		"generation_id":     id,
		"status":            StatusProcessing,
		"status_transition": string(g.Status) + "->processing",
	})

	res, err := s.Video.Generate(ctx, videogen.Request{
		Prompt:          g.EffectivePrompt,
		AspectRatio:     g.AspectRatio,
		DurationSeconds: g.DurationSeconds,
	})
	if err != nil {
		if ferr := s.fail(ctx, g, err, &startedAt); ferr != nil {
			return ferr
		}
		s.refund(ctx, g, err)
		return nil
	}

	completedAt := s.now()
	if err := s.Repo.MarkCompleted(ctx, id, res.VideoURI, completedAt); err != nil {
		return fmt.Errorf("set completed: %w", err)
	}
	metrics.IncGenerationCompleted()
	metrics.ObserveGenerationDurationMs(durationMs(startedAt, completedAt))
	telemetry.Info("generation.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           g.UserID,
		"generation_id":     id,
		"status":            StatusCompleted,
		"status_transition": "processing->completed",
		"duration_ms":       durationMs(startedAt, completedAt),
		"model":             res.Model,
	})
	return nil
}

func (s *Service) fail(ctx context.Context, g Generation, cause error, startedAt *time.Time) error {
	code := classifyFailure(cause)
	msg := sanitizeError(cause)
	completedAt := s.now()
	// The request context may already be done; the failure must still be recorded.
	if err := s.Repo.MarkFailed(context.WithoutCancel(ctx), g.ID, code, msg, completedAt); err != nil {
		telemetry.Error("generation.fail_update_failed", map[string]any{
			"generation_id": g.ID,
			"error":         err.Error(),
			"cause":         msg,
		})
		return fmt.Errorf("set failed: %w", err)
	}
	metrics.IncGenerationFailed()
	fields := map[string]any{
		"request_id":    requestIDFromContext(ctx),
		"user_id":       g.UserID,
		"generation_id": g.ID,
		"status":        StatusFailed,
		"error_code":    code,
		"error":         msg,
	}
	if startedAt != nil {
		metrics.ObserveGenerationDurationMs(durationMs(*startedAt, completedAt))
		fields["status_transition"] = "processing->failed"
		fields["duration_ms"] = durationMs(*startedAt, completedAt)
	}
	telemetry.Error("generation.status", fields)
	return nil
}

// refund returns the credits for a render the provider could not produce.
// Content rejections keep the charge.
func (s *Service) refund(ctx context.Context, g Generation, cause error) {
	if s.Usage == nil || g.UserID == "" || g.CreditsCharged <= 0 || g.CreditWindow == nil {
		return
	}
	if errors.Is(cause, videogen.ErrRejected) {
		return
	}
	u, err := s.Usage.Refund(context.WithoutCancel(ctx), g.UserID, g.CreditsCharged, *g.CreditWindow)
	if err != nil {
		telemetry.Error("generation.refund_failed", map[string]any{
			"generation_id": g.ID,
			"user_id":       g.UserID,
			"error":         err.Error(),
		})
		return
	}
	telemetry.Info("generation.credit_refunded", map[string]any{
		"request_id":    requestIDFromContext(ctx),
		"generation_id": g.ID,
		"user_id":       g.UserID,
		"remaining":     u.Remaining(),
	})
}

func classifyFailure(err error) string {
	switch {
	case err == nil:
		return ErrorCodeInternal
	case errors.Is(err, videogen.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return ErrorCodeVideoTimeout
	case errors.Is(err, videogen.ErrRejected):
		return ErrorCodeVideoRejected
	case errors.Is(err, videogen.ErrUnavailable):
		return ErrorCodeVideoUnavailable
	default:
		return ErrorCodeInternal
	}
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut]
	}
	return msg
}

func durationMs(startedAt, completedAt time.Time) float64 {
	return float64(completedAt.Sub(startedAt).Microseconds()) / 1000.0
}
