package stylepresets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxSuffixLen = 500

// Service contains style preset business logic.
type Service struct {
	Repo Repo
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) Create(ctx context.Context, userID string, in Input) (StylePreset, error) {
	if strings.TrimSpace(userID) == "" {
		return StylePreset{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	in, err := normalize(in)
	if err != nil {
		return StylePreset{}, err
	}
	now := s.now()
	p := StylePreset{ID: uuid.NewString(), UserID: userID, CreatedAt: now, UpdatedAt: now}
	apply(&p, in)
	if err := s.Repo.Create(ctx, p); err != nil {
		return StylePreset{}, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (StylePreset, error) {
	if strings.TrimSpace(id) == "" {
		return StylePreset{}, ErrNotFound
	}
	return s.Repo.Get(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]StylePreset, error) {
	return s.Repo.List(ctx, userID, limit, offset)
}

func (s *Service) Update(ctx context.Context, userID, id string, in Input) (StylePreset, error) {
	p, err := s.Get(ctx, userID, id)
	if err != nil {
		return StylePreset{}, err
	}
	in, err = normalize(in)
	if err != nil {
		return StylePreset{}, err
	}
	apply(&p, in)
	p.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, p); err != nil {
		return StylePreset{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.Repo.Delete(ctx, userID, id)
}

func apply(p *StylePreset, in Input) {
	p.Name = in.Name
	p.Description = in.Description
	p.PromptSuffix = in.PromptSuffix
	p.AspectRatio = in.AspectRatio
	p.DurationSeconds = in.DurationSeconds
}

func normalize(in Input) (Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.PromptSuffix = strings.TrimSpace(in.PromptSuffix)
	in.AspectRatio = strings.TrimSpace(in.AspectRatio)

	if in.Name == "" {
		return Input{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(in.PromptSuffix) > maxSuffixLen {
		return Input{}, fmt.Errorf("%w: promptSuffix must be at most %d characters", ErrInvalidInput, maxSuffixLen)
	}
	if in.AspectRatio == "" {
		in.AspectRatio = DefaultAspectRatio
	}
	if !ValidAspectRatio(in.AspectRatio) {
		return Input{}, fmt.Errorf("%w: aspectRatio must be one of 9:16, 16:9, 1:1", ErrInvalidInput)
	}
	if in.DurationSeconds == 0 {
		in.DurationSeconds = DefaultDurationSeconds
	}
	if in.DurationSeconds < MinDurationSeconds || in.DurationSeconds > MaxDurationSeconds {
		return Input{}, fmt.Errorf("%w: durationSeconds must be between %d and %d", ErrInvalidInput, MinDurationSeconds, MaxDurationSeconds)
	}
	return in, nil
}
