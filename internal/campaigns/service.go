package campaigns

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"cameo-backend/internal/prompts/analyzer"
)

// GuidelineChecker confirms a brand guideline belongs to the caller.
type GuidelineChecker interface {
	Exists(ctx context.Context, userID, id string) (bool, error)
}

// Service contains campaign business logic.
type Service struct {
	Repo       Repo
	Guidelines GuidelineChecker
	now        func() time.Time
}

// NewService constructs a Service. guidelines may be nil, in which case
// brand guideline references are accepted without lookup.
func NewService(repo Repo, guidelines GuidelineChecker) *Service {
	return &Service{Repo: repo, Guidelines: guidelines, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) Create(ctx context.Context, userID string, in Input) (Campaign, error) {
	if strings.TrimSpace(userID) == "" {
		return Campaign{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	now := s.now()
	c := Campaign{ID: uuid.NewString(), UserID: userID, Status: StatusDraft, CreatedAt: now, UpdatedAt: now}
	if err := s.apply(ctx, &c, in); err != nil {
		return Campaign{}, err
	}
	if err := s.Repo.Create(ctx, c); err != nil {
		return Campaign{}, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (Campaign, error) {
	if strings.TrimSpace(id) == "" {
		return Campaign{}, ErrNotFound
	}
	return s.Repo.Get(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Campaign, error) {
	return s.Repo.List(ctx, userID, limit, offset)
}

func (s *Service) Update(ctx context.Context, userID, id string, in Input) (Campaign, error) {
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return Campaign{}, err
	}
	if err := s.apply(ctx, &c, in); err != nil {
		return Campaign{}, err
	}
	c.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, c); err != nil {
		return Campaign{}, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.Repo.Delete(ctx, userID, id)
}

// apply validates in and copies it onto c. An empty status keeps c's current status.
func (s *Service) apply(ctx context.Context, c *Campaign, in Input) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	platforms, err := parsePlatforms(in.TargetPlatforms)
	if err != nil {
		return err
	}

	status := c.Status
	if raw := strings.TrimSpace(in.Status); raw != "" {
		status = Status(strings.ToLower(raw))
		if !status.Valid() {
			return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, raw)
		}
	}

	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return fmt.Errorf("%w: endDate must not be before startDate", ErrInvalidInput)
	}

	guidelineID := strings.TrimSpace(in.BrandGuidelineID)
	if guidelineID != "" && s.Guidelines != nil {
		ok, err := s.Guidelines.Exists(ctx, c.UserID, guidelineID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: brand guideline %q not found", ErrInvalidInput, guidelineID)
		}
	}

	c.Name = name
	c.Description = strings.TrimSpace(in.Description)
	c.Objective = strings.TrimSpace(in.Objective)
	c.TargetPlatforms = platforms
	c.BrandGuidelineID = guidelineID
	c.Status = status
	c.StartDate = in.StartDate
	c.EndDate = in.EndDate
	return nil
}

// parsePlatforms validates platform identifiers and keeps first-seen order without duplicates.
func parsePlatforms(raw []string) ([]analyzer.Platform, error) {
	out := make([]analyzer.Platform, 0, len(raw))
	seen := make(map[analyzer.Platform]bool, len(raw))
	for _, r := range raw {
		p, err := analyzer.ParsePlatform(r)
		if err != nil {
			if errors.Is(err, analyzer.ErrUnknownPlatform) {
				return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			return nil, err
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out, nil
}
