package brandguidelines

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxListItems = 50

// Service contains brand guideline business logic.
type Service struct {
	Repo Repo
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) Create(ctx context.Context, userID string, in Input) (BrandGuideline, error) {
	if err := requireUser(userID); err != nil {
		return BrandGuideline{}, err
	}
	in, err := normalize(in)
	if err != nil {
		return BrandGuideline{}, err
	}
	now := s.now()
	g := BrandGuideline{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	apply(&g, in)
	if err := s.Repo.Create(ctx, g); err != nil {
		return BrandGuideline{}, err
	}
	return g, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (BrandGuideline, error) {
	if err := requireUser(userID); err != nil {
		return BrandGuideline{}, err
	}
	if strings.TrimSpace(id) == "" {
		return BrandGuideline{}, ErrNotFound
	}
	return s.Repo.Get(ctx, userID, id)
}

// Exists reports whether id names a guideline owned by userID.
func (s *Service) Exists(ctx context.Context, userID, id string) (bool, error) {
	_, err := s.Get(ctx, userID, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]BrandGuideline, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxListItems {
		limit = maxListItems
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.List(ctx, userID, limit, offset)
}

func (s *Service) Update(ctx context.Context, userID, id string, in Input) (BrandGuideline, error) {
	g, err := s.Get(ctx, userID, id)
	if err != nil {
		return BrandGuideline{}, err
	}
	in, err = normalize(in)
	if err != nil {
		return BrandGuideline{}, err
	}
	apply(&g, in)
	g.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, g); err != nil {
		return BrandGuideline{}, err
	}
	return g, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, userID, id)
}

func apply(g *BrandGuideline, in Input) {
	g.Name = in.Name
	g.Voice = in.Voice
	g.Colors = in.Colors
	g.Keywords = in.Keywords
	g.AvoidWords = in.AvoidWords
	g.LogoURL = in.LogoURL
}

func normalize(in Input) (Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return Input{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	in.Voice = strings.TrimSpace(in.Voice)
	in.LogoURL = strings.TrimSpace(in.LogoURL)
	in.Colors = cleanList(in.Colors)
	in.Keywords = cleanList(in.Keywords)
	in.AvoidWords = cleanList(in.AvoidWords)
	return in, nil
}

// cleanList trims entries and drops blanks and case-insensitive duplicates.
func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	return nil
}
