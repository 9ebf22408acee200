package performance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"cameo-backend/internal/prompts/analyzer"
)

// Service records metrics and derives averages.
type Service struct {
	Repo Repo
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Record validates and stores a metric snapshot.
func (s *Service) Record(ctx context.Context, userID string, in Input) (Metric, error) {
	if strings.TrimSpace(userID) == "" {
		return Metric{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	platform, err := analyzer.ParsePlatform(in.Platform)
	if err != nil {
		return Metric{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if in.Views < 0 || in.Likes < 0 || in.Shares < 0 || in.Comments < 0 {
		return Metric{}, fmt.Errorf("%w: counts must not be negative", ErrInvalidInput)
	}
	generationID := strings.TrimSpace(in.GenerationID)
	campaignID := strings.TrimSpace(in.CampaignID)
	if generationID == "" && campaignID == "" {
		return Metric{}, fmt.Errorf("%w: generationId or campaignId is required", ErrInvalidInput)
	}

	recordedAt := s.now()
	if in.RecordedAt != nil {
		recordedAt = in.RecordedAt.UTC()
	}
	m := Metric{
		ID:           uuid.NewString(),
		UserID:       userID,
		GenerationID: generationID,
		CampaignID:   campaignID,
		Platform:     platform,
		Views:        in.Views,
		Likes:        in.Likes,
		Shares:       in.Shares,
		Comments:     in.Comments,
		RecordedAt:   recordedAt,
	}
	if err := s.Repo.Create(ctx, m); err != nil {
		return Metric{}, err
	}
	return m, nil
}

func (s *Service) List(ctx context.Context, userID string, f Filter, limit, offset int) ([]Metric, error) {
	return s.Repo.List(ctx, userID, f, limit, offset)
}

// Summary averages every metric matching f.
func (s *Service) Summary(ctx context.Context, userID string, f Filter) (Summary, error) {
	metrics, err := s.Repo.All(ctx, userID, f)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(metrics), nil
}
