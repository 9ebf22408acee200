package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"cameo-backend/internal/prompts/analyzer"
)

const maxCharacterLen = 80

var errNotConfigured = errors.New("users service not configured")

// Service contains creator account logic.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// UpsertFromAuth persists the identity returned by Google sign-in.
func (s *Service) UpsertFromAuth(ctx context.Context, user User) error {
	if s == nil || s.Repo == nil {
		return errNotConfigured
	}
	if strings.TrimSpace(user.ID) == "" || strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("%w: user id and email are required", ErrInvalidInput)
	}
	return s.Repo.Upsert(ctx, user)
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errNotConfigured
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID)
}

// UpdatePreferences replaces the creator defaults. Empty values clear them.
func (s *Service) UpdatePreferences(ctx context.Context, userID string, prefs Preferences) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errNotConfigured
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if raw := strings.TrimSpace(prefs.DefaultPlatform); raw != "" {
		p, err := analyzer.ParsePlatform(raw)
		if err != nil {
			return User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		prefs.DefaultPlatform = string(p)
	} else {
		prefs.DefaultPlatform = ""
	}
	prefs.DefaultCharacter = strings.TrimSpace(prefs.DefaultCharacter)
	if utf8.RuneCountInString(prefs.DefaultCharacter) > maxCharacterLen {
		return User{}, fmt.Errorf("%w: defaultCharacter must be at most %d characters", ErrInvalidInput, maxCharacterLen)
	}
	return s.Repo.SetPreferences(ctx, userID, prefs)
}
