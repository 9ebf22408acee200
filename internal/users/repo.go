package users

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Repo persists creator accounts. Upsert refreshes the Google profile only;
// preferences are written through SetPreferences.
type Repo interface {
	Upsert(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	SetPreferences(ctx context.Context, userID string, prefs Preferences) (User, error)
}
