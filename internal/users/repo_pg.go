package users

import (
	"context"
	"database/sql"
	"errors"

	"cameo-backend/internal/prompts/analyzer"
)

// PGRepo stores users in Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, email, full_name, given_name, family_name, picture_url, default_platform, default_character, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) Upsert(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, full_name, given_name, family_name, picture_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  full_name = EXCLUDED.full_name,
  given_name = EXCLUDED.given_name,
  family_name = EXCLUDED.family_name,
  picture_url = EXCLUDED.picture_url,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		nullableString(user.FullName),
		nullableString(user.GivenName),
		nullableString(user.FamilyName),
		nullableString(user.PictureURL),
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	query := `SELECT ` + selectColumns + ` FROM users WHERE id = $1`
	return scanUser(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) SetPreferences(ctx context.Context, userID string, prefs Preferences) (User, error) {
	query := `
UPDATE users
SET default_platform = $1, default_character = $2, updated_at = now()
WHERE id = $3
RETURNING ` + selectColumns
	return scanUser(r.DB.QueryRowContext(ctx, query,
		nullableString(prefs.DefaultPlatform),
		nullableString(prefs.DefaultCharacter),
		userID,
	))
}

func scanUser(row rowScanner) (User, error) {
	var user User
	var fullName, givenName, familyName, pictureURL sql.NullString
	var defaultPlatform, defaultCharacter sql.NullString
	var updatedAt sql.NullTime
	err := row.Scan(
		&user.ID,
		&user.Email,
		&fullName,
		&givenName,
		&familyName,
		&pictureURL,
		&defaultPlatform,
		&defaultCharacter,
		&user.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.FullName = fullName.String
	user.GivenName = givenName.String
	user.FamilyName = familyName.String
	user.PictureURL = pictureURL.String
	user.DefaultPlatform = analyzer.Platform(defaultPlatform.String)
	user.DefaultCharacter = defaultCharacter.String
	user.UpdatedAt = user.CreatedAt
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	}
	return user, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
