package brandguidelines

import (
	"context"
	"database/sql"
	"errors"

	"cameo-backend/internal/shared/storage/db"
)

// PGRepo stores brand guidelines in Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, user_id, name, voice, colors, keywords, avoid_words, logo_url, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, g BrandGuideline) error {
	const query = `
INSERT INTO brand_guidelines (id, user_id, name, voice, colors, keywords, avoid_words, logo_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.DB.ExecContext(ctx, query,
		g.ID,
		g.UserID,
		g.Name,
		nullableString(g.Voice),
		db.NonNilStrings(g.Colors),
		db.NonNilStrings(g.Keywords),
		db.NonNilStrings(g.AvoidWords),
		nullableString(g.LogoURL),
		g.CreatedAt,
		g.UpdatedAt,
	)
	return err
}

func (r *PGRepo) Get(ctx context.Context, userID, id string) (BrandGuideline, error) {
	query := `SELECT ` + selectColumns + ` FROM brand_guidelines WHERE id = $1 AND user_id = $2`
	g, err := scanGuideline(r.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BrandGuideline{}, ErrNotFound
		}
		return BrandGuideline{}, err
	}
	return g, nil
}

func (r *PGRepo) List(ctx context.Context, userID string, limit, offset int) ([]BrandGuideline, error) {
	query := `SELECT ` + selectColumns + ` FROM brand_guidelines
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]BrandGuideline, 0)
	for rows.Next() {
		g, err := scanGuideline(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, g BrandGuideline) error {
	const query = `
UPDATE brand_guidelines
SET name = $1, voice = $2, colors = $3, keywords = $4, avoid_words = $5, logo_url = $6, updated_at = $7
WHERE id = $8 AND user_id = $9`
	res, err := r.DB.ExecContext(ctx, query,
		g.Name,
		nullableString(g.Voice),
		db.NonNilStrings(g.Colors),
		db.NonNilStrings(g.Keywords),
		db.NonNilStrings(g.AvoidWords),
		nullableString(g.LogoURL),
		g.UpdatedAt,
		g.ID,
		g.UserID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM brand_guidelines WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGuideline(row rowScanner) (BrandGuideline, error) {
	var g BrandGuideline
	var voice, logoURL sql.NullString
	err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.Name,
		&voice,
		db.StringArray(&g.Colors),
		db.StringArray(&g.Keywords),
		db.StringArray(&g.AvoidWords),
		&logoURL,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return BrandGuideline{}, err
	}
	g.Voice = voice.String
	g.LogoURL = logoURL.String
	return g, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
