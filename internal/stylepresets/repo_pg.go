package stylepresets

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo stores style presets in Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, user_id, name, description, prompt_suffix, aspect_ratio, duration_seconds, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, p StylePreset) error {
	const query = `
INSERT INTO style_presets (id, user_id, name, description, prompt_suffix, aspect_ratio, duration_seconds, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.Name,
		nullableString(p.Description),
		nullableString(p.PromptSuffix),
		p.AspectRatio,
		p.DurationSeconds,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PGRepo) Get(ctx context.Context, userID, id string) (StylePreset, error) {
	query := `SELECT ` + selectColumns + ` FROM style_presets WHERE id = $1 AND user_id = $2`
	p, err := scanPreset(r.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return StylePreset{}, ErrNotFound
		}
		return StylePreset{}, err
	}
	return p, nil
}

func (r *PGRepo) List(ctx context.Context, userID string, limit, offset int) ([]StylePreset, error) {
	query := `SELECT ` + selectColumns + ` FROM style_presets
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]StylePreset, 0)
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, p StylePreset) error {
	const query = `
UPDATE style_presets
SET name = $1, description = $2, prompt_suffix = $3, aspect_ratio = $4, duration_seconds = $5, updated_at = $6
WHERE id = $7 AND user_id = $8`
	res, err := r.DB.ExecContext(ctx, query,
		p.Name,
		nullableString(p.Description),
		nullableString(p.PromptSuffix),
		p.AspectRatio,
		p.DurationSeconds,
		p.UpdatedAt,
		p.ID,
		p.UserID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM style_presets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPreset(row rowScanner) (StylePreset, error) {
	var p StylePreset
	var description, suffix sql.NullString
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&description,
		&suffix,
		&p.AspectRatio,
		&p.DurationSeconds,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return StylePreset{}, err
	}
	p.Description = description.String
	p.PromptSuffix = suffix.String
	return p, nil
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
