package campaigns

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cameo-backend/internal/prompts/analyzer"
	"cameo-backend/internal/shared/storage/db"
)

// PGRepo stores campaigns in Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, user_id, name, description, objective, target_platforms, brand_guideline_id, status, start_date, end_date, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, c Campaign) error {
	const query = `
INSERT INTO campaigns (id, user_id, name, description, objective, target_platforms, brand_guideline_id, status, start_date, end_date, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.DB.ExecContext(ctx, query,
		c.ID,
		c.UserID,
		c.Name,
		nullableString(c.Description),
		nullableString(c.Objective),
		platformStrings(c.TargetPlatforms),
		nullableString(c.BrandGuidelineID),
		string(c.Status),
		nullableTime(c.StartDate),
		nullableTime(c.EndDate),
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func (r *PGRepo) Get(ctx context.Context, userID, id string) (Campaign, error) {
	query := `SELECT ` + selectColumns + ` FROM campaigns WHERE id = $1 AND user_id = $2`
	c, err := scanCampaign(r.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Campaign{}, ErrNotFound
		}
		return Campaign{}, err
	}
	return c, nil
}

func (r *PGRepo) List(ctx context.Context, userID string, limit, offset int) ([]Campaign, error) {
	query := `SELECT ` + selectColumns + ` FROM campaigns
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Campaign, 0)
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, c Campaign) error {
	const query = `
UPDATE campaigns
SET name = $1, description = $2, objective = $3, target_platforms = $4, brand_guideline_id = $5,
    status = $6, start_date = $7, end_date = $8, updated_at = $9
WHERE id = $10 AND user_id = $11`
	res, err := r.DB.ExecContext(ctx, query,
		c.Name,
		nullableString(c.Description),
		nullableString(c.Objective),
		platformStrings(c.TargetPlatforms),
		nullableString(c.BrandGuidelineID),
		string(c.Status),
		nullableTime(c.StartDate),
		nullableTime(c.EndDate),
		c.UpdatedAt,
		c.ID,
		c.UserID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM campaigns WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (Campaign, error) {
	var c Campaign
	var description, objective, guidelineID sql.NullString
	var status string
	var platforms []string
	var start, end sql.NullTime
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&description,
		&objective,
		db.StringArray(&platforms),
		&guidelineID,
		&status,
		&start,
		&end,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return Campaign{}, err
	}
	c.Description = description.String
	c.Objective = objective.String
	c.BrandGuidelineID = guidelineID.String
	c.Status = Status(status)
	c.TargetPlatforms = make([]analyzer.Platform, 0, len(platforms))
	for _, p := range platforms {
		c.TargetPlatforms = append(c.TargetPlatforms, analyzer.Platform(p))
	}
	if start.Valid {
		t := start.Time
		c.StartDate = &t
	}
	if end.Valid {
		t := end.Time
		c.EndDate = &t
	}
	return c, nil
}

func platformStrings(platforms []analyzer.Platform) []string {
	out := make([]string, 0, len(platforms))
	for _, p := range platforms {
		out = append(out, string(p))
	}
	return out
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
