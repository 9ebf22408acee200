package performance

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"cameo-backend/internal/prompts/analyzer"
)

// PGRepo stores performance metrics in Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, m Metric) error {
	const query = `
INSERT INTO performance_metrics (id, user_id, generation_id, campaign_id, platform, views, likes, shares, comments, recorded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.DB.ExecContext(ctx, query,
		m.ID,
		m.UserID,
		nullableString(m.GenerationID),
		nullableString(m.CampaignID),
		string(m.Platform),
		m.Views,
		m.Likes,
		m.Shares,
		m.Comments,
		m.RecordedAt,
	)
	return err
}

func (r *PGRepo) List(ctx context.Context, userID string, f Filter, limit, offset int) ([]Metric, error) {
	where, args := filterClause(userID, f)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`
SELECT id, user_id, generation_id, campaign_id, platform, views, likes, shares, comments, recorded_at
FROM performance_metrics
WHERE %s
ORDER BY recorded_at DESC
LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))
	return r.query(ctx, query, args...)
}

func (r *PGRepo) All(ctx context.Context, userID string, f Filter) ([]Metric, error) {
	where, args := filterClause(userID, f)
	query := `
SELECT id, user_id, generation_id, campaign_id, platform, views, likes, shares, comments, recorded_at
FROM performance_metrics
WHERE ` + where + `
ORDER BY recorded_at DESC`
	return r.query(ctx, query, args...)
}

func (r *PGRepo) query(ctx context.Context, query string, args ...any) ([]Metric, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Metric, 0)
	for rows.Next() {
		var m Metric
		var generationID, campaignID sql.NullString
		var platform string
		if err := rows.Scan(&m.ID, &m.UserID, &generationID, &campaignID, &platform, &m.Views, &m.Likes, &m.Shares, &m.Comments, &m.RecordedAt); err != nil {
			return nil, err
		}
		m.GenerationID = generationID.String
		m.CampaignID = campaignID.String
		m.Platform = analyzer.Platform(platform)
		out = append(out, m)
	}
	return out, rows.Err()
}

func filterClause(userID string, f Filter) (string, []any) {
	clauses := []string{"user_id = $1"}
	args := []any{userID}
	if f.CampaignID != "" {
		args = append(args, f.CampaignID)
		clauses = append(clauses, fmt.Sprintf("campaign_id = $%d", len(args)))
	}
	if f.GenerationID != "" {
		args = append(args, f.GenerationID)
		clauses = append(clauses, fmt.Sprintf("generation_id = $%d", len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
