package generations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cameo-backend/internal/prompts/analyzer"
)

// PGRepo stores generations in Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, user_id, character_id, campaign_id, style_preset_id, prompt, effective_prompt, platform,
aspect_ratio, duration_seconds, status, analysis, video_uri, error_code, error_message, created_at, started_at, completed_at,
credits_charged, credit_resets_at`

func (r *PGRepo) Create(ctx context.Context, g Generation) error {
	analysisJSON, err := marshalAnalysis(g.Analysis)
	if err != nil {
		return err
	}
	const query = `
INSERT INTO generations (id, user_id, character_id, campaign_id, style_preset_id, prompt, effective_prompt, platform,
  aspect_ratio, duration_seconds, status, analysis, created_at, credits_charged, credit_resets_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::jsonb, $13, $14, $15)`
	_, err = r.DB.ExecContext(ctx, query,
		g.ID,
		g.UserID,
		nullableString(g.CharacterID),
		nullableString(g.CampaignID),
		nullableString(g.StylePresetID),
		g.Prompt,
		g.EffectivePrompt,
		nullableString(string(g.Platform)),
		g.AspectRatio,
		g.DurationSeconds,
		string(g.Status),
		analysisJSON,
		g.CreatedAt,
		g.CreditsCharged,
		nullableTime(g.CreditWindow),
	)
	return err
}

func (r *PGRepo) Get(ctx context.Context, userID, id string) (Generation, error) {
	query := `SELECT ` + selectColumns + ` FROM generations WHERE id = $1 AND user_id = $2`
	return requireRow(scanGeneration(r.DB.QueryRowContext(ctx, query, id, userID)))
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Generation, error) {
	query := `SELECT ` + selectColumns + ` FROM generations WHERE id = $1`
	return requireRow(scanGeneration(r.DB.QueryRowContext(ctx, query, id)))
}

func (r *PGRepo) List(ctx context.Context, userID string, limit, offset int) ([]Generation, error) {
	query := `SELECT ` + selectColumns + ` FROM generations
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Generation, 0)
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *PGRepo) MarkProcessing(ctx context.Context, id string, startedAt, staleBefore time.Time) (bool, error) {
	const query = `
UPDATE generations
SET status = $1, started_at = $2
WHERE id = $3 AND (status = $4 OR (status = $1 AND started_at < $5))`
	res, err := r.DB.ExecContext(ctx, query, string(StatusProcessing), startedAt, id, string(StatusQueued), staleBefore)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PGRepo) MarkCompleted(ctx context.Context, id, videoURI string, completedAt time.Time) error {
	const query = `
UPDATE generations
SET status = $1, video_uri = $2, error_code = NULL, error_message = NULL, completed_at = $3
WHERE id = $4`
	return r.exec(ctx, query, string(StatusCompleted), videoURI, completedAt, id)
}

func (r *PGRepo) MarkFailed(ctx context.Context, id, code, message string, completedAt time.Time) error {
	const query = `
UPDATE generations
SET status = $1, error_code = $2, error_message = $3, completed_at = $4
WHERE id = $5`
	return r.exec(ctx, query, string(StatusFailed), code, message, completedAt, id)
}

func (r *PGRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
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

func scanGeneration(row rowScanner) (Generation, error) {
	var (
		g                      Generation
		characterID            sql.NullString
		campaignID             sql.NullString
		stylePresetID          sql.NullString
		platform               sql.NullString
		videoURI               sql.NullString
		errCode                sql.NullString
		errMsg                 sql.NullString
		status                 string
		analysisRaw            []byte
		startedAt, completedAt sql.NullTime
		creditWindow           sql.NullTime
	)
	err := row.Scan(
		&g.ID,
		&g.UserID,
		&characterID,
		&campaignID,
		&stylePresetID,
		&g.Prompt,
		&g.EffectivePrompt,
		&platform,
		&g.AspectRatio,
		&g.DurationSeconds,
		&status,
		&analysisRaw,
		&videoURI,
		&errCode,
		&errMsg,
		&g.CreatedAt,
		&startedAt,
		&completedAt,
		&g.CreditsCharged,
		&creditWindow,
	)
	if err != nil {
		return Generation{}, err
	}
	g.CharacterID = characterID.String
	g.CampaignID = campaignID.String
	g.StylePresetID = stylePresetID.String
	g.Platform = analyzer.Platform(platform.String)
	g.Status = Status(status)
	g.VideoURI = videoURI.String
	g.ErrorCode = errCode.String
	g.ErrorMessage = errMsg.String
	if startedAt.Valid {
		t := startedAt.Time
		g.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		g.CompletedAt = &t
	}
	if creditWindow.Valid {
		t := creditWindow.Time
		g.CreditWindow = &t
	}
	if len(analysisRaw) > 0 {
		var a analyzer.Analysis
		if err := json.Unmarshal(analysisRaw, &a); err != nil {
			return Generation{}, fmt.Errorf("decode analysis: %w", err)
		}
		g.Analysis = &a
	}
	return g, nil
}

func requireRow(g Generation, err error) (Generation, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return Generation{}, ErrNotFound
	}
	return g, err
}

func marshalAnalysis(a *analyzer.Analysis) (any, error) {
	if a == nil {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode analysis: %w", err)
	}
	return b, nil
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
