package usage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cameo-backend/internal/shared/storage/db"
)

// PGStore keeps one usage row per user. Reads and writes lock the row so
// concurrent generations cannot overspend a window.
type PGStore struct {
	DB     *sql.DB
	policy Policy
	now    func() time.Time
}

func NewPGStore(database *sql.DB, policy Policy) *PGStore {
	return &PGStore{DB: database, policy: policy.normalized(), now: pgNow}
}

func (s *PGStore) EnsurePeriod(ctx context.Context, userID string) (Usage, error) {
	var u Usage
	err := db.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		var err error
		u, err = s.lockAndEnsure(ctx, tx, userID)
		return err
	})
	if err != nil {
		return Usage{}, err
	}
	return u, nil
}

func (s *PGStore) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	if n <= 0 {
		return s.EnsurePeriod(ctx, userID)
	}
	var u Usage
	err := db.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		var err error
		if u, err = s.lockAndEnsure(ctx, tx, userID); err != nil {
			return err
		}
		if u.Used+n > u.Limit {
			return ErrLimitReached
		}
		u.Used += n
		_, err = tx.ExecContext(ctx, `UPDATE usage SET used = $1 WHERE user_id = $2`, u.Used, userID)
		return err
	})
	if err != nil {
		return Usage{}, err
	}
	return u, nil
}

func (s *PGStore) Refund(ctx context.Context, userID string, n int, window time.Time) (Usage, error) {
	var u Usage
	err := s.DB.QueryRowContext(ctx, `
UPDATE usage SET used = GREATEST(used - $1, 0)
WHERE user_id = $2 AND resets_at = $3 AND resets_at > $4
RETURNING plan, limit_amount, used, resets_at`, n, userID, window, s.now()).
		Scan(&u.Plan, &u.Limit, &u.Used, &u.ResetsAt)
	if errors.Is(err, sql.ErrNoRows) {
		// The charged window is gone or expired; nothing to give back.
		return s.EnsurePeriod(ctx, userID)
	}
	if err != nil {
		return Usage{}, err
	}
	return u, nil
}

func (s *PGStore) Reset(ctx context.Context, userID string) (Usage, error) {
	u := s.policy.fresh(s.now())
	if _, err := s.DB.ExecContext(ctx, `
INSERT INTO usage (user_id, plan, limit_amount, used, resets_at)
VALUES ($1, $2, $3, 0, $4)
ON CONFLICT (user_id) DO UPDATE SET used = 0, resets_at = EXCLUDED.resets_at`,
		userID, u.Plan, u.Limit, u.ResetsAt); err != nil {
		return Usage{}, err
	}
	return u, nil
}

// pgNow matches timestamptz precision so a ResetsAt handed out by Consume
// compares equal to the stored column.
func pgNow() time.Time {
	return utcNow().Truncate(time.Microsecond)
}

// lockAndEnsure reads the row FOR UPDATE, inserting policy defaults for new
// users and rolling over an expired window.
func (s *PGStore) lockAndEnsure(ctx context.Context, tx *sql.Tx, userID string) (Usage, error) {
	var u Usage
	err := tx.QueryRowContext(ctx, `
SELECT plan, limit_amount, used, resets_at FROM usage WHERE user_id = $1 FOR UPDATE`, userID).
		Scan(&u.Plan, &u.Limit, &u.Used, &u.ResetsAt)
	now := s.now()
	switch {
	case errors.Is(err, sql.ErrNoRows):
		u = s.policy.fresh(now)
		_, err = tx.ExecContext(ctx, `
INSERT INTO usage (user_id, plan, limit_amount, used, resets_at) VALUES ($1, $2, $3, $4, $5)`,
			userID, u.Plan, u.Limit, u.Used, u.ResetsAt)
		return u, err
	case err != nil:
		return Usage{}, err
	}

	if u.expired(now) {
		u.Used = 0
		u.ResetsAt = now.Add(s.policy.Window)
		if _, err := tx.ExecContext(ctx, `UPDATE usage SET used = $1, resets_at = $2 WHERE user_id = $3`, u.Used, u.ResetsAt, userID); err != nil {
			return Usage{}, err
		}
	}
	return u, nil
}
