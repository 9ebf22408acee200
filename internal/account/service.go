package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"cameo-backend/internal/shared/storage/db"
)

// GuestClaimer reassigns a guest's records to a signed-in user.
type GuestClaimer interface {
	ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error)
}

// Claimers lists the repositories that hold guest-owned data. Usage counters
// stay with the guest.
type Claimers struct {
	Generations     GuestClaimer
	Campaigns       GuestClaimer
	BrandGuidelines GuestClaimer
	StylePresets    GuestClaimer
	Metrics         GuestClaimer
}

// ClaimResult reports how many records moved per resource.
type ClaimResult struct {
	MigratedGenerations     int `json:"migratedGenerations"`
	MigratedCampaigns       int `json:"migratedCampaigns"`
	MigratedBrandGuidelines int `json:"migratedBrandGuidelines"`
	MigratedStylePresets    int `json:"migratedStylePresets"`
	MigratedMetrics         int `json:"migratedMetrics"`
}

// Service moves guest data to an authenticated account. With a DB the move
// happens in one transaction; otherwise each repository is claimed in turn.
type Service struct {
	DB       *sql.DB
	Claimers Claimers
}

func NewService(db *sql.DB, claimers Claimers) *Service {
	return &Service{DB: db, Claimers: claimers}
}

func (s *Service) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (ClaimResult, error) {
	if strings.TrimSpace(guestUserID) == "" || strings.TrimSpace(authedUserID) == "" {
		return ClaimResult{}, errors.New("guestUserID and authedUserID are required")
	}
	if s.DB != nil {
		return claimWithTx(ctx, s.DB, guestUserID, authedUserID)
	}

	var res ClaimResult
	targets := []struct {
		name    string
		claimer GuestClaimer
		count   *int
	}{
		{"generations", s.Claimers.Generations, &res.MigratedGenerations},
		{"campaigns", s.Claimers.Campaigns, &res.MigratedCampaigns},
		{"brand guidelines", s.Claimers.BrandGuidelines, &res.MigratedBrandGuidelines},
		{"style presets", s.Claimers.StylePresets, &res.MigratedStylePresets},
		{"metrics", s.Claimers.Metrics, &res.MigratedMetrics},
	}
	for _, t := range targets {
		if t.claimer == nil {
			continue
		}
		n, err := t.claimer.ClaimGuest(ctx, guestUserID, authedUserID)
		if err != nil {
			return ClaimResult{}, fmt.Errorf("claim %s: %w", t.name, err)
		}
		*t.count = n
	}
	return res, nil
}

func claimWithTx(ctx context.Context, database *sql.DB, guestUserID, authedUserID string) (ClaimResult, error) {
	var res ClaimResult
	tables := []struct {
		table string
		count *int
	}{
		{"generations", &res.MigratedGenerations},
		{"campaigns", &res.MigratedCampaigns},
		{"brand_guidelines", &res.MigratedBrandGuidelines},
		{"style_presets", &res.MigratedStylePresets},
		{"performance_metrics", &res.MigratedMetrics},
	}
	err := db.WithTx(ctx, database, func(tx *sql.Tx) error {
		for _, t := range tables {
			result, err := tx.ExecContext(ctx, `UPDATE `+t.table+` SET user_id = $1 WHERE user_id = $2`, authedUserID, guestUserID)
			if err != nil {
				return fmt.Errorf("claim %s: %w", t.table, err)
			}
			n, _ := result.RowsAffected()
			*t.count = int(n)
		}
		return nil
	})
	if err != nil {
		return ClaimResult{}, err
	}
	return res, nil
}
