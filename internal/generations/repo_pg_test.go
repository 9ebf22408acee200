package generations

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"cameo-backend/internal/prompts/analyzer"
)

func newMock(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateStoresAnalysisJSON(t *testing.T) {
	repo, mock := newMock(t)
	analysis := analyzer.Analyze("a dog running", nil)
	window := time.Date(2026, time.March, 8, 12, 0, 0, 0, time.UTC)
	g := Generation{
		ID:              "gen-1",
		UserID:          "user-1",
		Prompt:          "a dog running",
		EffectivePrompt: "a dog running",
		AspectRatio:     "9:16",
		DurationSeconds: 8,
		Status:          StatusQueued,
		Analysis:        &analysis,
		CreatedAt:       time.Now().UTC(),
		CreditsCharged:  1,
		CreditWindow:    &window,
	}

	mock.ExpectExec("INSERT INTO generations").
		WithArgs(
			g.ID,
			g.UserID,
			nil, // character_id
			nil, // campaign_id
			nil, // style_preset_id
			g.Prompt,
			g.EffectivePrompt,
			nil, // platform
			g.AspectRatio,
			g.DurationSeconds,
			string(g.Status),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			1,
			window,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), g); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetDecodesRow(t *testing.T) {
	repo, mock := newMock(t)
	analysis := analyzer.Analyze("viral tiktok dance in the city", nil)
	raw, err := json.Marshal(analysis)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	created := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	started := created.Add(time.Second)
	window := created.Add(7 * 24 * time.Hour)

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "character_id", "campaign_id", "style_preset_id", "prompt", "effective_prompt", "platform",
		"aspect_ratio", "duration_seconds", "status", "analysis", "video_uri", "error_code", "error_message",
		"created_at", "started_at", "completed_at", "credits_charged", "credit_resets_at",
	}).AddRow(
		"gen-1", "user-1", "char-1", nil, nil, "p", "p, neon", "tiktok",
		"9:16", 8, "processing", raw, nil, nil, nil,
		created, started, nil, 1, window,
	)
	mock.ExpectQuery("SELECT (.+) FROM generations WHERE id = \\$1 AND user_id = \\$2").
		WithArgs("gen-1", "user-1").
		WillReturnRows(rows)

	g, err := repo.Get(context.Background(), "user-1", "gen-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if g.CharacterID != "char-1" || g.CampaignID != "" || g.Platform != analyzer.PlatformTikTok {
		t.Fatalf("unexpected generation: %+v", g)
	}
	if g.Status != StatusProcessing || g.StartedAt == nil || g.CompletedAt != nil {
		t.Fatalf("unexpected lifecycle fields: %+v", g)
	}
	if g.Analysis == nil || g.Analysis.Intent != analysis.Intent {
		t.Fatalf("expected analysis decoded, got %+v", g.Analysis)
	}
	if g.CreditsCharged != 1 || g.CreditWindow == nil || !g.CreditWindow.Equal(window) {
		t.Fatalf("expected credit window decoded, got %d %v", g.CreditsCharged, g.CreditWindow)
	}
}

func TestPGRepoGetNotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("SELECT (.+) FROM generations WHERE id = \\$1$").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoMarkProcessingReportsClaim(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()
	stale := now.Add(-staleProcessingAfter)

	mock.ExpectExec("UPDATE generations").
		WithArgs(string(StatusProcessing), now, "gen-1", string(StatusQueued), stale).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE generations").
		WithArgs(string(StatusProcessing), now, "gen-1", string(StatusQueued), stale).
		WillReturnResult(sqlmock.NewResult(0, 0))

	claimed, err := repo.MarkProcessing(context.Background(), "gen-1", now, stale)
	if err != nil || !claimed {
		t.Fatalf("expected claim, got %v %v", claimed, err)
	}
	claimed, err = repo.MarkProcessing(context.Background(), "gen-1", now, stale)
	if err != nil || claimed {
		t.Fatalf("expected no claim, got %v %v", claimed, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoMarkFailedMissingRow(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()
	mock.ExpectExec("UPDATE generations").
		WithArgs(string(StatusFailed), ErrorCodeVideoTimeout, "timed out", now, "gen-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.MarkFailed(context.Background(), "gen-1", ErrorCodeVideoTimeout, "timed out", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
