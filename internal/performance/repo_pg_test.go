package performance

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoListBuildsFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "user_id", "generation_id", "campaign_id", "platform", "views", "likes", "shares", "comments", "recorded_at"}).
		AddRow("m-1", "user-1", nil, "c-1", "tiktok", 100, 5, 1, 0, now)
	mock.ExpectQuery(`WHERE user_id = \$1 AND campaign_id = \$2`).
		WithArgs("user-1", "c-1", 20, 0).
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	got, err := repo.List(context.Background(), "user-1", Filter{CampaignID: "c-1"}, 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].GenerationID != "" || got[0].Views != 100 {
		t.Fatalf("unexpected metrics: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	mock.ExpectExec("INSERT INTO performance_metrics").
		WithArgs("m-1", "user-1", "gen-1", nil, "youtube", int64(10), int64(1), int64(0), int64(0), now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := &PGRepo{DB: db}
	err = repo.Create(context.Background(), Metric{
		ID: "m-1", UserID: "user-1", GenerationID: "gen-1", Platform: "youtube", Views: 10, Likes: 1, RecordedAt: now,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
