package stylepresets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	repo := &PGRepo{DB: db}
	mock.ExpectExec("INSERT INTO style_presets").
		WithArgs("p-1", "user-1", "Noir", nil, "black and white", "9:16", 8, now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Create(context.Background(), StylePreset{
		ID: "p-1", UserID: "user-1", Name: "Noir", PromptSuffix: "black and white",
		AspectRatio: "9:16", DurationSeconds: 8, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListScansRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "description", "prompt_suffix", "aspect_ratio", "duration_seconds", "created_at", "updated_at"}).
		AddRow("p-1", "user-1", "Noir", nil, "black and white", "9:16", 8, now, now).
		AddRow("p-2", "user-1", "Pop", "bright", nil, "1:1", 4, now, now)
	mock.ExpectQuery("SELECT id, user_id, name").WithArgs("user-1", 20, 0).WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	got, err := repo.List(context.Background(), "user-1", 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].PromptSuffix != "black and white" || got[1].Description != "bright" {
		t.Fatalf("unexpected presets: %+v", got)
	}
}

func TestPGRepoUpdateMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("UPDATE style_presets").WillReturnResult(sqlmock.NewResult(0, 0))
	repo := &PGRepo{DB: db}
	if err := repo.Update(context.Background(), StylePreset{ID: "p-1", UserID: "user-1"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
