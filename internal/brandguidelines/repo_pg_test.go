package brandguidelines

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// arrayConverter lets text[] arguments pass through sqlmock the way pgx accepts them.
type arrayConverter struct{}

func (arrayConverter) ConvertValue(v any) (driver.Value, error) {
	if s, ok := v.([]string); ok {
		return s, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(v)
}

func newMock(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(arrayConverter{}))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateWritesArrays(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectExec("INSERT INTO brand_guidelines").
		WithArgs("g-1", "user-1", "Acme", nil, []string{"#ff0000"}, []string{}, []string{"cheap"}, nil, now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), BrandGuideline{
		ID:         "g-1",
		UserID:     "user-1",
		Name:       "Acme",
		Colors:     []string{"#ff0000"},
		AvoidWords: []string{"cheap"},
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetScansArrays(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "voice", "colors", "keywords", "avoid_words", "logo_url", "created_at", "updated_at"}).
		AddRow("g-1", "user-1", "Acme", "bold", "{red,blue}", "{}", nil, nil, now, now)
	mock.ExpectQuery("SELECT id, user_id, name").WithArgs("g-1", "user-1").WillReturnRows(rows)

	g, err := repo.Get(context.Background(), "user-1", "g-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if g.Voice != "bold" || len(g.Colors) != 2 || g.Colors[1] != "blue" {
		t.Fatalf("unexpected guideline: %+v", g)
	}
	if g.AvoidWords == nil || len(g.AvoidWords) != 0 {
		t.Fatalf("expected empty avoid words, got %#v", g.AvoidWords)
	}
}

func TestPGRepoGetNotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("SELECT id, user_id, name").
		WithArgs("missing", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.Get(context.Background(), "user-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoDeleteMissingRow(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec("DELETE FROM brand_guidelines").
		WithArgs("g-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "user-1", "g-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
