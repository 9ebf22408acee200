package account

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
)

func TestClaimGuestUsesTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	for i, table := range []string{"generations", "campaigns", "brand_guidelines", "style_presets", "performance_metrics"} {
		mock.ExpectExec(`UPDATE `+table+` SET user_id = \$1 WHERE user_id = \$2`).
			WithArgs("google:42", "guest:g").
			WillReturnResult(sqlmock.NewResult(0, int64(i+1)))
	}
	mock.ExpectCommit()

	got, err := NewService(db, Claimers{}).ClaimGuest(context.Background(), "guest:g", "google:42")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	want := ClaimResult{
		MigratedGenerations:     1,
		MigratedCampaigns:       2,
		MigratedBrandGuidelines: 3,
		MigratedStylePresets:    4,
		MigratedMetrics:         5,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestClaimGuestRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE generations`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE campaigns`).WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	if _, err := NewService(db, Claimers{}).ClaimGuest(context.Background(), "guest:g", "google:42"); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

type stubClaimer struct {
	n   int
	err error
}

func (s stubClaimer) ClaimGuest(context.Context, string, string) (int, error) { return s.n, s.err }

func TestClaimGuestWithoutDB(t *testing.T) {
	svc := NewService(nil, Claimers{
		Generations:  stubClaimer{n: 2},
		StylePresets: stubClaimer{n: 1},
	})
	got, err := svc.ClaimGuest(context.Background(), "guest:g", "google:42")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if got.MigratedGenerations != 2 || got.MigratedStylePresets != 1 || got.MigratedCampaigns != 0 {
		t.Fatalf("unexpected result %+v", got)
	}

	svc.Claimers.Campaigns = stubClaimer{err: errors.New("boom")}
	if _, err := svc.ClaimGuest(context.Background(), "guest:g", "google:42"); err == nil {
		t.Fatal("expected error from failing claimer")
	}
	if _, err := svc.ClaimGuest(context.Background(), "", "google:42"); err == nil {
		t.Fatal("expected error for empty guest id")
	}
}
