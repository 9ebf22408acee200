package stylepresets

import (
	"context"
	"errors"
	"testing"
)

func TestApply(t *testing.T) {
	cases := []struct {
		name   string
		prompt string
		suffix string
		want   string
	}{
		{"no suffix", "a dog running", "", "a dog running"},
		{"appends", "a dog running.", "cinematic lighting", "a dog running, cinematic lighting"},
		{"empty prompt", "  ", "anime style", "anime style"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := StylePreset{PromptSuffix: tc.suffix}.Apply(tc.prompt)
			if got != tc.want {
				t.Fatalf("Apply(%q) = %q, want %q", tc.prompt, got, tc.want)
			}
		})
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	p, err := svc.Create(context.Background(), "user-1", Input{Name: "Noir"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.AspectRatio != DefaultAspectRatio || p.DurationSeconds != DefaultDurationSeconds {
		t.Fatalf("expected defaults, got %+v", p)
	}
}

func TestCreateValidates(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	cases := []Input{
		{Name: ""},
		{Name: "x", AspectRatio: "4:3"},
		{Name: "x", DurationSeconds: 61},
		{Name: "x", DurationSeconds: -1},
	}
	for _, in := range cases {
		if _, err := svc.Create(context.Background(), "user-1", in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Create(%+v): expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestUpdateIsOwnerScoped(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())
	p, err := svc.Create(ctx, "owner", Input{Name: "Noir"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Update(ctx, "intruder", p.ID, Input{Name: "Mine"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	updated, err := svc.Update(ctx, "owner", p.ID, Input{Name: "Noir 2", AspectRatio: AspectSquare, DurationSeconds: 5})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.AspectRatio != AspectSquare || updated.DurationSeconds != 5 {
		t.Fatalf("unexpected update: %+v", updated)
	}
}
