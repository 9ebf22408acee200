package analyzer

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestContextualSuggestions(t *testing.T) {
	cases := []struct {
		kind SuggestionContext
		want []string
	}{
		{kind: PreGeneration, want: []string{"Script Generator", "Style Transfer", "Character Consistency"}},
		{kind: PostGeneration, want: []string{"Performance Predictor", "Repurposing", "A/B Testing"}},
		{kind: CampaignPlanning, want: []string{"Campaign Builder", "Storyboard", "Analytics"}},
	}

	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			got, err := ContextualSuggestions(tc.kind)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, toolNames(got)); diff != "" {
				t.Fatalf("suggestions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestContextualSuggestionsAreStable(t *testing.T) {
	first, _ := ContextualSuggestions(PreGeneration)
	first[0].ToolName = "mutated"

	second, err := ContextualSuggestions(PreGeneration)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second[0].ToolName != "Script Generator" {
		t.Fatalf("expected caller mutation not to leak, got %q", second[0].ToolName)
	}
}

func TestContextualSuggestionsCoverEveryContext(t *testing.T) {
	for _, kind := range SuggestionContexts() {
		got, err := ContextualSuggestions(kind)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", kind, err)
		}
		if len(got) != 3 {
			t.Fatalf("%s: expected 3 suggestions, got %d", kind, len(got))
		}
	}
	if len(contextualSuggestions) != len(SuggestionContexts()) {
		t.Fatalf("suggestion table and context list disagree")
	}
}

func TestContextualSuggestionsZeroValue(t *testing.T) {
	if _, err := ContextualSuggestions(SuggestionContext{}); !errors.Is(err, ErrUnknownSuggestionContext) {
		t.Fatalf("expected ErrUnknownSuggestionContext, got %v", err)
	}
}

func TestParseSuggestionContext(t *testing.T) {
	got, err := ParseSuggestionContext(" Post-Generation ")
	if err != nil || got != PostGeneration {
		t.Fatalf("expected post-generation, got %v err=%v", got, err)
	}
	if _, err := ParseSuggestionContext("mid-generation"); !errors.Is(err, ErrUnknownSuggestionContext) {
		t.Fatalf("expected ErrUnknownSuggestionContext, got %v", err)
	}
}

func TestSuggestionContextJSON(t *testing.T) {
	var payload struct {
		Context SuggestionContext `json:"context"`
	}
	if err := json.Unmarshal([]byte(`{"context":"campaign-planning"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Context != CampaignPlanning {
		t.Fatalf("expected campaign-planning, got %v", payload.Context)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"context":"campaign-planning"}` {
		t.Fatalf("unexpected json %s", raw)
	}
	if err := json.Unmarshal([]byte(`{"context":"bogus"}`), &payload); err == nil {
		t.Fatalf("expected error for unknown context")
	}
}
