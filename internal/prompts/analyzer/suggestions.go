package analyzer

import (
	"fmt"
	"strings"
)

// SuggestionContext is the stage of the workflow asking for tool suggestions.
// Only the package-level values below exist; the zero value is rejected.
type SuggestionContext struct {
	key string
}

var (
	PreGeneration    = SuggestionContext{key: "pre-generation"}
	PostGeneration   = SuggestionContext{key: "post-generation"}
	CampaignPlanning = SuggestionContext{key: "campaign-planning"}
)

var contextualSuggestions = map[SuggestionContext][]ToolRecommendation{
	PreGeneration: {
		recommend(ToolScriptGenerator, PriorityHigh, "Structure your idea before generating"),
		recommend(ToolStyleTransfer, PriorityMedium, "Pick a visual style up front"),
		recommend(ToolCharacterConsistency, PriorityMedium, "Keep your character looking the same across videos"),
	},
	PostGeneration: {
		recommend(ToolPerformancePredictor, PriorityHigh, "Check expected performance before posting"),
		recommend(ToolRepurposing, PriorityHigh, "Resize and adapt the video for other platforms"),
		recommend(ToolABTesting, PriorityMedium, "Compare variations to find what works"),
	},
	CampaignPlanning: {
		recommend(ToolCampaignBuilder, PriorityHigh, "Organize videos into a campaign"),
		recommend(ToolStoryboard, PriorityHigh, "Plan the sequence of videos"),
		recommend(ToolAnalytics, PriorityMedium, "Track results across the campaign"),
	},
}

// SuggestionContexts returns every valid context.
func SuggestionContexts() []SuggestionContext {
	return []SuggestionContext{PreGeneration, PostGeneration, CampaignPlanning}
}

// ParseSuggestionContext validates an externally supplied context name.
func ParseSuggestionContext(raw string) (SuggestionContext, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	for _, c := range SuggestionContexts() {
		if c.key == key {
			return c, nil
		}
	}
	return SuggestionContext{}, fmt.Errorf("%w: %q", ErrUnknownSuggestionContext, raw)
}

func (c SuggestionContext) String() string {
	return c.key
}

// MarshalText encodes the context as its name.
func (c SuggestionContext) MarshalText() ([]byte, error) {
	if c.key == "" {
		return nil, ErrUnknownSuggestionContext
	}
	return []byte(c.key), nil
}

// UnmarshalText decodes a context name.
func (c *SuggestionContext) UnmarshalText(text []byte) error {
	parsed, err := ParseSuggestionContext(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ContextualSuggestions returns the fixed tool list for a workflow stage.
func ContextualSuggestions(kind SuggestionContext) ([]ToolRecommendation, error) {
	recs, ok := contextualSuggestions[kind]
	if !ok {
		return nil, ErrUnknownSuggestionContext
	}
	return append([]ToolRecommendation(nil), recs...), nil
}
