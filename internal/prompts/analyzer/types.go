package analyzer

import (
	"fmt"
	"math"
	"strings"
)

// Intent is the inferred purpose category of a prompt.
type Intent string

const (
	IntentBusiness    Intent = "business"
	IntentCreative    Intent = "creative"
	IntentPersonal    Intent = "personal"
	IntentEducational Intent = "educational"
	IntentMarketing   Intent = "marketing"
)

// Complexity buckets prompts by word count.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// Priority ranks a tool recommendation.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Platform identifies a social or video platform detected in a prompt.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	PlatformFacebook  Platform = "facebook"
	PlatformTwitter   Platform = "twitter"
)

// platformTable is evaluated in order; detected platforms keep this order.
var platformTable = []struct {
	platform Platform
	keywords []string
}{
	{platform: PlatformInstagram, keywords: []string{"instagram", "insta", "reel"}},
	{platform: PlatformTikTok, keywords: []string{"tiktok", "tik tok"}},
	{platform: PlatformYouTube, keywords: []string{"youtube", "shorts"}},
	{platform: PlatformFacebook, keywords: []string{"facebook"}},
	{platform: PlatformTwitter, keywords: []string{"twitter", "x.com"}},
}

// Platforms returns every known platform in table order.
func Platforms() []Platform {
	out := make([]Platform, 0, len(platformTable))
	for _, entry := range platformTable {
		out = append(out, entry.platform)
	}
	return out
}

// ParsePlatform validates an externally supplied platform identifier.
func ParsePlatform(raw string) (Platform, error) {
	normalized := Platform(strings.ToLower(strings.TrimSpace(raw)))
	for _, entry := range platformTable {
		if entry.platform == normalized {
			return normalized, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, raw)
}

// ToolRecommendation suggests one auxiliary tool from the catalog.
type ToolRecommendation struct {
	ToolName string   `json:"toolName"`
	Reason   string   `json:"reason"`
	Priority Priority `json:"priority"`
	Icon     string   `json:"icon"`
	Tool     Tool     `json:"-"`
}

// Context carries optional caller context. Only the presence of
// BrandGuidelines affects analysis; its content is never inspected.
type Context struct {
	CharacterID     string   `json:"characterId,omitempty"`
	PreviousPrompts []string `json:"previousPrompts,omitempty"`
	BrandGuidelines any      `json:"brandGuidelines,omitempty"`
}

func (c *Context) hasBrandGuidelines() bool {
	if c == nil {
		return false
	}
	return truthy(c.BrandGuidelines)
}

// truthy treats empty scalars as absent so decoded JSON behaves like the web client.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case int:
		return t != 0
	case int64:
		return t != 0
	default:
		return true
	}
}

// Analysis is the result of analyzing one prompt.
type Analysis struct {
	Intent                Intent               `json:"intent"`
	Complexity            Complexity           `json:"complexity"`
	NeedsStructure        bool                 `json:"needsStructure"`
	Recommendations       []ToolRecommendation `json:"recommendations"`
	PerformanceScore      int                  `json:"performanceScore"`
	SuggestedImprovements []string             `json:"suggestedImprovements"`
	TargetPlatforms       []Platform           `json:"targetPlatforms"`
}

// Prediction estimates how a prompt will perform on a platform.
type Prediction struct {
	EngagementScore int       `json:"engagementScore"`
	ViralityScore   int       `json:"viralityScore"`
	QualityScore    int       `json:"qualityScore"`
	Insights        [3]string `json:"insights"`
}
