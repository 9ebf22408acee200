// Package analyzer scores free-text video prompts, infers their intent and
// complexity, detects target platforms, and recommends follow-on tools.
//
// Everything here is a pure function of its input: no I/O, no shared state.
package analyzer

import (
	"regexp"
	"strings"
)

const (
	maxRecommendations = 3
	maxScore           = 100

	improvementMoreDetail = "Add more detail about the scene, setting, and action"
	improvementCharacter  = "Specify character actions and expressions"
	improvementLocation   = "Include location or setting details"
	improvementScript     = "Use the Script Generator to create a more detailed prompt"
)

// Keyword matching is plain substring containment on the lowercased prompt.
var intentKeywords = map[Intent][]string{
	IntentBusiness:    {"sales", "marketing", "product", "brand", "campaign", "business", "launch", "promote", "advertise"},
	IntentCreative:    {"art", "beautiful", "stunning", "creative", "artistic", "aesthetic"},
	IntentEducational: {"teach", "learn", "explain", "tutorial", "how to", "guide"},
	IntentMarketing:   {"audience", "engagement", "viral", "trending", "conversion", "roi"},
}

var (
	styleKeywords      = []string{"style", "look", "aesthetic"}
	sequenceKeywords   = []string{"sequence", "series", "steps"}
	competitorKeywords = []string{"competitor", "similar to", "like"}

	characterWords = regexp.MustCompile(`\b(character|person|subject)\b`)
	locationWords  = regexp.MustCompile(`\b(in|at|near|inside|outside)\b`)
)

// signals are the facts extracted from one prompt that the rules consume.
type signals struct {
	lower          string
	words          int
	matched        map[Intent]bool
	intent         Intent
	complexity     Complexity
	needsStructure bool
	hasGuidelines  bool
	platforms      []Platform
}

// recommendationRules run in this order; the cap keeps only the first entries.
var recommendationRules = []func(signals) []ToolRecommendation{
	fromIntent,
	fromStructure,
	fromBrandGuidelines,
	fromPlatforms,
	fromStyle,
	fromSequence,
	fromCompetitors,
}

// Analyze classifies a prompt and builds tool recommendations. It never fails:
// blank prompts yield a fixed default analysis.
func Analyze(prompt string, ctx *Context) Analysis {
	if strings.TrimSpace(prompt) == "" {
		return emptyPromptAnalysis()
	}

	sig := extractSignals(prompt, ctx)
	recs := make([]ToolRecommendation, 0, 8)
	for _, rule := range recommendationRules {
		recs = append(recs, rule(sig)...)
	}
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}

	score := performanceScore(sig)
	return Analysis{
		Intent:                sig.intent,
		Complexity:            sig.complexity,
		NeedsStructure:        sig.needsStructure,
		Recommendations:       recs,
		PerformanceScore:      score,
		SuggestedImprovements: suggestImprovements(sig, score),
		TargetPlatforms:       sig.platforms,
	}
}

func emptyPromptAnalysis() Analysis {
	return Analysis{
		Intent:         IntentCreative,
		Complexity:     ComplexitySimple,
		NeedsStructure: true,
		Recommendations: []ToolRecommendation{
			recommend(ToolScriptGenerator, PriorityHigh, "Start with a structured script to build out your video idea"),
		},
		PerformanceScore:      0,
		SuggestedImprovements: []string{improvementMoreDetail},
		TargetPlatforms:       []Platform{},
	}
}

func extractSignals(prompt string, ctx *Context) signals {
	lower := strings.ToLower(prompt)
	words := len(strings.Fields(prompt))

	sig := signals{
		lower:          lower,
		words:          words,
		matched:        matchIntents(lower),
		needsStructure: words < 8,
		hasGuidelines:  ctx.hasBrandGuidelines(),
		platforms:      detectPlatforms(lower),
	}
	sig.intent = classifyIntent(sig.matched)
	switch {
	case words < 5:
		sig.complexity = ComplexitySimple
	case words < 15:
		sig.complexity = ComplexityModerate
	default:
		sig.complexity = ComplexityComplex
	}
	return sig
}

func matchIntents(lower string) map[Intent]bool {
	matched := make(map[Intent]bool, len(intentKeywords))
	for intent, keywords := range intentKeywords {
		if containsAny(lower, keywords) {
			matched[intent] = true
		}
	}
	return matched
}

// classifyIntent only promotes on business or educational vocabulary.
// Marketing vocabulary alone leaves the default in place, as shipped.
func classifyIntent(matched map[Intent]bool) Intent {
	switch {
	case matched[IntentBusiness]:
		return IntentBusiness
	case matched[IntentEducational]:
		return IntentEducational
	default:
		return IntentCreative
	}
}

func detectPlatforms(lower string) []Platform {
	out := []Platform{}
	for _, entry := range platformTable {
		if containsAny(lower, entry.keywords) {
			out = append(out, entry.platform)
		}
	}
	return out
}

func isBusinessFlagged(intent Intent) bool {
	return intent == IntentBusiness || intent == IntentMarketing
}

func fromIntent(sig signals) []ToolRecommendation {
	if !isBusinessFlagged(sig.intent) {
		return nil
	}
	return []ToolRecommendation{
		recommend(ToolCampaignBuilder, PriorityHigh, "Plan this as part of a multi-video campaign"),
		recommend(ToolPerformancePredictor, PriorityHigh, "Estimate engagement before spending credits"),
	}
}

func fromStructure(sig signals) []ToolRecommendation {
	if !sig.needsStructure && sig.words >= 10 {
		return nil
	}
	return []ToolRecommendation{
		recommend(ToolScriptGenerator, PriorityHigh, "Turn a short idea into a structured, detailed script"),
	}
}

func fromBrandGuidelines(sig signals) []ToolRecommendation {
	if !sig.hasGuidelines {
		return nil
	}
	return []ToolRecommendation{
		recommend(ToolBrandGuidelines, PriorityMedium, "Keep the video consistent with your brand guidelines"),
	}
}

func fromPlatforms(sig signals) []ToolRecommendation {
	if len(sig.platforms) <= 1 {
		return nil
	}
	return []ToolRecommendation{
		recommend(ToolRepurposing, PriorityHigh, "Adapt this video for each platform you mentioned"),
	}
}

func fromStyle(sig signals) []ToolRecommendation {
	if !containsAny(sig.lower, styleKeywords) {
		return nil
	}
	return []ToolRecommendation{
		recommend(ToolStyleTransfer, PriorityMedium, "Apply a consistent visual style"),
	}
}

func fromSequence(sig signals) []ToolRecommendation {
	if !containsAny(sig.lower, sequenceKeywords) {
		return nil
	}
	return []ToolRecommendation{
		recommend(ToolStoryboard, PriorityMedium, "Lay out the sequence shot by shot"),
	}
}

func fromCompetitors(sig signals) []ToolRecommendation {
	if !containsAny(sig.lower, competitorKeywords) {
		return nil
	}
	return []ToolRecommendation{
		recommend(ToolCompetitorAnalysis, PriorityMedium, "See what similar content is doing well"),
	}
}

func performanceScore(sig signals) int {
	score := 15
	if sig.words > 5 {
		score = 30
	}
	switch sig.complexity {
	case ComplexityModerate:
		score += 30
	case ComplexityComplex:
		score += 20
	default:
		score += 10
	}
	if sig.hasGuidelines {
		score += 20
	}
	if isBusinessFlagged(sig.intent) {
		score += 20
	} else {
		score += 10
	}
	return clampScore(score)
}

func suggestImprovements(sig signals, score int) []string {
	out := make([]string, 0, 4)
	if sig.words < 5 {
		out = append(out, improvementMoreDetail)
	}
	if !characterWords.MatchString(sig.lower) {
		out = append(out, improvementCharacter)
	}
	if !locationWords.MatchString(sig.lower) {
		out = append(out, improvementLocation)
	}
	if score < 50 {
		out = append(out, improvementScript)
	}
	return out
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > maxScore {
		return maxScore
	}
	return v
}
