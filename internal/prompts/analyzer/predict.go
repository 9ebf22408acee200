package analyzer

import (
	"math"
	"math/rand/v2"
)

// RandomSource supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// PredictPerformance estimates engagement, virality and quality for a prompt
// on one platform. Virality includes a random term drawn from rnd; a nil rnd
// uses the process-wide generator.
func PredictPerformance(prompt string, platform Platform, rnd RandomSource) Prediction {
	if rnd == nil {
		rnd = globalSource{}
	}
	analysis := Analyze(prompt, nil)
	base := float64(analysis.PerformanceScore)

	engagement := analysis.PerformanceScore
	if containsPlatform(analysis.TargetPlatforms, platform) {
		engagement += 10
	}

	virality := math.Round(base*0.8 + rnd.Float64()*20)
	quality := math.Round(base*0.9 + 10)

	first := "Consider adding more detail for better results"
	if analysis.Complexity == ComplexityComplex {
		first = "Detailed prompt should produce rich visuals"
	}
	second := "Good prompt structure"
	if analysis.NeedsStructure {
		second = "Script Generator can help structure your content"
	}

	return Prediction{
		EngagementScore: min(maxScore, engagement),
		ViralityScore:   min(maxScore, int(virality)),
		QualityScore:    min(maxScore, int(quality)),
		Insights: [3]string{
			first,
			second,
			"Optimized for " + string(platform) + " audience",
		},
	}
}

func containsPlatform(platforms []Platform, p Platform) bool {
	for _, candidate := range platforms {
		if candidate == p {
			return true
		}
	}
	return false
}
