package performance

import (
	"math"

	"cameo-backend/internal/prompts/analyzer"
)

// Summarize computes overall and per-platform averages. Averages are rounded to two decimals.
func Summarize(metrics []Metric) Summary {
	summary := Summary{
		Averages:   average(metrics),
		ByPlatform: make(map[analyzer.Platform]Averages),
	}
	grouped := make(map[analyzer.Platform][]Metric)
	for _, m := range metrics {
		grouped[m.Platform] = append(grouped[m.Platform], m)
	}
	for platform, group := range grouped {
		summary.ByPlatform[platform] = average(group)
	}
	return summary
}

func average(metrics []Metric) Averages {
	n := len(metrics)
	if n == 0 {
		return Averages{}
	}
	var views, likes, shares, comments int64
	var engagement float64
	for _, m := range metrics {
		views += m.Views
		likes += m.Likes
		shares += m.Shares
		comments += m.Comments
		engagement += m.EngagementRate()
	}
	count := float64(n)
	return Averages{
		Count:             n,
		AvgViews:          round2(float64(views) / count),
		AvgLikes:          round2(float64(likes) / count),
		AvgShares:         round2(float64(shares) / count),
		AvgComments:       round2(float64(comments) / count),
		AvgEngagementRate: round2(engagement / count),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
