package performance

import (
	"time"

	"cameo-backend/internal/prompts/analyzer"
)

// Metric is one observed snapshot of how a published cameo performed.
type Metric struct {
	ID           string            `json:"id"`
	UserID       string            `json:"-"`
	GenerationID string            `json:"generationId,omitempty"`
	CampaignID   string            `json:"campaignId,omitempty"`
	Platform     analyzer.Platform `json:"platform"`
	Views        int64             `json:"views"`
	Likes        int64             `json:"likes"`
	Shares       int64             `json:"shares"`
	Comments     int64             `json:"comments"`
	RecordedAt   time.Time         `json:"recordedAt"`
}

// EngagementRate is interactions per view as a percentage. Zero views yields 0.
func (m Metric) EngagementRate() float64 {
	if m.Views <= 0 {
		return 0
	}
	return float64(m.Likes+m.Shares+m.Comments) / float64(m.Views) * 100
}

// Input is the writable subset of a Metric.
type Input struct {
	GenerationID string     `json:"generationId"`
	CampaignID   string     `json:"campaignId"`
	Platform     string     `json:"platform"`
	Views        int64      `json:"views"`
	Likes        int64      `json:"likes"`
	Shares       int64      `json:"shares"`
	Comments     int64      `json:"comments"`
	RecordedAt   *time.Time `json:"recordedAt"`
}

// Averages are per-metric means over a set of metrics.
type Averages struct {
	Count             int     `json:"count"`
	AvgViews          float64 `json:"avgViews"`
	AvgLikes          float64 `json:"avgLikes"`
	AvgShares         float64 `json:"avgShares"`
	AvgComments       float64 `json:"avgComments"`
	AvgEngagementRate float64 `json:"avgEngagementRate"`
}

// Summary aggregates metrics overall and per platform.
type Summary struct {
	Averages
	ByPlatform map[analyzer.Platform]Averages `json:"byPlatform"`
}

// Filter narrows metric queries. Empty fields match everything.
type Filter struct {
	CampaignID   string
	GenerationID string
}
