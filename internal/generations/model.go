package generations

import (
	"time"

	"cameo-backend/internal/prompts/analyzer"
)

// Status is the lifecycle state of a generation.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Generation is one requested cameo video.
type Generation struct {
	ID              string             `json:"id"`
	UserID          string             `json:"-"`
	CharacterID     string             `json:"characterId,omitempty"`
	CampaignID      string             `json:"campaignId,omitempty"`
	StylePresetID   string             `json:"stylePresetId,omitempty"`
	Prompt          string             `json:"prompt"`
	EffectivePrompt string             `json:"effectivePrompt"`
	Platform        analyzer.Platform  `json:"platform,omitempty"`
	AspectRatio     string             `json:"aspectRatio"`
	DurationSeconds int                `json:"durationSeconds"`
	Status          Status             `json:"status"`
	Analysis        *analyzer.Analysis `json:"analysis,omitempty"`
	VideoURI        string             `json:"videoUri,omitempty"`
	ErrorCode       string             `json:"errorCode,omitempty"`
	ErrorMessage    string             `json:"errorMessage,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	StartedAt       *time.Time         `json:"startedAt,omitempty"`
	CompletedAt     *time.Time         `json:"completedAt,omitempty"`

	// CreditsCharged were taken from the usage window ending at CreditWindow.
	CreditsCharged int        `json:"-"`
	CreditWindow   *time.Time `json:"-"`
}

// CreateInput is the request body for a new generation. Zero values fall
// back to the style preset and then to package defaults.
type CreateInput struct {
	Prompt          string `json:"prompt"`
	CharacterID     string `json:"characterId"`
	CampaignID      string `json:"campaignId"`
	StylePresetID   string `json:"stylePresetId"`
	Platform        string `json:"platform"`
	AspectRatio     string `json:"aspectRatio"`
	DurationSeconds int    `json:"durationSeconds"`
}
