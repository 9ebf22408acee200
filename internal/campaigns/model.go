package campaigns

import (
	"time"

	"cameo-backend/internal/prompts/analyzer"
)

// Status is the lifecycle state of a campaign.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusPaused, StatusCompleted:
		return true
	default:
		return false
	}
}

// Campaign groups cameos that share an objective and target platforms.
type Campaign struct {
	ID               string              `json:"id"`
	UserID           string              `json:"-"`
	Name             string              `json:"name"`
	Description      string              `json:"description,omitempty"`
	Objective        string              `json:"objective,omitempty"`
	TargetPlatforms  []analyzer.Platform `json:"targetPlatforms"`
	BrandGuidelineID string              `json:"brandGuidelineId,omitempty"`
	Status           Status              `json:"status"`
	StartDate        *time.Time          `json:"startDate,omitempty"`
	EndDate          *time.Time          `json:"endDate,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// Input is the writable subset of a Campaign.
type Input struct {
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Objective        string     `json:"objective"`
	TargetPlatforms  []string   `json:"targetPlatforms"`
	BrandGuidelineID string     `json:"brandGuidelineId"`
	Status           string     `json:"status"`
	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
}
