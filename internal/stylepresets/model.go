package stylepresets

import (
	"strings"
	"time"
)

const (
	AspectPortrait  = "9:16"
	AspectLandscape = "16:9"
	AspectSquare    = "1:1"

	DefaultAspectRatio     = AspectPortrait
	DefaultDurationSeconds = 8
	MinDurationSeconds     = 1
	MaxDurationSeconds     = 60
)

// StylePreset is a reusable look applied to generation prompts.
type StylePreset struct {
	ID              string    `json:"id"`
	UserID          string    `json:"-"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	PromptSuffix    string    `json:"promptSuffix,omitempty"`
	AspectRatio     string    `json:"aspectRatio"`
	DurationSeconds int       `json:"durationSeconds"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Input is the writable subset of a StylePreset.
type Input struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	PromptSuffix    string `json:"promptSuffix"`
	AspectRatio     string `json:"aspectRatio"`
	DurationSeconds int    `json:"durationSeconds"`
}

// Apply appends the preset's suffix to prompt, separated by a comma.
func (p StylePreset) Apply(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	suffix := strings.TrimSpace(p.PromptSuffix)
	switch {
	case suffix == "":
		return prompt
	case prompt == "":
		return suffix
	default:
		return strings.TrimRight(prompt, " ,.") + ", " + suffix
	}
}

// ValidAspectRatio reports whether ratio is one the video models accept.
func ValidAspectRatio(ratio string) bool {
	switch ratio {
	case AspectPortrait, AspectLandscape, AspectSquare:
		return true
	default:
		return false
	}
}
