package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured is returned by the placeholder scriptwriter.
var ErrNotConfigured = errors.New("LLM not configured")

// ErrInvalidScript is returned when a provider response does not match the script shape.
var ErrInvalidScript = errors.New("invalid script")

// Scriptwriter turns a short idea into a structured cameo script.
type Scriptwriter interface {
	WriteScript(ctx context.Context, input ScriptInput) (Script, error)
}

// ScriptInput is everything the model sees about the requested cameo.
type ScriptInput struct {
	Prompt        string
	CharacterName string
	Platform      string
	BrandVoice    string
	AvoidWords    []string
	// Improvements are hints from prompt analysis that the script should address.
	Improvements []string
}

// Scene is one shot in a script.
type Scene struct {
	Description     string `json:"description" jsonschema_description:"What happens on screen, including the character's action and the setting"`
	DurationSeconds int    `json:"durationSeconds" jsonschema_description:"Length of the scene in seconds"`
}

// Script is a structured, ready-to-render video plan.
type Script struct {
	Title          string  `json:"title" jsonschema_description:"Short working title for the video"`
	Hook           string  `json:"hook" jsonschema_description:"Opening line or visual that grabs attention in the first two seconds"`
	Scenes         []Scene `json:"scenes" jsonschema_description:"Ordered scenes of the video"`
	CallToAction   string  `json:"callToAction" jsonschema_description:"Closing call to action, empty if not appropriate"`
	ImprovedPrompt string  `json:"improvedPrompt" jsonschema_description:"A single detailed video generation prompt combining every scene"`
}

const (
	MaxScenes          = 6
	maxSceneSeconds    = 30
	defaultSceneLength = 4
)

// Validate checks the required fields and clamps scene durations.
func (s *Script) Validate() error {
	s.Title = strings.TrimSpace(s.Title)
	s.ImprovedPrompt = strings.TrimSpace(s.ImprovedPrompt)
	if s.Title == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidScript)
	}
	if s.ImprovedPrompt == "" {
		return fmt.Errorf("%w: missing improvedPrompt", ErrInvalidScript)
	}
	if len(s.Scenes) == 0 {
		return fmt.Errorf("%w: no scenes", ErrInvalidScript)
	}
	if len(s.Scenes) > MaxScenes {
		s.Scenes = s.Scenes[:MaxScenes]
	}
	for i := range s.Scenes {
		s.Scenes[i].Description = strings.TrimSpace(s.Scenes[i].Description)
		if s.Scenes[i].Description == "" {
			return fmt.Errorf("%w: scene %d has no description", ErrInvalidScript, i+1)
		}
		switch d := s.Scenes[i].DurationSeconds; {
		case d <= 0:
			s.Scenes[i].DurationSeconds = defaultSceneLength
		case d > maxSceneSeconds:
			s.Scenes[i].DurationSeconds = maxSceneSeconds
		}
	}
	return nil
}

// TotalSeconds sums scene durations.
func (s Script) TotalSeconds() int {
	total := 0
	for _, scene := range s.Scenes {
		total += scene.DurationSeconds
	}
	return total
}

// PlaceholderScriptwriter is used when no LLM provider is configured.
type PlaceholderScriptwriter struct{}

func (PlaceholderScriptwriter) WriteScript(context.Context, ScriptInput) (Script, error) {
	return Script{}, ErrNotConfigured
}
