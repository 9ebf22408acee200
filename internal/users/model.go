package users

import (
	"strings"
	"time"

	"cameo-backend/internal/prompts/analyzer"
)

// User is a creator account created through Google sign-in.
type User struct {
	ID               string            `json:"id"`
	Email            string            `json:"email"`
	FullName         string            `json:"fullName"`
	GivenName        string            `json:"givenName"`
	FamilyName       string            `json:"familyName"`
	PictureURL       string            `json:"pictureUrl"`
	DefaultPlatform  analyzer.Platform `json:"defaultPlatform,omitempty"`
	DefaultCharacter string            `json:"defaultCharacter,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// Preferences are the creator defaults applied when a request leaves them out.
type Preferences struct {
	DefaultPlatform  string `json:"defaultPlatform"`
	DefaultCharacter string `json:"defaultCharacter"`
}

// DisplayName prefers the full name, then the given name, then the email local part.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	if name := strings.TrimSpace(u.GivenName); name != "" {
		return name
	}
	local, _, _ := strings.Cut(u.Email, "@")
	return local
}
