package brandguidelines

import "time"

// BrandGuideline captures the voice and visual rules a brand applies to its cameos.
type BrandGuideline struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	Name       string    `json:"name"`
	Voice      string    `json:"voice,omitempty"`
	Colors     []string  `json:"colors"`
	Keywords   []string  `json:"keywords"`
	AvoidWords []string  `json:"avoidWords"`
	LogoURL    string    `json:"logoUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Input is the writable subset of a BrandGuideline.
type Input struct {
	Name       string   `json:"name"`
	Voice      string   `json:"voice"`
	Colors     []string `json:"colors"`
	Keywords   []string `json:"keywords"`
	AvoidWords []string `json:"avoidWords"`
	LogoURL    string   `json:"logoUrl"`
}
