package domain

import "time"

type Category struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description,omitempty"`
	HeroImageURL string    `json:"heroImageUrl,omitempty"`
	SortOrder    int       `json:"sortOrder"`
	Tone         string    `json:"tone,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Character is a themed persona used to group and market a curated
// subset of products.
type Character struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Tagline      string    `json:"tagline,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	CardImageURL string    `json:"cardImageUrl,omitempty"`
	MoodColor    string    `json:"moodColor,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
