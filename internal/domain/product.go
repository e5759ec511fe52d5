package domain

import "time"

type Product struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Slug             string   `json:"slug"`
	Price            *float64 `json:"price,omitempty"`
	Currency         string   `json:"currency,omitempty"`
	ShortDescription string   `json:"shortDescription,omitempty"`
	LongDescription  string   `json:"longDescription,omitempty"`
	Category         string   `json:"category,omitempty"`
	CategorySlug     string   `json:"categorySlug,omitempty"`
	Badges           []string `json:"badges,omitempty"`
	CharacterName    string   `json:"characterName,omitempty"`
	CharacterSlug    string   `json:"characterSlug,omitempty"`
	ImageURLs        []string `json:"imageUrls,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// HasBadge reports whether the product carries the given badge tag.
func (p Product) HasBadge(badge string) bool {
	for _, b := range p.Badges {
		if b == badge {
			return true
		}
	}
	return false
}
