package domain

// CartItem is one line in a shopper's stash. ID is the product identifier
// and is unique within the collection; Quantity is always >= 1 for a stored
// line (decrementing to zero removes the line instead).
type CartItem struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Slug      string   `json:"slug,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	PriceText string   `json:"priceText,omitempty"`
	Currency  string   `json:"currency,omitempty"`
	ImageURL  string   `json:"imageUrl,omitempty"`
	Quantity  int      `json:"quantity"`
}
