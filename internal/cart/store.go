package cart

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"stash-backend/internal/domain"
)

// DefaultCurrency is assumed when no line carries an explicit or inferable one.
const DefaultCurrency = "AED"

// Store owns a shopper's stash: a mutable collection of cart lines keyed by
// product id, persisted in full to a per-session durable slot after every
// mutation. Totals and currency are derived on every read, never stored.
//
// The store is an explicit object passed to its callers; watchers register
// through Subscribe rather than any ambient context.
type Store struct {
	mu        sync.Mutex
	sessionID string
	slot      Slot
	items     []domain.CartItem

	nextSubID int
	subs      map[int]func([]domain.CartItem)
}

// NewStore builds a Store bound to one session slot and loads any prior
// snapshot. A missing or malformed snapshot is silently discarded and the
// store starts empty.
func NewStore(ctx context.Context, sessionID string, slot Slot) *Store {
	s := &Store{
		sessionID: sessionID,
		slot:      slot,
		subs:      make(map[int]func([]domain.CartItem)),
	}
	if slot != nil {
		if items, err := slot.Load(ctx, sessionID); err == nil {
			s.items = items
		}
	}
	return s
}

// AddItem merges the item into the collection: an existing line with the same
// id has its quantity increased, otherwise a new line is appended. Empty ids
// and non-positive quantities are ignored.
func (s *Store) AddItem(ctx context.Context, item domain.CartItem, quantity int) error {
	if item.ID == "" || quantity <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := false
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		item.Quantity = quantity
		s.items = append(s.items, item)
	}
	return s.persistAndNotify(ctx)
}

// RemoveItem deletes the line entirely. Removing an absent id is not an error.
func (s *Store) RemoveItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, it := range s.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	s.items = kept
	return s.persistAndNotify(ctx)
}

// UpdateQuantity overwrites a line's quantity. Non-positive quantities are a
// no-op; use RemoveItem to delete a line.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			return s.persistAndNotify(ctx)
		}
	}
	return nil
}

// Clear empties the collection.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return s.persistAndNotify(ctx)
}

// Items returns a copy of the current lines.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// TotalCount is the sum of all line quantities.
func (s *Store) TotalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TotalCount(s.items)
}

// TotalAmount is the sum of unit price times quantity across all lines.
func (s *Store) TotalAmount() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TotalAmount(s.items)
}

// Currency is the collection's display currency.
func (s *Store) Currency() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Currency(s.items)
}

// Subscribe registers a watcher called with a snapshot of the lines after
// every mutation. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(items []domain.CartItem)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// persistAndNotify writes the full collection to the slot and fans the new
// snapshot out to subscribers. Caller must hold s.mu.
func (s *Store) persistAndNotify(ctx context.Context) error {
	if s.slot != nil {
		if err := s.slot.Save(ctx, s.sessionID, s.items); err != nil {
			return err
		}
	}
	snapshot := make([]domain.CartItem, len(s.items))
	copy(snapshot, s.items)
	for _, fn := range s.subs {
		fn(snapshot)
	}
	return nil
}

// TotalCount sums quantities over a set of lines.
func TotalCount(items []domain.CartItem) int {
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return total
}

// TotalAmount sums unit price times quantity. Lines without a resolvable,
// non-zero unit price contribute nothing.
func TotalAmount(items []domain.CartItem) float64 {
	total := 0.0
	for _, it := range items {
		unit := unitPrice(it)
		if unit == 0 {
			continue
		}
		total += unit * float64(it.Quantity)
	}
	return total
}

// Currency picks the first explicit currency among the lines, then falls back
// to inferring one from a display-price string, then to DefaultCurrency.
func Currency(items []domain.CartItem) string {
	for _, it := range items {
		if it.Currency != "" {
			return it.Currency
		}
	}
	for _, it := range items {
		if it.PriceText != "" {
			if cur := inferCurrency(it.PriceText); cur != "" {
				return cur
			}
			break
		}
	}
	return DefaultCurrency
}

var priceRe = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

func unitPrice(it domain.CartItem) float64 {
	if it.Price != nil {
		return *it.Price
	}
	return parsePriceText(it.PriceText)
}

// parsePriceText extracts the first numeric token from a display price such
// as "AED 1,250.50". Returns 0 when nothing parses.
func parsePriceText(text string) float64 {
	if text == "" {
		return 0
	}
	cleaned := strings.ReplaceAll(text, ",", "")
	match := priceRe.FindString(cleaned)
	if match == "" {
		return 0
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return v
}

// inferCurrency takes the leading whitespace-separated token of a display
// price when it contains a letter, e.g. "AED" from "AED 35".
func inferCurrency(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	first := fields[0]
	if strings.IndexFunc(first, func(r rune) bool {
		return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
	}) >= 0 {
		return first
	}
	return ""
}
