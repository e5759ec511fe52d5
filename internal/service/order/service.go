package order

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"stash-backend/internal/cart"
	"stash-backend/internal/domain"
	orderrepo "stash-backend/internal/repository/order"
)

// ErrInvalidStatus is returned for a status outside the known enum.
var ErrInvalidStatus = errors.New("invalid order status")

type Service struct {
	repo   orderrepo.Repository
	logger *log.Logger
	now    func() time.Time
}

func New(repo orderrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// CreateInput is the checkout snapshot handed to Create. Items, totals and
// currency are frozen as-is; nothing is recomputed later.
type CreateInput struct {
	Items       []domain.CartItem
	TotalAmount float64
	TotalCount  int
	Currency    string
	Customer    domain.OrderCustomer
	Profile     map[string]interface{}
}

// Create persists a new order with a generated shareable id and the initial
// payment-pending status. A duplicate generated id is retried with a fresh
// one a bounded number of times.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	totalCount := in.TotalCount
	if totalCount == 0 {
		totalCount = cart.TotalCount(in.Items)
	}
	currency := in.Currency
	if currency == "" {
		currency = cart.DefaultCurrency
	}

	o := domain.Order{
		CreatedAt:   s.now().UTC(),
		Status:      domain.StatusPaymentPending,
		Customer:    &in.Customer,
		Profile:     in.Profile,
		Items:       in.Items,
		TotalCount:  totalCount,
		TotalAmount: in.TotalAmount,
		Currency:    currency,
	}

	for i := 0; i < 5; i++ {
		id, err := newOrderID(s.now())
		if err != nil {
			return nil, err
		}
		o.ID = id
		stored, err := s.repo.Insert(ctx, o)
		if err == nil {
			s.logger.Printf("order service: created id=%s items=%d total=%v %s", stored.ID, len(stored.Items), stored.TotalAmount, stored.Currency)
			return stored, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return nil, fmt.Errorf("create order: %w", err)
	}
	return nil, errors.New("order id collision")
}

// List returns all orders newest first. A read failure degrades to an empty
// collection rather than an error.
func (s *Service) List(ctx context.Context) []domain.Order {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Printf("order service: list degraded to empty: %v", err)
		return []domain.Order{}
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders
}

// Get looks an order up by id, ignoring case.
func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus sets any of the four statuses; transitions are unrestricted.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// SetProof overwrites the single proof-of-payment URL on the order.
func (s *Service) SetProof(ctx context.Context, id, proofURL string) (*domain.Order, error) {
	return s.repo.SetProof(ctx, id, proofURL)
}

// Delete removes the order permanently.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newOrderID combines a base-36 millisecond timestamp with a 6-character
// random suffix, upper-cased: ORD-MBF2K1QW-X7R2PQ.
func newOrderID(now time.Time) (string, error) {
	ts := strconv.FormatInt(now.UnixMilli(), 36)

	var buf [6]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("order id suffix: %w", err)
	}
	suffix := make([]byte, len(buf))
	for i, b := range buf {
		suffix[i] = suffixAlphabet[int(b)%len(suffixAlphabet)]
	}

	return strings.ToUpper(fmt.Sprintf("ORD-%s-%s", ts, suffix)), nil
}
