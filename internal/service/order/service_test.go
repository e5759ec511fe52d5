package order

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"stash-backend/internal/domain"
)

type stubRepo struct {
	inserted    []domain.Order
	insertErrs  []error
	listOrders  []domain.Order
	listErr     error
	getOrder    *domain.Order
	getErr      error
	updated     *domain.Order
	updateErr   error
	lastStatus  domain.OrderStatus
	deleteErr   error
	deletedID   string
	proofOrder  *domain.Order
	proofErr    error
	lastProofID string
	lastProof   string
}

func (s *stubRepo) Insert(_ context.Context, o domain.Order) (*domain.Order, error) {
	s.inserted = append(s.inserted, o)
	if len(s.insertErrs) > 0 {
		err := s.insertErrs[0]
		s.insertErrs = s.insertErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &o, nil
}

func (s *stubRepo) ListAll(_ context.Context) ([]domain.Order, error) {
	return s.listOrders, s.listErr
}

func (s *stubRepo) GetByID(_ context.Context, _ string) (*domain.Order, error) {
	return s.getOrder, s.getErr
}

func (s *stubRepo) UpdateStatus(_ context.Context, _ string, status domain.OrderStatus) (*domain.Order, error) {
	s.lastStatus = status
	return s.updated, s.updateErr
}

func (s *stubRepo) SetProof(_ context.Context, id, proofURL string) (*domain.Order, error) {
	s.lastProofID = id
	s.lastProof = proofURL
	return s.proofOrder, s.proofErr
}

func (s *stubRepo) Delete(_ context.Context, id string) error {
	s.deletedID = id
	return s.deleteErr
}

var orderIDPattern = regexp.MustCompile(`^ORD-[0-9A-Z]+-[0-9A-Z]{6}$`)

func fp(v float64) *float64 { return &v }

func TestCreate_GeneratesIDAndFreezesSnapshot(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil)

	items := []domain.CartItem{
		{ID: "p1", Title: "Sticker Pack", Price: fp(20), Quantity: 2},
		{ID: "p2", Title: "Notebook", PriceText: "AED 15", Quantity: 1},
	}
	created, err := svc.Create(context.Background(), CreateInput{
		Items:       items,
		TotalAmount: 55,
		TotalCount:  3,
		Currency:    "AED",
		Customer:    domain.OrderCustomer{Name: "Maya", Email: "maya@example.com"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !orderIDPattern.MatchString(created.ID) {
		t.Fatalf("id %q does not match expected pattern", created.ID)
	}
	if created.Status != domain.StatusPaymentPending {
		t.Fatalf("expected payment-pending, got %s", created.Status)
	}
	if len(created.Items) != 2 || created.Items[0].ID != "p1" || created.Items[1].Quantity != 1 {
		t.Fatalf("snapshot not preserved: %+v", created.Items)
	}
	if created.TotalAmount != 55 || created.TotalCount != 3 || created.Currency != "AED" {
		t.Fatalf("totals not preserved: %+v", created)
	}
}

func TestCreate_DefaultsTotalCountAndCurrency(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil)

	created, err := svc.Create(context.Background(), CreateInput{
		Items: []domain.CartItem{
			{ID: "p1", Quantity: 2},
			{ID: "p2", Quantity: 3},
		},
		TotalAmount: 10,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.TotalCount != 5 {
		t.Fatalf("expected computed total count 5, got %d", created.TotalCount)
	}
	if created.Currency != "AED" {
		t.Fatalf("expected default currency, got %q", created.Currency)
	}
}

func TestCreate_RetriesOnDuplicateID(t *testing.T) {
	repo := &stubRepo{insertErrs: []error{domain.ErrAlreadyExists, domain.ErrAlreadyExists}}
	svc := New(repo, nil)

	created, err := svc.Create(context.Background(), CreateInput{TotalAmount: 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(repo.inserted) != 3 {
		t.Fatalf("expected 3 insert attempts, got %d", len(repo.inserted))
	}
	if repo.inserted[0].ID == created.ID && repo.inserted[1].ID == created.ID {
		t.Fatalf("expected fresh ids across retries")
	}
}

func TestCreate_SurfacesWriteFailure(t *testing.T) {
	repo := &stubRepo{insertErrs: []error{errors.New("connection reset")}}
	svc := New(repo, nil)

	if _, err := svc.Create(context.Background(), CreateInput{}); err == nil {
		t.Fatalf("expected error")
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected no retry on generic failure, got %d attempts", len(repo.inserted))
	}
}

func TestList_SwallowsReadFailure(t *testing.T) {
	repo := &stubRepo{listErr: errors.New("db down")}
	svc := New(repo, nil)

	orders := svc.List(context.Background())
	if orders == nil || len(orders) != 0 {
		t.Fatalf("expected empty non-nil collection, got %v", orders)
	}
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil)

	if _, err := svc.UpdateStatus(context.Background(), "ORD-X", "shipped"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if repo.lastStatus != "" {
		t.Fatalf("expected no repository write, got %q", repo.lastStatus)
	}
}

func TestUpdateStatus_PermitsAnyKnownTransition(t *testing.T) {
	repo := &stubRepo{updated: &domain.Order{ID: "ORD-X", Status: domain.StatusPaymentPending}}
	svc := New(repo, nil)

	// delivered back to payment-pending is allowed: no transition table.
	if _, err := svc.UpdateStatus(context.Background(), "ORD-X", domain.StatusPaymentPending); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if repo.lastStatus != domain.StatusPaymentPending {
		t.Fatalf("expected write of payment-pending, got %q", repo.lastStatus)
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo := &stubRepo{updateErr: domain.ErrNotFound}
	svc := New(repo, nil)

	if _, err := svc.UpdateStatus(context.Background(), "ORD-MISSING", domain.StatusPaid); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetProof_OverwritesURL(t *testing.T) {
	repo := &stubRepo{proofOrder: &domain.Order{ID: "ORD-X", ProofURL: "https://files/new.pdf"}}
	svc := New(repo, nil)

	got, err := svc.SetProof(context.Background(), "ORD-X", "https://files/new.pdf")
	if err != nil {
		t.Fatalf("SetProof: %v", err)
	}
	if repo.lastProof != "https://files/new.pdf" || got.ProofURL != repo.lastProof {
		t.Fatalf("proof url not written: %+v", got)
	}
}
