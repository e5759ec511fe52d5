package order

import (
	"context"

	"stash-backend/internal/domain"
)

type Repository interface {
	Insert(ctx context.Context, o domain.Order) (*domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	SetProof(ctx context.Context, id, proofURL string) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
}
