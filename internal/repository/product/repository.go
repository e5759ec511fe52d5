package product

import (
	"context"

	"stash-backend/internal/domain"
)

type Repository interface {
	ListAll(ctx context.Context) ([]domain.Product, error)
	ListLatest(ctx context.Context, limit int) ([]domain.Product, error)
	ListBestSellers(ctx context.Context, limit int) ([]domain.Product, error)
	ListByCategorySlug(ctx context.Context, slug string) ([]domain.Product, error)
	ListByCharacterSlug(ctx context.Context, slug string) ([]domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Search(ctx context.Context, term string, limit int) ([]domain.Product, error)
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}
