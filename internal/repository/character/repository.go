package character

import (
	"context"

	"stash-backend/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Character, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Character, error)
	Upsert(ctx context.Context, character domain.Character) (*domain.Character, error)
}
