package category

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stash-backend/internal/domain"
)

const categoryColumns = `id::text, title, slug, COALESCE(description, ''), COALESCE(hero_image_url, ''), sort_order, COALESCE(tone, ''), created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Category, error) {
	q := `SELECT ` + categoryColumns + ` FROM categories ORDER BY sort_order ASC, title ASC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := scanCategory(rows, &c); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	q := `SELECT ` + categoryColumns + ` FROM categories WHERE slug = $1`
	var c domain.Category
	if err := scanCategory(r.pool.QueryRow(ctx, q, slug), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, category domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO categories (title, slug, description, hero_image_url, sort_order, tone)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, NULLIF($6, ''))
ON CONFLICT (slug) DO UPDATE SET
    title = EXCLUDED.title,
    description = EXCLUDED.description,
    hero_image_url = EXCLUDED.hero_image_url,
    sort_order = EXCLUDED.sort_order,
    tone = EXCLUDED.tone
RETURNING id::text, created_at
`
	res := category
	err := r.pool.QueryRow(ctx, q,
		category.Title,
		category.Slug,
		category.Description,
		category.HeroImageURL,
		category.SortOrder,
		category.Tone,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func scanCategory(row pgx.Row, c *domain.Category) error {
	return row.Scan(
		&c.ID,
		&c.Title,
		&c.Slug,
		&c.Description,
		&c.HeroImageURL,
		&c.SortOrder,
		&c.Tone,
		&c.CreatedAt,
	)
}
