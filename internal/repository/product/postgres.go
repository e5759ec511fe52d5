package product

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stash-backend/internal/domain"
)

// bestSellerBadges are the badge spellings that mark a best-seller.
var bestSellerBadges = []string{"Best-Seller", "Bestseller", "Best Seller"}

const productColumns = `
p.id::text, p.title, p.slug, p.price, p.currency,
COALESCE(p.short_description, ''), COALESCE(p.long_description, ''),
COALESCE(c.title, ''), COALESCE(c.slug, ''),
COALESCE(ch.title, ''), COALESCE(ch.slug, ''),
p.badges, p.image_urls, p.created_at`

const productJoins = `
FROM products p
LEFT JOIN categories c ON c.id = p.category_id
LEFT JOIN characters ch ON ch.id = p.character_id`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + productJoins + ` ORDER BY p.created_at DESC`
	return r.queryProducts(ctx, "list all", q)
}

func (r *postgresRepo) ListLatest(ctx context.Context, limit int) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + productJoins + ` ORDER BY p.created_at DESC LIMIT $1`
	return r.queryProducts(ctx, "list latest", q, limit)
}

func (r *postgresRepo) ListBestSellers(ctx context.Context, limit int) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + productJoins + `
WHERE p.badges ?| $1
ORDER BY p.created_at DESC
LIMIT $2`
	return r.queryProducts(ctx, "list best sellers", q, bestSellerBadges, limit)
}

func (r *postgresRepo) ListByCategorySlug(ctx context.Context, slug string) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + productJoins + `
WHERE c.slug = $1
ORDER BY p.created_at DESC`
	return r.queryProducts(ctx, "list by category", q, slug)
}

func (r *postgresRepo) ListByCharacterSlug(ctx context.Context, slug string) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + productJoins + `
WHERE ch.slug = $1
ORDER BY p.created_at DESC`
	return r.queryProducts(ctx, "list by character", q, slug)
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	q := `SELECT ` + productColumns + productJoins + ` WHERE p.slug = $1`
	var p domain.Product
	err := scanProduct(r.pool.QueryRow(ctx, q, slug), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("product repo: get slug=%s not found", slug)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get slug=%s error=%v", slug, err)
		return nil, err
	}
	return &p, nil
}

// Search matches the free-text term against title, category title and badge
// tags, case-insensitively.
func (r *postgresRepo) Search(ctx context.Context, term string, limit int) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + productJoins + `
WHERE p.title ILIKE '%' || $1 || '%'
   OR c.title ILIKE '%' || $1 || '%'
   OR EXISTS (
        SELECT 1 FROM jsonb_array_elements_text(p.badges) AS badge(value)
        WHERE badge.value ILIKE $1
      )
ORDER BY p.created_at DESC
LIMIT $2`
	return r.queryProducts(ctx, "search", q, term, limit)
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	badges := product.Badges
	if badges == nil {
		badges = []string{}
	}
	images := product.ImageURLs
	if images == nil {
		images = []string{}
	}

	const q = `
INSERT INTO products (title, slug, price, currency, short_description, long_description, category_id, character_id, badges, image_urls)
VALUES ($1, $2, $3, COALESCE(NULLIF($4, ''), 'AED'), NULLIF($5, ''), NULLIF($6, ''),
        (SELECT id FROM categories WHERE slug = NULLIF($7, '')),
        (SELECT id FROM characters WHERE slug = NULLIF($8, '')),
        $9, $10)
ON CONFLICT (slug) DO UPDATE SET
    title = EXCLUDED.title,
    price = EXCLUDED.price,
    currency = EXCLUDED.currency,
    short_description = EXCLUDED.short_description,
    long_description = EXCLUDED.long_description,
    category_id = EXCLUDED.category_id,
    character_id = EXCLUDED.character_id,
    badges = EXCLUDED.badges,
    image_urls = EXCLUDED.image_urls
RETURNING id::text, created_at
`
	res := product
	err := r.pool.QueryRow(ctx, q,
		product.Title,
		product.Slug,
		product.Price,
		product.Currency,
		product.ShortDescription,
		product.LongDescription,
		product.CategorySlug,
		product.CharacterSlug,
		badges,
		images,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("product repo: upsert slug=%s error=%v", product.Slug, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted slug=%s id=%s", res.Slug, res.ID)
	return &res, nil
}

func (r *postgresRepo) queryProducts(ctx context.Context, op, q string, args ...interface{}) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: %s error=%v", op, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: %s rows error=%v", op, err)
		return nil, err
	}
	r.logger.Printf("product repo: %s count=%d", op, len(result))
	return result, nil
}

func scanProduct(row pgx.Row, p *domain.Product) error {
	return row.Scan(
		&p.ID,
		&p.Title,
		&p.Slug,
		&p.Price,
		&p.Currency,
		&p.ShortDescription,
		&p.LongDescription,
		&p.Category,
		&p.CategorySlug,
		&p.CharacterName,
		&p.CharacterSlug,
		&p.Badges,
		&p.ImageURLs,
		&p.CreatedAt,
	)
}
