package character

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stash-backend/internal/domain"
)

const characterColumns = `id::text, title, slug, COALESCE(tagline, ''), COALESCE(bio, ''), COALESCE(card_image_url, ''), COALESCE(mood_color, ''), created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Character, error) {
	q := `SELECT ` + characterColumns + ` FROM characters ORDER BY title ASC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Character
	for rows.Next() {
		var c domain.Character
		if err := scanCharacter(rows, &c); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Character, error) {
	q := `SELECT ` + characterColumns + ` FROM characters WHERE slug = $1`
	var c domain.Character
	if err := scanCharacter(r.pool.QueryRow(ctx, q, slug), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, character domain.Character) (*domain.Character, error) {
	const q = `
INSERT INTO characters (title, slug, tagline, bio, card_image_url, mood_color)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''))
ON CONFLICT (slug) DO UPDATE SET
    title = EXCLUDED.title,
    tagline = EXCLUDED.tagline,
    bio = EXCLUDED.bio,
    card_image_url = EXCLUDED.card_image_url,
    mood_color = EXCLUDED.mood_color
RETURNING id::text, created_at
`
	res := character
	err := r.pool.QueryRow(ctx, q,
		character.Title,
		character.Slug,
		character.Tagline,
		character.Bio,
		character.CardImageURL,
		character.MoodColor,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func scanCharacter(row pgx.Row, c *domain.Character) error {
	return row.Scan(
		&c.ID,
		&c.Title,
		&c.Slug,
		&c.Tagline,
		&c.Bio,
		&c.CardImageURL,
		&c.MoodColor,
		&c.CreatedAt,
	)
}
