package seed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type categorySeed struct {
	Title       string
	Slug        string
	Description string
	SortOrder   int
	Tone        string
}

type characterSeed struct {
	Title   string
	Slug    string
	Tagline string
	Bio     string
}

type productSeed struct {
	Title         string
	Slug          string
	Price         *float64
	Currency      string
	Short         string
	Badges        []string
	CategorySlug  string
	CharacterSlug string
}

func price(v float64) *float64 { return &v }

// Apply inserts a small demo catalog for manual testing. It is idempotent via
// ON CONFLICT on slugs.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	categories := []categorySeed{
		{Title: "Stickers", Slug: "stickers", Description: "Peel, stick, smile", SortOrder: 1, Tone: "peach"},
		{Title: "Notebooks", Slug: "notebooks", Description: "Pages for tiny plans", SortOrder: 2, Tone: "mint"},
		{Title: "Washi Tape", Slug: "washi-tape", Description: "Borders and accents", SortOrder: 3, Tone: "lilac"},
	}
	for _, c := range categories {
		if err := upsertCategory(ctx, pool, c); err != nil {
			return fmt.Errorf("upsert category %s: %w", c.Slug, err)
		}
	}

	characters := []characterSeed{
		{Title: "Momo", Slug: "momo", Tagline: "A sleepy cloud cat", Bio: "Momo naps on cumulus clouds and collects raindrop marbles."},
		{Title: "Pip", Slug: "pip", Tagline: "An acorn with big plans", Bio: "Pip keeps a tiny to-do list and never finishes it."},
	}
	for _, c := range characters {
		if err := upsertCharacter(ctx, pool, c); err != nil {
			return fmt.Errorf("upsert character %s: %w", c.Slug, err)
		}
	}

	products := []productSeed{
		{
			Title:         "Cloud Sticker Pack",
			Slug:          "cloud-sticker-pack",
			Price:         price(25),
			Currency:      "AED",
			Short:         "Twelve puffy cloud stickers",
			Badges:        []string{"New"},
			CategorySlug:  "stickers",
			CharacterSlug: "momo",
		},
		{
			Title:         "Acorn Planner Notebook",
			Slug:          "acorn-planner-notebook",
			Price:         price(55),
			Currency:      "AED",
			Short:         "A6 dotted notebook with Pip on the cover",
			Badges:        []string{"Best-Seller"},
			CategorySlug:  "notebooks",
			CharacterSlug: "pip",
		},
		{
			Title:        "Pastel Washi Tape Set",
			Slug:         "pastel-washi-tape-set",
			Price:        price(35),
			Currency:     "AED",
			Short:        "Five rolls in sunset shades",
			CategorySlug: "washi-tape",
		},
		{
			Title:        "Mystery Sticker Sheet",
			Slug:         "mystery-sticker-sheet",
			Short:        "Price revealed at the counter",
			CategorySlug: "stickers",
		},
	}
	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Slug, err)
		}
	}

	return nil
}

func upsertCategory(ctx context.Context, pool *pgxpool.Pool, c categorySeed) error {
	const q = `
INSERT INTO categories (title, slug, description, sort_order, tone)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (slug) DO UPDATE
SET title = EXCLUDED.title,
    description = EXCLUDED.description,
    sort_order = EXCLUDED.sort_order,
    tone = EXCLUDED.tone
`
	_, err := pool.Exec(ctx, q, c.Title, c.Slug, c.Description, c.SortOrder, c.Tone)
	return err
}

func upsertCharacter(ctx context.Context, pool *pgxpool.Pool, c characterSeed) error {
	const q = `
INSERT INTO characters (title, slug, tagline, bio)
VALUES ($1, $2, $3, $4)
ON CONFLICT (slug) DO UPDATE
SET title = EXCLUDED.title,
    tagline = EXCLUDED.tagline,
    bio = EXCLUDED.bio
`
	_, err := pool.Exec(ctx, q, c.Title, c.Slug, c.Tagline, c.Bio)
	return err
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	badges := p.Badges
	if badges == nil {
		badges = []string{}
	}
	badgesJSON, err := json.Marshal(badges)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO products (title, slug, price, currency, short_description, badges, image_urls, category_id, character_id)
VALUES ($1, $2, $3, COALESCE(NULLIF($4, ''), 'AED'), $5, $6::jsonb, '[]'::jsonb,
        (SELECT id FROM categories WHERE slug = $7),
        (SELECT id FROM characters WHERE slug = NULLIF($8, '')))
ON CONFLICT (slug) DO UPDATE
SET title = EXCLUDED.title,
    price = EXCLUDED.price,
    currency = EXCLUDED.currency,
    short_description = EXCLUDED.short_description,
    badges = EXCLUDED.badges,
    category_id = EXCLUDED.category_id,
    character_id = EXCLUDED.character_id
`
	_, err = pool.Exec(ctx, q, p.Title, p.Slug, p.Price, p.Currency, p.Short, badgesJSON, p.CategorySlug, p.CharacterSlug)
	return err
}
