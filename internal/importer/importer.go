package importer

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"stash-backend/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CategoryWriter interface {
	Upsert(ctx context.Context, category domain.Category) (*domain.Category, error)
}

type CharacterWriter interface {
	Upsert(ctx context.Context, character domain.Character) (*domain.Character, error)
}

// NDJSONImporter reads a Sanity-style NDJSON content export, one JSON document
// per line, and upserts the catalog. Categories and characters are written
// before products so slug references resolve.
type NDJSONImporter struct {
	reader     io.Reader
	products   ProductWriter
	categories CategoryWriter
	characters CharacterWriter
}

func NewNDJSONImporter(r io.Reader, products ProductWriter, categories CategoryWriter, characters CharacterWriter) *NDJSONImporter {
	return &NDJSONImporter{
		reader:     r,
		products:   products,
		categories: categories,
		characters: characters,
	}
}

// Counts reports how many documents of each type were imported.
type Counts struct {
	Categories int
	Characters int
	Products   int
}

type doc struct {
	ID   string    `json:"_id"`
	Type string    `json:"_type"`
	Slug slugField `json:"slug"`

	Title string `json:"title"`

	// product
	Price            *float64   `json:"price"`
	Currency         string     `json:"currency"`
	ShortDescription string     `json:"shortDescription"`
	LongDescription  string     `json:"longDescription"`
	Badges           []string   `json:"badges"`
	Category         refField   `json:"category"`
	Character        refField   `json:"character"`
	Images           []urlField `json:"images"`

	// category
	Description string   `json:"description"`
	HeroImage   urlField `json:"heroImage"`
	SortOrder   int      `json:"sortOrder"`
	Tone        string   `json:"tone"`

	// character
	Tagline   string   `json:"tagline"`
	Bio       string   `json:"bio"`
	CardImage urlField `json:"cardImage"`
	MoodColor string   `json:"moodColor"`
}

// slugField accepts either a plain string or Sanity's {"current": "..."}.
type slugField struct {
	Current string
}

func (s *slugField) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		s.Current = plain
		return nil
	}
	var obj struct {
		Current string `json:"current"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	s.Current = obj.Current
	return nil
}

// refField accepts a plain slug string, {"slug": "..."} or a Sanity reference
// {"_ref": "<document id>"} resolved against the export itself.
type refField struct {
	Slug string
	Ref  string
}

func (r *refField) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		r.Slug = plain
		return nil
	}
	var obj struct {
		Slug string `json:"slug"`
		Ref  string `json:"_ref"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	r.Slug = obj.Slug
	r.Ref = obj.Ref
	return nil
}

// urlField accepts a plain URL string or {"url": "..."}.
type urlField struct {
	URL string
}

func (u *urlField) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		u.URL = plain
		return nil
	}
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	u.URL = obj.URL
	return nil
}

// Run imports the export in two passes: collect and write categories and
// characters first, then products.
func (i *NDJSONImporter) Run(ctx context.Context) (Counts, error) {
	var counts Counts

	docs, err := i.parse()
	if err != nil {
		return counts, err
	}

	// Document id to slug, for resolving {"_ref": ...} references.
	slugByID := make(map[string]string)
	for _, d := range docs {
		if d.ID != "" && d.Slug.Current != "" {
			slugByID[d.ID] = d.Slug.Current
		}
	}

	for _, d := range docs {
		switch d.Type {
		case "category":
			if err := i.saveCategory(ctx, d); err != nil {
				return counts, err
			}
			counts.Categories++
		case "character":
			if err := i.saveCharacter(ctx, d); err != nil {
				return counts, err
			}
			counts.Characters++
		}
	}

	for _, d := range docs {
		if d.Type != "product" {
			continue
		}
		if err := i.saveProduct(ctx, d, slugByID); err != nil {
			return counts, err
		}
		counts.Products++
	}

	return counts, nil
}

func (i *NDJSONImporter) parse() ([]doc, error) {
	var docs []doc
	scanner := bufio.NewScanner(i.reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var d doc
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return nil, fmt.Errorf("parse line %d: %w", line, err)
		}
		docs = append(docs, d)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	return docs, nil
}

func (i *NDJSONImporter) saveCategory(ctx context.Context, d doc) error {
	if d.Slug.Current == "" || d.Title == "" {
		return fmt.Errorf("invalid category document (missing title or slug) id %q", d.ID)
	}
	_, err := i.categories.Upsert(ctx, domain.Category{
		Title:        d.Title,
		Slug:         d.Slug.Current,
		Description:  d.Description,
		HeroImageURL: d.HeroImage.URL,
		SortOrder:    d.SortOrder,
		Tone:         d.Tone,
	})
	if err != nil {
		return fmt.Errorf("upsert category %q: %w", d.Slug.Current, err)
	}
	return nil
}

func (i *NDJSONImporter) saveCharacter(ctx context.Context, d doc) error {
	if d.Slug.Current == "" || d.Title == "" {
		return fmt.Errorf("invalid character document (missing title or slug) id %q", d.ID)
	}
	_, err := i.characters.Upsert(ctx, domain.Character{
		Title:        d.Title,
		Slug:         d.Slug.Current,
		Tagline:      d.Tagline,
		Bio:          d.Bio,
		CardImageURL: d.CardImage.URL,
		MoodColor:    d.MoodColor,
	})
	if err != nil {
		return fmt.Errorf("upsert character %q: %w", d.Slug.Current, err)
	}
	return nil
}

func (i *NDJSONImporter) saveProduct(ctx context.Context, d doc, slugByID map[string]string) error {
	if d.Slug.Current == "" || d.Title == "" {
		return fmt.Errorf("invalid product document (missing title or slug) id %q", d.ID)
	}

	images := make([]string, 0, len(d.Images))
	for _, img := range d.Images {
		if url := strings.TrimSpace(img.URL); url != "" {
			images = append(images, url)
		}
	}

	p := domain.Product{
		Title:            d.Title,
		Slug:             d.Slug.Current,
		Price:            d.Price,
		Currency:         d.Currency,
		ShortDescription: d.ShortDescription,
		LongDescription:  d.LongDescription,
		Badges:           d.Badges,
		CategorySlug:     resolveRef(d.Category, slugByID),
		CharacterSlug:    resolveRef(d.Character, slugByID),
		ImageURLs:        images,
	}

	if _, err := i.products.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", p.Slug, err)
	}
	return nil
}

func resolveRef(r refField, slugByID map[string]string) string {
	if r.Slug != "" {
		return r.Slug
	}
	if r.Ref != "" {
		return slugByID[r.Ref]
	}
	return ""
}
