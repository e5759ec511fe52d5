package importer

import (
	"context"
	"strings"
	"testing"

	"stash-backend/internal/domain"
)

type stubProductRepo struct {
	items []domain.Product
}

type stubCategoryRepo struct {
	items []domain.Category
}

type stubCharacterRepo struct {
	items []domain.Character
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.items = append(s.items, p)
	return &p, nil
}

func (s *stubCategoryRepo) Upsert(_ context.Context, c domain.Category) (*domain.Category, error) {
	s.items = append(s.items, c)
	return &c, nil
}

func (s *stubCharacterRepo) Upsert(_ context.Context, c domain.Character) (*domain.Character, error) {
	s.items = append(s.items, c)
	return &c, nil
}

func TestNDJSONImporter_Run(t *testing.T) {
	export := `{"_id":"cat.stickers","_type":"category","title":"Stickers","slug":{"current":"stickers"},"description":"Peel and stick","sortOrder":1}
{"_id":"char.momo","_type":"character","title":"Momo","slug":{"current":"momo"},"tagline":"A sleepy cloud cat"}
{"_id":"prod.cloud","_type":"product","title":"Cloud Sticker Pack","slug":{"current":"cloud-sticker-pack"},"price":12.5,"currency":"AED","badges":["New"],"category":{"_ref":"cat.stickers"},"character":{"_ref":"char.momo"},"images":[{"url":"https://cdn.example/cloud-1.png"},"https://cdn.example/cloud-2.png"]}
{"_id":"prod.washi","_type":"product","title":"Washi Tape Set","slug":"washi-tape-set","category":"stickers"}`

	products := &stubProductRepo{}
	categories := &stubCategoryRepo{}
	characters := &stubCharacterRepo{}
	imp := NewNDJSONImporter(strings.NewReader(export), products, categories, characters)

	counts, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if counts.Categories != 1 || counts.Characters != 1 || counts.Products != 2 {
		t.Fatalf("unexpected counts %+v", counts)
	}

	if categories.items[0].Slug != "stickers" || categories.items[0].SortOrder != 1 {
		t.Fatalf("unexpected category %+v", categories.items[0])
	}
	if characters.items[0].Slug != "momo" || characters.items[0].Tagline != "A sleepy cloud cat" {
		t.Fatalf("unexpected character %+v", characters.items[0])
	}

	first := products.items[0]
	if first.Slug != "cloud-sticker-pack" || first.Price == nil || *first.Price != 12.5 {
		t.Fatalf("unexpected product %+v", first)
	}
	if first.CategorySlug != "stickers" || first.CharacterSlug != "momo" {
		t.Fatalf("expected refs resolved to slugs, got %+v", first)
	}
	if len(first.ImageURLs) != 2 {
		t.Fatalf("expected 2 images, got %+v", first.ImageURLs)
	}

	second := products.items[1]
	if second.CategorySlug != "stickers" || second.Price != nil {
		t.Fatalf("unexpected second product %+v", second)
	}
}

func TestNDJSONImporter_SkipsBlankLines(t *testing.T) {
	export := `
{"_type":"category","title":"Stationery","slug":{"current":"stationery"}}

`
	categories := &stubCategoryRepo{}
	imp := NewNDJSONImporter(strings.NewReader(export), &stubProductRepo{}, categories, &stubCharacterRepo{})

	counts, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if counts.Categories != 1 {
		t.Fatalf("expected 1 category, got %+v", counts)
	}
}

func TestNDJSONImporter_RejectsDocumentWithoutSlug(t *testing.T) {
	export := `{"_type":"product","title":"No Slug Here"}`
	imp := NewNDJSONImporter(strings.NewReader(export), &stubProductRepo{}, &stubCategoryRepo{}, &stubCharacterRepo{})

	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("expected error for product without slug")
	}
}

func TestNDJSONImporter_RejectsMalformedLine(t *testing.T) {
	export := `{"_type":"category","title":"Stickers","slug":"stickers"}
{not json}`
	imp := NewNDJSONImporter(strings.NewReader(export), &stubProductRepo{}, &stubCategoryRepo{}, &stubCharacterRepo{})

	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("expected parse error")
	}
}
