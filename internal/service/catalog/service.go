package catalog

import (
	"context"
	"io"
	"log"
	"strings"

	"stash-backend/internal/catalog"
	"stash-backend/internal/domain"
	categoryrepo "stash-backend/internal/repository/category"
	characterrepo "stash-backend/internal/repository/character"
	productrepo "stash-backend/internal/repository/product"
)

// searchLimit caps free-text search results, matching the storefront's
// search overlay.
const searchLimit = 8

// Service exposes the read-only catalog. Listing and search failures degrade
// to empty results; only single-document lookups surface not-found.
type Service struct {
	products   productrepo.Repository
	categories categoryrepo.Repository
	characters characterrepo.Repository
	logger     *log.Logger
}

func New(products productrepo.Repository, categories categoryrepo.Repository, characters characterrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		products:   products,
		categories: categories,
		characters: characters,
		logger:     logger,
	}
}

// ListProducts returns the filtered, sorted product list plus the facet
// options derived from the unfiltered set.
func (s *Service) ListProducts(ctx context.Context, f catalog.Filter) ([]domain.Product, catalog.Facets) {
	all, err := s.products.ListAll(ctx)
	if err != nil {
		s.logger.Printf("catalog service: list products degraded to empty: %v", err)
		return []domain.Product{}, catalog.Facets{}
	}
	filtered := catalog.Apply(all, f)
	return filtered, catalog.BuildFacets(all)
}

func (s *Service) GetProduct(ctx context.Context, slug string) (*domain.Product, error) {
	return s.products.GetBySlug(ctx, slug)
}

func (s *Service) LatestProducts(ctx context.Context, limit int) []domain.Product {
	products, err := s.products.ListLatest(ctx, limit)
	if err != nil {
		s.logger.Printf("catalog service: latest degraded to empty: %v", err)
		return []domain.Product{}
	}
	return products
}

func (s *Service) BestSellers(ctx context.Context, limit int) []domain.Product {
	products, err := s.products.ListBestSellers(ctx, limit)
	if err != nil {
		s.logger.Printf("catalog service: best sellers degraded to empty: %v", err)
		return []domain.Product{}
	}
	return products
}

func (s *Service) Categories(ctx context.Context) []domain.Category {
	categories, err := s.categories.List(ctx)
	if err != nil {
		s.logger.Printf("catalog service: categories degraded to empty: %v", err)
		return []domain.Category{}
	}
	return categories
}

// CategoryWithProducts resolves a category page: the category itself plus its
// products. An unknown slug is not-found; a product read failure degrades to
// an empty list.
func (s *Service) CategoryWithProducts(ctx context.Context, slug string) (*domain.Category, []domain.Product, error) {
	cat, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	products, err := s.products.ListByCategorySlug(ctx, slug)
	if err != nil {
		s.logger.Printf("catalog service: category products degraded to empty: %v", err)
		products = []domain.Product{}
	}
	return cat, products, nil
}

func (s *Service) Characters(ctx context.Context) []domain.Character {
	characters, err := s.characters.List(ctx)
	if err != nil {
		s.logger.Printf("catalog service: characters degraded to empty: %v", err)
		return []domain.Character{}
	}
	return characters
}

func (s *Service) CharacterWithProducts(ctx context.Context, slug string) (*domain.Character, []domain.Product, error) {
	ch, err := s.characters.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	products, err := s.products.ListByCharacterSlug(ctx, slug)
	if err != nil {
		s.logger.Printf("catalog service: character products degraded to empty: %v", err)
		products = []domain.Product{}
	}
	return ch, products, nil
}

// Search matches the term against titles, badges and category names. An
// empty term or a read failure yields an empty result.
func (s *Service) Search(ctx context.Context, term string) []domain.Product {
	term = strings.TrimSpace(term)
	if term == "" {
		return []domain.Product{}
	}
	products, err := s.products.Search(ctx, term, searchLimit)
	if err != nil {
		s.logger.Printf("catalog service: search %q degraded to empty: %v", term, err)
		return []domain.Product{}
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products
}
