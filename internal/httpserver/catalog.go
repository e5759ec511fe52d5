package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stash-backend/internal/catalog"
	"stash-backend/internal/domain"
)

// CatalogService is the read-only catalog surface the handlers need.
type CatalogService interface {
	ListProducts(ctx context.Context, f catalog.Filter) ([]domain.Product, catalog.Facets)
	GetProduct(ctx context.Context, slug string) (*domain.Product, error)
	LatestProducts(ctx context.Context, limit int) []domain.Product
	BestSellers(ctx context.Context, limit int) []domain.Product
	Categories(ctx context.Context) []domain.Category
	CategoryWithProducts(ctx context.Context, slug string) (*domain.Category, []domain.Product, error)
	Characters(ctx context.Context) []domain.Character
	CharacterWithProducts(ctx context.Context, slug string) (*domain.Character, []domain.Product, error)
	Search(ctx context.Context, term string) []domain.Product
}

// landingPageSize matches the storefront's just-landed and best-sellers rails.
const landingPageSize = 16

func listProductsHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := catalog.Filter{
			Category:  c.Query("category"),
			Badge:     c.Query("badge"),
			Character: c.Query("character"),
			Sort:      catalog.ParseSort(c.Query("sort")),
		}

		var err error
		if f.MinPrice, err = priceBound(c.Query("minPrice")); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price bound"})
			return
		}
		if f.MaxPrice, err = priceBound(c.Query("maxPrice")); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price bound"})
			return
		}

		products, facets := svc.ListProducts(c.Request.Context(), f)
		c.JSON(http.StatusOK, gin.H{"products": products, "facets": facets})
	}
}

func priceBound(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func getProductHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := svc.GetProduct(c.Request.Context(), c.Param("slug"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load product"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"product": product})
	}
}

func justLandedHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"products": svc.LatestProducts(c.Request.Context(), landingPageSize)})
	}
}

func bestSellersHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"products": svc.BestSellers(c.Request.Context(), landingPageSize)})
	}
}

func listCategoriesHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"categories": svc.Categories(c.Request.Context())})
	}
}

func getCategoryHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, products, err := svc.CategoryWithProducts(c.Request.Context(), c.Param("slug"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load category"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"category": category, "products": products})
	}
}

func listCharactersHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"characters": svc.Characters(c.Request.Context())})
	}
}

func getCharacterHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		character, products, err := svc.CharacterWithProducts(c.Request.Context(), c.Param("slug"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Character not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load character"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"character": character, "products": products})
	}
}

func searchHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"products": svc.Search(c.Request.Context(), c.Query("q"))})
	}
}
