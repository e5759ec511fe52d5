package catalog

import (
	"math"
	"sort"
	"strings"

	"stash-backend/internal/domain"
)

// Sort names the supported product orderings.
type Sort string

const (
	SortNewest    Sort = "newest"
	SortPriceAsc  Sort = "price-asc"
	SortPriceDesc Sort = "price-desc"
	SortNameAsc   Sort = "name-asc"
	SortNameDesc  Sort = "name-desc"
)

// ParseSort maps a query value onto a Sort, defaulting to newest.
func ParseSort(s string) Sort {
	switch Sort(strings.TrimSpace(s)) {
	case SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return Sort(strings.TrimSpace(s))
	default:
		return SortNewest
	}
}

// Filter holds independent predicates applied to a product list. Zero values
// mean "no constraint".
type Filter struct {
	Category  string
	Badge     string
	Character string
	MinPrice  *float64
	MaxPrice  *float64
	Sort      Sort
}

// Apply filters and orders the products without mutating the input. Sorting
// is stable; "newest" keeps the input's order, which is the catalog's
// creation-descending order.
func Apply(products []domain.Product, f Filter) []domain.Product {
	result := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Badge != "" && !p.HasBadge(f.Badge) {
			continue
		}
		if f.Character != "" && p.CharacterName != f.Character {
			continue
		}
		if f.MinPrice != nil || f.MaxPrice != nil {
			if p.Price == nil {
				continue
			}
			if f.MinPrice != nil && *p.Price < *f.MinPrice {
				continue
			}
			if f.MaxPrice != nil && *p.Price > *f.MaxPrice {
				continue
			}
		}
		result = append(result, p)
	}

	switch f.Sort {
	case SortNameAsc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Title < result[j].Title
		})
	case SortNameDesc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[j].Title < result[i].Title
		})
	case SortPriceAsc:
		sort.SliceStable(result, func(i, j int) bool {
			return sortPrice(result[i]) < sortPrice(result[j])
		})
	case SortPriceDesc:
		sort.SliceStable(result, func(i, j int) bool {
			return sortPrice(result[j]) < sortPrice(result[i])
		})
	}

	return result
}

// sortPrice treats a missing price as +Inf so unpriced products sort last in
// both price orderings.
func sortPrice(p domain.Product) float64 {
	if p.Price == nil {
		return math.Inf(1)
	}
	return *p.Price
}

// Facets are the filter option lists derived from an unfiltered product set.
type Facets struct {
	Categories []string `json:"categories"`
	Badges     []string `json:"badges"`
	Characters []string `json:"characters"`
}

// BuildFacets collects distinct categories, badges and character names,
// sorted lexicographically.
func BuildFacets(products []domain.Product) Facets {
	categories := map[string]struct{}{}
	badges := map[string]struct{}{}
	characters := map[string]struct{}{}
	for _, p := range products {
		if p.Category != "" {
			categories[p.Category] = struct{}{}
		}
		for _, b := range p.Badges {
			badges[b] = struct{}{}
		}
		if p.CharacterName != "" {
			characters[p.CharacterName] = struct{}{}
		}
	}
	return Facets{
		Categories: sortedKeys(categories),
		Badges:     sortedKeys(badges),
		Characters: sortedKeys(characters),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
