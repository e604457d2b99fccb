package catalog

import (
	"context"
	"slices"
	"strings"

	"github.com/joao-fontenele/storefront-otel-demo/internal/domain"
)

// SectionAll disables the section filter.
const SectionAll = "all"

type SortOrder string

const (
	SortDefault   SortOrder = "default"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
)

// ParseSortOrder maps a query value to a SortOrder. Unrecognized values keep
// the storage order.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortPriceAsc, SortPriceDesc:
		return SortOrder(s)
	default:
		return SortDefault
	}
}

type Query struct {
	Section string
	Search  string
	Sort    SortOrder
}

type ProductLister interface {
	List(ctx context.Context) ([]domain.Product, error)
}

type Service struct {
	products ProductLister
}

func NewService(products ProductLister) *Service {
	return &Service{products: products}
}

// List filters the catalog by section and search text, then orders it.
// Price sorting is stable, so ties keep their storage order.
func (s *Service) List(ctx context.Context, q Query) ([]domain.Product, error) {
	all, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(q.Search)
	result := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if !matchesSection(p, q.Section) || !matchesSearch(p, search) {
			continue
		}
		result = append(result, p)
	}

	switch q.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(result, func(a, b domain.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(result, func(a, b domain.Product) int {
			return b.Price.Cmp(a.Price)
		})
	}

	return result, nil
}

func matchesSection(p domain.Product, section string) bool {
	return section == "" || section == SectionAll || p.Section == section
}

func matchesSearch(p domain.Product, lowered string) bool {
	if lowered == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), lowered) ||
		strings.Contains(strings.ToLower(p.Description), lowered)
}
