package query

import (
	"slices"
	"strings"

	"github.com/Laptop-Academy1999/store/internal/models"
	"github.com/Laptop-Academy1999/store/internal/pricing"
)

// Match reports whether p satisfies every active filter.
func (f Filters) Match(p *models.Product) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.BrandName()), q) {
			return false
		}
	}
	if f.MinPrice.Valid || f.MaxPrice.Valid {
		final := pricing.Resolve(p)
		if f.MinPrice.Valid && final.LessThan(f.MinPrice.Decimal) {
			return false
		}
		if f.MaxPrice.Valid && final.GreaterThan(f.MaxPrice.Decimal) {
			return false
		}
	}
	if len(f.Brands) > 0 && (p.Brand == nil || !slices.Contains(f.Brands, *p.Brand)) {
		return false
	}
	if f.Condition != "" && p.Condition != f.Condition {
		return false
	}
	if f.OnSale && !p.Discount.IsPositive() {
		return false
	}
	return true
}

// Compare orders a before b the same way the plan's ORDER BY does.
func (s Sort) Compare(a, b *models.Product) int {
	var c int
	switch s {
	case SortPriceAsc:
		c = pricing.Resolve(a).Cmp(pricing.Resolve(b))
	case SortPriceDesc:
		c = pricing.Resolve(b).Cmp(pricing.Resolve(a))
	case SortRatingDesc:
		c = b.Rating.Cmp(a.Rating)
	default:
		c = b.CreatedAt.Compare(a.CreatedAt)
	}
	if c != 0 {
		return c
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}

// Apply returns the matching products in sort order. The input is not modified.
func Apply(products []models.Product, f Filters, s Sort) []models.Product {
	f = f.Normalize()
	out := make([]models.Product, 0, len(products))
	for i := range products {
		if f.Match(&products[i]) {
			out = append(out, products[i])
		}
	}
	slices.SortFunc(out, func(a, b models.Product) int {
		return s.Compare(&a, &b)
	})
	return out
}
