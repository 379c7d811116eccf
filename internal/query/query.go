// Package query turns catalog filter, sort and page selections into a
// parameterized SQL plan, and evaluates the same selection in memory so that
// client-side and server-side listings agree.
package query

import (
	"strings"

	"github.com/Laptop-Academy1999/store/internal/models"
	"github.com/shopspring/decimal"
)

// Filters are ANDed together. Zero values impose no constraint.
type Filters struct {
	Search    string
	MinPrice  decimal.NullDecimal
	MaxPrice  decimal.NullDecimal
	Brands    []string
	Condition models.Condition
	OnSale    bool
}

// Normalize trims the search text and drops blank or repeated brands.
func (f Filters) Normalize() Filters {
	f.Search = strings.TrimSpace(f.Search)
	if len(f.Brands) > 0 {
		seen := make(map[string]struct{}, len(f.Brands))
		brands := make([]string, 0, len(f.Brands))
		for _, b := range f.Brands {
			b = strings.TrimSpace(b)
			if b == "" {
				continue
			}
			if _, ok := seen[b]; ok {
				continue
			}
			seen[b] = struct{}{}
			brands = append(brands, b)
		}
		if len(brands) == 0 {
			brands = nil
		}
		f.Brands = brands
	}
	return f
}

// ParseBrands splits a comma separated brand list.
func ParseBrands(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return Filters{Brands: strings.Split(s, ",")}.Normalize().Brands
}

type Sort int

const (
	SortNewest Sort = iota
	SortPriceAsc
	SortPriceDesc
	SortRatingDesc
)

var sortNames = map[Sort]string{
	SortNewest:     "newest",
	SortPriceAsc:   "price-asc",
	SortPriceDesc:  "price-desc",
	SortRatingDesc: "rating",
}

// ParseSort maps the storefront's sort values onto Sort. Unknown values fall
// back to SortNewest.
func ParseSort(s string) Sort {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "price-asc", "price_asc":
		return SortPriceAsc
	case "price-desc", "price_desc":
		return SortPriceDesc
	case "rating", "rating-desc", "rating_desc":
		return SortRatingDesc
	default:
		return SortNewest
	}
}

func (s Sort) String() string {
	if name, ok := sortNames[s]; ok {
		return name
	}
	return sortNames[SortNewest]
}
