// Package shop is the storefront's client side listing: an immutable State,
// the Fetchers that fill it, a Controller that sequences requests and a pure
// Render step.
package shop

import (
	"maps"
	"strings"

	"github.com/Laptop-Academy1999/store/internal/models"
	"github.com/Laptop-Academy1999/store/internal/pagination"
	"github.com/Laptop-Academy1999/store/internal/query"
)

type Category string

const (
	CategoryAll    Category = "all"
	CategoryNew    Category = "new"
	CategoryUsed   Category = "used"
	CategoryOffers Category = "offers"
)

// State is a value; every transition returns a new State and leaves the
// receiver untouched.
type State struct {
	Filters    query.Filters
	Sort       query.Sort
	Category   Category
	Page       int
	PageSize   int
	TotalCount int64
	TotalPages int
	Items      []models.Product
	Loading    bool
	Err        error
	CartCount  int
	Wishlist   map[int64]struct{}
}

func NewState(pageSize int) State {
	if pageSize < 1 {
		pageSize = 12
	}
	return State{Category: CategoryAll, Page: 1, PageSize: pageSize}
}

func (s State) WithSearch(q string) State {
	s.Filters.Search = strings.TrimSpace(q)
	s.Page = 1
	return s
}

func (s State) WithSort(sort query.Sort) State {
	s.Sort = sort
	s.Page = 1
	return s
}

func (s State) WithCategory(c Category) State {
	s.Category = c
	s.Page = 1
	return s
}

// WithFilters replaces the price, brand and search filters.
func (s State) WithFilters(f query.Filters) State {
	s.Filters = f.Normalize()
	s.Page = 1
	return s
}

// GoToPage moves to page n clamped to [1, TotalPages].
func (s State) GoToPage(n int) State {
	s.Page = pagination.Clamp(n, s.TotalPages)
	return s
}

func (s State) Next() State {
	if s.Page >= s.TotalPages {
		return s
	}
	s.Page++
	return s
}

func (s State) Prev() State {
	if s.Page <= 1 {
		return s
	}
	s.Page--
	return s
}

func (s State) AddToCart(id int64) State {
	for _, p := range s.Items {
		if p.ID == id {
			s.CartCount++
			break
		}
	}
	return s
}

func (s State) ToggleWishlist(id int64) State {
	wishlist := maps.Clone(s.Wishlist)
	if wishlist == nil {
		wishlist = make(map[int64]struct{})
	}
	if _, ok := wishlist[id]; ok {
		delete(wishlist, id)
	} else {
		wishlist[id] = struct{}{}
	}
	s.Wishlist = wishlist
	return s
}

func (s State) InWishlist(id int64) bool {
	_, ok := s.Wishlist[id]
	return ok
}

// Request is the fetch the state currently asks for. The category narrows
// the filters; an unknown category adds nothing.
func (s State) Request() Request {
	f := s.Filters
	switch s.Category {
	case CategoryNew:
		f.Condition = models.ConditionNew
	case CategoryUsed:
		f.Condition = models.ConditionUsed
	case CategoryOffers:
		f.OnSale = true
	}
	return Request{Filters: f.Normalize(), Sort: s.Sort, Page: s.Page, PageSize: s.PageSize}
}

func (s State) Started() State {
	s.Loading = true
	s.Err = nil
	return s
}

func (s State) Loaded(r Result) State {
	s.Loading = false
	s.Err = nil
	s.Items = r.Items
	s.TotalCount = r.TotalCount
	s.TotalPages = r.TotalPages
	s.Page = r.Page
	if r.PageSize > 0 {
		s.PageSize = r.PageSize
	}
	return s
}

func (s State) Failed(err error) State {
	s.Loading = false
	s.Err = err
	return s
}
