package shop

import (
	"github.com/Laptop-Academy1999/store/internal/models"
	"github.com/Laptop-Academy1999/store/internal/pagination"
	"github.com/Laptop-Academy1999/store/internal/pricing"
)

const UnknownBrand = "غير محدد"

type Card struct {
	ID             int64
	Name           string
	Brand          string
	ImageURL       string
	Price          string
	OriginalPrice  string
	DiscountBadge  string
	ConditionBadge models.Condition
	Stock          int
	InWishlist     bool
}

type Pager struct {
	Visible bool
	Current int
	HasPrev bool
	HasNext bool
	Window  pagination.Window
}

type View struct {
	Loading    bool
	Error      string
	Empty      bool
	TotalCount int64
	Cards      []Card
	Pager      Pager
	CartCount  int
}

// Render derives everything the storefront draws from s alone.
func Render(s State) View {
	v := View{
		Loading:    s.Loading,
		TotalCount: s.TotalCount,
		CartCount:  s.CartCount,
	}
	if s.Err != nil {
		v.Error = s.Err.Error()
		return v
	}
	if s.Loading {
		return v
	}
	if len(s.Items) == 0 {
		v.Empty = true
		return v
	}

	v.Cards = make([]Card, 0, len(s.Items))
	for i := range s.Items {
		v.Cards = append(v.Cards, card(&s.Items[i], s.InWishlist(s.Items[i].ID)))
	}

	if s.TotalPages > 1 {
		v.Pager = Pager{
			Visible: true,
			Current: s.Page,
			HasPrev: s.Page > 1,
			HasNext: s.Page < s.TotalPages,
			Window:  pagination.NewWindow(s.Page, s.TotalPages),
		}
	}
	return v
}

func card(p *models.Product, wished bool) Card {
	c := Card{
		ID:             p.ID,
		Name:           p.Name,
		Brand:          p.BrandName(),
		ImageURL:       ResolveImageURL(p.ImagePath()),
		Price:          pricing.Round(pricing.Resolve(p)).StringFixed(2),
		ConditionBadge: p.Condition,
		Stock:          p.Stock,
		InWishlist:     wished,
	}
	if c.Brand == "" {
		c.Brand = UnknownBrand
	}
	if c.ConditionBadge != models.ConditionUsed {
		c.ConditionBadge = models.ConditionNew
	}
	if p.Discount.IsPositive() {
		c.DiscountBadge = p.Discount.String() + "%"
		original := p.Price
		if p.OriginalPrice.Valid {
			original = p.OriginalPrice.Decimal
		}
		c.OriginalPrice = original.StringFixed(2)
	}
	return c
}
