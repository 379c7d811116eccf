package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Condition is stored and sent over the wire with the storefront's Arabic labels.
type Condition string

const (
	ConditionNew  Condition = "جديد"
	ConditionUsed Condition = "مستعمل"
)

// ParseCondition accepts the stored labels as well as "new"/"used" in any case.
// An empty string yields ("", true) so callers can treat it as "not set".
func ParseCondition(s string) (Condition, bool) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return "", true
	case s == string(ConditionNew) || strings.EqualFold(s, "new"):
		return ConditionNew, true
	case s == string(ConditionUsed) || strings.EqualFold(s, "used"):
		return ConditionUsed, true
	}
	return "", false
}

func (c Condition) Valid() bool {
	return c == ConditionNew || c == ConditionUsed
}

type Product struct {
	ID            int64               `json:"id"`
	Name          string              `json:"name"`
	Brand         *string             `json:"brand"`
	Condition     Condition           `json:"condition"`
	Price         decimal.Decimal     `json:"price"`
	OriginalPrice decimal.NullDecimal `json:"originalPrice"`
	Discount      decimal.Decimal     `json:"discount"`
	FinalPrice    decimal.Decimal     `json:"finalPrice"`
	Stock         int                 `json:"stock"`
	Image         *string             `json:"image"`
	Description   *string             `json:"description"`
	RAM           *int                `json:"ram"`
	Storage       *int                `json:"storage"`
	CPU           *string             `json:"cpu"`
	GPU           *string             `json:"gpu"`
	ScreenSize    decimal.NullDecimal `json:"screenSize"`
	Rating        decimal.Decimal     `json:"rating"`
	ReviewsCount  int                 `json:"reviewsCount"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// BrandName returns the brand or "" when unset.
func (p *Product) BrandName() string {
	if p.Brand == nil {
		return ""
	}
	return *p.Brand
}

func (p *Product) ImagePath() string {
	if p.Image == nil {
		return ""
	}
	return *p.Image
}

type SpecialOffer struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"productId"`
	Discount  decimal.Decimal `json:"discount"`
	StartDate time.Time       `json:"startDate"`
	EndDate   time.Time       `json:"endDate"`
}

// Active reports whether at falls inside the offer window, bounds included.
func (o *SpecialOffer) Active(at time.Time) bool {
	return !at.Before(o.StartDate) && !at.After(o.EndDate)
}

type SearchResult struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Image *string         `json:"image"`
	Price decimal.Decimal `json:"price"`
}
