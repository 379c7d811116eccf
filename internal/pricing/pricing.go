// Package pricing derives the price a customer actually pays.
package pricing

import (
	"github.com/Laptop-Academy1999/store/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// EffectivePrice returns price*(1-discount/100) when discount is positive,
// otherwise price unchanged. The result is never negative.
func EffectivePrice(price, discount decimal.Decimal) decimal.Decimal {
	if !discount.IsPositive() {
		return price
	}
	final := price.Mul(decimal.NewFromInt(1).Sub(discount.Div(hundred)))
	if final.IsNegative() {
		return decimal.Zero
	}
	return final
}

// Resolve returns the effective price of p.
func Resolve(p *models.Product) decimal.Decimal {
	return EffectivePrice(p.Price, p.Discount)
}

// Apply fills FinalPrice on every product in place.
func Apply(products []models.Product) {
	for i := range products {
		products[i].FinalPrice = Round(Resolve(&products[i]))
	}
}

// Round rounds to the two decimal places shown to customers.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
