package models

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Column shapes of the numeric product fields.
var (
	PriceColumn      = Numeric{Precision: 12, Scale: 2}
	DiscountColumn   = Numeric{Precision: 5, Scale: 2}
	ScreenSizeColumn = Numeric{Precision: 4, Scale: 1}
)

// maxDigits bounds the coefficient length looked at before any arithmetic.
const maxDigits = 40

var ten = big.NewInt(10)

// Numeric describes a NUMERIC(Precision, Scale) column.
type Numeric struct {
	Precision int
	Scale     int
}

// Check returns a ValidationError unless d fits the column without rounding.
// Only the exponent and coefficient are inspected, so a value such as 1e50000000
// is rejected without being expanded.
func (n Numeric) Check(field string, d decimal.Decimal) error {
	coef := d.Coefficient()
	if coef.Sign() == 0 {
		return nil
	}
	coef.Abs(coef)
	digits := int64(len(coef.String()))
	if digits > maxDigits {
		return NewValidationError(field, "has too many digits")
	}

	// Trailing zeros are not significant: 15.60 fits NUMERIC(4,1).
	exp := int64(d.Exponent())
	rem := new(big.Int)
	for exp < -int64(n.Scale) {
		q, r := new(big.Int).QuoRem(coef, ten, rem)
		if r.Sign() != 0 {
			break
		}
		coef = q
		exp++
		digits--
	}
	if exp < -int64(n.Scale) {
		return NewValidationError(field, "must have at most %d decimal places", n.Scale)
	}
	if digits+exp > int64(n.Precision-n.Scale) {
		return NewValidationError(field, "must have at most %d digits before the decimal point", n.Precision-n.Scale)
	}
	return nil
}

// CheckNull is Check for optional values; an absent value passes.
func (n Numeric) CheckNull(field string, d decimal.NullDecimal) error {
	if !d.Valid {
		return nil
	}
	return n.Check(field, d.Decimal)
}
