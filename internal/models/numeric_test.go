package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericCheck(t *testing.T) {
	tests := []struct {
		name  string
		col   Numeric
		value string
		ok    bool
	}{
		{"zero", PriceColumn, "0", true},
		{"cents", PriceColumn, "1299.99", true},
		{"column max", PriceColumn, "9999999999.99", true},
		{"trailing zeros", PriceColumn, "12.5000", true},
		{"negative in range", PriceColumn, "-10.5", true},
		{"exponent form in range", PriceColumn, "1.5e3", true},
		{"sub-cent", PriceColumn, "10.005", false},
		{"too large", PriceColumn, "10000000000", false},
		{"huge exponent", PriceColumn, "1e50000000", false},
		{"tiny exponent", PriceColumn, "1e-50000000", false},
		{"too many digits", PriceColumn, "1.0000000000000000000000000000000000000000001", false},
		{"discount max", DiscountColumn, "100", true},
		{"discount too large", DiscountColumn, "1000", false},
		{"discount scale", DiscountColumn, "12.345", false},
		{"screen size", ScreenSizeColumn, "15.6", true},
		{"screen size trailing zero", ScreenSizeColumn, "15.60", true},
		{"screen size scale", ScreenSizeColumn, "15.66", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.value)
			require.NoError(t, err)

			err = tt.col.Check("price", d)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, IsValidation(err), "got %v", err)
		})
	}
}

func TestNumericCheckNull(t *testing.T) {
	assert.NoError(t, PriceColumn.CheckNull("price", decimal.NullDecimal{}))
	err := PriceColumn.CheckNull("price", decimal.NewNullDecimal(decimal.RequireFromString("0.001")))
	assert.True(t, IsValidation(err))
}
