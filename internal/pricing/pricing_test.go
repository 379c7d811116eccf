package pricing

import (
	"testing"

	"github.com/Laptop-Academy1999/store/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEffectivePrice(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		discount string
		want     string
	}{
		{"twenty percent off", "1000", "20", "800"},
		{"no discount", "1499.99", "0", "1499.99"},
		{"full discount", "250", "100", "0"},
		{"fractional", "999.90", "12.5", "874.9125"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectivePrice(decimal.RequireFromString(tt.price), decimal.RequireFromString(tt.discount))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestEffectivePriceNeverExceedsPrice(t *testing.T) {
	price := decimal.NewFromInt(3200)
	for d := int64(0); d <= 100; d += 5 {
		got := EffectivePrice(price, decimal.NewFromInt(d))
		assert.True(t, got.LessThanOrEqual(price), "discount %d", d)
		assert.False(t, got.IsNegative(), "discount %d", d)
		if d == 0 {
			assert.True(t, got.Equal(price))
		}
	}
}

func TestApplyFillsFinalPrice(t *testing.T) {
	products := []models.Product{
		{ID: 1, Price: decimal.NewFromInt(1000), Discount: decimal.NewFromInt(20)},
		{ID: 2, Price: decimal.RequireFromString("333.33"), Discount: decimal.NewFromInt(10)},
	}

	Apply(products)

	assert.Equal(t, "800", products[0].FinalPrice.String())
	assert.Equal(t, "300", products[1].FinalPrice.String())
}
