package store

import (
	"context"
	"testing"
	"time"

	"github.com/Laptop-Academy1999/store/internal/models"
	"github.com/Laptop-Academy1999/store/internal/query"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func tickingClock() func() time.Time {
	t := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func seed(t *testing.T, m *MemoryStore) {
	t.Helper()
	ctx := context.Background()
	for _, p := range []models.Product{
		{Name: "ThinkPad X1", Brand: strPtr("Lenovo"), Condition: models.ConditionNew, Price: decimal.NewFromInt(1500), Rating: decimal.RequireFromString("4.5")},
		{Name: "Latitude 5420", Brand: strPtr("Dell"), Condition: models.ConditionUsed, Price: decimal.NewFromInt(600), Discount: decimal.NewFromInt(10)},
		{Name: "MacBook Air", Brand: strPtr("Apple"), Condition: models.ConditionNew, Price: decimal.NewFromInt(1000), Discount: decimal.NewFromInt(20)},
		{Name: "EliteBook 840", Brand: strPtr("HP"), Condition: models.ConditionUsed, Price: decimal.NewFromInt(450)},
	} {
		_, err := m.Create(ctx, &p)
		require.NoError(t, err)
	}
}

func mustPlan(t *testing.T, f query.Filters, s query.Sort, page, size int) query.Plan {
	t.Helper()
	plan, err := query.Build(f, s, page, size)
	require.NoError(t, err)
	return plan
}

func TestMemoryStoreListAndCount(t *testing.T) {
	m := NewMemoryWithClock(tickingClock())
	seed(t, m)
	ctx := context.Background()

	plan := mustPlan(t, query.Filters{Condition: models.ConditionUsed}, query.SortPriceAsc, 1, 1)
	items, err := m.List(ctx, plan)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(4), items[0].ID)

	total, err := m.Count(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	plan = mustPlan(t, query.Filters{}, query.SortNewest, 2, 3)
	items, err = m.List(ctx, plan)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ID)

	plan = mustPlan(t, query.Filters{}, query.SortNewest, 5, 3)
	items, err = m.List(ctx, plan)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMemoryStoreIDsAreNeverReused(t *testing.T) {
	m := NewMemory()
	seed(t, m)
	ctx := context.Background()

	_, err := m.Delete(ctx, 4)
	require.NoError(t, err)

	p, err := m.Create(ctx, &models.Product{Name: "Spectre", Price: decimal.NewFromInt(900)})
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.ID)

	_, err = m.Get(ctx, 4)
	assert.True(t, models.IsNotFound(err))
}

func TestMemoryStoreUpdateKeepsImage(t *testing.T) {
	m := NewMemoryWithClock(tickingClock())
	ctx := context.Background()

	created, err := m.Create(ctx, &models.Product{Name: "Yoga", Price: decimal.NewFromInt(800), Image: strPtr("/uploads/yoga.png")})
	require.NoError(t, err)

	n, err := m.Update(ctx, created.ID, &models.Product{Name: "Yoga 7", Price: decimal.NewFromInt(750)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := m.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Yoga 7", got.Name)
	assert.Equal(t, "/uploads/yoga.png", got.ImagePath())
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(created.UpdatedAt))

	_, err = m.Update(ctx, 99, &models.Product{Name: "x", Price: decimal.NewFromInt(1)})
	assert.True(t, models.IsNotFound(err))
}

func TestMemoryStoreDeleteMissing(t *testing.T) {
	_, err := NewMemory().Delete(context.Background(), 1)
	assert.True(t, models.IsNotFound(err))
}

func TestMemoryStoreSearch(t *testing.T) {
	m := NewMemory()
	seed(t, m)

	results, err := m.Search(context.Background(), "book", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "EliteBook 840", results[0].Name)
	assert.Equal(t, "MacBook Air", results[1].Name)
}

func TestMemoryStoreActiveOffers(t *testing.T) {
	m := NewMemory()
	seed(t, m)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, o := range []models.SpecialOffer{
		{ProductID: 1, Discount: decimal.NewFromInt(15), StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour)},
		{ProductID: 1, Discount: decimal.NewFromInt(25), StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour)},
		{ProductID: 2, Discount: decimal.NewFromInt(30), StartDate: now.Add(-time.Hour), EndDate: now},
		{ProductID: 3, Discount: decimal.NewFromInt(50), StartDate: now.Add(time.Hour), EndDate: now.Add(2 * time.Hour)},
	} {
		_, err := m.CreateOffer(ctx, &o)
		require.NoError(t, err)
	}

	products, err := m.ActiveOffers(ctx, now, 5)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(2), products[0].ID)
	assert.True(t, decimal.NewFromInt(30).Equal(products[0].Discount))
	assert.Equal(t, int64(1), products[1].ID)
	assert.True(t, decimal.NewFromInt(25).Equal(products[1].Discount))

	_, err = m.CreateOffer(ctx, &models.SpecialOffer{ProductID: 42, Discount: decimal.NewFromInt(5)})
	assert.True(t, models.IsValidation(err))
}
