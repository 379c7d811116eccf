package store

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Laptop-Academy1999/store/internal/models"
	"github.com/Laptop-Academy1999/store/internal/query"
	"github.com/shopspring/decimal"
)

// MemoryStore is a process-local catalog. Ids come from a counter and are
// never reused, even after a delete.
type MemoryStore struct {
	mu       sync.RWMutex
	products []models.Product
	offers   []models.SpecialOffer
	nextID   int64
	nextOID  int64
	now      func() time.Time
}

func NewMemory() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// NewMemoryWithClock is NewMemory with a caller supplied clock.
func NewMemoryWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{now: now}
}

func (m *MemoryStore) index(id int64) int {
	for i := range m.products {
		if m.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *MemoryStore) List(_ context.Context, plan query.Plan) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := query.Apply(m.products, plan.Filters, plan.Sort)
	start := min(max(plan.Offset, 0), len(matched))
	end := len(matched)
	if plan.Limit >= 0 && plan.Limit < end-start {
		end = start + plan.Limit
	}

	out := make([]models.Product, end-start)
	copy(out, matched[start:end])
	return out, nil
}

func (m *MemoryStore) Count(_ context.Context, plan query.Plan) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f := plan.Filters.Normalize()
	var n int64
	for i := range m.products {
		if f.Match(&m.products[i]) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) Get(_ context.Context, id int64) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.index(id)
	if i < 0 {
		return nil, &models.NotFoundError{Resource: "product", ID: id}
	}
	p := m.products[i]
	return &p, nil
}

func (m *MemoryStore) Create(_ context.Context, p *models.Product) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	now := m.now()
	product := *p
	product.ID = m.nextID
	product.FinalPrice = decimal.Zero
	product.CreatedAt = now
	product.UpdatedAt = now
	m.products = append(m.products, product)
	return &product, nil
}

func (m *MemoryStore) Update(_ context.Context, id int64, p *models.Product) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return 0, &models.NotFoundError{Resource: "product", ID: id}
	}

	old := m.products[i]
	product := *p
	product.ID = id
	product.FinalPrice = decimal.Zero
	product.Rating = old.Rating
	product.ReviewsCount = old.ReviewsCount
	product.CreatedAt = old.CreatedAt
	product.UpdatedAt = m.now()
	if product.Image == nil {
		product.Image = old.Image
	}
	m.products[i] = product
	return 1, nil
}

func (m *MemoryStore) Delete(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return 0, &models.NotFoundError{Resource: "product", ID: id}
	}
	m.products = slices.Delete(m.products, i, i+1)
	m.offers = slices.DeleteFunc(m.offers, func(o models.SpecialOffer) bool {
		return o.ProductID == id
	})
	return 1, nil
}

func (m *MemoryStore) Search(_ context.Context, term string, limit int) ([]models.SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	q := strings.ToLower(term)
	results := []models.SearchResult{}
	for _, p := range m.products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			results = append(results, models.SearchResult{ID: p.ID, Name: p.Name, Image: p.Image, Price: p.Price})
		}
	}
	slices.SortFunc(results, func(a, b models.SearchResult) int {
		return cmp.Or(strings.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (m *MemoryStore) ActiveOffers(_ context.Context, at time.Time, limit int) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	best := make(map[int64]decimal.Decimal)
	for i := range m.offers {
		o := &m.offers[i]
		if !o.Active(at) {
			continue
		}
		if d, ok := best[o.ProductID]; !ok || o.Discount.GreaterThan(d) {
			best[o.ProductID] = o.Discount
		}
	}

	var products []models.Product
	for _, p := range m.products {
		if d, ok := best[p.ID]; ok {
			p.Discount = d
			products = append(products, p)
		}
	}
	slices.SortFunc(products, func(a, b models.Product) int {
		return cmp.Or(b.Discount.Cmp(a.Discount), cmp.Compare(a.ID, b.ID))
	})
	if len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

func (m *MemoryStore) CreateOffer(_ context.Context, o *models.SpecialOffer) (*models.SpecialOffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.index(o.ProductID) < 0 {
		return nil, models.NewValidationError("productId", "referenced record does not exist")
	}
	m.nextOID++
	offer := *o
	offer.ID = m.nextOID
	m.offers = append(m.offers, offer)
	return &offer, nil
}

func (m *MemoryStore) Ping(context.Context) error {
	return nil
}
