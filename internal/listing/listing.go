// Package listing is the catalog's server boundary: it validates requests,
// runs them against a Repository and decorates results with prices.
package listing

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/Laptop-Academy1999/store/internal/models"
	"github.com/Laptop-Academy1999/store/internal/pagination"
	"github.com/Laptop-Academy1999/store/internal/pricing"
	"github.com/Laptop-Academy1999/store/internal/query"
)

const (
	OfferLimit     = 5
	SearchLimit    = 5
	MinSearchRunes = 2
)

// Repository is implemented by store.Store and store.MemoryStore.
type Repository interface {
	List(ctx context.Context, plan query.Plan) ([]models.Product, error)
	Count(ctx context.Context, plan query.Plan) (int64, error)
	Get(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	Update(ctx context.Context, id int64, p *models.Product) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	Search(ctx context.Context, term string, limit int) ([]models.SearchResult, error)
	ActiveOffers(ctx context.Context, at time.Time, limit int) ([]models.Product, error)
	CreateOffer(ctx context.Context, o *models.SpecialOffer) (*models.SpecialOffer, error)
	Ping(ctx context.Context) error
}

// Page is one page of a listing together with the filtered totals.
type Page struct {
	Items      []models.Product `json:"products"`
	TotalCount int64            `json:"total"`
	TotalPages int              `json:"totalPages"`
	Page       int              `json:"currentPage"`
	PageSize   int              `json:"limit"`
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock replaces the clock used to decide which offers are running.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// List returns the requested page. TotalCount counts every product matching
// filters, so summing the page sizes over all pages yields TotalCount.
func (s *Service) List(ctx context.Context, filters query.Filters, sort query.Sort, page, pageSize int) (*Page, error) {
	plan, err := query.Build(filters, sort, page, pageSize)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.List(ctx, plan)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx, plan)
	if err != nil {
		return nil, err
	}

	if items == nil {
		items = []models.Product{}
	}
	pricing.Apply(items)

	return &Page{
		Items:      items,
		TotalCount: total,
		TotalPages: pagination.TotalPages(total, pageSize),
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Product, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.FinalPrice = pricing.Round(pricing.Resolve(p))
	return p, nil
}

func (s *Service) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	p, err := in.Product()
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	created.FinalPrice = pricing.Round(pricing.Resolve(created))
	return created, nil
}

// Update replaces product id with in and returns the number of rows changed.
// The stored image is kept unless in carries a new one.
func (s *Service) Update(ctx context.Context, id int64, in ProductInput) (int64, error) {
	p, err := in.Product()
	if err != nil {
		return 0, err
	}
	return s.repo.Update(ctx, id, p)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	_, err := s.repo.Delete(ctx, id)
	return err
}

// SpecialOffers returns up to OfferLimit products with a running offer. The
// offer discount replaces the product's and Price is the discounted price;
// the undiscounted price moves to OriginalPrice.
func (s *Service) SpecialOffers(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.ActiveOffers(ctx, s.now(), OfferLimit)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}

	for i := range products {
		p := &products[i]
		final := pricing.Round(pricing.Resolve(p))
		p.OriginalPrice.Decimal = p.Price
		p.OriginalPrice.Valid = true
		p.Price = final
		p.FinalPrice = final
	}
	return products, nil
}

func (s *Service) CreateOffer(ctx context.Context, in OfferInput) (*models.SpecialOffer, error) {
	o, err := in.Offer()
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.Get(ctx, o.ProductID); err != nil {
		if models.IsNotFound(err) {
			return nil, models.NewValidationError("productId", "product %d does not exist", o.ProductID)
		}
		return nil, err
	}
	return s.repo.CreateOffer(ctx, o)
}

// Search returns up to SearchLimit products whose name contains q. Terms
// shorter than MinSearchRunes return an empty list without a lookup.
func (s *Service) Search(ctx context.Context, q string) ([]models.SearchResult, error) {
	if utf8.RuneCountInString(q) < MinSearchRunes {
		return []models.SearchResult{}, nil
	}
	return s.repo.Search(ctx, q, SearchLimit)
}
