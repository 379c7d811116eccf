// Package store persists the catalog. Store talks to PostgreSQL through the
// free functions in this package; MemoryStore keeps everything in process
// and evaluates listings with the same query semantics.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/Laptop-Academy1999/store/internal/database"
	"github.com/Laptop-Academy1999/store/internal/models"
	"github.com/Laptop-Academy1999/store/internal/query"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) List(ctx context.Context, plan query.Plan) ([]models.Product, error) {
	return ListProducts(ctx, s.db, plan)
}

func (s *Store) Count(ctx context.Context, plan query.Plan) (int64, error) {
	return CountProducts(ctx, s.db, plan)
}

func (s *Store) Get(ctx context.Context, id int64) (*models.Product, error) {
	return GetProduct(ctx, s.db, id)
}

func (s *Store) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	return CreateProduct(ctx, s.db, p)
}

func (s *Store) Update(ctx context.Context, id int64, p *models.Product) (int64, error) {
	return UpdateProduct(ctx, s.db, id, p)
}

func (s *Store) Delete(ctx context.Context, id int64) (int64, error) {
	return DeleteProduct(ctx, s.db, id)
}

func (s *Store) Search(ctx context.Context, term string, limit int) ([]models.SearchResult, error) {
	return SearchProducts(ctx, s.db, term, limit)
}

func (s *Store) ActiveOffers(ctx context.Context, at time.Time, limit int) ([]models.Product, error) {
	return ActiveOffers(ctx, s.db, at, limit)
}

func (s *Store) CreateOffer(ctx context.Context, o *models.SpecialOffer) (*models.SpecialOffer, error) {
	return CreateOffer(ctx, s.db, o)
}

func (s *Store) Ping(ctx context.Context) error {
	return database.Ping(ctx, s.db)
}
