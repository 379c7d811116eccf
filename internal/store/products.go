package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Laptop-Academy1999/store/internal/database"
	"github.com/Laptop-Academy1999/store/internal/models"
	"github.com/Laptop-Academy1999/store/internal/query"
	"github.com/shopspring/decimal"
)

var productColumns = []string{
	"id", "name", "brand", "condition", "price", "original_price", "discount", "stock",
	"image", "description", "ram", "storage", "cpu", "gpu", "screen_size",
	"rating", "reviews_count", "created_at", "updated_at",
}

var selectColumns = strings.Join(productColumns, ", ")

func qualified(alias string) string {
	cols := make([]string, len(productColumns))
	for i, c := range productColumns {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

type scanner interface {
	Scan(dest ...any) error
}

func productDest(p *models.Product, condition *string) []any {
	return []any{
		&p.ID,
		&p.Name,
		&p.Brand,
		condition,
		&p.Price,
		&p.OriginalPrice,
		&p.Discount,
		&p.Stock,
		&p.Image,
		&p.Description,
		&p.RAM,
		&p.Storage,
		&p.CPU,
		&p.GPU,
		&p.ScreenSize,
		&p.Rating,
		&p.ReviewsCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
}

func scanProduct(row scanner, extra ...any) (*models.Product, error) {
	product := &models.Product{}
	var condition string
	if err := row.Scan(append(productDest(product, &condition), extra...)...); err != nil {
		return nil, err
	}
	product.Condition = models.Condition(condition)
	return product, nil
}

func CreateProduct(ctx context.Context, db database.Querier, p *models.Product) (*models.Product, error) {
	query := `
		INSERT INTO products (name, brand, condition, price, original_price, discount, stock,
			image, description, ram, storage, cpu, gpu, screen_size, rating, reviews_count,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		RETURNING ` + selectColumns

	product, err := scanProduct(db.QueryRowContext(ctx, query,
		p.Name, p.Brand, string(p.Condition), p.Price, p.OriginalPrice, p.Discount, p.Stock,
		p.Image, p.Description, p.RAM, p.Storage, p.CPU, p.GPU, p.ScreenSize, p.Rating, p.ReviewsCount,
	))
	if err != nil {
		return nil, database.Translate("create product", err)
	}

	return product, nil
}

func GetProduct(ctx context.Context, db database.Querier, id int64) (*models.Product, error) {
	query := `SELECT ` + selectColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "product", ID: id}
		}
		return nil, database.Translate("get product", err)
	}

	return product, nil
}

// UpdateProduct replaces every editable column of product id. A nil Image
// keeps the stored one. It returns the number of rows changed.
func UpdateProduct(ctx context.Context, db database.Querier, id int64, p *models.Product) (int64, error) {
	query := `
		UPDATE products
		SET name = $1, brand = $2, condition = $3, price = $4, original_price = $5,
			discount = $6, stock = $7, image = COALESCE($8, image), description = $9,
			ram = $10, storage = $11, cpu = $12, gpu = $13, screen_size = $14,
			updated_at = NOW()
		WHERE id = $15`

	result, err := db.ExecContext(ctx, query,
		p.Name, p.Brand, string(p.Condition), p.Price, p.OriginalPrice,
		p.Discount, p.Stock, p.Image, p.Description,
		p.RAM, p.Storage, p.CPU, p.GPU, p.ScreenSize,
		id,
	)
	if err != nil {
		return 0, database.Translate("update product", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, database.Translate("update product", err)
	}
	if rows == 0 {
		return 0, &models.NotFoundError{Resource: "product", ID: id}
	}

	return rows, nil
}

func DeleteProduct(ctx context.Context, db database.Querier, id int64) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return 0, database.Translate("delete product", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, database.Translate("delete product", err)
	}
	if rows == 0 {
		return 0, &models.NotFoundError{Resource: "product", ID: id}
	}

	return rows, nil
}

// ListProducts runs the page query of plan.
func ListProducts(ctx context.Context, db database.Querier, plan query.Plan) ([]models.Product, error) {
	stmt, args := plan.SelectSQL(selectColumns)

	rows, err := db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, database.Translate("list products", err)
	}
	defer rows.Close()

	products := make([]models.Product, 0, plan.Limit)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, database.Translate("scan product", err)
		}
		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, database.Translate("list products", err)
	}

	return products, nil
}

// CountProducts counts every row matching plan's filters, ignoring paging.
func CountProducts(ctx context.Context, db database.Querier, plan query.Plan) (int64, error) {
	stmt, args := plan.CountSQL()

	var total int64
	if err := db.QueryRowContext(ctx, stmt, args...).Scan(&total); err != nil {
		return 0, database.Translate("count products", err)
	}

	return total, nil
}

func SearchProducts(ctx context.Context, db database.Querier, term string, limit int) ([]models.SearchResult, error) {
	stmt := `
		SELECT id, name, image, price
		FROM products
		WHERE name ILIKE $1 ESCAPE '\'
		ORDER BY name ASC, id ASC
		LIMIT $2`

	rows, err := db.QueryContext(ctx, stmt, query.ContainsPattern(term), limit)
	if err != nil {
		return nil, database.Translate("search products", err)
	}
	defer rows.Close()

	results := []models.SearchResult{}
	for rows.Next() {
		var r models.SearchResult
		if err := rows.Scan(&r.ID, &r.Name, &r.Image, &r.Price); err != nil {
			return nil, database.Translate("scan search result", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, database.Translate("search products", err)
	}

	return results, nil
}

// ActiveOffers returns products with an offer running at the given time.
// Each product's Discount is replaced by its best running offer.
func ActiveOffers(ctx context.Context, db database.Querier, at time.Time, limit int) ([]models.Product, error) {
	stmt := `
		SELECT ` + qualified("p") + `, best.discount
		FROM products p
		JOIN (
			SELECT product_id, MAX(discount) AS discount
			FROM special_offers
			WHERE start_date <= $1 AND end_date >= $1
			GROUP BY product_id
		) best ON best.product_id = p.id
		ORDER BY best.discount DESC, p.id ASC
		LIMIT $2`

	rows, err := db.QueryContext(ctx, stmt, at, limit)
	if err != nil {
		return nil, database.Translate("list active offers", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var offerDiscount decimal.Decimal
		product, err := scanProduct(rows, &offerDiscount)
		if err != nil {
			return nil, database.Translate("scan offer", err)
		}
		product.Discount = offerDiscount
		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, database.Translate("list active offers", err)
	}

	return products, nil
}

func CreateOffer(ctx context.Context, db database.Querier, o *models.SpecialOffer) (*models.SpecialOffer, error) {
	offer := &models.SpecialOffer{}

	stmt := `
		INSERT INTO special_offers (product_id, discount, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, product_id, discount, start_date, end_date`

	err := db.QueryRowContext(ctx, stmt, o.ProductID, o.Discount, o.StartDate, o.EndDate).Scan(
		&offer.ID,
		&offer.ProductID,
		&offer.Discount,
		&offer.StartDate,
		&offer.EndDate,
	)
	if err != nil {
		return nil, database.Translate("create offer", err)
	}

	return offer, nil
}
