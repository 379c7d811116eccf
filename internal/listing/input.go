package listing

import (
	"strings"
	"time"

	"github.com/Laptop-Academy1999/store/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ProductInput carries the editable fields of a product. Nil and invalid
// Null values mean "not supplied".
type ProductInput struct {
	Name          string
	Brand         *string
	Condition     string
	Price         decimal.NullDecimal
	OriginalPrice decimal.NullDecimal
	Discount      decimal.NullDecimal
	Stock         *int
	Image         *string
	Description   *string
	RAM           *int
	Storage       *int
	CPU           *string
	GPU           *string
	ScreenSize    decimal.NullDecimal
}

// Product validates in and fills defaults: condition NEW, discount 0, stock 0.
func (in ProductInput) Product() (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("name", "is required")
	}
	if !in.Price.Valid {
		return nil, models.NewValidationError("price", "is required")
	}
	// Column range and scale first, so no arithmetic runs on unbounded values
	// and both stores hold exactly what Postgres would.
	if err := models.PriceColumn.Check("price", in.Price.Decimal); err != nil {
		return nil, err
	}
	if err := models.PriceColumn.CheckNull("originalPrice", in.OriginalPrice); err != nil {
		return nil, err
	}
	if err := models.DiscountColumn.CheckNull("discount", in.Discount); err != nil {
		return nil, err
	}
	if err := models.ScreenSizeColumn.CheckNull("screenSize", in.ScreenSize); err != nil {
		return nil, err
	}
	if in.Price.Decimal.IsNegative() {
		return nil, models.NewValidationError("price", "must not be negative")
	}
	if in.OriginalPrice.Valid && in.OriginalPrice.Decimal.IsNegative() {
		return nil, models.NewValidationError("originalPrice", "must not be negative")
	}

	condition, ok := models.ParseCondition(in.Condition)
	if !ok {
		return nil, models.NewValidationError("condition", "unknown condition %q", in.Condition)
	}
	if condition == "" {
		condition = models.ConditionNew
	}

	discount := decimal.Zero
	if in.Discount.Valid {
		discount = in.Discount.Decimal
	}
	if discount.IsNegative() || discount.GreaterThan(hundred) {
		return nil, models.NewValidationError("discount", "must be between 0 and 100")
	}

	stock := 0
	if in.Stock != nil {
		stock = *in.Stock
	}
	if stock < 0 {
		return nil, models.NewValidationError("stock", "must not be negative")
	}
	if in.RAM != nil && *in.RAM < 0 {
		return nil, models.NewValidationError("ram", "must not be negative")
	}
	if in.Storage != nil && *in.Storage < 0 {
		return nil, models.NewValidationError("storage", "must not be negative")
	}
	if in.ScreenSize.Valid && !in.ScreenSize.Decimal.IsPositive() {
		return nil, models.NewValidationError("screenSize", "must be positive")
	}

	return &models.Product{
		Name:          name,
		Brand:         blankToNil(in.Brand),
		Condition:     condition,
		Price:         in.Price.Decimal,
		OriginalPrice: in.OriginalPrice,
		Discount:      discount,
		Stock:         stock,
		Image:         blankToNil(in.Image),
		Description:   blankToNil(in.Description),
		RAM:           in.RAM,
		Storage:       in.Storage,
		CPU:           blankToNil(in.CPU),
		GPU:           blankToNil(in.GPU),
		ScreenSize:    in.ScreenSize,
	}, nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

type OfferInput struct {
	ProductID int64           `json:"productId"`
	Discount  decimal.Decimal `json:"discount"`
	StartDate time.Time       `json:"startDate"`
	EndDate   time.Time       `json:"endDate"`
}

func (in OfferInput) Offer() (*models.SpecialOffer, error) {
	if in.ProductID < 1 {
		return nil, models.NewValidationError("productId", "is required")
	}
	if err := models.DiscountColumn.Check("discount", in.Discount); err != nil {
		return nil, err
	}
	if !in.Discount.IsPositive() || in.Discount.GreaterThan(hundred) {
		return nil, models.NewValidationError("discount", "must be greater than 0 and at most 100")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, models.NewValidationError("startDate", "startDate and endDate are required")
	}
	if !in.EndDate.After(in.StartDate) {
		return nil, models.NewValidationError("endDate", "must be after startDate")
	}
	return &models.SpecialOffer{
		ProductID: in.ProductID,
		Discount:  in.Discount,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
	}, nil
}
