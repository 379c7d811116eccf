package query

import (
	"fmt"
	"strings"

	"github.com/Laptop-Academy1999/store/internal/models"
	"github.com/Laptop-Academy1999/store/internal/pagination"
	"github.com/lib/pq"
)

const Table = "products"

// EffectivePriceExpr mirrors pricing.EffectivePrice in SQL.
const EffectivePriceExpr = "(CASE WHEN discount > 0 THEN price * (1 - discount / 100) ELSE price END)"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern returns an ILIKE pattern matching s anywhere, with LIKE
// wildcards in s escaped. Use it with ESCAPE '\'.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// Plan is a deterministic, fully parameterized listing query. Where and
// OrderBy never contain caller input; every value travels in Args.
type Plan struct {
	Filters  Filters
	Sort     Sort
	Page     int
	PageSize int

	Where   string
	Args    []any
	OrderBy string
	Limit   int
	Offset  int
}

// Build validates the selection and produces its Plan.
func Build(filters Filters, sort Sort, page, pageSize int) (Plan, error) {
	if page < 1 {
		return Plan{}, models.NewValidationError("page", "must be >= 1, got %d", page)
	}
	if pageSize < 1 {
		return Plan{}, models.NewValidationError("limit", "must be >= 1, got %d", pageSize)
	}
	if pagination.Overflows(page, pageSize) {
		return Plan{}, models.NewValidationError("page", "is out of range for limit %d", pageSize)
	}
	if err := models.PriceColumn.CheckNull("minPrice", filters.MinPrice); err != nil {
		return Plan{}, err
	}
	if err := models.PriceColumn.CheckNull("maxPrice", filters.MaxPrice); err != nil {
		return Plan{}, err
	}
	filters = filters.Normalize()
	if filters.Condition != "" && !filters.Condition.Valid() {
		return Plan{}, models.NewValidationError("condition", "unknown condition %q", filters.Condition)
	}
	if filters.MinPrice.Valid && filters.MinPrice.Decimal.IsNegative() {
		return Plan{}, models.NewValidationError("minPrice", "must not be negative")
	}
	if filters.MaxPrice.Valid && filters.MaxPrice.Decimal.IsNegative() {
		return Plan{}, models.NewValidationError("maxPrice", "must not be negative")
	}

	where, args := whereClause(filters)
	return Plan{
		Filters:  filters,
		Sort:     sort,
		Page:     page,
		PageSize: pageSize,
		Where:    where,
		Args:     args,
		OrderBy:  orderBy(sort),
		Limit:    pageSize,
		Offset:   pagination.Offset(page, pageSize),
	}, nil
}

func whereClause(f Filters) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := next(ContainsPattern(f.Search))
		clauses = append(clauses, fmt.Sprintf(`(name ILIKE %[1]s ESCAPE '\' OR COALESCE(brand, '') ILIKE %[1]s ESCAPE '\')`, p))
	}
	if f.MinPrice.Valid {
		clauses = append(clauses, EffectivePriceExpr+" >= "+next(f.MinPrice.Decimal))
	}
	if f.MaxPrice.Valid {
		clauses = append(clauses, EffectivePriceExpr+" <= "+next(f.MaxPrice.Decimal))
	}
	if len(f.Brands) > 0 {
		clauses = append(clauses, "brand = ANY("+next(pq.StringArray(f.Brands))+")")
	}
	if f.Condition != "" {
		clauses = append(clauses, "condition = "+next(string(f.Condition)))
	}
	if f.OnSale {
		clauses = append(clauses, "discount > 0")
	}

	return strings.Join(clauses, " AND "), args
}

func orderBy(s Sort) string {
	switch s {
	case SortPriceAsc:
		return EffectivePriceExpr + " ASC, id ASC"
	case SortPriceDesc:
		return EffectivePriceExpr + " DESC, id ASC"
	case SortRatingDesc:
		return "rating DESC, id ASC"
	default:
		return "created_at DESC, id ASC"
	}
}

// SelectSQL renders the page query for the given column list.
func (p Plan) SelectSQL(columns string) (string, []any) {
	args := make([]any, 0, len(p.Args)+2)
	args = append(args, p.Args...)
	args = append(args, p.Limit, p.Offset)

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(columns)
	b.WriteString(" FROM ")
	b.WriteString(Table)
	if p.Where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(p.Where)
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(p.OrderBy)
	fmt.Fprintf(&b, " LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return b.String(), args
}

// CountSQL renders a count over the same predicate, ignoring page and limit.
func (p Plan) CountSQL() (string, []any) {
	q := "SELECT COUNT(*) FROM " + Table
	if p.Where != "" {
		q += " WHERE " + p.Where
	}
	args := make([]any, len(p.Args))
	copy(args, p.Args)
	return q, args
}
