package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Laptop-Academy1999/store/internal/listing"
	"github.com/Laptop-Academy1999/store/internal/models"
	"github.com/Laptop-Academy1999/store/internal/query"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (h *Handler) health(c *gin.Context) {
	if err := h.svc.Ping(c.Request.Context()); err != nil {
		respondError(c, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) listProducts(c *gin.Context) {
	page, err := intParam(c.Query("page"), "page", 1)
	if err != nil {
		respondErr(c, err)
		return
	}
	limit, err := intParam(c.Query("limit"), "limit", h.listing.DefaultPageSize)
	if err != nil {
		respondErr(c, err)
		return
	}
	if limit > h.listing.MaxPageSize {
		limit = h.listing.MaxPageSize
	}

	filters, err := parseFilters(c)
	if err != nil {
		respondErr(c, err)
		return
	}

	result, err := h.svc.List(c.Request.Context(), filters, query.ParseSort(c.Query("sort")), page, limit)
	if err != nil {
		respondErr(c, err)
		return
	}

	respondJSON(c, http.StatusOK, result)
}

func parseFilters(c *gin.Context) (query.Filters, error) {
	condition, ok := models.ParseCondition(c.Query("condition"))
	if !ok {
		return query.Filters{}, models.NewValidationError("condition", "unknown condition %q", c.Query("condition"))
	}
	minPrice, err := decimalParam(c.Query("minPrice"), "minPrice", models.PriceColumn)
	if err != nil {
		return query.Filters{}, err
	}
	maxPrice, err := decimalParam(c.Query("maxPrice"), "maxPrice", models.PriceColumn)
	if err != nil {
		return query.Filters{}, err
	}

	onSale := false
	if v := c.Query("onSale"); v != "" {
		onSale, err = strconv.ParseBool(v)
		if err != nil {
			return query.Filters{}, models.NewValidationError("onSale", "must be true or false")
		}
	}

	return query.Filters{
		Search:    c.Query("search"),
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
		Brands:    query.ParseBrands(c.Query("brands")),
		Condition: condition,
		OnSale:    onSale,
	}, nil
}

func (h *Handler) getProduct(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondErr(c, err)
		return
	}

	product, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}

	respondJSON(c, http.StatusOK, product)
}

func (h *Handler) createProduct(c *gin.Context) {
	in, err := h.productForm(c)
	if err != nil {
		respondErr(c, err)
		return
	}

	product, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondErr(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, gin.H{"id": product.ID, "message": "product created"})
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondErr(c, err)
		return
	}

	// Reject unknown ids before storing an image for them.
	if _, err := h.svc.Get(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}

	in, err := h.productForm(c)
	if err != nil {
		respondErr(c, err)
		return
	}

	changes, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		respondErr(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"message": "product updated", "changes": changes})
}

func (h *Handler) deleteProduct(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondErr(c, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"message": "product deleted"})
}

func (h *Handler) specialOffers(c *gin.Context) {
	offers, err := h.svc.SpecialOffers(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}

	respondJSON(c, http.StatusOK, offers)
}

func (h *Handler) createOffer(c *gin.Context) {
	var in listing.OfferInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	offer, err := h.svc.CreateOffer(c.Request.Context(), in)
	if err != nil {
		respondErr(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, offer)
}

func (h *Handler) search(c *gin.Context) {
	results, err := h.svc.Search(c.Request.Context(), strings.TrimSpace(c.Query("q")))
	if err != nil {
		respondErr(c, err)
		return
	}

	respondJSON(c, http.StatusOK, results)
}

// productForm reads a multipart or urlencoded product form. An "image" file,
// when present, is stored first and its URL becomes the product image.
func (h *Handler) productForm(c *gin.Context) (listing.ProductInput, error) {
	var (
		in  listing.ProductInput
		err error
	)

	in.Name = c.PostForm("name")
	in.Condition = c.PostForm("condition")
	in.Brand = optString(c, "brand")
	in.Description = optString(c, "description")
	in.CPU = optString(c, "cpu")
	in.GPU = optString(c, "gpu")

	if in.Price, err = decimalParam(c.PostForm("price"), "price", models.PriceColumn); err != nil {
		return in, err
	}
	if in.OriginalPrice, err = decimalParam(c.PostForm("originalPrice"), "originalPrice", models.PriceColumn); err != nil {
		return in, err
	}
	if in.Discount, err = decimalParam(c.PostForm("discount"), "discount", models.DiscountColumn); err != nil {
		return in, err
	}
	if in.ScreenSize, err = decimalParam(c.PostForm("screenSize"), "screenSize", models.ScreenSizeColumn); err != nil {
		return in, err
	}
	if in.Stock, err = optInt(c.PostForm("stock"), "stock"); err != nil {
		return in, err
	}
	if in.RAM, err = optInt(c.PostForm("ram"), "ram"); err != nil {
		return in, err
	}
	if in.Storage, err = optInt(c.PostForm("storage"), "storage"); err != nil {
		return in, err
	}

	// Validate before touching the disk so a rejected form leaves no file behind.
	if _, err := in.Product(); err != nil {
		return in, err
	}

	fh, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return in, nil
	case err != nil:
		return in, models.NewValidationError("image", "unreadable upload: %v", err)
	}

	url, err := h.uploads.Save(fh)
	if err != nil {
		return in, err
	}
	in.Image = &url
	return in, nil
}

func idParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, models.NewValidationError("id", "invalid product id %q", c.Param("id"))
	}
	return id, nil
}

func intParam(raw, field string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.NewValidationError(field, "must be an integer")
	}
	return n, nil
}

func optInt(raw, field string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, models.NewValidationError(field, "must be an integer")
	}
	return &n, nil
}

// decimalParam parses raw and rejects values that do not fit col, before
// anything compares or binds them.
func decimalParam(raw, field string, col models.Numeric) (decimal.NullDecimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, models.NewValidationError(field, "must be a number")
	}
	if err := col.Check(field, d); err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func optString(c *gin.Context, key string) *string {
	v, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	return &v
}
