package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Laptop-Academy1999/store/internal/config"
	"github.com/Laptop-Academy1999/store/internal/listing"
	"github.com/Laptop-Academy1999/store/internal/store"
	"github.com/Laptop-Academy1999/store/internal/upload"
	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 32)...)

type listResponse struct {
	Products []struct {
		ID         int64  `json:"id"`
		Name       string `json:"name"`
		Condition  string `json:"condition"`
		Price      string `json:"price"`
		FinalPrice string `json:"finalPrice"`
		Image      *string
	} `json:"products"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return newTestRouterWithRedis(t, nil)
}

func newTestRouterWithRedis(t *testing.T, rdb *rd.Client) *gin.Engine {
	t.Helper()

	uploads, err := upload.NewLocalStore(config.UploadConfig{Dir: t.TempDir(), MaxBytes: 1024, PublicPrefix: "/uploads"})
	require.NoError(t, err)

	svc := listing.NewService(store.NewMemory())
	h := NewHandler(svc, uploads, config.ListingConfig{DefaultPageSize: 12, MaxPageSize: 100})
	return NewRouter(h, rdb, config.RateLimitConfig{Limit: 100, Window: time.Minute}, "/uploads")
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postForm(t *testing.T, r http.Handler, method, path string, fields url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(fields.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(r, req)
}

func createProduct(t *testing.T, r http.Handler, name, condition, price string) int64 {
	t.Helper()
	w := postForm(t, r, http.MethodPost, "/api/products", url.Values{
		"name": {name}, "condition": {condition}, "price": {price}, "brand": {"Dell"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.ID
}

func TestListFiltersByConditionWithFilteredTotal(t *testing.T) {
	r := newTestRouter(t)
	for i := 0; i < 5; i++ {
		createProduct(t, r, fmt.Sprintf("New %d", i), "جديد", "1000")
	}
	for i := 0; i < 3; i++ {
		createProduct(t, r, fmt.Sprintf("Used %d", i), "مستعمل", "500")
	}

	w := do(r, httptest.NewRequest(http.MethodGet, "/api/products?limit=2&condition="+url.QueryEscape("مستعمل"), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.Total)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Equal(t, 1, resp.CurrentPage)
	assert.Equal(t, 2, resp.Limit)
	require.Len(t, resp.Products, 2)
	for _, p := range resp.Products {
		assert.Equal(t, "مستعمل", p.Condition)
	}
}

func TestListDefaultsAndValidation(t *testing.T) {
	r := newTestRouter(t)
	createProduct(t, r, "Only", "new", "100")

	w := do(r, httptest.NewRequest(http.MethodGet, "/api/products?limit=1000", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var resp listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 100, resp.Limit)

	bad := []string{
		"page=0",
		"page=abc",
		"page=9223372036854775807&limit=12",
		"condition=refurbished",
		"minPrice=cheap",
		"minPrice=1e50000000",
		"maxPrice=10.005",
		"onSale=maybe",
	}
	for _, q := range bad {
		w := do(r, httptest.NewRequest(http.MethodGet, "/api/products?"+q, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
		assert.Contains(t, w.Body.String(), `"error"`)
	}
}

func TestListFarPageIsEmpty(t *testing.T) {
	r := newTestRouter(t)
	createProduct(t, r, "Only", "new", "100")

	w := do(r, httptest.NewRequest(http.MethodGet, "/api/products?page=9223372036854775807&limit=1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var resp listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Products)
	assert.Equal(t, int64(1), resp.Total)
}

func TestListEmpty(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"products":[],"total":0,"totalPages":0,"currentPage":1,"limit":12}`, w.Body.String())
}

func TestProductLifecycle(t *testing.T) {
	r := newTestRouter(t)
	id := createProduct(t, r, "Latitude", "used", "600")

	w := do(r, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"condition":"مستعمل"`)

	w = postForm(t, r, http.MethodPut, fmt.Sprintf("/api/products/%d", id), url.Values{
		"name": {"Latitude 7420"}, "price": {"1000"}, "discount": {"20"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"product updated","changes":1}`, w.Body.String())

	w = do(r, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil))
	assert.Contains(t, w.Body.String(), `"finalPrice":"800"`)

	w = do(r, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/products/%d", id), nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/products/%d", id), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"error"`)

	w = do(r, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteNonexistentReturns404(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, httptest.NewRequest(http.MethodDelete, "/api/products/12345", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = postForm(t, r, http.MethodPut, "/api/products/12345", url.Values{"name": {"x"}, "price": {"1"}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, httptest.NewRequest(http.MethodDelete, "/api/products/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRequiresNameAndPrice(t *testing.T) {
	r := newTestRouter(t)

	w := postForm(t, r, http.MethodPost, "/api/products", url.Values{"name": {"No price"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postForm(t, r, http.MethodPost, "/api/products", url.Values{"price": {"10"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRejectsOutOfRangeNumbers(t *testing.T) {
	r := newTestRouter(t)

	for field, value := range map[string]string{
		"price":      "1e50000000",
		"discount":   "1e50000000",
		"screenSize": "15.66",
	} {
		form := url.Values{"name": {"Zenbook"}, "price": {"900"}}
		form.Set(field, value)
		w := postForm(t, r, http.MethodPost, "/api/products", form)
		assert.Equal(t, http.StatusBadRequest, w.Code, field)
		assert.Contains(t, w.Body.String(), field)
	}

	w := do(r, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.Contains(t, w.Body.String(), `"total":0`)
}

func multipartProduct(t *testing.T, filename, contentType string, data []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("name", "Zenbook"))
	require.NoError(t, mw.WriteField("price", "900"))

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/products", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCreateWithImageServesUpload(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, multipartProduct(t, "zenbook.png", "image/png", pngBytes))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, httptest.NewRequest(http.MethodGet, "/api/products/1", nil))
	var product struct {
		Image string `json:"image"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	require.True(t, strings.HasPrefix(product.Image, "/uploads/"), product.Image)

	w = do(r, httptest.NewRequest(http.MethodGet, product.Image, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pngBytes, w.Body.Bytes())
}

func TestCreateRejectsBadUpload(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, multipartProduct(t, "notes.txt", "text/plain", []byte("hello")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.Contains(t, w.Body.String(), `"total":0`)
}

func TestSpecialOffers(t *testing.T) {
	r := newTestRouter(t)
	id := createProduct(t, r, "ThinkPad", "new", "1000")

	now := time.Now().UTC()
	body := fmt.Sprintf(`{"productId":%d,"discount":25,"startDate":%q,"endDate":%q}`,
		id, now.Add(-time.Hour).Format(time.RFC3339), now.Add(time.Hour).Format(time.RFC3339))
	req := httptest.NewRequest(http.MethodPost, "/api/special-offers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := do(r, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, httptest.NewRequest(http.MethodGet, "/api/special-offers", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var offers []struct {
		ID    int64  `json:"id"`
		Price string `json:"price"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &offers))
	require.Len(t, offers, 1)
	assert.Equal(t, "750", offers[0].Price)

	req = httptest.NewRequest(http.MethodPost, "/api/special-offers", strings.NewReader(`{"productId":`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, do(r, req).Code)
}

func TestSearch(t *testing.T) {
	r := newTestRouter(t)
	createProduct(t, r, "MacBook Air", "new", "1000")
	createProduct(t, r, "MacBook Pro", "new", "2000")

	w := do(r, httptest.NewRequest(http.MethodGet, "/api/search?q=m", nil))
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(r, httptest.NewRequest(http.MethodGet, "/api/search?q=macbook", nil))
	var results []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "MacBook Air", results[0].Name)
}

func TestHealth(t *testing.T) {
	w := do(newTestRouter(t), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestRateLimitFailsOpenWithoutRedis(t *testing.T) {
	rdb := rd.NewClient(&rd.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { rdb.Close() })
	r := newTestRouterWithRedis(t, rdb)

	createProduct(t, r, "Still allowed", "new", "10")
}
