package shop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Laptop-Academy1999/store/internal/listing"
	"github.com/Laptop-Academy1999/store/internal/models"
	"github.com/Laptop-Academy1999/store/internal/pagination"
	"github.com/Laptop-Academy1999/store/internal/pricing"
	"github.com/Laptop-Academy1999/store/internal/query"
	"github.com/cenkalti/backoff/v4"
)

type Request struct {
	Filters  query.Filters
	Sort     query.Sort
	Page     int
	PageSize int
}

// Result is one page. PageSize is the size actually applied, which is lower
// than the requested one when the request exceeded the maximum.
type Result struct {
	Items      []models.Product
	TotalCount int64
	TotalPages int
	Page       int
	PageSize   int
}

// Fetcher produces one page of the listing described by a Request.
type Fetcher interface {
	FetchPage(ctx context.Context, req Request) (Result, error)
}

// LocalFetcher serves pages from a product set already held in memory. It
// caps and validates requests the way the catalog API does.
type LocalFetcher struct {
	products    []models.Product
	maxPageSize int
}

func NewLocalFetcher(products []models.Product) *LocalFetcher {
	return &LocalFetcher{products: products, maxPageSize: pagination.DefaultMaxPageSize}
}

// WithMaxPageSize sets the page-size cap; keep it equal to the server's
// LISTING_MAX_PAGE_SIZE.
func (f *LocalFetcher) WithMaxPageSize(n int) *LocalFetcher {
	if n > 0 {
		f.maxPageSize = n
	}
	return f
}

func (f *LocalFetcher) FetchPage(_ context.Context, req Request) (Result, error) {
	pageSize := min(req.PageSize, f.maxPageSize)
	plan, err := query.Build(req.Filters, req.Sort, req.Page, pageSize)
	if err != nil {
		return Result{}, err
	}

	matched := query.Apply(f.products, plan.Filters, plan.Sort)
	start, end := pagination.Slice(len(matched), plan.Page, plan.PageSize)
	items := make([]models.Product, end-start)
	copy(items, matched[start:end])
	pricing.Apply(items)

	total := int64(len(matched))
	return Result{
		Items:      items,
		TotalCount: total,
		TotalPages: pagination.TotalPages(total, plan.PageSize),
		Page:       plan.Page,
		PageSize:   plan.PageSize,
	}, nil
}

// RemoteFetcher asks the catalog API for each page. Network failures and 5xx
// answers are retried with exponential backoff; 4xx answers are not.
type RemoteFetcher struct {
	baseURL    string
	client     *http.Client
	maxRetries uint64
}

func NewRemoteFetcher(baseURL string, client *http.Client) *RemoteFetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RemoteFetcher{baseURL: strings.TrimSuffix(baseURL, "/"), client: client, maxRetries: 2}
}

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog api: %d %s", e.Status, e.Message)
}

func encodeRequest(req Request) url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(req.Page))
	v.Set("limit", strconv.Itoa(req.PageSize))
	v.Set("sort", req.Sort.String())

	f := req.Filters
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.MinPrice.Valid {
		v.Set("minPrice", f.MinPrice.Decimal.String())
	}
	if f.MaxPrice.Valid {
		v.Set("maxPrice", f.MaxPrice.Decimal.String())
	}
	if len(f.Brands) > 0 {
		v.Set("brands", strings.Join(f.Brands, ","))
	}
	if f.Condition != "" {
		v.Set("condition", string(f.Condition))
	}
	if f.OnSale {
		v.Set("onSale", "true")
	}
	return v
}

func (f *RemoteFetcher) FetchPage(ctx context.Context, req Request) (Result, error) {
	endpoint := f.baseURL + "/api/products?" + encodeRequest(req).Encode()

	var page listing.Page
	op := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := f.client.Do(httpReq)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			serr := &StatusError{Status: resp.StatusCode, Message: errorMessage(resp.Body)}
			if resp.StatusCode >= http.StatusInternalServerError {
				return serr
			}
			return backoff.Permanent(serr)
		}

		page = listing.Page{}
		if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
			return backoff.Permanent(fmt.Errorf("decode listing: %w", err))
		}
		return nil
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 100 * time.Millisecond
	b := backoff.WithContext(backoff.WithMaxRetries(exp, f.maxRetries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return Result{}, err
	}

	if page.Items == nil {
		page.Items = []models.Product{}
	}
	return Result{
		Items:      page.Items,
		TotalCount: page.TotalCount,
		TotalPages: page.TotalPages,
		Page:       page.Page,
		PageSize:   page.PageSize,
	}, nil
}

func errorMessage(r io.Reader) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&body); err != nil || body.Error == "" {
		return "unexpected response"
	}
	return body.Error
}

// LoadAll walks every page of the unfiltered listing so the result can seed
// a LocalFetcher.
func LoadAll(ctx context.Context, f Fetcher, pageSize int) ([]models.Product, error) {
	var all []models.Product
	for page := 1; ; page++ {
		res, err := f.FetchPage(ctx, Request{Page: page, PageSize: pageSize})
		if err != nil {
			return nil, fmt.Errorf("load page %d: %w", page, err)
		}
		all = append(all, res.Items...)
		if page >= res.TotalPages {
			return all, nil
		}
	}
}

// IsStatus reports whether err is a StatusError with the given status.
func IsStatus(err error, status int) bool {
	var serr *StatusError
	return errors.As(err, &serr) && serr.Status == status
}
