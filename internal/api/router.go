// Package api exposes the catalog over HTTP.
package api

import (
	"net/http"

	"github.com/Laptop-Academy1999/store/internal/config"
	"github.com/Laptop-Academy1999/store/internal/listing"
	"github.com/Laptop-Academy1999/store/internal/upload"
	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
)

type Handler struct {
	svc     *listing.Service
	uploads *upload.LocalStore
	listing config.ListingConfig
}

func NewHandler(svc *listing.Service, uploads *upload.LocalStore, cfg config.ListingConfig) *Handler {
	return &Handler{svc: svc, uploads: uploads, listing: cfg}
}

// NewRouter builds the engine with logging and recovery installed. rdb may
// be nil, which disables rate limiting.
func NewRouter(h *Handler, rdb *rd.Client, rl config.RateLimitConfig, uploadPrefix string) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(), gin.Recovery())
	r.MaxMultipartMemory = h.uploads.MaxBytes() + 1<<20
	Setup(r, h, rdb, rl, uploadPrefix)
	return r
}

// Setup registers every route on r.
func Setup(r *gin.Engine, h *Handler, rdb *rd.Client, rl config.RateLimitConfig, uploadPrefix string) {
	limit := func(scope string) gin.HandlerFunc {
		if rdb == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return RedisRateLimit(rdb, scope, rl.Limit, rl.Window)
	}

	r.GET("/health", h.health)
	r.Static(uploadPrefix, h.uploads.Dir())

	api := r.Group("/api")
	{
		api.GET("/products", h.listProducts)
		api.GET("/products/:id", h.getProduct)
		api.POST("/products", limit("admin"), h.createProduct)
		api.PUT("/products/:id", limit("admin"), h.updateProduct)
		api.DELETE("/products/:id", limit("admin"), h.deleteProduct)

		api.GET("/special-offers", h.specialOffers)
		api.POST("/special-offers", limit("admin"), h.createOffer)

		api.GET("/search", limit("search"), h.search)
	}

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "route not found")
	})
}
