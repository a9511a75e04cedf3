// Package httpapi exposes the storefront over HTTP.
//
// Every route other than the overview, registration and token endpoints
// requires a bearer access token. Detail, update and delete routes for
// products, order items, shipping addresses and reviews read through the
// entity cache.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/goliatone/go-storefront/catalog"
	"github.com/goliatone/go-storefront/internal/auth"
	"github.com/goliatone/go-storefront/internal/media"
	"github.com/goliatone/go-storefront/repositorycache"
	"github.com/goliatone/go-storefront/store"
)

// Repositories groups the cache-decorated repositories the handlers use.
type Repositories struct {
	Products      *repositorycache.CachedRepository[catalog.Product]
	Categories    *repositorycache.CachedRepository[catalog.Category]
	Statuses      *repositorycache.CachedRepository[catalog.Status]
	OrderStatuses *repositorycache.CachedRepository[catalog.OrderStatus]
	Orders        *repositorycache.CachedRepository[catalog.Order]
	OrderItems    *repositorycache.CachedRepository[catalog.OrderItem]
	Addresses     *repositorycache.CachedRepository[catalog.ShippingAddress]
	Reviews       *repositorycache.CachedRepository[catalog.ProductReview]
}

type Deps struct {
	Store        *store.Store
	Repositories Repositories
	Accounts     *auth.Service
	Issuer       *auth.Issuer
	Limiter      *auth.RateLimiter
	Uploader     *media.Uploader
	Stats        *repositorycache.Stats
	Logger       *slog.Logger

	// MediaDir is served at /media/ when images are kept on local disk.
	MediaDir       string
	MaxUploadBytes int64
}

type Server struct {
	store     *store.Store
	repos     Repositories
	accounts  *auth.Service
	gate      *auth.Gate
	uploader  *media.Uploader
	stats     *repositorycache.Stats
	logger    *slog.Logger
	query     *schema.Decoder
	mediaDir  string
	maxUpload int64
}

func New(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	maxUpload := deps.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 5 << 20
	}

	s := &Server{
		store:     deps.Store,
		repos:     deps.Repositories,
		accounts:  deps.Accounts,
		uploader:  deps.Uploader,
		stats:     deps.Stats,
		logger:    logger,
		query:     decoder,
		mediaDir:  deps.MediaDir,
		maxUpload: maxUpload,
	}
	s.gate = auth.NewGate(deps.Issuer, deps.Limiter, s.writeError, logger)
	return s
}

// Handler returns the routed handler wrapped in the standard middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.overview)
	mux.HandleFunc("POST /user-register/{$}", s.register)
	mux.HandleFunc("POST /token/{$}", s.issueToken)
	mux.HandleFunc("POST /token/refresh/{$}", s.refreshToken)

	s.protect(mux, "GET /product-list/{$}", s.listProducts)
	s.protect(mux, "GET /product-detail/{id}/{$}", s.productDetail)
	s.protect(mux, "POST /product-create/{$}", s.createProduct)
	s.protect(mux, "POST /product-update/{id}/{$}", s.updateProduct)
	s.protect(mux, "DELETE /product-delete/{id}/{$}", s.deleteProduct)
	s.protect(mux, "POST /product-image/{id}/{$}", s.uploadProductImage)

	s.protect(mux, "GET /category-list/{$}", s.listCategories)
	s.protect(mux, "POST /category-create/{$}", s.createCategory)
	s.protect(mux, "DELETE /category-delete/{id}/{$}", s.deleteCategory)
	s.protect(mux, "GET /status-list/{$}", s.listStatuses)
	s.protect(mux, "POST /status-create/{$}", s.createStatus)
	s.protect(mux, "DELETE /status-delete/{id}/{$}", s.deleteStatus)
	s.protect(mux, "GET /order-status-list/{$}", s.listOrderStatuses)
	s.protect(mux, "POST /order-status-create/{$}", s.createOrderStatus)

	s.protect(mux, "GET /cart-list/{$}", s.listCarts)
	s.protect(mux, "GET /cart-detail/{id}/{$}", s.cartDetail)
	s.protect(mux, "POST /cart-create/{$}", s.createCart)

	s.protect(mux, "GET /order-list/{$}", s.listOrders)
	s.protect(mux, "GET /order-detail/{id}/{$}", s.orderDetail)
	s.protect(mux, "POST /order-create/{$}", s.createOrder)
	s.protect(mux, "DELETE /order-delete/{id}/{$}", s.deleteOrder)

	s.protect(mux, "POST /orderitem-create/{$}", s.createOrderItem)
	s.protect(mux, "GET /orderitem-detail/{id}/{$}", s.orderItemDetail)
	s.protect(mux, "POST /orderitem-update/{id}/{$}", s.updateOrderItem)
	s.protect(mux, "DELETE /orderitem-delete/{id}/{$}", s.deleteOrderItem)

	s.protect(mux, "POST /address-create/{$}", s.createAddress)
	s.protect(mux, "GET /address-detail/{id}/{$}", s.addressDetail)
	s.protect(mux, "POST /address-update/{id}/{$}", s.updateAddress)
	s.protect(mux, "DELETE /address-delete/{id}/{$}", s.deleteAddress)

	s.protect(mux, "POST /review-create/{$}", s.createReview)
	s.protect(mux, "GET /review-detail/{id}/{$}", s.reviewDetail)
	s.protect(mux, "DELETE /review-delete/{id}/{$}", s.deleteReview)

	s.protect(mux, "GET /cache-stats/{$}", s.cacheStats)

	if s.mediaDir != "" {
		mux.Handle("GET /media/", http.StripPrefix("/media/", http.FileServer(http.Dir(s.mediaDir))))
	}

	var h http.Handler = s.unmatched(mux)
	h = SecurityHeadersMiddleware(h)
	h = s.RecoverMiddleware(h)
	h = LoggingMiddleware(s.logger, h)
	return h
}

// unmatched answers requests that no route accepts with a JSON error body.
// The mux reports them through an empty pattern.
func (s *Server) unmatched(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fallback, pattern := mux.Handler(r)
		if pattern != "" {
			mux.ServeHTTP(w, r)
			return
		}

		rec := &discardWriter{header: make(http.Header)}
		fallback.ServeHTTP(rec, r)
		if rec.status == http.StatusMethodNotAllowed {
			w.Header().Set("Allow", rec.header.Get("Allow"))
			s.writeError(w, r, methodNotAllowed(r.Method))
			return
		}
		s.writeError(w, r, routeNotFound(r.URL.Path))
	})
}

func (s *Server) protect(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, s.gate.Require(h))
}

// callerID returns the authenticated user id set by the gate.
func callerID(r *http.Request) *int64 {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return nil
	}
	return &id
}
