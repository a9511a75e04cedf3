package di

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-storefront/internal/auth"
	"github.com/goliatone/go-storefront/internal/config"
	"github.com/goliatone/go-storefront/internal/httpapi"
	"github.com/goliatone/go-storefront/internal/media"
	"github.com/goliatone/go-storefront/internal/telemetry"
	"github.com/goliatone/go-storefront/repositorycache"
	"github.com/goliatone/go-storefront/store"
)

// Namespaces of the cached entities.
const (
	NamespaceProduct         = "product"
	NamespaceOrderItem       = "order_item"
	NamespaceShippingAddress = "shipping_address"
	NamespaceProductReview   = "product_review"
)

// Storefront is the fully wired application.
type Storefront struct {
	Container    *Container
	Store        *store.Store
	Repositories httpapi.Repositories
	Accounts     *auth.Service
	Limiter      *auth.RateLimiter
	Handler      http.Handler
}

// NewStorefront wires the cache, repositories, auth, media and HTTP layers
// over an open database.
func NewStorefront(cfg config.Config, db *bun.DB, logger *slog.Logger) (*Storefront, error) {
	if logger == nil {
		logger = slog.Default()
	}

	lookups, err := telemetry.CacheLookupCounter()
	if err != nil {
		return nil, fmt.Errorf("cache lookup counter: %w", err)
	}

	container, err := NewContainer(cfg.Cache.Options(),
		WithCacheTimeout(cfg.Cache.Timeout),
		WithFetchTimeout(cfg.DB.Timeout),
		WithLogger(logger),
		WithLookupCounter(lookups),
	)
	if err != nil {
		return nil, err
	}

	st := store.New(db, cfg.DB.Timeout)
	repos := NewRepositories(container, st)

	issuer := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	limiter := auth.NewRateLimiter(cfg.Auth.RateLimit, cfg.Auth.RateWindow)
	accounts := auth.NewService(st, issuer)

	images, mediaDir, err := newImageStore(cfg.Media)
	if err != nil {
		return nil, err
	}
	uploader := media.NewUploader(images, repos.Products, logger)

	server := httpapi.New(httpapi.Deps{
		Store:          st,
		Repositories:   repos,
		Accounts:       accounts,
		Issuer:         issuer,
		Limiter:        limiter,
		Uploader:       uploader,
		Stats:          container.Stats(),
		Logger:         logger,
		MediaDir:       mediaDir,
		MaxUploadBytes: cfg.Media.MaxUploadBytes,
	})

	return &Storefront{
		Container:    container,
		Store:        st,
		Repositories: repos,
		Accounts:     accounts,
		Limiter:      limiter,
		Handler:      server.Handler(),
	}, nil
}

// NewRepositories decorates the store repositories. Deleting a record flushes
// the namespaces whose snapshots embed a reference the database nulls.
func NewRepositories(container *Container, st *store.Store) httpapi.Repositories {
	return httpapi.Repositories{
		Products: NewCachedRepository(container, st.Products,
			repositorycache.WithDependents(NamespaceOrderItem, NamespaceProductReview)),
		Categories: NewCachedRepository(container, st.Categories,
			repositorycache.WithDependents(NamespaceProduct)),
		Statuses: NewCachedRepository(container, st.Statuses,
			repositorycache.WithDependents(NamespaceProduct)),
		OrderStatuses: NewCachedRepository(container, st.OrderStatuses),
		Orders: NewCachedRepository(container, st.Orders,
			repositorycache.WithDependents(NamespaceOrderItem, NamespaceShippingAddress)),
		OrderItems: NewCachedRepository(container, st.OrderItems),
		Addresses:  NewCachedRepository(container, st.Addresses),
		Reviews:    NewCachedRepository(container, st.Reviews),
	}
}

// newImageStore picks Cloudinary when configured, local disk otherwise. The
// returned directory is set only for the disk store.
func newImageStore(cfg config.MediaConfig) (media.ImageStore, string, error) {
	if cfg.CloudinaryURL != "" {
		images, err := media.NewCloudinaryStore(cfg.CloudinaryURL, "storefront")
		if err != nil {
			return nil, "", fmt.Errorf("cloudinary: %w", err)
		}
		return images, "", nil
	}

	images, err := media.NewDiskStore(cfg.Dir, cfg.BaseURL)
	if err != nil {
		return nil, "", err
	}
	return images, images.Dir(), nil
}
