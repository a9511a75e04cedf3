package di

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/goliatone/go-storefront/cache"
	"github.com/goliatone/go-storefront/repositorycache"
	"github.com/goliatone/go-storefront/store"
)

// Container provides dependency injection for cache related components.
// It manages singleton instances of the cache service, key serializer, lookup
// stats and invalidation generations, and provides factory methods for
// creating cached repositories.
type Container struct {
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
	config        cache.Config
	stats         *repositorycache.Stats
	generations   *repositorycache.Generations
	defaults      []repositorycache.Option
}

// ContainerOption customizes the defaults applied to every cached repository.
type ContainerOption func(*Container)

// WithCacheTimeout bounds each cache call of every cached repository.
func WithCacheTimeout(d time.Duration) ContainerOption {
	return func(c *Container) {
		c.defaults = append(c.defaults, repositorycache.WithCacheTimeout(d))
	}
}

// WithFetchTimeout bounds each base repository call made on a cache miss.
func WithFetchTimeout(d time.Duration) ContainerOption {
	return func(c *Container) {
		c.defaults = append(c.defaults, repositorycache.WithFetchTimeout(d))
	}
}

func WithLogger(logger *slog.Logger) ContainerOption {
	return func(c *Container) {
		c.defaults = append(c.defaults, repositorycache.WithLogger(logger))
	}
}

// WithLookupCounter reports lookups of every cached repository on counter.
func WithLookupCounter(counter metric.Int64Counter) ContainerOption {
	return func(c *Container) {
		if counter != nil {
			c.defaults = append(c.defaults, repositorycache.WithLookupCounter(counter))
		}
	}
}

// NewContainer creates a new DI container with the provided cache configuration.
// It initializes the cache service using the sturdyc adapter and sets up
// the default key serializer for consistent key generation.
func NewContainer(config cache.Config, opts ...ContainerOption) (*Container, error) {
	cacheService, err := cache.NewCacheService(config)
	if err != nil {
		return nil, err
	}

	c := &Container{
		cacheService:  cacheService,
		keySerializer: cache.NewDefaultKeySerializer(),
		config:        config,
		stats:         repositorycache.NewStats(),
		generations:   repositorycache.NewGenerations(),
	}
	c.defaults = append(c.defaults,
		repositorycache.WithStats(c.stats),
		repositorycache.WithGenerations(c.generations),
	)
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewContainerWithDefaults creates a new DI container using default configuration.
func NewContainerWithDefaults(opts ...ContainerOption) (*Container, error) {
	return NewContainer(cache.DefaultConfig(), opts...)
}

// CacheService returns the singleton cache service instance.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

// KeySerializer returns the singleton key serializer instance.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Config returns a copy of the cache configuration used by this container.
func (c *Container) Config() cache.Config {
	return c.config
}

// Stats returns the lookup counters shared by every cached repository.
func (c *Container) Stats() *repositorycache.Stats {
	return c.stats
}

// NewCachedRepository wraps base with the container's cache service, key
// serializer and defaults. Per-repository options are applied last.
//
// Since Go methods cannot have type parameters, this is provided as a package-level function.
// Example: NewCachedRepository[catalog.Product](container, st.Products)
func NewCachedRepository[T any](container *Container, base store.Repository[T], opts ...repositorycache.Option) *repositorycache.CachedRepository[T] {
	all := make([]repositorycache.Option, 0, len(container.defaults)+len(opts))
	all = append(all, container.defaults...)
	all = append(all, opts...)
	return repositorycache.New(base, container.cacheService, container.keySerializer, all...)
}
