package repositorycache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-storefront/cache"
	"github.com/goliatone/go-storefront/store"
)

const tracerName = "github.com/goliatone/go-storefront/repositorycache"

const (
	resultHit  = "hit"
	resultMiss = "miss"
)

// CachedRepository decorates a base repository with the entity cache protocol.
// Detail reads go through the cache, writes keep it consistent.
type CachedRepository[T any] struct {
	base          store.Repository[T]
	cache         cache.CacheService
	keySerializer cache.KeySerializer
	codec         cache.Codec[T]

	namespace    string
	dependents   []string
	cacheTimeout time.Duration
	fetchTimeout time.Duration

	logger      *slog.Logger
	stats       *Stats
	generations *Generations
	lookups     metric.Int64Counter
	tracer      trace.Tracer
}

// Option customizes a CachedRepository.
type Option func(*options)

type options struct {
	namespace    string
	dependents   []string
	cacheTimeout time.Duration
	fetchTimeout time.Duration
	logger       *slog.Logger
	stats        *Stats
	generations  *Generations
	lookups      metric.Int64Counter
	tracer       trace.Tracer
}

// WithNamespace overrides the namespace derived from the record type name.
func WithNamespace(namespace string) Option {
	return func(o *options) { o.namespace = namespace }
}

// WithDependents names namespaces whose snapshots embed a reference to this
// entity. They are flushed after a delete.
func WithDependents(namespaces ...string) Option {
	return func(o *options) { o.dependents = append(o.dependents, namespaces...) }
}

// WithCacheTimeout bounds every cache call.
func WithCacheTimeout(d time.Duration) Option {
	return func(o *options) { o.cacheTimeout = d }
}

// WithFetchTimeout bounds every call to the base repository.
func WithFetchTimeout(d time.Duration) Option {
	return func(o *options) { o.fetchTimeout = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithStats records hits and misses in stats.
func WithStats(stats *Stats) Option {
	return func(o *options) { o.stats = stats }
}

// WithGenerations shares invalidation generations with other repositories.
func WithGenerations(generations *Generations) Option {
	return func(o *options) { o.generations = generations }
}

// WithLookupCounter reports every lookup on counter with entity and result attributes.
func WithLookupCounter(counter metric.Int64Counter) Option {
	return func(o *options) { o.lookups = counter }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) { o.tracer = tracer }
}

// New creates a CachedRepository that wraps base.
func New[T any](base store.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer, opts ...Option) *CachedRepository[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.namespace == "" {
		o.namespace = namespaceFor[T]()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	if o.generations == nil {
		o.generations = NewGenerations()
	}

	return &CachedRepository[T]{
		base:          base,
		cache:         cacheService,
		keySerializer: keySerializer,
		codec:         cache.NewMsgpackCodec[T](),
		namespace:     o.namespace,
		dependents:    o.dependents,
		cacheTimeout:  o.cacheTimeout,
		fetchTimeout:  o.fetchTimeout,
		logger:        o.logger.With("namespace", o.namespace),
		stats:         o.stats,
		generations:   o.generations,
		lookups:       o.lookups,
		tracer:        o.tracer,
	}
}

// namespaceFor derives the snake_case namespace of T, e.g. ShippingAddress
// becomes shipping_address.
func namespaceFor[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		name = t.String()
	}
	return toSnake(name)
}

// Namespace returns the key namespace of the cached entity.
func (c *CachedRepository[T]) Namespace() string {
	return c.namespace
}

// Key returns the cache key for a parsed primary key.
func (c *CachedRepository[T]) Key(id any) string {
	return c.keySerializer.SerializeKey(c.namespace, id)
}

func (c *CachedRepository[T]) Handlers() store.ModelHandlers[T] {
	return c.base.Handlers()
}

// GetByID resolves raw to the entity's key and reads through the cache.
// A key that cannot be parsed is not found and never reaches the cache.
func (c *CachedRepository[T]) GetByID(ctx context.Context, raw string) (T, error) {
	id, err := c.parse(raw)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.load(ctx, id)
}

// List passes through to the base repository.
func (c *CachedRepository[T]) List(ctx context.Context, criteria ...store.SelectCriteria) ([]T, int, error) {
	ctx, cancel := c.fetchContext(ctx)
	defer cancel()
	return c.base.List(ctx, criteria...)
}

// Create passes through to the base repository. The new record is cached on
// its first detail read.
func (c *CachedRepository[T]) Create(ctx context.Context, record T) (T, error) {
	ctx, cancel := c.fetchContext(ctx)
	defer cancel()
	return c.base.Create(ctx, record)
}

// Update loads the working record, applies the change, persists the result and
// refreshes the cached snapshot. When the refresh fails the key is removed
// instead. apply returning an error aborts the update without a write.
func (c *CachedRepository[T]) Update(ctx context.Context, raw string, apply func(current T) (T, error)) (T, error) {
	var zero T

	id, err := c.parse(raw)
	if err != nil {
		return zero, err
	}

	current, err := c.load(ctx, id)
	if err != nil {
		return zero, err
	}

	next, err := apply(current)
	if err != nil {
		return zero, err
	}

	gen := c.generations.Current(c.namespace)
	updated, err := c.persistUpdate(ctx, next)
	if err != nil {
		return zero, err
	}

	key := c.Key(id)
	if err := c.populate(ctx, key, updated, gen); err != nil {
		c.logger.WarnContext(ctx, "cache refresh failed, removing entry", "key", key, "error", err)
		if delErr := c.remove(ctx, key); delErr != nil {
			return zero, c.cacheError(delErr, "invalidate")
		}
	}
	return updated, nil
}

// Delete removes the record and its cached snapshot, then flushes dependent
// namespaces.
func (c *CachedRepository[T]) Delete(ctx context.Context, raw string) error {
	id, err := c.parse(raw)
	if err != nil {
		return err
	}

	current, err := c.load(ctx, id)
	if err != nil {
		return err
	}

	if err := c.persistDelete(ctx, current); err != nil {
		return err
	}

	if err := c.Invalidate(ctx, id); err != nil {
		return err
	}

	for _, ns := range c.dependents {
		if err := c.flush(ctx, ns); err != nil {
			return err
		}
	}
	return nil
}

// Invalidate removes the cached snapshot for a parsed primary key.
func (c *CachedRepository[T]) Invalidate(ctx context.Context, id any) error {
	c.generations.Advance(c.namespace)
	if err := c.remove(ctx, c.Key(id)); err != nil {
		return c.cacheError(err, "invalidate")
	}
	return nil
}

// FlushNamespace removes every cached snapshot of this entity.
func (c *CachedRepository[T]) FlushNamespace(ctx context.Context) error {
	return c.flush(ctx, c.namespace)
}

func (c *CachedRepository[T]) parse(raw string) (any, error) {
	handlers := c.base.Handlers()
	if handlers.ParseID == nil {
		return raw, nil
	}
	return handlers.ParseID(raw)
}

// load is the read-through step shared by every detail operation: hit returns
// the snapshot, miss fetches and populates. Not-found outcomes are never cached.
func (c *CachedRepository[T]) load(ctx context.Context, id any) (T, error) {
	var zero T
	key := c.Key(id)

	cached, ok, err := c.lookup(ctx, key)
	if err != nil {
		return zero, err
	}
	if ok {
		c.record(ctx, resultHit)
		return cached, nil
	}
	c.record(ctx, resultMiss)

	gen := c.generations.Current(c.namespace)
	record, err := c.fetch(ctx, id)
	if err != nil {
		return zero, err
	}

	if err := c.populate(ctx, key, record, gen); err != nil {
		return zero, c.cacheError(err, "populate")
	}
	return record, nil
}

// populate caches record unless the namespace moved past gen. A snapshot
// that lands while an invalidation runs is removed again.
func (c *CachedRepository[T]) populate(ctx context.Context, key string, record T, gen uint64) error {
	if c.generations.Current(c.namespace) != gen {
		return nil
	}
	if err := c.store(ctx, key, record); err != nil {
		return err
	}
	if c.generations.Current(c.namespace) != gen {
		return c.remove(ctx, key)
	}
	return nil
}

func (c *CachedRepository[T]) lookup(ctx context.Context, key string) (T, bool, error) {
	ctx, cancel := c.cacheContext(ctx)
	defer cancel()

	value, ok, err := cache.Load(ctx, c.cache, c.codec, key)
	if errors.Is(err, cache.ErrInvalidSnapshot) {
		c.logger.WarnContext(ctx, "discarding unreadable snapshot", "key", key, "error", err)
		return value, false, nil
	}
	if err != nil {
		return value, false, c.cacheError(err, "lookup")
	}
	return value, ok, nil
}

func (c *CachedRepository[T]) fetch(ctx context.Context, id any) (T, error) {
	ctx, span := c.tracer.Start(ctx, "repositorycache.fetch", trace.WithAttributes(
		attribute.String("cache.namespace", c.namespace),
		attribute.String("cache.key", fmt.Sprint(id)),
	))
	defer span.End()

	ctx, cancel := c.fetchContext(ctx)
	defer cancel()

	record, err := c.base.GetByID(ctx, id)
	if err != nil {
		err = store.MapError(err, c.entity(), "get")
		if !goerrors.IsNotFound(err) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return record, err
	}
	return record, nil
}

func (c *CachedRepository[T]) persistUpdate(ctx context.Context, record T) (T, error) {
	ctx, cancel := c.fetchContext(ctx)
	defer cancel()

	updated, err := c.base.Update(ctx, record)
	if err != nil {
		return updated, store.MapError(err, c.entity(), "update")
	}
	return updated, nil
}

func (c *CachedRepository[T]) persistDelete(ctx context.Context, record T) error {
	ctx, cancel := c.fetchContext(ctx)
	defer cancel()

	if err := c.base.Delete(ctx, record); err != nil {
		return store.MapError(err, c.entity(), "delete")
	}
	return nil
}

func (c *CachedRepository[T]) store(ctx context.Context, key string, record T) error {
	ctx, cancel := c.cacheContext(ctx)
	defer cancel()
	return cache.Store(ctx, c.cache, c.codec, key, record)
}

func (c *CachedRepository[T]) remove(ctx context.Context, key string) error {
	ctx, cancel := c.cacheContext(ctx)
	defer cancel()
	return c.cache.Delete(ctx, key)
}

func (c *CachedRepository[T]) flush(ctx context.Context, namespace string) error {
	c.generations.Advance(namespace)

	ctx, cancel := c.cacheContext(ctx)
	defer cancel()

	if err := c.cache.DeleteByPrefix(ctx, cache.NamespacePrefix(namespace)); err != nil {
		return c.cacheError(err, "flush "+namespace)
	}
	return nil
}

func (c *CachedRepository[T]) record(ctx context.Context, result string) {
	if c.stats != nil {
		if result == resultHit {
			c.stats.Hit(c.namespace)
		} else {
			c.stats.Miss(c.namespace)
		}
	}
	if c.lookups != nil {
		c.lookups.Add(ctx, 1, metric.WithAttributes(
			attribute.String("entity", c.namespace),
			attribute.String("result", result),
		))
	}
}

// cacheError maps cache failures: an expired deadline is a timeout, the rest
// are internal errors.
func (c *CachedRepository[T]) cacheError(err error, operation string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return store.Timeout(fmt.Sprintf("cache %s %s", operation, c.namespace), err)
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, fmt.Sprintf("cache %s %s failed", operation, c.namespace)).
		WithCode(goerrors.CodeInternal).
		WithTextCode(store.TextCodeInternal)
}

func (c *CachedRepository[T]) entity() string {
	if e := c.base.Handlers().Entity; e != "" {
		return e
	}
	return c.namespace
}

func (c *CachedRepository[T]) cacheContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return boundedContext(ctx, c.cacheTimeout)
}

func (c *CachedRepository[T]) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return boundedContext(ctx, c.fetchTimeout)
}

func boundedContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
