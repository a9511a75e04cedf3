package di

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-storefront/cache"
	"github.com/goliatone/go-storefront/catalog"
	"github.com/goliatone/go-storefront/pkg/testsupport"
)

func TestNewContainer(t *testing.T) {
	config := cache.Config{
		Capacity:           1000,
		NumShards:          256,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
		EvictionInterval:   0,
	}

	container, err := NewContainer(config)
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}

	if container.CacheService() == nil {
		t.Error("Container should have a non-nil cache service")
	}
	if container.KeySerializer() == nil {
		t.Error("Container should have a non-nil key serializer")
	}
	if container.Stats() == nil {
		t.Error("Container should have non-nil lookup stats")
	}

	storedConfig := container.Config()
	if storedConfig.Capacity != config.Capacity {
		t.Errorf("Expected capacity %d, got %d", config.Capacity, storedConfig.Capacity)
	}
	if storedConfig.TTL != config.TTL {
		t.Errorf("Expected TTL %v, got %v", config.TTL, storedConfig.TTL)
	}
}

func TestNewContainerWithDefaults(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	config := container.Config()
	defaultConfig := cache.DefaultConfig()

	if config.Capacity != defaultConfig.Capacity {
		t.Errorf("Expected default capacity %d, got %d", defaultConfig.Capacity, config.Capacity)
	}
	if config.TTL != defaultConfig.TTL {
		t.Errorf("Expected default TTL %v, got %v", defaultConfig.TTL, config.TTL)
	}
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	invalidConfig := cache.Config{
		Capacity:           0,
		NumShards:          256,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
	}

	container, err := NewContainer(invalidConfig)
	if err == nil {
		t.Fatal("NewContainer() should fail with invalid config")
	}
	if container != nil {
		t.Error("NewContainer() should not return a container on error")
	}

	var cfgErr *cache.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *cache.ConfigError, got %T", err)
	}
	if cfgErr.Field != "Capacity" {
		t.Errorf("expected Capacity field error, got %q", cfgErr.Field)
	}
}

func TestContainerSingletonBehavior(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	if container.CacheService() != container.CacheService() {
		t.Error("CacheService() should return the same instance (singleton behavior)")
	}
	if container.KeySerializer() != container.KeySerializer() {
		t.Error("KeySerializer() should return the same instance (singleton behavior)")
	}
	if container.Stats() != container.Stats() {
		t.Error("Stats() should return the same instance (singleton behavior)")
	}
}

func TestNewCachedRepository_SharesCacheAndStats(t *testing.T) {
	container, err := NewContainerWithDefaults(WithCacheTimeout(time.Second), WithFetchTimeout(time.Second))
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	st := testsupport.NewTestStore(t)
	fixture := testsupport.SeedCatalog(t, st)
	repos := NewRepositories(container, st)

	ctx := context.Background()
	product := fixture.Products[0]

	if _, err := repos.Products.GetByID(ctx, "1"); err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	got, err := repos.Products.GetByID(ctx, "1")
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if got.Name != product.Name {
		t.Errorf("expected product %q, got %q", product.Name, got.Name)
	}

	if _, _, err := container.CacheService().Get(ctx, repos.Products.Key(product.ID)); err != nil {
		t.Fatalf("cache Get() failed: %v", err)
	}

	snapshot := container.Stats().Snapshot()
	if len(snapshot) != 1 || snapshot[0].Namespace != NamespaceProduct {
		t.Fatalf("expected product stats only, got %+v", snapshot)
	}
	if snapshot[0].Hits != 1 || snapshot[0].Misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %+v", snapshot[0])
	}
}

func TestNewRepositories_CategoryDeleteFlushesProducts(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	st := testsupport.NewTestStore(t)
	fixture := testsupport.SeedCatalog(t, st)
	repos := NewRepositories(container, st)
	ctx := context.Background()

	product := fixture.Products[0]
	if _, err := repos.Products.GetByID(ctx, "1"); err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}

	if err := repos.Categories.Delete(ctx, "1"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	if _, ok, _ := container.CacheService().Get(ctx, repos.Products.Key(product.ID)); ok {
		t.Error("expected product snapshot to be flushed")
	}

	got, err := repos.Products.GetByID(ctx, "1")
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if got.CategoryID != nil {
		t.Errorf("expected category to be nulled, got %v", *got.CategoryID)
	}
}

func TestNewCachedRepository_DerivesNamespace(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	st := testsupport.NewTestStore(t)
	repo := NewCachedRepository[catalog.Category](container, st.Categories)
	if repo.Namespace() != "category" {
		t.Errorf("expected derived namespace category, got %q", repo.Namespace())
	}
}
