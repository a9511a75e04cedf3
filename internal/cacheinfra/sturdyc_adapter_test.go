package cacheinfra

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
)

// snapshotStore mirrors cache.CacheService without importing it
type snapshotStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, snapshot []byte) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

func newTestService(t *testing.T) *sturdycService {
	t.Helper()
	service, err := NewSturdycService(Config{
		Capacity:           100,
		NumShards:          2,
		TTL:                time.Minute,
		EvictionPercentage: 10,
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return service
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Capacity != 10000 {
		t.Errorf("expected Capacity to be 10000, got %d", cfg.Capacity)
	}

	if cfg.NumShards != 256 {
		t.Errorf("expected NumShards to be 256, got %d", cfg.NumShards)
	}

	if cfg.TTL != 5*time.Minute {
		t.Errorf("expected TTL to be 5 minutes, got %v", cfg.TTL)
	}

	if cfg.EvictionPercentage != 10 {
		t.Errorf("expected EvictionPercentage to be 10, got %d", cfg.EvictionPercentage)
	}

	if cfg.EvictionInterval != 0 {
		t.Errorf("expected EvictionInterval to be unset, got %v", cfg.EvictionInterval)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantError bool
		errorMsg  string
	}{
		{
			name:      "valid default config",
			cfg:       DefaultConfig(),
			wantError: false,
		},
		{
			name: "invalid capacity - zero",
			cfg: Config{
				Capacity:           0,
				NumShards:          256,
				TTL:                5 * time.Minute,
				EvictionPercentage: 10,
			},
			wantError: true,
			errorMsg:  "config error in field Capacity: must be greater than 0",
		},
		{
			name: "invalid num shards - zero",
			cfg: Config{
				Capacity:           1000,
				NumShards:          0,
				TTL:                5 * time.Minute,
				EvictionPercentage: 10,
			},
			wantError: true,
			errorMsg:  "config error in field NumShards: must be greater than 0",
		},
		{
			name: "invalid TTL - zero",
			cfg: Config{
				Capacity:           1000,
				NumShards:          256,
				TTL:                0,
				EvictionPercentage: 10,
			},
			wantError: true,
			errorMsg:  "config error in field TTL: must be greater than 0",
		},
		{
			name: "invalid eviction percentage - too low",
			cfg: Config{
				Capacity:           1000,
				NumShards:          256,
				TTL:                5 * time.Minute,
				EvictionPercentage: 0,
			},
			wantError: true,
			errorMsg:  "config error in field EvictionPercentage: must be between 1 and 100",
		},
		{
			name: "invalid eviction percentage - too high",
			cfg: Config{
				Capacity:           1000,
				NumShards:          256,
				TTL:                5 * time.Minute,
				EvictionPercentage: 101,
			},
			wantError: true,
			errorMsg:  "config error in field EvictionPercentage: must be between 1 and 100",
		},
		{
			name: "invalid eviction interval - negative",
			cfg: Config{
				Capacity:           1000,
				NumShards:          256,
				TTL:                5 * time.Minute,
				EvictionPercentage: 10,
				EvictionInterval:   -time.Second,
			},
			wantError: true,
			errorMsg:  "config error in field EvictionInterval: must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !tt.wantError {
				if err != nil {
					t.Errorf("expected no validation error but got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error but got none")
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if err.Error() != tt.errorMsg {
				t.Errorf("expected error message %q, got %q", tt.errorMsg, err.Error())
			}
		})
	}
}

func TestConfig_ToSturdycOptions(t *testing.T) {
	if options := DefaultConfig().ToSturdycOptions(); len(options) != 0 {
		t.Errorf("expected no sturdyc options for default config, got %d", len(options))
	}

	cfg := DefaultConfig()
	cfg.EvictionInterval = 30 * time.Second
	if options := cfg.ToSturdycOptions(); len(options) != 1 {
		t.Errorf("expected 1 sturdyc option with eviction interval, got %d", len(options))
	}
}

func TestNewSturdycService(t *testing.T) {
	service, err := NewSturdycService(DefaultConfig())
	if err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}
	var _ snapshotStore = service

	service, err = NewSturdycService(Config{})
	if err == nil {
		t.Fatal("expected error for empty config")
	}
	if service != nil {
		t.Error("expected service to be nil when error occurs")
	}
}

func TestSturdycService_SetGet(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	if _, ok, err := service.Get(ctx, "product::1"); err != nil || ok {
		t.Fatalf("expected miss on empty cache, got ok=%v err=%v", ok, err)
	}

	if err := service.Set(ctx, "product::1", []byte("v1")); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}

	got, ok, err := service.Get(ctx, "product::1")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if string(got) != "v1" {
		t.Errorf("expected v1, got %s", got)
	}

	if err := service.Set(ctx, "product::1", []byte("v2")); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}
	got, _, _ = service.Get(ctx, "product::1")
	if string(got) != "v2" {
		t.Errorf("expected overwrite to be visible, got %s", got)
	}
}

func TestSturdycService_Delete(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	_ = service.Set(ctx, "product::1", []byte("v1"))
	if err := service.Delete(ctx, "product::1"); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}
	if _, ok, _ := service.Get(ctx, "product::1"); ok {
		t.Error("expected key to be gone after delete")
	}

	if err := service.Delete(ctx, "product::missing"); err != nil {
		t.Errorf("deleting a missing key should succeed, got %v", err)
	}
}

func TestSturdycService_DeleteByPrefix(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	for _, key := range []string{"product::1", "product::2", "product_review::a", "order_item::b"} {
		if err := service.Set(ctx, key, []byte(key)); err != nil {
			t.Fatalf("unexpected set error: %v", err)
		}
	}

	if err := service.DeleteByPrefix(ctx, "product::"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	remaining := service.client.ScanKeys()
	sort.Strings(remaining)

	want := []string{"order_item::b", "product_review::a"}
	if strings.Join(remaining, ",") != strings.Join(want, ",") {
		t.Errorf("expected remaining keys %v, got %v", want, remaining)
	}
	if service.Size() != 2 {
		t.Errorf("expected size 2, got %d", service.Size())
	}
}

func TestSturdycService_CanceledContext(t *testing.T) {
	service := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := service.Get(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Errorf("Get: expected context.Canceled, got %v", err)
	}
	if err := service.Set(ctx, "k", []byte("v")); !errors.Is(err, context.Canceled) {
		t.Errorf("Set: expected context.Canceled, got %v", err)
	}
	if err := service.Delete(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Errorf("Delete: expected context.Canceled, got %v", err)
	}
	if err := service.DeleteByPrefix(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Errorf("DeleteByPrefix: expected context.Canceled, got %v", err)
	}
}

func TestSturdycService_ConcurrentAccess(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = service.Set(ctx, "product::shared", []byte("v"))
				_, _, _ = service.Get(ctx, "product::shared")
				_ = service.Delete(ctx, "product::shared")
			}
		}()
	}
	wg.Wait()
}
