// Package repositorycache provides the cached repository decorator used for
// entity detail operations.
//
// # Overview
//
// CachedRepository wraps a store.Repository and applies the read-through
// protocol to every operation that addresses a single record by key:
//
//  1. Parse the raw key. A key that cannot belong to the entity is not found
//     and the cache is never consulted.
//  2. Look up namespace::pk in the cache. A hit returns the snapshot without
//     calling the base repository.
//  3. On a miss fetch from the base repository. A not-found outcome fails the
//     operation and leaves the cache untouched. Otherwise store the snapshot.
//  4. Read returns the record. Update applies the change, persists it and
//     refreshes the snapshot. Delete removes the row, then the key, then
//     flushes dependent namespaces.
//
// Create and List pass through. A created record enters the cache on its first
// detail read.
//
// # Basic Usage
//
//	base := store.NewRepository(db, store.ProductHandlers(), time.Second)
//	svc, _ := cache.NewCacheService(cache.DefaultConfig())
//
//	products := repositorycache.New(base, svc, cache.NewDefaultKeySerializer(),
//		repositorycache.WithCacheTimeout(50*time.Millisecond),
//		repositorycache.WithDependents("order_item", "product_review"),
//	)
//
//	p, err := products.GetByID(ctx, "42")
//
// # Namespaces
//
// The namespace defaults to the snake_case name of the record type, so
// catalog.ShippingAddress is cached under shipping_address::<uuid>.
// Dependents name namespaces whose snapshots embed a reference the database
// nulls when this entity is deleted.
//
// # Errors
//
// Base repository errors are mapped with store.MapError. Cache calls that run
// past their deadline surface as the store timeout category; other cache
// failures are internal errors. An unreadable snapshot is treated as a miss.
package repositorycache
