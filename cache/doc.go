// Package cache provides the snapshot cache contract, key serialization and
// snapshot codecs used by the entity cache.
//
// # Overview
//
// This package exports the interfaces the read-through entity cache depends on
// and their default implementations:
//
//   - CacheService: stores opaque encoded snapshots by key
//   - KeySerializer: builds namespaced keys of the form namespace::pk
//   - Codec: encodes and decodes entity snapshots (msgpack by default)
//
// Snapshots are stored as bytes. A caller always decodes a fresh copy, so a
// mutation of a returned record never leaks into the cache.
//
// # Basic Usage
//
//	service, err := cache.NewCacheService(cache.DefaultConfig())
//	serializer := cache.NewDefaultKeySerializer()
//	codec := cache.NewMsgpackCodec[Product]()
//
//	key := serializer.SerializeKey("product", int64(42)) // "product::42"
//	if err := cache.Store(ctx, service, codec, key, product); err != nil {
//		return err
//	}
//	cached, ok, err := cache.Load(ctx, service, codec, key)
//
// # Namespaces
//
// Every entity type owns a namespace. Keys of one namespace share the prefix
// returned by NamespacePrefix, which lets DeleteByPrefix flush a whole entity
// type when a record it depends on is removed.
//
// # See Also
//
// For the read-through decorator that applies these primitives to a store,
// see the repositorycache package.
package cache
