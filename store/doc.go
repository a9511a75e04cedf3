// Package store is the persistence gateway of the storefront.
//
// Each record type gets a Repository over bun. Relationship traversal such
// as order to order items is an explicit Store method, not an implicit
// property of the record. Driver errors are translated into go-errors
// categories: sql.ErrNoRows becomes not found, an expired deadline becomes
// the timeout category.
//
// Supported drivers are sqlite (mattn/go-sqlite3), postgres (lib/pq) and
// mysql (go-sql-driver/mysql).
package store
