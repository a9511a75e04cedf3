// Package catalog defines the storefront records and their inbound validation
// rules.
//
// Records are plain data. Relationships are held as nullable foreign keys and
// resolved through explicit store queries, never by lazy traversal. Money
// values always travel with a currency code.
package catalog
