package store

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// SelectCriteria customizes a list query.
type SelectCriteria func(*bun.SelectQuery) *bun.SelectQuery

// Repository is the persistence gateway for a single record type.
// Lookups by primary key take the parsed key produced by ModelHandlers.ParseID.
type Repository[T any] interface {
	GetByID(ctx context.Context, id any) (T, error)
	List(ctx context.Context, criteria ...SelectCriteria) ([]T, int, error)
	Create(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, record T) (T, error)
	Delete(ctx context.Context, record T) error
	Handlers() ModelHandlers[T]
}

// ModelHandlers describes how a record type is identified.
type ModelHandlers[T any] struct {
	// Entity is the singular name used in errors, e.g. "product".
	Entity string
	// PKColumn is the primary key column name.
	PKColumn string
	// ParseID converts a raw path key into the canonical key value.
	// It returns a not-found error when raw cannot be a key of this type.
	ParseID func(raw string) (any, error)
	// GetID returns the canonical key value of record.
	GetID func(record T) any
}

type bunRepository[T any] struct {
	db       bun.IDB
	handlers ModelHandlers[T]
	timeout  time.Duration
}

// NewRepository returns a bun backed Repository for records with integer
// keys. A positive timeout bounds every statement.
func NewRepository[T any](db bun.IDB, handlers ModelHandlers[T], timeout time.Duration) Repository[T] {
	return &bunRepository[T]{db: db, handlers: handlers, timeout: timeout}
}

func (r *bunRepository[T]) Handlers() ModelHandlers[T] {
	return r.handlers
}

func (r *bunRepository[T]) GetByID(ctx context.Context, id any) (T, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	record := new(T)
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.? = ?", bun.Ident(r.handlers.PKColumn), id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		var zero T
		return zero, MapError(err, r.handlers.Entity, "get")
	}
	return *record, nil
}

func (r *bunRepository[T]) List(ctx context.Context, criteria ...SelectCriteria) ([]T, int, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	records := make([]T, 0)
	q := r.db.NewSelect().Model(&records)
	for _, c := range criteria {
		q = c(q)
	}
	q = q.OrderExpr("?TableAlias.? ASC", bun.Ident(r.handlers.PKColumn))

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, MapError(err, r.handlers.Entity, "list")
	}
	return records, total, nil
}

func (r *bunRepository[T]) Create(ctx context.Context, record T) (T, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.db.NewInsert().Model(&record).Exec(ctx); err != nil {
		var zero T
		return zero, MapError(err, r.handlers.Entity, "create")
	}
	return record, nil
}

// Update replaces every column of the stored row. It reports not found when
// no row carries the record's key.
func (r *bunRepository[T]) Update(ctx context.Context, record T) (T, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.NewUpdate().Model(&record).WherePK().Exec(ctx)
	if err != nil {
		var zero T
		return zero, MapError(err, r.handlers.Entity, "update")
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		var zero T
		return zero, NotFound(r.handlers.Entity)
	}
	return record, nil
}

func (r *bunRepository[T]) Delete(ctx context.Context, record T) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.NewDelete().Model(&record).WherePK().Exec(ctx)
	if err != nil {
		return MapError(err, r.handlers.Entity, "delete")
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return NotFound(r.handlers.Entity)
	}
	return nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
