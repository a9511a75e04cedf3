package store

import (
	"context"
	"errors"
	"reflect"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// recordRepository serves records keyed by a UUID "id" column through
// go-repository-bun.
type recordRepository[T any] struct {
	records  repository.Repository[*T]
	table    *schema.Table
	key      func(*T) *string
	handlers ModelHandlers[T]
	timeout  time.Duration
}

// NewRecordRepository returns a Repository for UUID keyed records. key points
// at the identifier field, which is assigned on create when empty.
func NewRecordRepository[T any](db *bun.DB, handlers ModelHandlers[T], key func(*T) *string, timeout time.Duration) Repository[T] {
	return &recordRepository[T]{
		records:  repository.NewRepository[*T](db, uuidRecords(key)),
		table:    db.Table(reflect.TypeFor[T]()),
		key:      key,
		handlers: handlers,
		timeout:  timeout,
	}
}

func uuidRecords[T any](key func(*T) *string) repository.ModelHandlers[*T] {
	return repository.ModelHandlers[*T]{
		NewRecord: func() *T { return new(T) },
		GetID: func(record *T) uuid.UUID {
			id, err := uuid.Parse(*key(record))
			if err != nil {
				return uuid.Nil
			}
			return id
		},
		SetID: func(record *T, id uuid.UUID) {
			*key(record) = id.String()
		},
		GetIdentifier: func() string { return "id" },
	}
}

func (r *recordRepository[T]) Handlers() ModelHandlers[T] {
	return r.handlers
}

func (r *recordRepository[T]) GetByID(ctx context.Context, id any) (T, error) {
	var zero T

	key, ok := id.(string)
	if !ok {
		return zero, NotFound(r.handlers.Entity)
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	record, err := r.records.GetByID(ctx, key)
	if err != nil {
		return zero, r.mapError(ctx, err, "get")
	}
	return *record, nil
}

// List returns every matching record ordered by key. The library's default
// page size is lifted; criteria may set their own limit.
func (r *recordRepository[T]) List(ctx context.Context, criteria ...SelectCriteria) ([]T, int, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	all := make([]repository.SelectCriteria, 0, len(criteria)+2)
	all = append(all, func(q *bun.SelectQuery) *bun.SelectQuery { return q.Limit(0) })
	for _, c := range criteria {
		all = append(all, repository.SelectCriteria(c))
	}
	all = append(all, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.? ASC", bun.Ident(r.handlers.PKColumn))
	})

	records, total, err := r.records.List(ctx, all...)
	if err != nil {
		return nil, 0, r.mapError(ctx, err, "list")
	}

	out := make([]T, 0, len(records))
	for _, record := range records {
		out = append(out, *record)
	}
	return out, total, nil
}

func (r *recordRepository[T]) Create(ctx context.Context, record T) (T, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	created, err := r.records.Create(ctx, &record)
	if err != nil {
		var zero T
		return zero, r.mapError(ctx, err, "create")
	}
	return *created, nil
}

// Update replaces every column of the stored row. It reports not found when
// no row carries the record's key.
func (r *recordRepository[T]) Update(ctx context.Context, record T) (T, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	updated, err := r.records.Update(ctx, &record, r.zeroColumns(&record))
	if err != nil {
		var zero T
		return zero, r.mapError(ctx, err, "update")
	}
	return *updated, nil
}

func (r *recordRepository[T]) Delete(ctx context.Context, record T) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	n, err := r.records.Count(ctx, repository.SelectByID(*r.key(&record)))
	if err != nil {
		return r.mapError(ctx, err, "delete")
	}
	if n == 0 {
		return NotFound(r.handlers.Entity)
	}

	if err := r.records.Delete(ctx, &record); err != nil {
		return r.mapError(ctx, err, "delete")
	}
	return nil
}

// zeroColumns writes zero valued columns explicitly. The library omits them
// from updates, so a cleared reference would otherwise keep its old value.
func (r *recordRepository[T]) zeroColumns(record *T) repository.UpdateCriteria {
	return func(q *bun.UpdateQuery) *bun.UpdateQuery {
		strct := reflect.ValueOf(record).Elem()
		for _, f := range r.table.DataFields {
			if f.HasZeroValue(strct) {
				q = q.Value(f.Name, "?", f.Value(strct).Interface())
			}
		}
		return q
	}
}

func (r *recordRepository[T]) mapError(ctx context.Context, err error, operation string) error {
	switch {
	case repository.IsRecordNotFound(err), repository.IsSQLExpectedCountViolation(err):
		return NotFound(r.handlers.Entity)
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return Timeout(operation+" "+r.handlers.Entity, ctx.Err())
	}
	return MapError(err, r.handlers.Entity, operation)
}
