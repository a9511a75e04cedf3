package store

import (
	"context"
	"fmt"

	"github.com/goliatone/go-storefront/catalog"
	"github.com/uptrace/bun"
)

type foreignKey struct {
	column   string
	table    string
	ref      string
	onDelete string
}

type tableDef struct {
	model any
	fks   []foreignKey
}

// tables lists tables in dependency order. References are nulled when the
// referenced row is deleted; cart rows follow their owner.
func tables() []tableDef {
	return []tableDef{
		{model: (*catalog.Category)(nil)},
		{model: (*catalog.Status)(nil)},
		{model: (*catalog.OrderStatus)(nil)},
		{model: (*catalog.User)(nil)},
		{model: (*catalog.Product)(nil), fks: []foreignKey{
			{"category_id", "categories", "id", "SET NULL"},
			{"status_id", "statuses", "id", "SET NULL"},
		}},
		{model: (*catalog.Cart)(nil), fks: []foreignKey{
			{"customer_id", "users", "id", "CASCADE"},
		}},
		{model: (*catalog.CartProduct)(nil), fks: []foreignKey{
			{"cart_id", "carts", "customer_id", "CASCADE"},
			{"product_id", "products", "product_id", "CASCADE"},
		}},
		{model: (*catalog.Order)(nil), fks: []foreignKey{
			{"customer_id", "users", "id", "SET NULL"},
			{"order_status_id", "order_statuses", "id", "SET NULL"},
		}},
		{model: (*catalog.OrderItem)(nil), fks: []foreignKey{
			{"order_id", "orders", "id", "SET NULL"},
			{"product_id", "products", "product_id", "SET NULL"},
		}},
		{model: (*catalog.ShippingAddress)(nil), fks: []foreignKey{
			{"customer_id", "users", "id", "SET NULL"},
			{"order_id", "orders", "id", "SET NULL"},
		}},
		{model: (*catalog.ProductReview)(nil), fks: []foreignKey{
			{"product_id", "products", "product_id", "SET NULL"},
			{"customer_id", "users", "id", "SET NULL"},
		}},
	}
}

// Migrate creates any missing table.
func Migrate(ctx context.Context, db *bun.DB) error {
	for _, def := range tables() {
		q := db.NewCreateTable().Model(def.model).IfNotExists()
		for _, fk := range def.fks {
			q = q.ForeignKey("(?) REFERENCES ? (?) ON DELETE "+fk.onDelete,
				bun.Ident(fk.column), bun.Ident(fk.table), bun.Ident(fk.ref))
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("store: create table for %T: %w", def.model, err)
		}
	}
	return nil
}

// Seed inserts the default product and order statuses when none exist.
func Seed(ctx context.Context, db *bun.DB) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		count, err := tx.NewSelect().Model((*catalog.Status)(nil)).Count(ctx)
		if err != nil {
			return err
		}
		if count == 0 {
			statuses := []catalog.Status{{Name: "available"}, {Name: "out of stock"}}
			if _, err := tx.NewInsert().Model(&statuses).Exec(ctx); err != nil {
				return err
			}
		}

		count, err = tx.NewSelect().Model((*catalog.OrderStatus)(nil)).Count(ctx)
		if err != nil {
			return err
		}
		if count == 0 {
			statuses := []catalog.OrderStatus{{Name: "pending"}, {Name: "shipped"}, {Name: "delivered"}}
			if _, err := tx.NewInsert().Model(&statuses).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
