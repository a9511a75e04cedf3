package store

import (
	"context"
	"time"

	"github.com/goliatone/go-storefront/catalog"
	"github.com/uptrace/bun"
)

// Store bundles the per-entity repositories with the relationship queries
// that span more than one table.
type Store struct {
	db      *bun.DB
	timeout time.Duration

	Products      Repository[catalog.Product]
	Categories    Repository[catalog.Category]
	Statuses      Repository[catalog.Status]
	OrderStatuses Repository[catalog.OrderStatus]
	Users         Repository[catalog.User]
	Carts         Repository[catalog.Cart]
	Orders        Repository[catalog.Order]
	OrderItems    Repository[catalog.OrderItem]
	Addresses     Repository[catalog.ShippingAddress]
	Reviews       Repository[catalog.ProductReview]
}

// New builds a Store over db. Integer keyed records use the bun repository,
// UUID keyed records go through go-repository-bun. A positive timeout bounds
// every statement.
func New(db *bun.DB, timeout time.Duration) *Store {
	return &Store{
		db:            db,
		timeout:       timeout,
		Products:      NewRepository(db, ProductHandlers(), timeout),
		Categories:    NewRepository(db, CategoryHandlers(), timeout),
		Statuses:      NewRepository(db, StatusHandlers(), timeout),
		OrderStatuses: NewRepository(db, OrderStatusHandlers(), timeout),
		Users:         NewRepository(db, UserHandlers(), timeout),
		Carts:         NewRepository(db, CartHandlers(), timeout),
		Orders:        NewRecordRepository(db, OrderHandlers(), orderKey, timeout),
		OrderItems:    NewRecordRepository(db, OrderItemHandlers(), orderItemKey, timeout),
		Addresses:     NewRecordRepository(db, ShippingAddressHandlers(), shippingAddressKey, timeout),
		Reviews:       NewRecordRepository(db, ProductReviewHandlers(), productReviewKey, timeout),
	}
}

// DB exposes the underlying connection.
func (s *Store) DB() *bun.DB {
	return s.db
}

// OrderItemsByOrder returns the items of an order in key order.
func (s *Store) OrderItemsByOrder(ctx context.Context, orderID string) ([]catalog.OrderItem, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	items := make([]catalog.OrderItem, 0)
	err := s.db.NewSelect().
		Model(&items).
		Where("?TableAlias.order_id = ?", orderID).
		OrderExpr("?TableAlias.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, MapError(err, "order item", "list")
	}
	return items, nil
}

// ProductsByIDs loads the listed products keyed by id. Missing ids are skipped.
func (s *Store) ProductsByIDs(ctx context.Context, ids []int64) (map[int64]catalog.Product, error) {
	out := make(map[int64]catalog.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var products []catalog.Product
	err := s.db.NewSelect().
		Model(&products).
		Where("?TableAlias.product_id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, MapError(err, "product", "list")
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

// CartProducts returns the product ids linked to each of the given carts.
func (s *Store) CartProducts(ctx context.Context, cartIDs ...int64) (map[int64][]int64, error) {
	out := make(map[int64][]int64, len(cartIDs))
	if len(cartIDs) == 0 {
		return out, nil
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var links []catalog.CartProduct
	err := s.db.NewSelect().
		Model(&links).
		Where("?TableAlias.cart_id IN (?)", bun.In(cartIDs)).
		OrderExpr("?TableAlias.cart_id ASC, ?TableAlias.product_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, MapError(err, "cart", "list")
	}
	for _, link := range links {
		out[link.CartID] = append(out[link.CartID], link.ProductID)
	}
	return out, nil
}

// CreateCart inserts a cart and its product links in one transaction.
func (s *Store) CreateCart(ctx context.Context, cart catalog.Cart) (catalog.Cart, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&cart).Exec(ctx); err != nil {
			return err
		}
		return replaceCartProducts(ctx, tx, cart.CustomerID, cart.Products)
	})
	if err != nil {
		return catalog.Cart{}, MapError(err, "cart", "create")
	}
	return cart, nil
}

func replaceCartProducts(ctx context.Context, tx bun.Tx, cartID int64, productIDs []int64) error {
	if _, err := tx.NewDelete().
		Model((*catalog.CartProduct)(nil)).
		Where("cart_id = ?", cartID).
		Exec(ctx); err != nil {
		return err
	}

	seen := make(map[int64]struct{}, len(productIDs))
	links := make([]catalog.CartProduct, 0, len(productIDs))
	for _, id := range productIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		links = append(links, catalog.CartProduct{CartID: cartID, ProductID: id})
	}
	if len(links) == 0 {
		return nil
	}
	_, err := tx.NewInsert().Model(&links).Exec(ctx)
	return err
}

// EmailTaken reports whether a user already registered email.
func (s *Store) EmailTaken(ctx context.Context, email string) (bool, error) {
	return s.userExists(ctx, "email", email)
}

// UsernameTaken reports whether a user already registered username.
func (s *Store) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return s.userExists(ctx, "username", username)
}

func (s *Store) userExists(ctx context.Context, column, value string) (bool, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	exists, err := s.db.NewSelect().
		Model((*catalog.User)(nil)).
		Where("LOWER(?) = LOWER(?)", bun.Ident(column), value).
		Exists(ctx)
	if err != nil {
		return false, MapError(err, "user", "lookup")
	}
	return exists, nil
}

// UserByUsername loads the account used for token issue.
func (s *Store) UserByUsername(ctx context.Context, username string) (catalog.User, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var user catalog.User
	err := s.db.NewSelect().
		Model(&user).
		Where("?TableAlias.username = ?", username).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return catalog.User{}, MapError(err, "user", "get")
	}
	return user, nil
}

// ReviewExistsForProduct reports whether productID already has a review.
func (s *Store) ReviewExistsForProduct(ctx context.Context, productID int64) (bool, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	exists, err := s.db.NewSelect().
		Model((*catalog.ProductReview)(nil)).
		Where("?TableAlias.product_id = ?", productID).
		Exists(ctx)
	if err != nil {
		return false, MapError(err, "review", "lookup")
	}
	return exists, nil
}
