package store_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-storefront/catalog"
	"github.com/goliatone/go-storefront/pkg/testsupport"
	"github.com/goliatone/go-storefront/store"
)

func int64Ptr(v int64) *int64 { return &v }

func TestCategoriesListInKeyOrder(t *testing.T) {
	ctx := context.Background()
	st := testsupport.NewTestStore(t)

	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		_, err := st.Categories.Create(ctx, catalog.Category{Name: name})
		require.NoError(t, err)
	}

	categories, total, err := st.Categories.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, categories, 3)
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, []string{categories[0].Name, categories[1].Name, categories[2].Name})
	assert.Less(t, categories[0].ID, categories[1].ID)
	assert.Less(t, categories[1].ID, categories[2].ID)
}

func TestListEmptyTable(t *testing.T) {
	st := testsupport.NewTestStore(t)

	products, total, err := st.Products.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestListCriteria(t *testing.T) {
	ctx := context.Background()
	st := testsupport.NewTestStore(t)
	fixture := testsupport.SeedCatalog(t, st)

	books := fixture.Categories[1].ID
	products, total, err := st.Products.List(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.category_id = ?", books)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, "Field Guide", products[0].Name)
}

func TestProductCreateGetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	st := testsupport.NewTestStore(t)

	product := catalog.Product{
		Name:          "Widget",
		Description:   "A widget",
		Price:         decimal.RequireFromString("9.99"),
		PriceCurrency: "KSH",
		Stock:         5,
	}
	created, err := st.Products.Create(ctx, product)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := st.Products.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Name)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, 5, got.Stock)

	got.Stock = 3
	updated, err := st.Products.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Stock)

	reloaded, err := st.Products.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.Stock)

	// an update that changes nothing still finds the row
	_, err = st.Products.Update(ctx, reloaded)
	require.NoError(t, err)

	require.NoError(t, st.Products.Delete(ctx, reloaded))

	_, err = st.Products.GetByID(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, goerrors.IsNotFound(err))

	err = st.Products.Delete(ctx, reloaded)
	assert.True(t, goerrors.IsNotFound(err), "second delete should be not found, got %v", err)

	_, err = st.Products.Update(ctx, reloaded)
	assert.True(t, goerrors.IsNotFound(err), "update of deleted row should be not found, got %v", err)
}

func TestGetByIDNotFound(t *testing.T) {
	st := testsupport.NewTestStore(t)

	_, err := st.Products.GetByID(context.Background(), int64(999))
	require.Error(t, err)
	assert.True(t, goerrors.IsNotFound(err))

	var rich *goerrors.Error
	require.True(t, errors.As(err, &rich))
	assert.Equal(t, store.TextCodeNotFound, rich.TextCode)
	assert.Equal(t, 404, rich.Code)
}

func TestUUIDRecordsGetIdentifiers(t *testing.T) {
	ctx := context.Background()
	st := testsupport.NewTestStore(t)

	order, err := st.Orders.Create(ctx, catalog.Order{})
	require.NoError(t, err)
	assert.Len(t, order.ID, 36)
	assert.False(t, order.CreatedAt.IsZero())

	got, err := st.Orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestRecordUpdateClearsReference(t *testing.T) {
	ctx := context.Background()
	st := testsupport.NewTestStore(t)
	fixture := testsupport.SeedCatalog(t, st)

	order, err := st.Orders.Create(ctx, catalog.Order{})
	require.NoError(t, err)
	item, err := st.OrderItems.Create(ctx, catalog.OrderItem{OrderID: &order.ID, ProductID: &fixture.Products[0].ID, Quantity: 2})
	require.NoError(t, err)

	item.OrderID = nil
	item.Quantity = 7
	updated, err := st.OrderItems.Update(ctx, item)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)

	reloaded, err := st.OrderItems.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.OrderID)
	assert.Equal(t, 7, reloaded.Quantity)
	require.NotNil(t, reloaded.ProductID)
}

func TestRecordMissingKeysAreNotFound(t *testing.T) {
	ctx := context.Background()
	st := testsupport.NewTestStore(t)
	missing := "7b0c3f5e-2f43-4a36-9d7b-3c1d2e9f8a10"

	_, err := st.Reviews.GetByID(ctx, missing)
	assert.True(t, goerrors.IsNotFound(err), "got %v", err)

	_, err = st.Reviews.GetByID(ctx, int64(1))
	assert.True(t, goerrors.IsNotFound(err), "got %v", err)

	_, err = st.Reviews.Update(ctx, catalog.ProductReview{ID: missing, Review: "gone", Rating: 3})
	assert.True(t, goerrors.IsNotFound(err), "got %v", err)

	err = st.Reviews.Delete(ctx, catalog.ProductReview{ID: missing})
	require.Error(t, err)
	var rich *goerrors.Error
	require.True(t, errors.As(err, &rich))
	assert.Equal(t, store.TextCodeNotFound, rich.TextCode)
	assert.Equal(t, "review not found", rich.Message)
}

func TestRecordListReturnsEveryRowInKeyOrder(t *testing.T) {
	ctx := context.Background()
	st := testsupport.NewTestStore(t)

	for i := 0; i < 30; i++ {
		_, err := st.Orders.Create(ctx, catalog.Order{})
		require.NoError(t, err)
	}

	orders, total, err := st.Orders.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30, total)
	require.Len(t, orders, 30)
	for i := 1; i < len(orders); i++ {
		assert.Less(t, orders[i-1].ID, orders[i].ID)
	}

	page, total, err := st.Orders.List(ctx, func(q *bun.SelectQuery) *bun.SelectQuery { return q.Limit(5) })
	require.NoError(t, err)
	assert.Equal(t, 30, total)
	assert.Len(t, page, 5)
}

func TestDeleteCategoryNullsProductReference(t *testing.T) {
	ctx := context.Background()
	st := testsupport.NewTestStore(t)
	fixture := testsupport.SeedCatalog(t, st)

	electronics := fixture.Categories[0]
	require.NoError(t, st.Categories.Delete(ctx, electronics))

	lamp, err := st.Products.GetByID(ctx, fixture.Products[0].ID)
	require.NoError(t, err)
	assert.Nil(t, lamp.CategoryID)
	require.NotNil(t, lamp.StatusID)
}

func TestDeleteOrderNullsItemsAndAddresses(t *testing.T) {
	ctx := context.Background()
	st := testsupport.NewTestStore(t)
	fixture := testsupport.SeedCatalog(t, st)

	order, err := st.Orders.Create(ctx, catalog.Order{})
	require.NoError(t, err)

	item, err := st.OrderItems.Create(ctx, catalog.OrderItem{OrderID: &order.ID, ProductID: &fixture.Products[0].ID, Quantity: 2})
	require.NoError(t, err)

	address, err := st.Addresses.Create(ctx, catalog.ShippingAddress{
		OrderID: &order.ID, Address: "1 Moi Avenue", City: "Nairobi", State: "Nairobi",
		Zipcode: "00100", Country: "Kenya", Phone: "+254712345678",
	})
	require.NoError(t, err)

	require.NoError(t, st.Orders.Delete(ctx, order))

	gotItem, err := st.OrderItems.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, gotItem.OrderID)
	require.NotNil(t, gotItem.ProductID)

	gotAddress, err := st.Addresses.GetByID(ctx, address.ID)
	require.NoError(t, err)
	assert.Nil(t, gotAddress.OrderID)
}

func TestOrderItemsByOrderAndProducts(t *testing.T) {
	ctx := context.Background()
	st := testsupport.NewTestStore(t)
	fixture := testsupport.SeedCatalog(t, st)

	order, err := st.Orders.Create(ctx, catalog.Order{})
	require.NoError(t, err)
	other, err := st.Orders.Create(ctx, catalog.Order{})
	require.NoError(t, err)

	for _, p := range fixture.Products {
		_, err := st.OrderItems.Create(ctx, catalog.OrderItem{OrderID: &order.ID, ProductID: int64Ptr(p.ID), Quantity: 1})
		require.NoError(t, err)
	}
	_, err = st.OrderItems.Create(ctx, catalog.OrderItem{OrderID: &other.ID, ProductID: int64Ptr(fixture.Products[0].ID), Quantity: 9})
	require.NoError(t, err)

	items, err := st.OrderItemsByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	products, err := st.ProductsByIDs(ctx, []int64{fixture.Products[0].ID, fixture.Products[1].ID, 999})
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, "Desk Lamp", products[fixture.Products[0].ID].Name)
}

func TestOrderItemWithUnknownProductIsBadInput(t *testing.T) {
	st := testsupport.NewTestStore(t)

	_, err := st.OrderItems.Create(context.Background(), catalog.OrderItem{ProductID: int64Ptr(404), Quantity: 1})
	require.Error(t, err)
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryBadInput), "got %v", err)
}

func TestUserLookups(t *testing.T) {
	ctx := context.Background()
	st := testsupport.NewTestStore(t)

	_, err := st.Users.Create(ctx, catalog.User{Username: "alice01", Email: "alice@example.com", PasswordHash: "hash"})
	require.NoError(t, err)

	taken, err := st.EmailTaken(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = st.UsernameTaken(ctx, "bob0001")
	require.NoError(t, err)
	assert.False(t, taken)

	user, err := st.UserByUsername(ctx, "alice01")
	require.NoError(t, err)
	assert.Equal(t, "hash", user.PasswordHash)

	_, err = st.UserByUsername(ctx, "nobody")
	assert.True(t, goerrors.IsNotFound(err))

	_, err = st.Users.Create(ctx, catalog.User{Username: "alice01", Email: "other@example.com", PasswordHash: "hash"})
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryConflict), "got %v", err)
}

func TestCartWithProducts(t *testing.T) {
	ctx := context.Background()
	st := testsupport.NewTestStore(t)
	fixture := testsupport.SeedCatalog(t, st)

	user, err := st.Users.Create(ctx, catalog.User{Username: "carter1", Email: "carter@example.com", PasswordHash: "x"})
	require.NoError(t, err)

	p1, p2 := fixture.Products[0].ID, fixture.Products[1].ID
	cart, err := st.CreateCart(ctx, catalog.Cart{
		CustomerID:    user.ID,
		Products:      []int64{p2, p1, p2},
		Quantity:      2,
		Total:         decimal.RequireFromString("39.50"),
		TotalCurrency: "KSH",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, cart.CustomerID)

	links, err := st.CartProducts(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{p1, p2}, links[user.ID])

	_, err = st.CreateCart(ctx, catalog.Cart{CustomerID: user.ID, TotalCurrency: "KSH"})
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryConflict), "got %v", err)
}

func TestReviewExistsForProduct(t *testing.T) {
	ctx := context.Background()
	st := testsupport.NewTestStore(t)
	fixture := testsupport.SeedCatalog(t, st)

	productID := fixture.Products[0].ID
	exists, err := st.ReviewExistsForProduct(ctx, productID)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = st.Reviews.Create(ctx, catalog.ProductReview{ProductID: &productID, Review: "bright", Rating: 4})
	require.NoError(t, err)

	exists, err = st.ReviewExistsForProduct(ctx, productID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSeedDefaults(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewTestDB(t)

	require.NoError(t, store.Seed(ctx, db))
	require.NoError(t, store.Seed(ctx, db))

	st := store.New(db, time.Second)
	statuses, total, err := st.Statuses.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "available", statuses[0].Name)

	_, total, err = st.OrderStatuses.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestKeyParsers(t *testing.T) {
	parseInt := store.IntKeyParser("product")
	id, err := parseInt("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"abc", "-1", "0", "", "1.5"} {
		_, err := parseInt(raw)
		assert.True(t, goerrors.IsNotFound(err), "raw %q", raw)
	}

	parseUUID := store.UUIDKeyParser("order item")
	canonical, err := parseUUID("6F1C2B8E-4A0D-4C4F-9D0E-2F4B1A7C9E10")
	require.NoError(t, err)
	assert.Equal(t, "6f1c2b8e-4a0d-4c4f-9d0e-2f4b1a7c9e10", canonical)

	_, err = parseUUID("42")
	assert.True(t, goerrors.IsNotFound(err))
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category goerrors.Category
	}{
		{"no rows", sql.ErrNoRows, goerrors.CategoryNotFound},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), store.CategoryTimeout},
		{"unique", errors.New("UNIQUE constraint failed: users.email"), goerrors.CategoryConflict},
		{"foreign key", errors.New("FOREIGN KEY constraint failed"), goerrors.CategoryBadInput},
		{"other", errors.New("disk I/O error"), goerrors.CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.MapError(tt.err, "product", "get")
			assert.True(t, goerrors.IsCategory(err, tt.category), "got %v", err)
		})
	}

	assert.NoError(t, store.MapError(nil, "product", "get"))

	already := store.NotFound("order")
	assert.Same(t, already, store.MapError(already, "product", "get"))
	assert.True(t, store.IsTimeout(store.Timeout("get product", nil)))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := store.Open(context.Background(), store.Config{Driver: "oracle"}, nil)
	assert.Error(t, err)
}
