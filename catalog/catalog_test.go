package catalog

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func fieldMessages(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	require.True(t, goerrors.IsValidation(err), "expected validation error, got %v", err)

	fields, ok := goerrors.GetValidationErrors(err)
	require.True(t, ok)

	out := make(map[string]string, len(fields))
	for _, field := range fields {
		out[field.Field] = field.Message
	}
	return out
}

func int64Ptr(v int64) *int64 { return &v }

func TestProductValidate(t *testing.T) {
	valid := Product{
		Name:          "Widget",
		Price:         decimal.RequireFromString("9.99"),
		PriceCurrency: "KSH",
		Stock:         5,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		edit  func(p *Product)
		field string
	}{
		{"missing name", func(p *Product) { p.Name = "" }, "product_name"},
		{"negative price", func(p *Product) { p.Price = decimal.RequireFromString("-1") }, "product_price"},
		{"too many places", func(p *Product) { p.Price = decimal.RequireFromString("1.999") }, "product_price"},
		{"too many digits", func(p *Product) { p.Price = decimal.RequireFromString("1000000000000") }, "product_price"},
		{"bad currency", func(p *Product) { p.PriceCurrency = "KS" }, "product_price_currency"},
		{"negative stock", func(p *Product) { p.Stock = -1 }, "stock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.edit(&p)
			fields := fieldMessages(t, p.Validate())
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestProductNormalizeAndApplyUpdate(t *testing.T) {
	p := Product{Name: "Widget"}
	require.NoError(t, p.Normalize())
	assert.Equal(t, "KSH", p.PriceCurrency)

	p.PriceCurrency = " usd "
	require.NoError(t, p.Normalize())
	assert.Equal(t, "USD", p.PriceCurrency)

	current := Product{ID: 42, Name: "Old", Stock: 5, Image: "https://cdn/img.png", ImageID: "img"}
	updated, dropped := Product{ID: 7, Name: "New", Stock: 3}.ApplyUpdate(current)
	assert.Equal(t, int64(42), updated.ID)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, 3, updated.Stock)
	assert.Equal(t, "https://cdn/img.png", updated.Image)
	assert.Equal(t, "img", updated.ImageID)
	assert.Empty(t, dropped)

	same, dropped := Product{Name: "New", Image: "https://cdn/img.png"}.ApplyUpdate(current)
	assert.Equal(t, "img", same.ImageID)
	assert.Empty(t, dropped)

	relinked, dropped := Product{Name: "New", Image: "images/other.png"}.ApplyUpdate(current)
	assert.Equal(t, "images/other.png", relinked.Image)
	assert.Empty(t, relinked.ImageID)
	assert.Equal(t, "img", dropped)
}

func TestRegistrationValidate(t *testing.T) {
	valid := Registration{Email: "alice@example.com", Username: "alice01", Password: "secret"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		reg   Registration
		field string
	}{
		{"bad email", Registration{Email: "not-an-email", Username: "alice01", Password: "x"}, "email"},
		{"short email", Registration{Email: "a@b.c", Username: "alice01", Password: "x"}, "email"},
		{"short username", Registration{Email: "alice@example.com", Username: "al", Password: "x"}, "username"},
		{"long password", Registration{Email: "alice@example.com", Username: "alice01", Password: "012345678901234567890"}, "password"},
		{"missing password", Registration{Email: "alice@example.com", Username: "alice01"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := fieldMessages(t, tt.reg.Validate())
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestShippingAddressValidate(t *testing.T) {
	address := ShippingAddress{
		Address: "1 Moi Avenue",
		City:    "Nairobi",
		State:   "Nairobi",
		Zipcode: "00100",
		Country: "Kenya",
		Phone:   "+254712345678",
	}
	assert.NoError(t, address.Validate())

	address.Phone = "12-34"
	fields := fieldMessages(t, address.Validate())
	assert.Equal(t, "must be a valid phone number", fields["phone"])

	bad := "not-a-uuid"
	address.Phone = "0712345678"
	address.OrderID = &bad
	fields = fieldMessages(t, address.Validate())
	assert.Contains(t, fields, "order")
}

func TestShippingAddressApplyUpdateKeepsIdentity(t *testing.T) {
	current := ShippingAddress{ID: "a", CustomerID: int64Ptr(1), City: "Old"}
	current.CreatedAt = current.CreatedAt.AddDate(2020, 0, 0)

	updated := ShippingAddress{ID: "b", CustomerID: int64Ptr(9), City: "New"}.ApplyUpdate(current)
	assert.Equal(t, "a", updated.ID)
	assert.Equal(t, int64(1), *updated.CustomerID)
	assert.Equal(t, current.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "New", updated.City)
}

func TestReviewValidate(t *testing.T) {
	review := ProductReview{ProductID: int64Ptr(1), Review: "great", Rating: 5}
	assert.NoError(t, review.Validate())

	review.Rating = 6
	assert.Contains(t, fieldMessages(t, review.Validate()), "rating")

	review.Rating = 0
	assert.Contains(t, fieldMessages(t, review.Validate()), "rating")

	review.Rating = 3
	review.ProductID = nil
	assert.Contains(t, fieldMessages(t, review.Validate()), "product")
}

func TestOrderItemValidate(t *testing.T) {
	item := OrderItem{Quantity: 1}
	assert.NoError(t, item.Validate())

	item.Quantity = 0
	assert.Contains(t, fieldMessages(t, item.Validate()), "quantity")
}

func TestInsertHooksAssignIdentifiers(t *testing.T) {
	ctx := context.Background()
	insert := &bun.InsertQuery{}

	order := &Order{}
	require.NoError(t, order.BeforeAppendModel(ctx, insert))
	assert.Len(t, order.ID, 36)
	assert.False(t, order.CreatedAt.IsZero())

	item := &OrderItem{ID: "fixed"}
	require.NoError(t, item.BeforeAppendModel(ctx, insert))
	assert.Equal(t, "fixed", item.ID)

	review := &ProductReview{}
	require.NoError(t, review.BeforeAppendModel(ctx, &bun.UpdateQuery{}))
	assert.Empty(t, review.ID)
}

func TestNewOrderDetailTotalsPerCurrency(t *testing.T) {
	orderID := "order-1"
	products := map[int64]Product{
		1: {ID: 1, Price: decimal.RequireFromString("9.99"), PriceCurrency: "KSH"},
		2: {ID: 2, Price: decimal.RequireFromString("2.50"), PriceCurrency: "USD"},
		3: {ID: 3, Price: decimal.RequireFromString("1.01"), PriceCurrency: "KSH"},
	}
	items := []OrderItem{
		{ID: "a", OrderID: &orderID, ProductID: int64Ptr(1), Quantity: 2},
		{ID: "b", OrderID: &orderID, ProductID: int64Ptr(2), Quantity: 4},
		{ID: "c", OrderID: &orderID, ProductID: int64Ptr(3), Quantity: 1},
		{ID: "d", OrderID: &orderID, ProductID: nil, Quantity: 7},
	}

	detail := NewOrderDetail(Order{ID: orderID}, items, products)

	assert.Equal(t, 14, detail.ItemCount)
	require.Len(t, detail.Items, 4)
	assert.Nil(t, detail.Items[3].LineTotal)
	assert.True(t, detail.Items[0].LineTotal.Amount.Equal(decimal.RequireFromString("19.98")))

	require.Len(t, detail.Totals, 2)
	assert.Equal(t, "KSH", detail.Totals[0].Currency)
	assert.True(t, detail.Totals[0].Amount.Equal(decimal.RequireFromString("20.99")))
	assert.Equal(t, "USD", detail.Totals[1].Currency)
	assert.True(t, detail.Totals[1].Amount.Equal(decimal.RequireFromString("10")))
}
