package store

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-storefront/catalog"
	"github.com/google/uuid"
)

// IntKeyParser parses positive integer keys. Anything else is not found.
func IntKeyParser(entity string) func(string) (any, error) {
	return func(raw string) (any, error) {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || id <= 0 {
			return nil, NotFound(entity)
		}
		return id, nil
	}
}

// UUIDKeyParser parses UUID keys into their canonical lowercase form.
func UUIDKeyParser(entity string) func(string) (any, error) {
	return func(raw string) (any, error) {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, NotFound(entity)
		}
		return id.String(), nil
	}
}

func ProductHandlers() ModelHandlers[catalog.Product] {
	return ModelHandlers[catalog.Product]{
		Entity:   "product",
		PKColumn: "product_id",
		ParseID:  IntKeyParser("product"),
		GetID:    func(p catalog.Product) any { return p.ID },
	}
}

func CategoryHandlers() ModelHandlers[catalog.Category] {
	return ModelHandlers[catalog.Category]{
		Entity:   "category",
		PKColumn: "id",
		ParseID:  IntKeyParser("category"),
		GetID:    func(c catalog.Category) any { return c.ID },
	}
}

func StatusHandlers() ModelHandlers[catalog.Status] {
	return ModelHandlers[catalog.Status]{
		Entity:   "status",
		PKColumn: "id",
		ParseID:  IntKeyParser("status"),
		GetID:    func(s catalog.Status) any { return s.ID },
	}
}

func OrderStatusHandlers() ModelHandlers[catalog.OrderStatus] {
	return ModelHandlers[catalog.OrderStatus]{
		Entity:   "order status",
		PKColumn: "id",
		ParseID:  IntKeyParser("order status"),
		GetID:    func(s catalog.OrderStatus) any { return s.ID },
	}
}

func UserHandlers() ModelHandlers[catalog.User] {
	return ModelHandlers[catalog.User]{
		Entity:   "user",
		PKColumn: "id",
		ParseID:  IntKeyParser("user"),
		GetID:    func(u catalog.User) any { return u.ID },
	}
}

func CartHandlers() ModelHandlers[catalog.Cart] {
	return ModelHandlers[catalog.Cart]{
		Entity:   "cart",
		PKColumn: "customer_id",
		ParseID:  IntKeyParser("cart"),
		GetID:    func(c catalog.Cart) any { return c.CustomerID },
	}
}

func OrderHandlers() ModelHandlers[catalog.Order] {
	return ModelHandlers[catalog.Order]{
		Entity:   "order",
		PKColumn: "id",
		ParseID:  UUIDKeyParser("order"),
		GetID:    func(o catalog.Order) any { return o.ID },
	}
}

func OrderItemHandlers() ModelHandlers[catalog.OrderItem] {
	return ModelHandlers[catalog.OrderItem]{
		Entity:   "order item",
		PKColumn: "id",
		ParseID:  UUIDKeyParser("order item"),
		GetID:    func(i catalog.OrderItem) any { return i.ID },
	}
}

func ShippingAddressHandlers() ModelHandlers[catalog.ShippingAddress] {
	return ModelHandlers[catalog.ShippingAddress]{
		Entity:   "shipping address",
		PKColumn: "id",
		ParseID:  UUIDKeyParser("shipping address"),
		GetID:    func(a catalog.ShippingAddress) any { return a.ID },
	}
}

func ProductReviewHandlers() ModelHandlers[catalog.ProductReview] {
	return ModelHandlers[catalog.ProductReview]{
		Entity:   "review",
		PKColumn: "id",
		ParseID:  UUIDKeyParser("review"),
		GetID:    func(r catalog.ProductReview) any { return r.ID },
	}
}

func orderKey(o *catalog.Order) *string { return &o.ID }

func orderItemKey(i *catalog.OrderItem) *string { return &i.ID }

func shippingAddressKey(a *catalog.ShippingAddress) *string { return &a.ID }

func productReviewKey(r *catalog.ProductReview) *string { return &r.ID }
