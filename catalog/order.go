package catalog

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Order groups order items placed by a customer.
type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o" json:"-" msgpack:"-"`

	ID         string    `bun:"id,pk" json:"id"`
	CustomerID *int64    `bun:"customer_id" json:"customer"`
	CreatedAt  time.Time `bun:"created_at,notnull" json:"created_at"`
	StatusID   *int64    `bun:"order_status_id" json:"order_status"`
}

var _ bun.BeforeAppendModelHook = (*Order)(nil)

// BeforeAppendModel assigns the identifier and creation time on insert.
func (o *Order) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok {
		if o.ID == "" {
			o.ID = uuid.NewString()
		}
		if o.CreatedAt.IsZero() {
			o.CreatedAt = time.Now().UTC()
		}
	}
	return nil
}

func (o Order) Validate() error {
	return validationFailed(validation.ValidateStruct(&o,
		validation.Field(&o.CustomerID, validation.NilOrNotEmpty),
		validation.Field(&o.StatusID, validation.NilOrNotEmpty),
	), "invalid order")
}

// OrderItem is one product line of an order.
type OrderItem struct {
	bun.BaseModel `bun:"table:order_items,alias:oi" json:"-" msgpack:"-"`

	ID        string  `bun:"id,pk" json:"id"`
	OrderID   *string `bun:"order_id" json:"order"`
	ProductID *int64  `bun:"product_id" json:"product"`
	Quantity  int     `bun:"quantity,notnull" json:"quantity"`
}

var _ bun.BeforeAppendModelHook = (*OrderItem)(nil)

func (i *OrderItem) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok && i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

func (i OrderItem) Validate() error {
	return validationFailed(validation.ValidateStruct(&i,
		validation.Field(&i.OrderID, validation.NilOrNotEmpty, validation.By(uuidString)),
		validation.Field(&i.Quantity, validation.Required, validation.Min(1)),
	), "invalid order item")
}

// ApplyUpdate replaces the mutable fields of current with the payload,
// keeping the primary key.
func (i OrderItem) ApplyUpdate(current OrderItem) OrderItem {
	i.ID = current.ID
	return i
}

// OrderLine is an order item resolved against its product.
type OrderLine struct {
	Item      OrderItem `json:"item"`
	Product   *Product  `json:"product,omitempty"`
	LineTotal *Money    `json:"line_total,omitempty"`
}

// OrderDetail is an order with its items and computed totals.
type OrderDetail struct {
	Order     Order       `json:"order"`
	Items     []OrderLine `json:"items"`
	ItemCount int         `json:"item_count"`
	Totals    []Money     `json:"totals"`
}

// NewOrderDetail computes line and order totals. products maps product ids
// to their current records; items whose product was removed carry no total.
func NewOrderDetail(order Order, items []OrderItem, products map[int64]Product) OrderDetail {
	detail := OrderDetail{Order: order, Items: make([]OrderLine, 0, len(items))}
	totals := Totals{}

	for _, item := range items {
		line := OrderLine{Item: item}
		detail.ItemCount += item.Quantity

		if item.ProductID != nil {
			if product, ok := products[*item.ProductID]; ok {
				amount := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
				line.Product = &product
				line.LineTotal = &Money{Amount: amount, Currency: product.PriceCurrency}
				totals.Add(product.PriceCurrency, amount)
			}
		}
		detail.Items = append(detail.Items, line)
	}

	detail.Totals = totals.Money()
	return detail
}

func uuidString(value any) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case *string:
		if v == nil {
			return nil
		}
		raw = *v
	default:
		return nil
	}
	if raw == "" {
		return nil
	}
	if _, err := uuid.Parse(raw); err != nil {
		return validation.NewError("validation_uuid", "must be a valid UUID")
	}
	return nil
}
