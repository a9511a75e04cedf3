package catalog

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/uptrace/bun"
)

// Category groups products.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c" json:"-" msgpack:"-"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"category_name,notnull" json:"category_name"`
}

func (c Category) Validate() error {
	return validationFailed(validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 100)),
	), "invalid category")
}

// Status is the availability label of a product.
type Status struct {
	bun.BaseModel `bun:"table:statuses,alias:s" json:"-" msgpack:"-"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"status_name,notnull" json:"status_name"`
}

func (s Status) Validate() error {
	return validationFailed(validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required, validation.Length(1, 100)),
	), "invalid status")
}

// OrderStatus is the fulfilment label of an order.
type OrderStatus struct {
	bun.BaseModel `bun:"table:order_statuses,alias:os" json:"-" msgpack:"-"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"status_name,notnull" json:"status_name"`
}

func (s OrderStatus) Validate() error {
	return validationFailed(validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required, validation.Length(1, 100)),
	), "invalid order status")
}
