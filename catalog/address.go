package catalog

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ShippingAddress is where an order is delivered.
type ShippingAddress struct {
	bun.BaseModel `bun:"table:shipping_addresses,alias:sa" json:"-" msgpack:"-"`

	ID         string    `bun:"id,pk" json:"id"`
	CustomerID *int64    `bun:"customer_id" json:"customer"`
	OrderID    *string   `bun:"order_id" json:"order"`
	Address    string    `bun:"address,notnull" json:"address"`
	City       string    `bun:"city,notnull" json:"city"`
	State      string    `bun:"state,notnull" json:"state"`
	Zipcode    string    `bun:"zipcode,notnull" json:"zipcode"`
	Country    string    `bun:"country,notnull" json:"country"`
	Phone      string    `bun:"phone,notnull" json:"phone"`
	CreatedAt  time.Time `bun:"created_at,notnull" json:"created_at"`
}

var _ bun.BeforeAppendModelHook = (*ShippingAddress)(nil)

func (a *ShippingAddress) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok {
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = time.Now().UTC()
		}
	}
	return nil
}

func (a ShippingAddress) Validate() error {
	return validationFailed(validation.ValidateStruct(&a,
		validation.Field(&a.OrderID, validation.NilOrNotEmpty, validation.By(uuidString)),
		validation.Field(&a.Address, validation.Required, validation.Length(1, 200)),
		validation.Field(&a.City, validation.Required, validation.Length(1, 100)),
		validation.Field(&a.State, validation.Required, validation.Length(1, 100)),
		validation.Field(&a.Zipcode, validation.Required, validation.Length(1, 20)),
		validation.Field(&a.Country, validation.Required, validation.Length(1, 100)),
		validation.Field(&a.Phone, validation.Required, validation.Match(phonePattern).Error("must be a valid phone number")),
	), "invalid shipping address")
}

// ApplyUpdate replaces the mutable fields of current with the payload,
// keeping the primary key, owner and creation time.
func (a ShippingAddress) ApplyUpdate(current ShippingAddress) ShippingAddress {
	a.ID = current.ID
	a.CustomerID = current.CustomerID
	a.CreatedAt = current.CreatedAt
	return a
}
