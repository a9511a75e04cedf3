package catalog

import (
	"github.com/creasty/defaults"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Cart is the pending basket of a customer, keyed by the customer id.
type Cart struct {
	bun.BaseModel `bun:"table:carts,alias:ca" json:"-" msgpack:"-"`

	CustomerID    int64           `bun:"customer_id,pk" json:"cartID"`
	Products      []int64         `bun:"-" json:"products"`
	Quantity      int             `bun:"quantity,notnull" json:"quantity"`
	Total         decimal.Decimal `bun:"total,type:decimal(14,2),notnull" json:"total"`
	TotalCurrency string          `bun:"total_currency,notnull" json:"total_currency" default:"KSH"`
}

func (c Cart) Validate() error {
	return validationFailed(validation.ValidateStruct(&c,
		validation.Field(&c.Quantity, validation.Min(0)),
		validation.Field(&c.Total, moneyAmount),
		validation.Field(&c.TotalCurrency, currencyCode...),
	), "invalid cart")
}

// Normalize fills defaults that the payload may omit.
func (c *Cart) Normalize() error {
	if err := defaults.Set(c); err != nil {
		return err
	}
	c.TotalCurrency = NormalizeCurrency(c.TotalCurrency, DefaultCurrency)
	return nil
}

// CartProduct links a cart to a product.
type CartProduct struct {
	bun.BaseModel `bun:"table:cart_products,alias:cp"`

	CartID    int64 `bun:"cart_id,pk"`
	ProductID int64 `bun:"product_id,pk"`
}
