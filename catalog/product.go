package catalog

import (
	"github.com/creasty/defaults"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Product is a sellable catalog item.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p" json:"-" msgpack:"-"`

	ID            int64           `bun:"product_id,pk,autoincrement" json:"productID"`
	Name          string          `bun:"product_name,notnull" json:"product_name"`
	Description   string          `bun:"product_description,type:text,notnull" json:"product_description"`
	Price         decimal.Decimal `bun:"product_price,type:decimal(14,2),notnull" json:"product_price"`
	PriceCurrency string          `bun:"product_price_currency,notnull" json:"product_price_currency" default:"KSH"`
	Stock         int             `bun:"stock,notnull" json:"stock"`
	Image         string          `bun:"product_image,notnull" json:"product_image"`
	ImageID       string          `bun:"product_image_id,notnull" json:"-"`
	CategoryID    *int64          `bun:"category_id" json:"category"`
	StatusID      *int64          `bun:"status_id" json:"status"`
}

// Validate checks the inbound product payload.
func (p Product) Validate() error {
	return validationFailed(validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Price, moneyAmount),
		validation.Field(&p.PriceCurrency, currencyCode...),
		validation.Field(&p.Stock, validation.Min(0)),
	), "invalid product")
}

// Normalize fills defaults that the payload may omit.
func (p *Product) Normalize() error {
	if err := defaults.Set(p); err != nil {
		return err
	}
	p.PriceCurrency = NormalizeCurrency(p.PriceCurrency, DefaultCurrency)
	return nil
}

// ApplyUpdate replaces the mutable fields of current with the payload,
// keeping the primary key. The stored image is kept when the payload names
// none. replaced is the id of a stored image the payload points away from.
func (p Product) ApplyUpdate(current Product) (next Product, replaced string) {
	p.ID = current.ID
	switch {
	case p.Image == "" || p.Image == current.Image:
		p.Image = current.Image
		p.ImageID = current.ImageID
	default:
		p.ImageID = ""
		replaced = current.ImageID
	}
	return p, replaced
}
