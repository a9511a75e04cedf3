package catalog

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ProductReview is a customer's rating of a product. A product carries at
// most one review.
type ProductReview struct {
	bun.BaseModel `bun:"table:product_reviews,alias:pr" json:"-" msgpack:"-"`

	ID         string    `bun:"id,pk" json:"id"`
	ProductID  *int64    `bun:"product_id,unique" json:"product"`
	CustomerID *int64    `bun:"customer_id" json:"customer"`
	Review     string    `bun:"review,type:text,notnull" json:"review"`
	Rating     int       `bun:"rating,notnull" json:"rating"`
	CreatedAt  time.Time `bun:"created_at,notnull" json:"created_at"`
}

var _ bun.BeforeAppendModelHook = (*ProductReview)(nil)

func (r *ProductReview) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = time.Now().UTC()
		}
	}
	return nil
}

func (r ProductReview) Validate() error {
	return validationFailed(validation.ValidateStruct(&r,
		validation.Field(&r.ProductID, validation.Required),
		validation.Field(&r.Review, validation.Required, validation.Length(1, 2000)),
		validation.Field(&r.Rating, validation.Required, validation.Min(1), validation.Max(5)),
	), "invalid review")
}
