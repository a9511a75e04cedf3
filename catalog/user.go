package catalog

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/uptrace/bun"
)

// User is a registered customer account. PasswordHash never leaves the store.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u" json:"-" msgpack:"-"`

	ID           int64  `bun:"id,pk,autoincrement" json:"id"`
	Username     string `bun:"username,notnull,unique" json:"username"`
	Email        string `bun:"email,notnull,unique" json:"email"`
	PasswordHash string `bun:"password,notnull" json:"-" msgpack:"-"`
}

// Registration is the inbound sign-up payload.
type Registration struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Normalize trims surrounding whitespace from the identifying fields.
func (r *Registration) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Username = strings.TrimSpace(r.Username)
}

func (r Registration) Validate() error {
	return validationFailed(validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 50), is.EmailFormat),
		validation.Field(&r.Username, validation.Required, validation.Length(6, 50)),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 20)),
	), "invalid registration")
}

// Credentials is the token issue payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c Credentials) Validate() error {
	return validationFailed(validation.ValidateStruct(&c,
		validation.Field(&c.Username, validation.Required),
		validation.Field(&c.Password, validation.Required),
	), "invalid credentials")
}
