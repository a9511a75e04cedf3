package catalog

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/shopspring/decimal"
)

// TextCodeValidation marks field-scoped validation failures.
const TextCodeValidation = "VALIDATION_ERROR"

var phonePattern = regexp.MustCompile(`^\+?[0-9]{9,15}$`)

var maxPrice = decimal.New(1, 12)

// validationFailed converts ozzo rule errors into a field-scoped validation error.
func validationFailed(err error, message string) error {
	if err == nil {
		return nil
	}
	return goerrors.FromOzzoValidation(err, message).
		WithCode(goerrors.CodeBadRequest).
		WithTextCode(TextCodeValidation)
}

// FieldError builds a single field-scoped validation error.
func FieldError(message, field, fieldMessage string) error {
	return goerrors.NewValidation(message, goerrors.FieldError{Field: field, Message: fieldMessage}).
		WithCode(goerrors.CodeBadRequest).
		WithTextCode(TextCodeValidation)
}

// moneyAmount validates a decimal(14,2) amount that must not be negative.
var moneyAmount = validation.By(func(value any) error {
	amount, ok := value.(decimal.Decimal)
	if !ok {
		return validation.NewError("validation_money_type", "must be a decimal amount")
	}
	if amount.IsNegative() {
		return validation.NewError("validation_money_negative", "must not be negative")
	}
	if !amount.Equal(amount.Round(2)) {
		return validation.NewError("validation_money_places", "must have at most 2 decimal places")
	}
	if amount.GreaterThanOrEqual(maxPrice) {
		return validation.NewError("validation_money_digits", "must have at most 14 digits")
	}
	return nil
})

var currencyCode = []validation.Rule{
	validation.Required,
	validation.Length(3, 3),
}
