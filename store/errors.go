package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// CategoryTimeout classifies operations that ran past their deadline.
const CategoryTimeout goerrors.Category = "timeout"

const (
	TextCodeNotFound = "NOT_FOUND"
	TextCodeTimeout  = "TIMEOUT"
	TextCodeConflict = "CONFLICT"
	TextCodeBadInput = "BAD_REQUEST"
	TextCodeInternal = "INTERNAL_ERROR"
)

// NotFound reports that entity has no record for the requested key.
func NotFound(entity string) error {
	return goerrors.New(entity+" not found", goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound).
		WithTextCode(TextCodeNotFound)
}

// Timeout reports that operation did not complete before its deadline.
func Timeout(operation string, err error) error {
	if err == nil {
		err = context.DeadlineExceeded
	}
	return goerrors.Wrap(err, CategoryTimeout, operation+" timed out").
		WithCode(http.StatusGatewayTimeout).
		WithTextCode(TextCodeTimeout)
}

// IsTimeout reports whether err carries the timeout category.
func IsTimeout(err error) bool {
	return goerrors.IsCategory(err, CategoryTimeout)
}

// MapError translates driver and context errors into categorized errors.
// Errors that already carry a category pass through unchanged.
func MapError(err error, entity, operation string) error {
	if err == nil {
		return nil
	}

	var categorized *goerrors.Error
	if errors.As(err, &categorized) {
		return err
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return NotFound(entity)
	case errors.Is(err, context.DeadlineExceeded):
		return Timeout(fmt.Sprintf("%s %s", operation, entity), err)
	case isUniqueViolation(err):
		return goerrors.Wrap(err, goerrors.CategoryConflict, entity+" already exists").
			WithCode(goerrors.CodeConflict).
			WithTextCode(TextCodeConflict)
	case isForeignKeyViolation(err):
		return goerrors.Wrap(err, goerrors.CategoryBadInput, entity+" references a record that does not exist").
			WithCode(goerrors.CodeBadRequest).
			WithTextCode(TextCodeBadInput)
	}

	return goerrors.Wrap(err, goerrors.CategoryInternal, fmt.Sprintf("failed to %s %s", operation, entity)).
		WithCode(goerrors.CodeInternal).
		WithTextCode(TextCodeInternal)
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

func isForeignKeyViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key")
}
