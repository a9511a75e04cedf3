package auth

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeUnauthorized = "UNAUTHORIZED"
	TextCodeRateLimited  = "RATE_LIMITED"
)

// Unauthorized reports a missing or rejected credential.
func Unauthorized(message string) error {
	return goerrors.New(message, goerrors.CategoryAuth).
		WithCode(goerrors.CodeUnauthorized).
		WithTextCode(TextCodeUnauthorized)
}

// RateLimited reports that the caller used up its request window.
func RateLimited() error {
	return goerrors.New("too many requests", goerrors.CategoryRateLimit).
		WithCode(http.StatusTooManyRequests).
		WithTextCode(TextCodeRateLimited)
}
