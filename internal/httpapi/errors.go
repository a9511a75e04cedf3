package httpapi

import (
	"errors"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/gorilla/schema"

	"github.com/goliatone/go-storefront/catalog"
	"github.com/goliatone/go-storefront/store"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message  string              `json:"message"`
	TextCode string              `json:"text_code,omitempty"`
	Fields   map[string][]string `json:"fields,omitempty"`
}

var categoryStatus = map[goerrors.Category]int{
	goerrors.CategoryValidation: http.StatusBadRequest,
	goerrors.CategoryBadInput:   http.StatusBadRequest,
	goerrors.CategoryAuth:       http.StatusUnauthorized,
	goerrors.CategoryNotFound:   http.StatusNotFound,
	goerrors.CategoryConflict:   http.StatusConflict,
	goerrors.CategoryRateLimit:  http.StatusTooManyRequests,
	store.CategoryTimeout:       http.StatusGatewayTimeout,
}

// errorResponse maps err to a status and body. Messages of server side
// failures are not exposed.
func errorResponse(err error) (int, ErrorResponse) {
	var rich *goerrors.Error
	if !errors.As(err, &rich) {
		return http.StatusInternalServerError, ErrorResponse{
			Message:  "internal server error",
			TextCode: store.TextCodeInternal,
		}
	}

	status, ok := categoryStatus[rich.Category]
	if !ok {
		status = http.StatusInternalServerError
	}
	if rich.Code >= 400 && rich.Code < 600 {
		status = rich.Code
	}

	body := ErrorResponse{Message: rich.Message, TextCode: rich.TextCode}
	if status >= http.StatusInternalServerError && status != http.StatusGatewayTimeout {
		body.Message = "internal server error"
	}
	if fields, ok := goerrors.GetValidationErrors(err); ok && len(fields) > 0 {
		body.Fields = make(map[string][]string, len(fields))
		for _, f := range fields {
			body.Fields[f.Field] = append(body.Fields[f.Field], f.Message)
		}
	}
	return status, body
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	}
	writeJSON(w, status, body)
}

func badRequest(message string) error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(goerrors.CodeBadRequest).
		WithTextCode(store.TextCodeBadInput)
}

func routeNotFound(path string) error {
	return goerrors.New("no route for "+path, goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound).
		WithTextCode(store.TextCodeNotFound)
}

func methodNotAllowed(method string) error {
	return goerrors.New("method "+method+" not allowed", goerrors.CategoryBadInput).
		WithCode(http.StatusMethodNotAllowed).
		WithTextCode("METHOD_NOT_ALLOWED")
}

// queryError converts gorilla/schema decode failures into field errors.
func queryError(err error) error {
	var multi schema.MultiError
	if !errors.As(err, &multi) {
		return badRequest("invalid query parameters")
	}
	fields := make([]goerrors.FieldError, 0, len(multi))
	for field := range multi {
		fields = append(fields, goerrors.FieldError{Field: field, Message: "invalid value"})
	}
	return goerrors.NewValidation("invalid query parameters", fields...).
		WithCode(goerrors.CodeBadRequest).
		WithTextCode(catalog.TextCodeValidation)
}
