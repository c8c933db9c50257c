package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"

	"github.com/labstack/echo/v4"

	"github.com/opsdesk/platform/internal/api/middleware"
	"github.com/opsdesk/platform/internal/core/domain"
)

// currentUser returns the identity injected by the Auth middleware. Its
// absence means the route was mounted without Auth and is answered with 401.
func currentUser(c echo.Context) (*domain.User, error) {
	if u, ok := c.Get(middleware.ContextKeyUser).(*domain.User); ok && u != nil {
		return u, nil
	}
	if u, ok := middleware.UserFromContext(c.Request().Context()); ok {
		return u, nil
	}
	return nil, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
}

// BindError is a body that could not be decoded. It unwraps to a validation
// error naming the offending field; Cause keeps the decoder's error for logs.
type BindError struct {
	err   error
	Cause error
}

// NewBindError describes a failed c.Bind.
func NewBindError(cause error) *BindError {
	return &BindError{err: bindFailure(cause), Cause: cause}
}

func (e *BindError) Error() string { return e.err.Error() }
func (e *BindError) Unwrap() error { return e.err }

// bindAndValidate decodes the JSON body and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return NewBindError(err)
	}
	return c.Validate(req)
}

func bindFailure(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return domain.Invalid("%s must be %s", typeErr.Field, jsonKind(typeErr.Type))
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return domain.Invalid("malformed JSON at offset %d", syntaxErr.Offset)
	}
	return domain.Invalid("invalid payload")
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Pointer:
		return jsonKind(t.Elem())
	default:
		return "an object"
	}
}
