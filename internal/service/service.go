// Package service contains the business logic for the Wanderly API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No storage details live here: services depend on repo interfaces, not
// implementations.
package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pkordes/wanderly/internal/domain"
)

var validate = NewValidator()

// NewValidator returns a validator that names fields by their json tag,
// so messages use the names clients send.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// invalid wraps domain.ErrValidation with a human-readable detail.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
}

// ValidationError turns validator output into a single domain.ErrValidation
// naming the first offending field. Nested fields keep their dotted path
// below the top-level struct.
func ValidationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return invalid("%v", err)
	}
	fe := ve[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch fe.Tag() {
	case "required":
		return invalid("%s is required", field)
	case "oneof":
		return invalid("%s must be one of [%s]", field, fe.Param())
	case "email":
		return invalid("%s must be a valid email address", field)
	case "max", "lte":
		return invalid("%s must be at most %s", field, fe.Param())
	case "min", "gte":
		return invalid("%s must be at least %s", field, fe.Param())
	default:
		return invalid("%s failed %s check", field, fe.Tag())
	}
}
