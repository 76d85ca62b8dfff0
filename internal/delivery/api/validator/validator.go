// Package validator adapts go-playground/validator to echo.
package validator

import (
	"reflect"
	"strings"

	"tripstore/internal/errors"

	"github.com/go-playground/validator/v10"
)

// Validator implements echo.Validator.
type Validator struct {
	validate *validator.Validate
}

// New returns a validator that reports fields by their json or query name.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "query", "param"} {
			name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}

		return field.Name
	})

	return &Validator{validate: v}
}

// Validate validates i against its validate tags.
func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}

// FieldErrors flattens validation errors into field -> failed rule.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		out[fe.Field()] = rule
	}

	return out
}
