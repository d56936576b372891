// Package validation wraps go-playground/validator with the custom tags
// used for request and upstream payload checks.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/streamscoutapp/streamscout-server/internal/domain"
	domainerrors "github.com/streamscoutapp/streamscout-server/internal/errors"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator with JSON field names and the domain tags
// timeblock, trend and blockstatus registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		switch name {
		case "":
			return fld.Name
		case "-":
			return ""
		default:
			return name
		}
	})

	mustRegister(v, "timeblock", func(fl validator.FieldLevel) bool {
		return domain.TimeBlock(fl.Field().String()).Valid()
	})
	mustRegister(v, "trend", func(fl validator.FieldLevel) bool {
		return domain.Trend(fl.Field().String()).Valid()
	})
	mustRegister(v, "blockstatus", func(fl validator.FieldLevel) bool {
		return domain.BlockStatus(fl.Field().String()).Valid()
	})

	return &Validator{v: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Validate validates a struct and returns a domain validation error
// listing each failing field.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// Var validates a single value against a tag expression.
func (v *Validator) Var(field any, tag string) error {
	if err := v.v.Var(field, tag); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		key := e.Namespace()
		if _, rest, found := strings.Cut(key, "."); found {
			key = rest
		}
		if key == "" {
			key = "value"
		}
		fieldErrors[key] = friendlyMessage(e)
	}

	return domainerrors.ValidationWithDetails("validation failed", fieldErrors)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return "must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", e.Param())
		}
		return "must not exceed " + e.Param()
	case "url", "http_url":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "timeblock":
		return "must be one of: 00-04 04-08 08-12 12-16 16-20 20-24"
	case "trend":
		return "must be one of: up down stable"
	case "blockstatus":
		return "must be one of: good ok avoid unknown"
	case "dive":
		return "contains an invalid entry"
	default:
		return "is invalid"
	}
}
