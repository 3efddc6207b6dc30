// AngelaMos | 2026
// validation.go

package core

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	v *validator.Validate
}

type ValidatorOption func(*validator.Validate)

// WithSet registers tag as a membership check against values.
// Unlike oneof, values may contain spaces.
func WithSet(tag string, values []string) ValidatorOption {
	set := make(map[string]struct{}, len(values))
	for _, val := range values {
		set[val] = struct{}{}
	}

	return func(v *validator.Validate) {
		//nolint:errcheck // tag name is a non-empty constant
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			_, ok := set[fl.Field().String()]
			return ok
		})
	}
}

func NewValidator(opts ...ValidatorOption) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	//nolint:errcheck // tag name is a non-empty constant
	_ = v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= int64(time.Now().Year())
	})

	for _, opt := range opts {
		opt(v)
	}

	return &Validator{v: v}
}

// Validate returns an *AppError listing every failing field, or nil.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("validate: %w", err)
	}

	return ValidationError(FormatValidationErrors(validationErrs))
}

func FormatValidationErrors(errs validator.ValidationErrors) []FieldError {
	fields := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, FieldError{
			Field:   fieldPath(e),
			Message: friendlyMessage(e),
		})
	}
	return fields
}

func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return e.Field()
}

//nolint:gocyclo // exhaustive tag switch
func friendlyMessage(e validator.FieldError) string {
	isString := e.Kind() == reflect.String

	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url", "http_url":
		return "must be a valid URL"
	case "isbn":
		return "must be a valid ISBN-10 or ISBN-13"
	case "uuid", "uuid4":
		return "must be a valid id"
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return "must be at least " + e.Param()
	case "max":
		if isString {
			return fmt.Sprintf("must not exceed %s characters", e.Param())
		}
		return "must not exceed " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "genre":
		return "must be a supported genre"
	case "notfuture":
		return "cannot be in the future"
	case "nefield":
		return "must differ from the current value"
	case "required_without_all":
		return "at least one field must be provided"
	default:
		return "is invalid"
	}
}

// DecodeAndValidate reads a JSON body into dst and validates it, writing the
// error response itself. It returns false when the handler should stop.
func (v *Validator) DecodeAndValidate(
	w http.ResponseWriter,
	r *http.Request,
	dst any,
) bool {
	if err := DecodeJSON(r, dst); err != nil {
		BadRequest(w, "invalid request body")
		return false
	}

	if err := v.Validate(dst); err != nil {
		JSONError(w, err)
		return false
	}

	return true
}
