package common

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RequestValidator adapts go-playground/validator to echo.Validator.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("singleline", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), "\r\n")
	})
	return &RequestValidator{validate: v}
}

// Validate returns a validation DomainError naming the first failing field.
func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		switch f.Tag() {
		case "required":
			return Validation("%s is required", f.Field())
		case "email":
			return Validation("%s must be a valid email address", f.Field())
		case "oneof":
			return Validation("%s must be one of: %s", f.Field(), f.Param())
		case "singleline":
			return Validation("%s must not contain line breaks", f.Field())
		case "min", "max":
			return Validation("%s must satisfy %s=%s", f.Field(), f.Tag(), f.Param())
		default:
			return Validation("%s is invalid", f.Field())
		}
	}
	return Validation("invalid request body")
}
