package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// EchoValidator adapts validator/v10 to echo's Validator interface and
// registers the domain tags strongpassword, mobile10 and luhn.
type EchoValidator struct {
	v *validator.Validate
}

// NewEchoValidator builds a validator with the custom tags registered.
func NewEchoValidator() *EchoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so messages match the request body
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return PasswordIsStrong(fl.Field().String())
	})
	_ = v.RegisterValidation("mobile10", func(fl validator.FieldLevel) bool {
		return MobileIsValid(fl.Field().String())
	})
	_ = v.RegisterValidation("luhn", func(fl validator.FieldLevel) bool {
		return LuhnIsValid(fl.Field().String())
	})
	return &EchoValidator{v: v}
}

// Validate runs struct validation on i.
func (ev *EchoValidator) Validate(i interface{}) error {
	return ev.v.Struct(i)
}

// Reason turns a validation error into a short human readable message
// naming the first failing field.
func Reason(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_without":
		return field + " is required"
	case "strongpassword":
		return "password must be at least 8 characters and contain a digit and one of !@#$%^&*"
	case "mobile10":
		return "mobile must be exactly 10 digits"
	case "email":
		return "email is not valid"
	case "url":
		return field + " must be a URL"
	case "luhn":
		return "card number is not valid"
	case "min", "gte":
		return field + " is too small"
	case "max", "lte":
		return field + " is too large"
	case "oneof":
		return field + " must be one of " + fe.Param()
	}
	return field + " is not valid"
}
