// Package validation wraps go-playground/validator so struct rule
// failures surface as errs.ValidationError.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/smallbiznis/gstbilling/pkg/errs"
)

var (
	once     sync.Once
	instance *validator.Validate

	phoneRe = regexp.MustCompile(`^[0-9]{10}$`)
	gstinRe = regexp.MustCompile(`^[0-9A-Za-z]{15}$`)
)

// Validator returns the shared validator with json field names and the
// billing tags "phone10" and "gstin" registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
			return phoneRe.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("gstin", func(fl validator.FieldLevel) bool {
			return gstinRe.MatchString(fl.Field().String())
		})
		instance = v
	})
	return instance
}

// Struct validates s and returns the first failing field as a
// *errs.ValidationError.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return errs.Validation(fe.Field(), message(fe))
	}
	return errs.Validation("", err.Error())
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "len":
		return "must be exactly " + e.Param() + " characters"
	case "max":
		if e.Kind() == reflect.String {
			return "must be at most " + e.Param() + " characters"
		}
		return "must be at most " + e.Param()
	case "min":
		if e.Kind() == reflect.String {
			return "must be at least " + e.Param() + " characters"
		}
		return "must be at least " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "phone10":
		return "must be exactly 10 digits"
	case "gstin":
		return "must be exactly 15 alphanumeric characters"
	default:
		return "is invalid"
	}
}
