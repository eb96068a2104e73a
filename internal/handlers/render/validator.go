package render

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nkiryanov/luhncheck/internal/luhn"
)

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Return on 'TagName' json tag instead of struct name
	// Look at documentation of 'RegisterTagNameFunc' for more details
	validate.RegisterTagNameFunc(useJSONTagNames)

	// Error is possible on empty tag name or nil func only
	_ = validate.RegisterValidation("luhnpayload", validateLuhnPayload)
	_ = validate.RegisterValidation("nonul", validateNoNUL)

	return validate
}

func useJSONTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	// skip if tag key says it should be ignored
	if name == "-" {
		return ""
	}
	return name
}

// Postgres text columns can't hold 0x00
func validateNoNUL(fl validator.FieldLevel) bool {
	return !strings.ContainsRune(fl.Field().String(), 0)
}

// Payload is a digits sequence a check digit may be computed for:
// digits and separators only with at least one digit
func validateLuhnPayload(fl validator.FieldLevel) bool {
	digits := 0
	for _, r := range fl.Field().String() {
		s := luhn.Classify(r)
		switch {
		case s.IsInvalid():
			return false
		case s.IsDigit():
			digits++
		}
	}
	return digits > 0
}
