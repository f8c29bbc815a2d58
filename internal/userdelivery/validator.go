package userdelivery

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var phoneRegexp = regexp.MustCompile(`^[0-9]{9,15}$`)

// ValidPhone validates that the phone consists of 9 to 15 digits.
var ValidPhone validator.Func = func(fl validator.FieldLevel) bool {
	if p, ok := fl.Field().Interface().(string); ok {
		return phoneRegexp.MatchString(p)
	}

	return false
}
