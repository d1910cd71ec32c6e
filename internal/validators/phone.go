package validators

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// IsPhoneValid accepts 8 to 15 digits with an optional leading "+" and the
// usual separators (spaces, dashes, parentheses).
func IsPhoneValid(phone string) bool {
	phone = strings.TrimSpace(phone)
	phone = strings.TrimPrefix(phone, "+")

	digits := 0
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 8 && digits <= 15
}

// Register adds the "phone" tag to v.
func Register(v *validator.Validate) error {
	return v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsPhoneValid(fl.Field().String())
	})
}
