package val

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// TagPayPalOrderID is the validation tag for PayPal order identifiers.
const TagPayPalOrderID = "paypal_order_id"

//nolint:gochecknoglobals // compiled once
var payPalOrderIDPattern = regexp.MustCompile(`^[A-Z0-9]{17}$`)

// IsPayPalOrderID checks if the provided string has the shape of a PayPal order identifier.
// Format: 17 upper-case letters or digits, e.g. 5O190127TN364715T.
func IsPayPalOrderID(id string) bool {
	return payPalOrderIDPattern.MatchString(id)
}

func registerCustomValidations(v *validator.Validate) {
	_ = v.RegisterValidation(TagPayPalOrderID, func(fl validator.FieldLevel) bool {
		return IsPayPalOrderID(fl.Field().String())
	})
}
