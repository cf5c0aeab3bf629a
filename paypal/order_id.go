// Package paypal holds the PayPal value objects shared by commands, queries and events:
// the order identifier and the raw upstream order representation.
package paypal

import "github.com/rise-and-shine/paycheckout/val"

const fieldOrderID = "paypal_order_id"

// OrderID identifies an order on the PayPal side. The zero value is not a valid id;
// use NewOrderID.
type OrderID struct {
	value string
}

// NewOrderID validates raw and wraps it. Empty or malformed identifiers are
// rejected with a VALIDATION_FAILED error naming the paypal_order_id field.
func NewOrderID(raw string) (OrderID, error) {
	err := val.ValidateVar(fieldOrderID, raw, "required,"+val.TagPayPalOrderID)
	if err != nil {
		return OrderID{}, err
	}

	return OrderID{value: raw}, nil
}

// MustOrderID is like NewOrderID but panics on invalid input. Intended for tests and constants.
func MustOrderID(raw string) OrderID {
	id, err := NewOrderID(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// Value returns the wrapped identifier exactly as given to NewOrderID.
func (id OrderID) Value() string {
	return id.value
}

func (id OrderID) String() string {
	return id.value
}

// Equal compares by wrapped value.
func (id OrderID) Equal(other OrderID) bool {
	return id.value == other.value
}

// IsZero reports whether id was never constructed.
func (id OrderID) IsZero() bool {
	return id.value == ""
}

// MarshalText renders the id in logs and JSON payloads.
func (id OrderID) MarshalText() ([]byte, error) {
	return []byte(id.value), nil
}
