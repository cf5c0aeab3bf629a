package paypalorder

import (
	"github.com/rise-and-shine/paycheckout/meta"
	"github.com/rise-and-shine/paycheckout/paypal"
)

// Funding sources accepted when capturing an order.
const (
	FundingSourcePayPal   = "paypal"
	FundingSourceCard     = "card"
	FundingSourceVenmo    = "venmo"
	FundingSourcePayLater = "paylater"
)

// CapturePayPalOrderCommand captures the funds of an approved order.
type CapturePayPalOrderCommand struct {
	OrderID       paypal.OrderID `json:"paypal_order_id" validate:"required"`
	FundingSource string         `json:"funding_source"  validate:"required,oneof=paypal card venmo paylater"`
}

// NewCapturePayPalOrderCommand validates rawOrderID and builds the command.
// The funding source is checked when the command is dispatched.
func NewCapturePayPalOrderCommand(rawOrderID, fundingSource string) (CapturePayPalOrderCommand, error) {
	id, err := paypal.NewOrderID(rawOrderID)
	if err != nil {
		return CapturePayPalOrderCommand{}, err
	}
	return CapturePayPalOrderCommand{OrderID: id, FundingSource: fundingSource}, nil
}

func (CapturePayPalOrderCommand) RequestName() string {
	return "paypal.order.capture"
}

func (c CapturePayPalOrderCommand) Meta() map[meta.ContextKey]string {
	return map[meta.ContextKey]string{meta.PayPalOrderID: c.OrderID.Value()}
}

// CapturePayPalOrderResult reports the order status after the capture.
type CapturePayPalOrderResult struct {
	Status string `json:"status"`
}

// UpdatePayPalOrderCommand refreshes the cached order from PayPal and
// announces the status change, if any.
type UpdatePayPalOrderCommand struct {
	OrderID paypal.OrderID `json:"paypal_order_id" validate:"required"`
}

// NewUpdatePayPalOrderCommand validates rawOrderID and builds the command.
func NewUpdatePayPalOrderCommand(rawOrderID string) (UpdatePayPalOrderCommand, error) {
	id, err := paypal.NewOrderID(rawOrderID)
	if err != nil {
		return UpdatePayPalOrderCommand{}, err
	}
	return UpdatePayPalOrderCommand{OrderID: id}, nil
}

func (UpdatePayPalOrderCommand) RequestName() string {
	return "paypal.order.update"
}

func (c UpdatePayPalOrderCommand) Meta() map[meta.ContextKey]string {
	return map[meta.ContextKey]string{meta.PayPalOrderID: c.OrderID.Value()}
}
