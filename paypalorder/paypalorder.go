// Package paypalorder implements the PayPal order queries, commands and
// events of the checkout module together with their handlers.
//
// Handlers talk to PayPal through an OrderGateway and keep the last seen
// upstream order per id in an OrderCache. State changes observed upstream are
// announced as PayPal order events on the event dispatcher.
package paypalorder

import (
	"context"
	"fmt"

	"github.com/code19m/errx"

	"github.com/rise-and-shine/paycheckout/event"
	"github.com/rise-and-shine/paycheckout/paypal"
)

// CodeOrderNotFound is returned by gateways when PayPal does not know the order.
const CodeOrderNotFound = "ORDER_NOT_FOUND"

// OrderGateway is the boundary to the PayPal Orders API.
type OrderGateway interface {
	// FetchOrder returns the current upstream representation of the order.
	FetchOrder(ctx context.Context, id paypal.OrderID) (paypal.Order, error)

	// CaptureOrder captures an approved order with the given funding source.
	CaptureOrder(ctx context.Context, id paypal.OrderID, fundingSource string) (paypal.Order, error)
}

// Publisher announces domain events. *event.Dispatcher implements it.
type Publisher interface {
	Publish(ctx context.Context, e event.Event)
}

// NewOrderNotFoundError builds the error gateways return for unknown orders.
func NewOrderNotFoundError(id paypal.OrderID) error {
	return errx.New(
		fmt.Sprintf("paypal order %s not found", id),
		errx.WithCode(CodeOrderNotFound),
		errx.WithType(errx.T_NotFound),
		errx.WithDetails(errx.D{"paypal_order_id": id.Value()}),
	)
}

// IsOrderNotFound reports whether err signals an order unknown to PayPal.
func IsOrderNotFound(err error) bool {
	return errx.IsCodeIn(err, CodeOrderNotFound)
}
