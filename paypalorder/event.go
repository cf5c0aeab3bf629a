package paypalorder

import (
	"github.com/rise-and-shine/paycheckout/event"
	"github.com/rise-and-shine/paycheckout/paypal"
)

// PayPal order event names.
const (
	EventPayPalOrderCreated          = "PayPalOrderCreated"
	EventPayPalOrderApproved         = "PayPalOrderApproved"
	EventPayPalOrderCompleted        = "PayPalOrderCompleted"
	EventPayPalOrderApprovalReversed = "PayPalOrderApprovalReversed"
	EventPayPalOrderNotApproved      = "PayPalOrderNotApproved"
)

// PayPalOrderEvent is the payload shared by all PayPal order events: the
// order id and the upstream order as it was observed.
type PayPalOrderEvent struct {
	orderID paypal.OrderID
	order   paypal.Order
}

// NewPayPalOrderEvent validates rawOrderID and builds the shared payload.
func NewPayPalOrderEvent(rawOrderID string, order paypal.Order) (PayPalOrderEvent, error) {
	id, err := paypal.NewOrderID(rawOrderID)
	if err != nil {
		return PayPalOrderEvent{}, err
	}
	return PayPalOrderEvent{orderID: id, order: order}, nil
}

func (e PayPalOrderEvent) OrderID() paypal.OrderID {
	return e.orderID
}

func (e PayPalOrderEvent) Order() paypal.Order {
	return e.order
}

type PayPalOrderCreatedEvent struct{ PayPalOrderEvent }

func (PayPalOrderCreatedEvent) EventName() string { return EventPayPalOrderCreated }

type PayPalOrderApprovedEvent struct{ PayPalOrderEvent }

func (PayPalOrderApprovedEvent) EventName() string { return EventPayPalOrderApproved }

type PayPalOrderCompletedEvent struct{ PayPalOrderEvent }

func (PayPalOrderCompletedEvent) EventName() string { return EventPayPalOrderCompleted }

// PayPalOrderApprovalReversedEvent is raised when an approved order goes back
// to waiting for the payer.
type PayPalOrderApprovalReversedEvent struct{ PayPalOrderEvent }

func (PayPalOrderApprovalReversedEvent) EventName() string { return EventPayPalOrderApprovalReversed }

// PayPalOrderNotApprovedEvent is raised when an order is voided before approval.
type PayPalOrderNotApprovedEvent struct{ PayPalOrderEvent }

func (PayPalOrderNotApprovedEvent) EventName() string { return EventPayPalOrderNotApproved }

func NewPayPalOrderCreatedEvent(rawOrderID string, order paypal.Order) (PayPalOrderCreatedEvent, error) {
	base, err := NewPayPalOrderEvent(rawOrderID, order)
	return PayPalOrderCreatedEvent{base}, err
}

func NewPayPalOrderApprovedEvent(rawOrderID string, order paypal.Order) (PayPalOrderApprovedEvent, error) {
	base, err := NewPayPalOrderEvent(rawOrderID, order)
	return PayPalOrderApprovedEvent{base}, err
}

func NewPayPalOrderCompletedEvent(rawOrderID string, order paypal.Order) (PayPalOrderCompletedEvent, error) {
	base, err := NewPayPalOrderEvent(rawOrderID, order)
	return PayPalOrderCompletedEvent{base}, err
}

func NewPayPalOrderApprovalReversedEvent(
	rawOrderID string,
	order paypal.Order,
) (PayPalOrderApprovalReversedEvent, error) {
	base, err := NewPayPalOrderEvent(rawOrderID, order)
	return PayPalOrderApprovalReversedEvent{base}, err
}

func NewPayPalOrderNotApprovedEvent(rawOrderID string, order paypal.Order) (PayPalOrderNotApprovedEvent, error) {
	base, err := NewPayPalOrderEvent(rawOrderID, order)
	return PayPalOrderNotApprovedEvent{base}, err
}

// transitionEvent picks the event announcing a move from the previously seen
// status to the current one. It returns nil when nothing changed or the new
// status has no event.
func transitionEvent(previous string, current PayPalOrderEvent) event.Event {
	status := current.order.Status
	if status == previous {
		return nil
	}

	switch status {
	case paypal.StatusCreated, paypal.StatusPayerActionRequired:
		if previous == paypal.StatusApproved {
			return PayPalOrderApprovalReversedEvent{current}
		}
		if status == paypal.StatusCreated {
			return PayPalOrderCreatedEvent{current}
		}
	case paypal.StatusApproved:
		return PayPalOrderApprovedEvent{current}
	case paypal.StatusCompleted:
		return PayPalOrderCompletedEvent{current}
	case paypal.StatusVoided:
		return PayPalOrderNotApprovedEvent{current}
	}

	return nil
}
