// Package order holds the shop order events raised around a PayPal checkout
// and the subscriber reacting to them.
package order

import "github.com/rise-and-shine/paycheckout/val"

// Shop order event names.
const (
	EventOrderCreated        = "OrderCreated"
	EventOrderPaymentCreated = "OrderPaymentCreated"
	EventOrderStatusUpdated  = "OrderStatusUpdated"
)

// OrderCreatedEvent is raised once the shop order for a cart exists.
type OrderCreatedEvent struct {
	orderID int64
	cartID  int64
}

func NewOrderCreatedEvent(orderID, cartID int64) (OrderCreatedEvent, error) {
	if err := validateID("order_id", orderID); err != nil {
		return OrderCreatedEvent{}, err
	}
	if err := validateID("cart_id", cartID); err != nil {
		return OrderCreatedEvent{}, err
	}
	return OrderCreatedEvent{orderID: orderID, cartID: cartID}, nil
}

func (OrderCreatedEvent) EventName() string { return EventOrderCreated }

func (e OrderCreatedEvent) OrderID() int64 { return e.orderID }

func (e OrderCreatedEvent) CartID() int64 { return e.cartID }

// OrderPaymentCreatedEvent is raised when a payment is attached to a shop order.
type OrderPaymentCreatedEvent struct {
	orderID       int64
	transactionID string
}

func NewOrderPaymentCreatedEvent(orderID int64, transactionID string) (OrderPaymentCreatedEvent, error) {
	if err := validateID("order_id", orderID); err != nil {
		return OrderPaymentCreatedEvent{}, err
	}
	if err := val.ValidateVar("transaction_id", transactionID, "required"); err != nil {
		return OrderPaymentCreatedEvent{}, err
	}
	return OrderPaymentCreatedEvent{orderID: orderID, transactionID: transactionID}, nil
}

func (OrderPaymentCreatedEvent) EventName() string { return EventOrderPaymentCreated }

func (e OrderPaymentCreatedEvent) OrderID() int64 { return e.orderID }

func (e OrderPaymentCreatedEvent) TransactionID() string { return e.transactionID }

// OrderStatusUpdatedEvent is raised when the shop order moves to another state.
type OrderStatusUpdatedEvent struct {
	orderID int64
	stateID int64
}

func NewOrderStatusUpdatedEvent(orderID, stateID int64) (OrderStatusUpdatedEvent, error) {
	if err := validateID("order_id", orderID); err != nil {
		return OrderStatusUpdatedEvent{}, err
	}
	if err := validateID("order_state_id", stateID); err != nil {
		return OrderStatusUpdatedEvent{}, err
	}
	return OrderStatusUpdatedEvent{orderID: orderID, stateID: stateID}, nil
}

func (OrderStatusUpdatedEvent) EventName() string { return EventOrderStatusUpdated }

func (e OrderStatusUpdatedEvent) OrderID() int64 { return e.orderID }

func (e OrderStatusUpdatedEvent) StateID() int64 { return e.stateID }

func validateID(field string, id int64) error {
	return val.ValidateVar(field, id, "required,gt=0")
}
