package paypalorder

import (
	"github.com/rise-and-shine/paycheckout/meta"
	"github.com/rise-and-shine/paycheckout/paypal"
)

// GetCurrentPayPalOrderStatusQuery asks for the current status of a PayPal order.
type GetCurrentPayPalOrderStatusQuery struct {
	OrderID paypal.OrderID `json:"paypal_order_id" validate:"required"`
}

// NewGetCurrentPayPalOrderStatusQuery validates rawOrderID and builds the query.
func NewGetCurrentPayPalOrderStatusQuery(rawOrderID string) (GetCurrentPayPalOrderStatusQuery, error) {
	id, err := paypal.NewOrderID(rawOrderID)
	if err != nil {
		return GetCurrentPayPalOrderStatusQuery{}, err
	}
	return GetCurrentPayPalOrderStatusQuery{OrderID: id}, nil
}

func (GetCurrentPayPalOrderStatusQuery) RequestName() string {
	return "paypal.order.get_current_status"
}

func (q GetCurrentPayPalOrderStatusQuery) Meta() map[meta.ContextKey]string {
	return map[meta.ContextKey]string{meta.PayPalOrderID: q.OrderID.Value()}
}

// GetCurrentPayPalOrderStatusResult carries the upstream order status.
type GetCurrentPayPalOrderStatusResult struct {
	Status string `json:"status"`
}

// GetPayPalOrderQuery asks for the full upstream order.
type GetPayPalOrderQuery struct {
	OrderID paypal.OrderID `json:"paypal_order_id" validate:"required"`
}

// NewGetPayPalOrderQuery validates rawOrderID and builds the query.
func NewGetPayPalOrderQuery(rawOrderID string) (GetPayPalOrderQuery, error) {
	id, err := paypal.NewOrderID(rawOrderID)
	if err != nil {
		return GetPayPalOrderQuery{}, err
	}
	return GetPayPalOrderQuery{OrderID: id}, nil
}

func (GetPayPalOrderQuery) RequestName() string {
	return "paypal.order.get"
}

func (q GetPayPalOrderQuery) Meta() map[meta.ContextKey]string {
	return map[meta.ContextKey]string{meta.PayPalOrderID: q.OrderID.Value()}
}
