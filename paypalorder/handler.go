package paypalorder

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/code19m/errx"

	"github.com/rise-and-shine/paycheckout/cqrs"
	"github.com/rise-and-shine/paycheckout/cqrs/command"
	"github.com/rise-and-shine/paycheckout/cqrs/query"
	"github.com/rise-and-shine/paycheckout/paypal"
)

const (
	fetchAttempts   = 3
	fetchRetryDelay = 100 * time.Millisecond
)

func isThrottled(err error) bool {
	return errx.GetType(err) == errx.T_Throttling
}

// GetCurrentPayPalOrderStatusHandler answers from the cache and falls back to
// PayPal. It never writes the cache: only commands and order events do.
type GetCurrentPayPalOrderStatusHandler struct {
	cache   *OrderCache
	gateway OrderGateway
}

func NewGetCurrentPayPalOrderStatusHandler(
	cache *OrderCache,
	gateway OrderGateway,
) *GetCurrentPayPalOrderStatusHandler {
	return &GetCurrentPayPalOrderStatusHandler{cache: cache, gateway: gateway}
}

func (h *GetCurrentPayPalOrderStatusHandler) Execute(
	ctx context.Context,
	q GetCurrentPayPalOrderStatusQuery,
) (GetCurrentPayPalOrderStatusResult, error) {
	if order, ok := h.cache.Get(q.OrderID); ok {
		return GetCurrentPayPalOrderStatusResult{Status: order.Status}, nil
	}

	order, err := fetchOrder(ctx, h.gateway, q.OrderID)
	if err != nil {
		return GetCurrentPayPalOrderStatusResult{}, err
	}
	return GetCurrentPayPalOrderStatusResult{Status: order.Status}, nil
}

// GetPayPalOrderHandler always reads the order from PayPal.
type GetPayPalOrderHandler struct {
	gateway OrderGateway
}

func NewGetPayPalOrderHandler(gateway OrderGateway) *GetPayPalOrderHandler {
	return &GetPayPalOrderHandler{gateway: gateway}
}

func (h *GetPayPalOrderHandler) Execute(ctx context.Context, q GetPayPalOrderQuery) (paypal.Order, error) {
	return fetchOrder(ctx, h.gateway, q.OrderID)
}

// CapturePayPalOrderHandler captures an order and announces its completion.
type CapturePayPalOrderHandler struct {
	gateway OrderGateway
	events  Publisher
}

func NewCapturePayPalOrderHandler(gateway OrderGateway, events Publisher) *CapturePayPalOrderHandler {
	return &CapturePayPalOrderHandler{gateway: gateway, events: events}
}

func (h *CapturePayPalOrderHandler) Execute(
	ctx context.Context,
	cmd CapturePayPalOrderCommand,
) (CapturePayPalOrderResult, error) {
	order, err := h.gateway.CaptureOrder(ctx, cmd.OrderID, cmd.FundingSource)
	if err != nil {
		return CapturePayPalOrderResult{}, errx.Wrap(err)
	}

	if order.Status == paypal.StatusCompleted {
		h.events.Publish(ctx, PayPalOrderCompletedEvent{PayPalOrderEvent{orderID: cmd.OrderID, order: order}})
	}

	return CapturePayPalOrderResult{Status: order.Status}, nil
}

// UpdatePayPalOrderHandler compares the upstream order with the cached one
// and publishes the event matching the status transition.
type UpdatePayPalOrderHandler struct {
	cache   *OrderCache
	gateway OrderGateway
	events  Publisher
}

func NewUpdatePayPalOrderHandler(cache *OrderCache, gateway OrderGateway, events Publisher) *UpdatePayPalOrderHandler {
	return &UpdatePayPalOrderHandler{cache: cache, gateway: gateway, events: events}
}

func (h *UpdatePayPalOrderHandler) Execute(
	ctx context.Context,
	cmd UpdatePayPalOrderCommand,
) (command.EmptyResult, error) {
	var previous string
	if cached, ok := h.cache.Get(cmd.OrderID); ok {
		previous = cached.Status
	}

	order, err := fetchOrder(ctx, h.gateway, cmd.OrderID)
	if err != nil {
		return command.EmptyResult{}, err
	}

	h.cache.Put(cmd.OrderID, order)

	if e := transitionEvent(previous, PayPalOrderEvent{orderID: cmd.OrderID, order: order}); e != nil {
		h.events.Publish(ctx, e)
	}
	return command.EmptyResult{}, nil
}

// fetchOrder reads the order from PayPal, retrying while PayPal throttles us.
func fetchOrder(ctx context.Context, gateway OrderGateway, id paypal.OrderID) (paypal.Order, error) {
	order, err := retry.DoWithData(
		func() (paypal.Order, error) {
			return gateway.FetchOrder(ctx, id)
		},
		retry.Attempts(fetchAttempts),
		retry.Delay(fetchRetryDelay),
		retry.MaxJitter(fetchRetryDelay),
		retry.RetryIf(isThrottled),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if err != nil {
		return paypal.Order{}, errx.Wrap(err)
	}
	return order, nil
}

// Register binds every PayPal order handler to its request type.
func Register(reg *cqrs.Registry, cache *OrderCache, gateway OrderGateway, events Publisher) error {
	if err := query.Register[GetCurrentPayPalOrderStatusQuery, GetCurrentPayPalOrderStatusResult](
		reg, NewGetCurrentPayPalOrderStatusHandler(cache, gateway),
	); err != nil {
		return err
	}

	if err := query.Register[GetPayPalOrderQuery, paypal.Order](
		reg, NewGetPayPalOrderHandler(gateway),
	); err != nil {
		return err
	}

	if err := command.Register[CapturePayPalOrderCommand, CapturePayPalOrderResult](
		reg, NewCapturePayPalOrderHandler(gateway, events),
	); err != nil {
		return err
	}

	return command.Register[UpdatePayPalOrderCommand, command.EmptyResult](
		reg, NewUpdatePayPalOrderHandler(cache, gateway, events),
	)
}
