package paypalorder

import (
	"context"
	"sync"

	"github.com/rise-and-shine/paycheckout/event"
	"github.com/rise-and-shine/paycheckout/paypal"
)

// OrderCache keeps the last seen upstream order per PayPal order id.
type OrderCache struct {
	mu     sync.RWMutex
	orders map[string]paypal.Order
}

// NewOrderCache creates an empty cache.
func NewOrderCache() *OrderCache {
	return &OrderCache{orders: make(map[string]paypal.Order)}
}

// Get returns the cached order for id.
func (c *OrderCache) Get(id paypal.OrderID) (paypal.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	o, ok := c.orders[id.Value()]
	return o, ok
}

// Put stores order under id, replacing any earlier version.
func (c *OrderCache) Put(id paypal.OrderID, order paypal.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.orders[id.Value()] = order
}

// Delete forgets id.
func (c *OrderCache) Delete(id paypal.OrderID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.orders, id.Value())
}

// Len returns the number of cached orders.
func (c *OrderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.orders)
}

type orderPayload interface {
	OrderID() paypal.OrderID
	Order() paypal.Order
}

// CacheSubscriber keeps an OrderCache current with every PayPal order event.
type CacheSubscriber struct {
	cache *OrderCache
}

func NewCacheSubscriber(cache *OrderCache) *CacheSubscriber {
	return &CacheSubscriber{cache: cache}
}

func (s *CacheSubscriber) SubscriberName() string {
	return "paypalorder.cache"
}

func (s *CacheSubscriber) SubscribedEvents() map[string]event.Listener {
	store := event.ListenerFunc(s.store)

	return map[string]event.Listener{
		EventPayPalOrderCreated:          store,
		EventPayPalOrderApproved:         store,
		EventPayPalOrderCompleted:        store,
		EventPayPalOrderApprovalReversed: store,
		EventPayPalOrderNotApproved:      store,
	}
}

func (s *CacheSubscriber) store(_ context.Context, e event.Event) error {
	payload, ok := e.(orderPayload)
	if !ok {
		return nil
	}

	s.cache.Put(payload.OrderID(), payload.Order())
	return nil
}
