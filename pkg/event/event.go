// Package event is a small in-process dispatcher. Services fire domain
// events; boot wires listeners (mail notifications, live feed nudges)
// without the services importing them.
package event

import "sync"

// Domain event names.
const (
	OrderCreated        = "order.created"
	OrderStatusChanged  = "order.status_changed"
	ConsultationCreated = "consultation.created"
	CustomerMerged      = "customer.merged"
)

// Handler receives an event payload.
type Handler func(payload any)

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
)

// Listen registers a handler for the event name.
func Listen(name string, h Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[name] = append(handlers[name], h)
}

// Fire dispatches synchronously to every listener, in registration order.
func Fire(name string, payload any) {
	mu.RLock()
	hs := append([]Handler(nil), handlers[name]...)
	mu.RUnlock()

	for _, h := range hs {
		h(payload)
	}
}

// FireAsync dispatches each listener on its own goroutine and returns
// immediately.
func FireAsync(name string, payload any) {
	mu.RLock()
	hs := append([]Handler(nil), handlers[name]...)
	mu.RUnlock()

	for _, h := range hs {
		go h(payload)
	}
}

// Flush drops all listeners. Tests use it between cases.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
