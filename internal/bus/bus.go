// Package bus is a named-channel publish/subscribe registry used to decouple
// the picker's list and detail widgets.
//
// Dispatch is synchronous: Publish returns only after every subscriber that
// was registered at call time has run, in registration order.
package bus

import (
	"log"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
)

// Handler receives a payload published on a channel.
type Handler func(payload any)

// Subscription identifies one registration of a Handler on a channel.
// Funcs are not comparable in Go, so the subscription is the identity used
// by Unsubscribe.
type Subscription struct {
	ID      string
	Channel string

	handler Handler
	bus     *Bus
}

// Cancel removes the subscription from its bus.
func (s *Subscription) Cancel() {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.Unsubscribe(s.Channel, s)
}

// Bus maps channel names to ordered subscriber lists.
type Bus struct {
	mu       sync.RWMutex
	channels map[string][]*Subscription
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{channels: make(map[string][]*Subscription)}
}

// Subscribe registers h under channel. Registering the same func twice
// results in two deliveries per publish.
func (b *Bus) Subscribe(channel string, h Handler) *Subscription {
	sub := &Subscription{
		ID:      uuid.NewString(),
		Channel: channel,
		handler: h,
		bus:     b,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.channels[channel] = append(b.channels[channel], sub)
	return sub
}

// Unsubscribe removes s from channel. Unknown channels and subscriptions are ignored.
func (b *Bus) Unsubscribe(channel string, s *Subscription) {
	if s == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.channels[channel]
	if !ok {
		return
	}
	kept := make([]*Subscription, 0, len(subs))
	for _, existing := range subs {
		if existing != s {
			kept = append(kept, existing)
		}
	}
	if len(kept) == 0 {
		delete(b.channels, channel)
		return
	}
	b.channels[channel] = kept
}

// Publish delivers payload to every subscriber of channel.
func (b *Bus) Publish(channel string, payload any) {
	b.mu.RLock()
	subs := b.channels[channel]
	// Snapshot so handlers may subscribe or unsubscribe while we dispatch.
	snapshot := make([]*Subscription, len(subs))
	copy(snapshot, subs)
	b.mu.RUnlock()

	for _, sub := range snapshot {
		deliver(sub, payload)
	}
}

// Subscribers returns the number of subscribers on channel.
func (b *Bus) Subscribers(channel string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.channels[channel])
}

func deliver(sub *Subscription, payload any) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("bus: subscriber %s on %q panicked: %v\n%s", sub.ID, sub.Channel, r, debug.Stack())
		}
	}()
	if sub.handler != nil {
		sub.handler(payload)
	}
}
