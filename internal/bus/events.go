package bus

import (
	"log"
	"strings"
)

// Channel names shared by the list and detail widgets.
const (
	SelectionChannel          = "selection"
	SelectionChangedChannel   = "selection.changed"
	OpportunityCreatedChannel = "opportunity.created"
)

// SelectionEvent asks listeners to show the details of one product.
type SelectionEvent struct {
	ProductID string
}

// SelectionChangedEvent reports a mutation of the global selection.
type SelectionChangedEvent struct {
	Added   []string
	Removed []string
	Total   int
}

// OpportunityCreatedEvent is published after a successful submission.
type OpportunityCreatedEvent struct {
	OpportunityID string
	Name          string
	ProductCount  int
}

// PublishSelection publishes a SelectionEvent for productID.
func PublishSelection(b *Bus, productID string) {
	b.Publish(SelectionChannel, SelectionEvent{ProductID: productID})
}

// SubscribeSelection registers fn for SelectionEvents. Payloads of the wrong
// shape or without a product id are dropped before fn is called.
func SubscribeSelection(b *Bus, fn func(SelectionEvent)) *Subscription {
	return b.Subscribe(SelectionChannel, func(payload any) {
		ev, ok := payload.(SelectionEvent)
		if !ok {
			if ptr, isPtr := payload.(*SelectionEvent); isPtr && ptr != nil {
				ev, ok = *ptr, true
			}
		}
		if !ok {
			log.Printf("bus: dropping %T on %q", payload, SelectionChannel)
			return
		}
		ev.ProductID = strings.TrimSpace(ev.ProductID)
		if ev.ProductID == "" {
			log.Printf("bus: dropping selection event without product id")
			return
		}
		fn(ev)
	})
}

// SubscribeSelectionChanged registers fn for SelectionChangedEvents.
func SubscribeSelectionChanged(b *Bus, fn func(SelectionChangedEvent)) *Subscription {
	return b.Subscribe(SelectionChangedChannel, func(payload any) {
		ev, ok := payload.(SelectionChangedEvent)
		if !ok {
			log.Printf("bus: dropping %T on %q", payload, SelectionChangedChannel)
			return
		}
		fn(ev)
	})
}

// SubscribeOpportunityCreated registers fn for OpportunityCreatedEvents.
func SubscribeOpportunityCreated(b *Bus, fn func(OpportunityCreatedEvent)) *Subscription {
	return b.Subscribe(OpportunityCreatedChannel, func(payload any) {
		ev, ok := payload.(OpportunityCreatedEvent)
		if !ok || ev.OpportunityID == "" {
			log.Printf("bus: dropping %T on %q", payload, OpportunityCreatedChannel)
			return
		}
		fn(ev)
	})
}
