// Package stream fan-outs order events to console dashboards over SSE so the
// order tables refresh without polling.
package stream

import (
	"context"
	"sync"
	"time"

	"wisatara.id/internal/catalog"
)

// OrderEvent is one row-level change pushed to subscribed dashboards.
type OrderEvent struct {
	OrderID        string    `json:"order_id"`
	OrganizationID string    `json:"organization_id"`
	Kind           string    `json:"kind"`
	Status         string    `json:"status"`
	Total          int64     `json:"total"`
	CustomerName   string    `json:"customer_name"`
	Timestamp      time.Time `json:"timestamp"`
}

// FromOrder builds the event payload for a created or updated order.
func FromOrder(o catalog.Order) OrderEvent {
	return OrderEvent{
		OrderID:        o.ID,
		OrganizationID: o.OrganizationID,
		Kind:           o.Kind,
		Status:         o.Status,
		Total:          o.Total,
		CustomerName:   o.CustomerName,
		Timestamp:      o.UpdatedAt,
	}
}

// Stream fan-outs order events to all active subscribers.
type Stream struct {
	mu   sync.RWMutex
	subs map[int]subscriber
	next int
}

type subscriber struct {
	ch  chan OrderEvent
	org string
}

// New initialises an empty stream.
func New() *Stream {
	return &Stream{subs: make(map[int]subscriber)}
}

// Subscribe registers a subscriber scoped to one organization and returns a
// channel which will receive its events. An empty organizationID receives
// everything (admin view). The channel is closed when the context ends.
func (s *Stream) Subscribe(ctx context.Context, organizationID string) <-chan OrderEvent {
	ch := make(chan OrderEvent, 16)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = subscriber{ch: ch, org: organizationID}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		close(ch)
		s.mu.Unlock()
	}()

	return ch
}

// Publish fan-outs the event to matching subscribers.
func (s *Stream) Publish(evt OrderEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.subs {
		if sub.org != "" && sub.org != evt.OrganizationID {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
			// Drop when subscriber is slow to avoid blocking.
		}
	}
}

// Subscribers reports the current subscriber count.
func (s *Stream) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
