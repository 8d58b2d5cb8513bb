package stream

import (
	"context"
	"testing"
	"time"
)

func TestPublishScopesByOrganization(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	org1 := s.Subscribe(ctx, "org-1")
	org2 := s.Subscribe(ctx, "org-2")
	admin := s.Subscribe(ctx, "")

	s.Publish(OrderEvent{OrderID: "ord-1", OrganizationID: "org-1", Status: "pending"})

	select {
	case evt := <-org1:
		if evt.OrderID != "ord-1" {
			t.Fatalf("org-1 got %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("org-1 subscriber did not receive event")
	}
	select {
	case evt := <-admin:
		if evt.OrderID != "ord-1" {
			t.Fatalf("admin got %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("admin subscriber did not receive event")
	}
	select {
	case evt := <-org2:
		t.Fatalf("org-2 must not receive org-1 event, got %+v", evt)
	default:
	}
}

func TestSubscribeClosesOnContextEnd(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	ch := s.Subscribe(ctx, "org-1")
	if s.Subscribers() != 1 {
		t.Fatalf("subscribers = %d, want 1", s.Subscribers())
	}
	cancel()

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				if s.Subscribers() != 0 {
					t.Fatalf("subscribers = %d after close, want 0", s.Subscribers())
				}
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after context cancel")
		}
	}
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Subscribe(ctx, "org-1") // never drained

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			s.Publish(OrderEvent{OrderID: "ord", OrganizationID: "org-1"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on slow subscriber")
	}
}
