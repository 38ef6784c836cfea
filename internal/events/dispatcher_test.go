package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var seen []EventType
	d.Subscribe(EventTaskCreated, func(_ context.Context, e Event) error {
		seen = append(seen, e.Type)
		return nil
	})
	d.Subscribe(EventTaskDeleted, func(_ context.Context, e Event) error {
		seen = append(seen, e.Type)
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventTaskCreated}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(seen) != 1 || seen[0] != EventTaskCreated {
		t.Errorf("seen = %v", seen)
	}
}

func TestDispatcherContinuesPastHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()

	called := 0
	d.Subscribe(EventTaskCreated, func(context.Context, Event) error {
		called++
		return errors.New("boom")
	})
	d.Subscribe(EventTaskCreated, func(context.Context, Event) error {
		called++
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventTaskCreated}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if called != 2 {
		t.Errorf("called = %d, want 2", called)
	}
}
