package events

import (
	"encoding/json"
	"testing"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	var received *Event
	var callCount int

	bus.Subscribe(EventBookingCreated, func(event *Event) error {
		received = event
		callCount++
		return nil
	})

	payload := BookingEventPayload{BookingID: "b-1", Kind: "flight", Status: "confirmed"}
	if err := bus.PublishJSON(EventBookingCreated, payload); err != nil {
		t.Fatalf("PublishJSON failed: %v", err)
	}

	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
	if received.Type != EventBookingCreated {
		t.Errorf("expected type %s, got %s", EventBookingCreated, received.Type)
	}

	var decoded BookingEventPayload
	if err := json.Unmarshal(received.Payload, &decoded); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if decoded.BookingID != "b-1" || decoded.Kind != "flight" {
		t.Errorf("unexpected payload: %+v", decoded)
	}
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()
	var count1, count2 int

	bus.Subscribe(EventRebookingConfirmed, func(_ *Event) error { count1++; return nil })
	bus.Subscribe(EventRebookingConfirmed, func(_ *Event) error { count2++; return nil })

	bus.Publish(&Event{Type: EventRebookingConfirmed})

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both handlers to be called once, got %d and %d", count1, count2)
	}
}

func TestEventBusNoSubscribers(t *testing.T) {
	bus := NewEventBus()
	// Should not panic
	bus.Publish(&Event{Type: "unknown"})
	if err := bus.PublishJSON("unknown", nil); err != nil {
		t.Errorf("PublishJSON failed: %v", err)
	}
}

func TestSubscribeAll(t *testing.T) {
	bus := NewEventBus()
	var count int

	bus.SubscribeAll(AllEventTypes(), func(_ *Event) error { count++; return nil })

	for _, eventType := range AllEventTypes() {
		bus.Publish(&Event{Type: eventType})
	}

	if count != len(AllEventTypes()) {
		t.Errorf("expected %d calls, got %d", len(AllEventTypes()), count)
	}
}
