package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventBookingCreated     = "booking_created"
	EventBookingCancelled   = "booking_cancelled"
	EventRebookingRequested = "rebooking_requested"
	EventRebookingConfirmed = "rebooking_confirmed"
	EventRebookingRejected  = "rebooking_rejected"
	EventReminderFired      = "reminder_fired"
)

// BookingEventPayload is the booking snapshot carried by lifecycle events.
type BookingEventPayload struct {
	BookingID         string    `json:"booking_id"`
	Kind              string    `json:"kind"`
	Status            string    `json:"status"`
	TotalAmount       float64   `json:"total_amount"`
	BookingDate       time.Time `json:"booking_date"`
	OriginalBookingID string    `json:"original_booking_id,omitempty"`
	RequestID         string    `json:"request_id,omitempty"`
	NewDate           string    `json:"new_date,omitempty"`
	Reason            string    `json:"reason,omitempty"`
}

// Event represents a lightweight domain event.
type Event struct {
	ID        int64
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// SubscribeAll registers a handler for every listed event type.
func (b *EventBus) SubscribeAll(eventTypes []string, handler EventHandler) {
	for _, eventType := range eventTypes {
		b.Subscribe(eventType, handler)
	}
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}

// AllEventTypes lists every lifecycle event, for audit subscribers.
func AllEventTypes() []string {
	return []string{
		EventBookingCreated,
		EventBookingCancelled,
		EventRebookingRequested,
		EventRebookingConfirmed,
		EventRebookingRejected,
		EventReminderFired,
	}
}
