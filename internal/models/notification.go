package models

import "time"

// Notification is a fire-and-forget human-readable event pushed into the
// notification relay by any component.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	Read      bool      `json:"read"`
	Timestamp time.Time `json:"timestamp"`
}

// Reminder is the one-way event the scheduler emits toward the foreground
// when a booking's start time nears.
type Reminder struct {
	BookingID string `json:"booking_id"`
	Kind      string `json:"kind"`
}

// Snapshot is the serialized application state: persisted on every change
// and restored verbatim at startup.
type Snapshot struct {
	Bookings          []*Booking          `json:"bookings"`
	RebookingRequests []*RebookingRequest `json:"rebooking_requests"`
	Notifications     []*Notification     `json:"notifications"`
	SavedAt           time.Time           `json:"saved_at"`
}
