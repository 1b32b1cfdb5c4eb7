package domain

import (
	"context"
	"errors"
	"time"

	"travelbook/internal/models"
)

var (
	ErrNotFound    = errors.New("booking not found")
	ErrInvalidDate = errors.New("rebooking date is in the past")
	ErrRateLimited = errors.New("too many rebooking requests")
)

// BookingRepository is the canonical in-process collection of bookings and
// rebooking requests. It is the only legal mutation path for both.
type BookingRepository interface {
	AddBooking(booking *models.Booking)
	GetBooking(id string) (*models.Booking, bool)
	// CancelBooking marks the booking cancelled and reports whether the
	// call changed anything. A second call for the same id is a no-op.
	CancelBooking(id string) bool
	// ActiveBookings excludes cancelled entries; AllBookings includes them.
	ActiveBookings() []*models.Booking
	AllBookings() []*models.Booking
	// PurgeCancelled hard-deletes retained cancelled bookings.
	PurgeCancelled() int

	AddRebookingRequest(req *models.RebookingRequest)
	GetRebookingRequest(id string) (*models.RebookingRequest, bool)
	RebookingRequests() []*models.RebookingRequest
	// UpdateRebookingRequestStatus transitions a pending request exactly
	// once; calls against a non-pending request are no-ops.
	UpdateRebookingRequestStatus(id, status string, processedAt time.Time) bool

	Restore(snap *models.Snapshot)
	Snapshot() *models.Snapshot
}

// Notifier is the append-only notification relay. Rendering is a
// collaborator's concern; components only push requests into it.
type Notifier interface {
	Notify(message, severity string) *models.Notification
	Notifications() []*models.Notification
	MarkRead(id string) bool
	UnreadCount() int
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// SnapshotStore persists the whole application state as one opaque
// snapshot. Load must fail open: a missing or corrupt snapshot yields an
// empty state, never an error that kills the session.
type SnapshotStore interface {
	Save(ctx context.Context, snap *models.Snapshot) error
	Load(ctx context.Context) (*models.Snapshot, error)
}

// BookingSink receives booking snapshots pushed by the store on every
// change. The reminder scheduler implements it.
type BookingSink interface {
	SetBookings(bookings []*models.Booking)
}
