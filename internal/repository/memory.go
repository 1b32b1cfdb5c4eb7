package repository

import (
	"sync"
	"time"

	"travelbook/internal/models"
)

// MemoryBookingRepository is the canonical in-memory collection of
// bookings and rebooking requests. Cancellation is a status transition,
// not a delete: cancelled bookings stay retained for audit and are only
// removed by an explicit purge.
type MemoryBookingRepository struct {
	mu       sync.RWMutex
	bookings []*models.Booking
	requests []*models.RebookingRequest
}

func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{}
}

func (r *MemoryBookingRepository) AddBooking(booking *models.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings = append(r.bookings, booking)
}

func (r *MemoryBookingRepository) GetBooking(id string) (*models.Booking, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.bookings {
		if b.ID == id {
			return b, true
		}
	}
	return nil, false
}

// CancelBooking reports whether the call changed anything. Cancelling an
// unknown or already-cancelled booking is a safe no-op.
func (r *MemoryBookingRepository) CancelBooking(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID == id && b.Status != models.StatusCancelled {
			b.Status = models.StatusCancelled
			return true
		}
	}
	return false
}

func (r *MemoryBookingRepository) ActiveBookings() []*models.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		if b.Active() {
			out = append(out, b)
		}
	}
	return out
}

func (r *MemoryBookingRepository) AllBookings() []*models.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*models.Booking(nil), r.bookings...)
}

func (r *MemoryBookingRepository) PurgeCancelled() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.bookings[:0]
	purged := 0
	for _, b := range r.bookings {
		if b.Status == models.StatusCancelled {
			purged++
			continue
		}
		kept = append(kept, b)
	}
	r.bookings = kept
	return purged
}

// AddRebookingRequest records the request even when the referenced booking
// no longer exists; the workflow decides what to do about orphans.
func (r *MemoryBookingRepository) AddRebookingRequest(req *models.RebookingRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
}

func (r *MemoryBookingRepository) GetRebookingRequest(id string) (*models.RebookingRequest, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, req := range r.requests {
		if req.ID == id {
			return req, true
		}
	}
	return nil, false
}

func (r *MemoryBookingRepository) RebookingRequests() []*models.RebookingRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*models.RebookingRequest(nil), r.requests...)
}

// UpdateRebookingRequestStatus transitions out of pending exactly once.
// Calling it on an already-processed request is an idempotent no-op.
func (r *MemoryBookingRepository) UpdateRebookingRequestStatus(id, status string, processedAt time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.ID == id {
			if req.Status != models.RequestPending {
				return false
			}
			req.Status = status
			req.ProcessedAt = &processedAt
			return true
		}
	}
	return false
}

func (r *MemoryBookingRepository) Restore(snap *models.Snapshot) {
	if snap == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings = append([]*models.Booking(nil), snap.Bookings...)
	r.requests = append([]*models.RebookingRequest(nil), snap.RebookingRequests...)
}

// Snapshot deep-copies the collections so the caller can serialize them
// without racing against later mutations.
func (r *MemoryBookingRepository) Snapshot() *models.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := &models.Snapshot{
		Bookings:          make([]*models.Booking, 0, len(r.bookings)),
		RebookingRequests: make([]*models.RebookingRequest, 0, len(r.requests)),
		SavedAt:           time.Now(),
	}
	for _, b := range r.bookings {
		clone := *b
		snap.Bookings = append(snap.Bookings, &clone)
	}
	for _, req := range r.requests {
		clone := *req
		if req.ProcessedAt != nil {
			processed := *req.ProcessedAt
			clone.ProcessedAt = &processed
		}
		snap.RebookingRequests = append(snap.RebookingRequests, &clone)
	}
	return snap
}
