package models

import "time"

// RebookingRequest tracks an in-flight request to move a booking to a new
// date. Status starts at pending and transitions exactly once.
type RebookingRequest struct {
	ID                string     `json:"id"`
	OriginalBookingID string     `json:"original_booking_id"`
	NewDate           string     `json:"new_date"` // date-only, 2006-01-02
	Status            string     `json:"status"`   // pending, confirmed, rejected
	RequestedAt       time.Time  `json:"requested_at"`
	ProcessedAt       *time.Time `json:"processed_at,omitempty"`
	Reason            string     `json:"reason,omitempty"`
}
