package models

import (
	"errors"
	"time"
)

var ErrMalformedBookingData = errors.New("booking has malformed date data")

// ItemSnapshot is a point-in-time copy of the catalog entry at purchase
// time, not a live reference. Only the fields for the booking's kind are
// meaningful; everything else stays empty. Dates are RFC3339 strings as
// they arrive from the catalog and are parsed on demand.
type ItemSnapshot struct {
	Name           string  `json:"name,omitempty"`
	Description    string  `json:"description,omitempty"`
	FlightNumber   string  `json:"flight_number,omitempty"`
	Origin         string  `json:"origin,omitempty"`
	Destination    string  `json:"destination,omitempty"`
	DepartureTime  string  `json:"departure_time,omitempty"`
	ArrivalTime    string  `json:"arrival_time,omitempty"`
	Location       string  `json:"location,omitempty"`
	CheckIn        string  `json:"check_in,omitempty"`
	CheckOut       string  `json:"check_out,omitempty"`
	Brand          string  `json:"brand,omitempty"`
	Model          string  `json:"model,omitempty"`
	PickupLocation string  `json:"pickup_location,omitempty"`
	PickupDate     string  `json:"pickup_date,omitempty"`
	DropoffDate    string  `json:"dropoff_date,omitempty"`
	Price          float64 `json:"price,omitempty"`
}

type Booking struct {
	ID          string       `json:"id"`
	Kind        string       `json:"kind"` // flight, hotel, car, product
	Item        ItemSnapshot `json:"item"`
	BookingDate time.Time    `json:"booking_date"`
	TotalAmount float64      `json:"total_amount"`
	Status      string       `json:"status"` // confirmed, pending, cancelled

	// Lineage fields, set only on bookings derived from a confirmed
	// rebooking. The original booking is kept alongside the derived one.
	OriginalBookingID string `json:"original_booking_id,omitempty"`
	IsRebooked        bool   `json:"is_rebooked,omitempty"`
	RebookedFrom      string `json:"rebooked_from,omitempty"`
	RebookedTo        string `json:"rebooked_to,omitempty"`
}

// Active reports whether the booking still counts toward the active set.
func (b *Booking) Active() bool {
	return b.Status != StatusCancelled
}

// StartTime returns the moment the booked item "begins": flight departure
// for flights, pickup date for cars, and the booking's own creation time
// for everything else. Hotels and products deliberately fall through to
// the creation-time fallback; hotel check-in is not consulted.
func (b *Booking) StartTime() (time.Time, error) {
	switch b.Kind {
	case KindFlight:
		if b.Item.DepartureTime != "" {
			return parseItemTime(b.Item.DepartureTime)
		}
	case KindCar:
		if b.Item.PickupDate != "" {
			return parseItemTime(b.Item.PickupDate)
		}
	}
	return b.BookingDate, nil
}

// EndTime is the type-specific completion boundary: flight arrival, hotel
// checkout, car dropoff, or thirty days after purchase for products.
func (b *Booking) EndTime() (time.Time, error) {
	switch b.Kind {
	case KindFlight:
		if b.Item.ArrivalTime != "" {
			return parseItemTime(b.Item.ArrivalTime)
		}
	case KindHotel:
		if b.Item.CheckOut != "" {
			return parseItemTime(b.Item.CheckOut)
		}
	case KindCar:
		if b.Item.DropoffDate != "" {
			return parseItemTime(b.Item.DropoffDate)
		}
	}
	return b.BookingDate.Add(ProductCompletionAfter), nil
}

// Completed derives completion from the supplied clock reading. It is
// recomputed on every call and never cached, so the answer tracks "now".
func (b *Booking) Completed(now time.Time) (bool, error) {
	end, err := b.EndTime()
	if err != nil {
		return false, err
	}
	return !now.Before(end), nil
}

func parseItemTime(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrMalformedBookingData
}
