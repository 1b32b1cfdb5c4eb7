package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStartTime(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("FlightUsesDeparture", func(t *testing.T) {
		b := &Booking{
			Kind:        KindFlight,
			BookingDate: created,
			Item:        ItemSnapshot{DepartureTime: "2026-03-10T08:30:00Z"},
		}
		start, err := b.StartTime()
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC), start)
	})

	t.Run("CarUsesPickup", func(t *testing.T) {
		b := &Booking{
			Kind:        KindCar,
			BookingDate: created,
			Item:        ItemSnapshot{PickupDate: "2026-03-12"},
		}
		start, err := b.StartTime()
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), start)
	})

	t.Run("HotelFallsBackToBookingDate", func(t *testing.T) {
		b := &Booking{
			Kind:        KindHotel,
			BookingDate: created,
			Item:        ItemSnapshot{CheckIn: "2026-03-15"},
		}
		start, err := b.StartTime()
		require.NoError(t, err)
		assert.Equal(t, created, start)
	})

	t.Run("MalformedDeparture", func(t *testing.T) {
		b := &Booking{
			Kind: KindFlight,
			Item: ItemSnapshot{DepartureTime: "next tuesday"},
		}
		_, err := b.StartTime()
		assert.ErrorIs(t, err, ErrMalformedBookingData)
	})
}

func TestBookingCompleted(t *testing.T) {
	t.Run("FlightArrival", func(t *testing.T) {
		b := &Booking{
			Kind: KindFlight,
			Item: ItemSnapshot{ArrivalTime: "2026-03-10T12:00:00Z"},
		}
		arrival := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

		done, err := b.Completed(arrival.Add(-time.Minute))
		require.NoError(t, err)
		assert.False(t, done)

		done, err = b.Completed(arrival)
		require.NoError(t, err)
		assert.True(t, done)

		done, err = b.Completed(arrival.Add(time.Hour))
		require.NoError(t, err)
		assert.True(t, done)
	})

	t.Run("PureAcrossRepeatedCalls", func(t *testing.T) {
		b := &Booking{
			Kind: KindHotel,
			Item: ItemSnapshot{CheckOut: "2026-04-01"},
		}
		checkout := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

		// Alternating "now" values must not leak cached answers.
		for i := 0; i < 3; i++ {
			before, err := b.Completed(checkout.Add(-time.Hour))
			require.NoError(t, err)
			assert.False(t, before)

			after, err := b.Completed(checkout.Add(time.Hour))
			require.NoError(t, err)
			assert.True(t, after)
		}
	})

	t.Run("ProductThirtyDays", func(t *testing.T) {
		created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		b := &Booking{Kind: KindProduct, BookingDate: created}

		done, err := b.Completed(created.Add(29 * 24 * time.Hour))
		require.NoError(t, err)
		assert.False(t, done)

		done, err = b.Completed(created.Add(30 * 24 * time.Hour))
		require.NoError(t, err)
		assert.True(t, done)
	})
}

func TestBookingActive(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusConfirmed}).Active())
	assert.True(t, (&Booking{Status: StatusPending}).Active())
	assert.False(t, (&Booking{Status: StatusCancelled}).Active())
}
