package scheduler

import (
	"context"
	"io"
	"testing"
	"time"

	"travelbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func newScheduler() *ReminderScheduler {
	return NewReminderScheduler(Config{
		Tick:      time.Minute,
		Lead:      24 * time.Hour,
		Tolerance: 30 * time.Minute,
	}, testLogger())
}

func flightAt(id string, departure time.Time) *models.Booking {
	return &models.Booking{
		ID:   id,
		Kind: models.KindFlight,
		Item: models.ItemSnapshot{DepartureTime: departure.Format(time.RFC3339)},
	}
}

func drainReminders(s *ReminderScheduler) []models.Reminder {
	var out []models.Reminder
	for {
		select {
		case r := <-s.reminders:
			out = append(out, r)
		default:
			return out
		}
	}
}

func TestScanFiresExactlyOnce(t *testing.T) {
	s := newScheduler()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s.bookings = []*models.Booking{flightAt("b-1", now.Add(24*time.Hour))}

	s.scan(now)
	got := drainReminders(s)
	require.Len(t, got, 1)
	assert.Equal(t, "b-1", got[0].BookingID)
	assert.Equal(t, models.KindFlight, got[0].Kind)

	// Second tick: no duplicate for the same booking.
	s.scan(now.Add(time.Minute))
	assert.Empty(t, drainReminders(s))
}

func TestScanOutsideToleranceBand(t *testing.T) {
	s := newScheduler()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("FortyEightHoursOut", func(t *testing.T) {
		s.bookings = []*models.Booking{flightAt("b-48", now.Add(48*time.Hour))}
		s.scan(now)
		assert.Empty(t, drainReminders(s))

		// The gap closes 24h later; the reminder fires then.
		s.scan(now.Add(24 * time.Hour))
		assert.Len(t, drainReminders(s), 1)
	})

	t.Run("JustOutsideBand", func(t *testing.T) {
		s.bookings = []*models.Booking{flightAt("b-31", now.Add(24*time.Hour+31*time.Minute))}
		s.scan(now)
		assert.Empty(t, drainReminders(s))
	})

	t.Run("EdgeOfBand", func(t *testing.T) {
		s.bookings = []*models.Booking{flightAt("b-30", now.Add(24*time.Hour+30*time.Minute))}
		s.scan(now)
		assert.Len(t, drainReminders(s), 1)
	})
}

func TestScanBandCrossingScenario(t *testing.T) {
	// Departure at now+24h05m: the first tick already sits inside the
	// ±30min band around the 24h mark, so the reminder fires at once.
	s := newScheduler()
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	s.bookings = []*models.Booking{flightAt("b-a", now.Add(24*time.Hour+5*time.Minute))}

	s.scan(now)
	got := drainReminders(s)
	require.Len(t, got, 1)
	assert.Equal(t, "b-a", got[0].BookingID)
}

func TestScanCarUsesPickupDate(t *testing.T) {
	s := newScheduler()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	s.bookings = []*models.Booking{{
		ID:   "car-1",
		Kind: models.KindCar,
		Item: models.ItemSnapshot{PickupDate: now.Add(24 * time.Hour).Format(time.RFC3339)},
	}}

	s.scan(now)
	got := drainReminders(s)
	require.Len(t, got, 1)
	assert.Equal(t, models.KindCar, got[0].Kind)
}

func TestScanSkipsMalformedBooking(t *testing.T) {
	s := newScheduler()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s.bookings = []*models.Booking{
		{ID: "bad", Kind: models.KindFlight, Item: models.ItemSnapshot{DepartureTime: "not-a-date"}},
		flightAt("good", now.Add(24*time.Hour)),
	}

	// The malformed entry must not halt the scan for the rest.
	s.scan(now)
	got := drainReminders(s)
	require.Len(t, got, 1)
	assert.Equal(t, "good", got[0].BookingID)
}

func TestSetBookingsReplacesSnapshot(t *testing.T) {
	s := newScheduler()

	s.SetBookings([]*models.Booking{{ID: "old"}})
	// An unconsumed snapshot is discarded by the next push.
	s.SetBookings([]*models.Booking{{ID: "new"}})

	snap := <-s.snapshots
	require.Len(t, snap, 1)
	assert.Equal(t, "new", snap[0].ID)
}

func TestSchedulerLifecycle(t *testing.T) {
	s := NewReminderScheduler(Config{
		Tick:      5 * time.Millisecond,
		Lead:      24 * time.Hour,
		Tolerance: 30 * time.Minute,
	}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx)
	s.SetBookings([]*models.Booking{flightAt("b-1", time.Now().Add(24*time.Hour))})

	select {
	case r := <-s.Reminders():
		assert.Equal(t, "b-1", r.BookingID)
	case <-time.After(2 * time.Second):
		t.Fatal("no reminder before timeout")
	}

	s.Stop()
	// Stop is idempotent and closes the outbound stream.
	s.Stop()

	select {
	case _, open := <-s.Reminders():
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("reminder channel not closed after Stop")
	}
}

func TestSchedulerDefaults(t *testing.T) {
	s := NewReminderScheduler(Config{}, testLogger())
	assert.Equal(t, models.DefaultReminderTick, s.cfg.Tick)
	assert.Equal(t, models.DefaultReminderLead, s.cfg.Lead)
	assert.Equal(t, models.DefaultReminderTolerance, s.cfg.Tolerance)
}
