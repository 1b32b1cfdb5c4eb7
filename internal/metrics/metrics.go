package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travelbook",
			Name:      "bookings_created_total",
			Help:      "Bookings added to the store, by kind.",
		},
		[]string{"kind"},
	)

	bookingsCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "travelbook",
			Name:      "bookings_cancelled_total",
			Help:      "Bookings cancelled.",
		},
	)

	rebookingsRequested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "travelbook",
			Name:      "rebookings_requested_total",
			Help:      "Rebooking requests accepted.",
		},
	)

	rebookingsConfirmed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "travelbook",
			Name:      "rebookings_confirmed_total",
			Help:      "Rebooking requests confirmed with a derived booking.",
		},
	)

	rebookingsRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "travelbook",
			Name:      "rebookings_rejected_total",
			Help:      "Rebooking requests rejected at confirmation time.",
		},
	)

	remindersFired = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travelbook",
			Name:      "reminders_fired_total",
			Help:      "Reminder events emitted by the scheduler, by kind.",
		},
		[]string{"kind"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			bookingsCreated,
			bookingsCancelled,
			rebookingsRequested,
			rebookingsConfirmed,
			rebookingsRejected,
			remindersFired,
		)
	})
}

func IncBookingCreated(kind string) { bookingsCreated.WithLabelValues(kind).Inc() }
func IncBookingCancelled()          { bookingsCancelled.Inc() }
func IncRebookingRequested()        { rebookingsRequested.Inc() }
func IncRebookingConfirmed()        { rebookingsConfirmed.Inc() }
func IncRebookingRejected()         { rebookingsRejected.Inc() }
func IncReminderFired(kind string)  { remindersFired.WithLabelValues(kind).Inc() }
