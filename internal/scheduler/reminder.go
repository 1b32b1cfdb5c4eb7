package scheduler

import (
	"context"
	"sync"
	"time"

	"travelbook/internal/models"

	"github.com/rs/zerolog"
)

// Config carries the reminder policy. Zero fields fall back to the
// documented defaults (60s tick, 24h lead, 30min tolerance).
type Config struct {
	Tick      time.Duration
	Lead      time.Duration
	Tolerance time.Duration
}

// ReminderScheduler watches a privately-held snapshot of bookings on its
// own clock and emits at most one reminder per booking per scheduler
// lifetime, when the booking's start time crosses the lead window.
//
// It never touches the live store: the foreground pushes replacement
// snapshots through SetBookings, and reminders flow back over a one-way
// channel. Hotel and product bookings fall back to their purchase
// timestamp for reminder timing; a known limitation kept on purpose.
type ReminderScheduler struct {
	cfg    Config
	logger *zerolog.Logger

	snapshots chan []*models.Booking
	reminders chan models.Reminder
	stop      chan struct{}
	stopOnce  sync.Once

	// owned by the run goroutine
	bookings []*models.Booking
	notified map[string]struct{}
}

func NewReminderScheduler(cfg Config, logger *zerolog.Logger) *ReminderScheduler {
	if cfg.Tick <= 0 {
		cfg.Tick = models.DefaultReminderTick
	}
	if cfg.Lead <= 0 {
		cfg.Lead = models.DefaultReminderLead
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = models.DefaultReminderTolerance
	}

	return &ReminderScheduler{
		cfg:       cfg,
		logger:    logger,
		snapshots: make(chan []*models.Booking, 1),
		reminders: make(chan models.Reminder, 64),
		stop:      make(chan struct{}),
		notified:  make(map[string]struct{}),
	}
}

// Reminders is the outbound event stream. It is closed when the
// scheduler shuts down.
func (s *ReminderScheduler) Reminders() <-chan models.Reminder {
	return s.reminders
}

// SetBookings replaces the scheduler's entire working snapshot. The push
// never blocks: an unconsumed older snapshot is discarded first.
func (s *ReminderScheduler) SetBookings(bookings []*models.Booking) {
	for {
		select {
		case s.snapshots <- bookings:
			return
		default:
			select {
			case <-s.snapshots:
			default:
			}
		}
	}
}

// Start launches the background loop. The loop ends on Stop or when ctx
// is cancelled.
func (s *ReminderScheduler) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *ReminderScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *ReminderScheduler) run(ctx context.Context) {
	defer close(s.reminders)

	ticker := time.NewTicker(s.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case snap := <-s.snapshots:
			s.bookings = snap
		case now := <-ticker.C:
			s.scan(now)
		}
	}
}

// scan fires a reminder for every booking whose start time sits within
// the tolerance band around now+lead and that has not fired before. A
// booking with malformed dates is skipped for this tick only; one bad
// entry never halts the rest of the scan.
func (s *ReminderScheduler) scan(now time.Time) {
	target := now.Add(s.cfg.Lead)

	for _, b := range s.bookings {
		if _, done := s.notified[b.ID]; done {
			continue
		}

		start, err := b.StartTime()
		if err != nil {
			s.logger.Warn().Err(err).Str("booking_id", b.ID).Str("kind", b.Kind).
				Msg("skipping booking with malformed start time")
			continue
		}

		diff := start.Sub(target)
		if diff < 0 {
			diff = -diff
		}
		if diff > s.cfg.Tolerance {
			continue
		}

		s.notified[b.ID] = struct{}{}
		select {
		case s.reminders <- models.Reminder{BookingID: b.ID, Kind: b.Kind}:
		default:
			s.logger.Warn().Str("booking_id", b.ID).Msg("reminder channel full, event dropped")
		}
	}
}
