package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"travelbook/internal/domain"
	"travelbook/internal/events"
	"travelbook/internal/metrics"
	"travelbook/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const dateLayout = "2006-01-02"

// Config carries the lifecycle policy values for the service.
type Config struct {
	RebookingDelay time.Duration
	RefundSLADays  int
	RebookingRPS   float64
	RebookingBurst int
}

// BookingService owns the mutation paths of the booking store and runs
// the rebooking workflow. Every mutation pushes a fresh snapshot to the
// persistence store and the reminder scheduler.
type BookingService struct {
	repo      domain.BookingRepository
	notifier  domain.Notifier
	eventBus  domain.EventPublisher
	snapshots domain.SnapshotStore
	sink      domain.BookingSink
	limiter   *rate.Limiter
	cfg       Config
	logger    *zerolog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

func NewBookingService(
	repo domain.BookingRepository,
	notifier domain.Notifier,
	eventBus domain.EventPublisher,
	snapshots domain.SnapshotStore,
	sink domain.BookingSink,
	cfg Config,
	logger *zerolog.Logger,
) *BookingService {
	if cfg.RebookingDelay <= 0 {
		cfg.RebookingDelay = models.DefaultRebookingDelay
	}
	if cfg.RefundSLADays <= 0 {
		cfg.RefundSLADays = models.DefaultRefundSLADays
	}
	if cfg.RebookingRPS <= 0 {
		cfg.RebookingRPS = models.DefaultRebookingRateLimit
	}
	if cfg.RebookingBurst <= 0 {
		cfg.RebookingBurst = models.DefaultRebookingRateBurst
	}

	return &BookingService{
		repo:      repo,
		notifier:  notifier,
		eventBus:  eventBus,
		snapshots: snapshots,
		sink:      sink,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RebookingRPS), cfg.RebookingBurst),
		cfg:       cfg,
		logger:    logger,
		timers:    make(map[string]*time.Timer),
	}
}

// AddBooking stores a fully-formed booking. The caller computes the total
// and decides the status; a missing id is filled in. Callers emit their
// own success notification.
func (s *BookingService) AddBooking(ctx context.Context, booking *models.Booking) {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.BookingDate.IsZero() {
		booking.BookingDate = time.Now()
	}

	s.repo.AddBooking(booking)
	s.publishBookingEvent(events.EventBookingCreated, booking, "", "")
	metrics.IncBookingCreated(booking.Kind)
	s.sync(ctx)
}

// CancelBooking is idempotent: cancelling an unknown or already-cancelled
// booking changes nothing and emits nothing.
func (s *BookingService) CancelBooking(ctx context.Context, id string) {
	if !s.repo.CancelBooking(id) {
		return
	}

	s.notifier.Notify(
		fmt.Sprintf("Booking cancelled. Your refund will be processed within %d business days.", s.cfg.RefundSLADays),
		models.SeverityInfo,
	)

	if booking, ok := s.repo.GetBooking(id); ok {
		s.publishBookingEvent(events.EventBookingCancelled, booking, "", "")
	}
	metrics.IncBookingCancelled()
	s.sync(ctx)
}

// RequestRebooking validates and records a rebooking request, then arms a
// one-shot confirmation that fires after the configured delay. The
// returned request is in status pending.
func (s *BookingService) RequestRebooking(ctx context.Context, originalID, newDate string) (*models.RebookingRequest, error) {
	parsed, err := time.Parse(dateLayout, newDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDate, newDate)
	}

	today, _ := time.Parse(dateLayout, time.Now().Format(dateLayout))
	if parsed.Before(today) {
		return nil, fmt.Errorf("%w: %s is before today", domain.ErrInvalidDate, newDate)
	}

	if !s.limiter.Allow() {
		return nil, domain.ErrRateLimited
	}

	original, ok := s.repo.GetBooking(originalID)
	if !ok || !original.Active() {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, originalID)
	}

	req := &models.RebookingRequest{
		ID:                uuid.NewString(),
		OriginalBookingID: original.ID,
		NewDate:           newDate,
		Status:            models.RequestPending,
		RequestedAt:       time.Now(),
	}
	s.repo.AddRebookingRequest(req)

	s.notifier.Notify("Rebooking request submitted. You will be notified once it is confirmed.", models.SeverityInfo)
	s.publishBookingEvent(events.EventRebookingRequested, original, req.ID, newDate)
	metrics.IncRebookingRequested()
	s.sync(ctx)

	s.armConfirmation(req.ID)
	return req, nil
}

func (s *BookingService) armConfirmation(requestID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.timers[requestID] = time.AfterFunc(s.cfg.RebookingDelay, func() {
		s.confirmRebooking(requestID)
	})
}

// confirmRebooking is the delayed second phase of the workflow. It
// re-checks that the original booking is still active: a rebooking
// confirmed against a cancelled original would otherwise resurrect it.
func (s *BookingService) confirmRebooking(requestID string) {
	s.mu.Lock()
	delete(s.timers, requestID)
	s.mu.Unlock()

	ctx := context.Background()
	now := time.Now()

	req, ok := s.repo.GetRebookingRequest(requestID)
	if !ok || req.Status != models.RequestPending {
		return
	}

	original, ok := s.repo.GetBooking(req.OriginalBookingID)
	if !ok || !original.Active() {
		if !s.repo.UpdateRebookingRequestStatus(requestID, models.RequestRejected, now) {
			return
		}
		s.notifier.Notify("Rebooking could not be processed: the original booking is no longer active.", models.SeverityWarning)
		s.publishRequestEvent(events.EventRebookingRejected, req, "original booking cancelled")
		metrics.IncRebookingRejected()
		s.sync(ctx)
		return
	}

	if !s.repo.UpdateRebookingRequestStatus(requestID, models.RequestConfirmed, now) {
		return
	}

	newDate, err := time.Parse(dateLayout, req.NewDate)
	if err != nil {
		// Validated at request time; reaching this means a restored
		// snapshot carried a bad date. Leave the request confirmed and
		// refuse to derive a booking from garbage.
		s.logger.Error().Err(err).Str("request_id", requestID).Msg("stored rebooking date unparseable")
		return
	}

	// The derived booking's bookingDate is overwritten with the requested
	// date; the original keeps its own and both stay in the store.
	derived := &models.Booking{
		ID:                uuid.NewString(),
		Kind:              original.Kind,
		Item:              original.Item,
		BookingDate:       newDate,
		TotalAmount:       original.TotalAmount,
		Status:            models.StatusConfirmed,
		OriginalBookingID: original.ID,
		IsRebooked:        true,
		RebookedFrom:      original.BookingDate.Format(dateLayout),
		RebookedTo:        req.NewDate,
	}
	s.repo.AddBooking(derived)

	s.notifier.Notify(
		fmt.Sprintf("Rebooking confirmed! Your new booking is scheduled for %s.", req.NewDate),
		models.SeveritySuccess,
	)
	s.publishBookingEvent(events.EventRebookingConfirmed, derived, req.ID, req.NewDate)
	metrics.IncRebookingConfirmed()
	metrics.IncBookingCreated(derived.Kind)
	s.sync(ctx)
}

// ConsumeReminders turns scheduler events into user-facing notifications.
// It returns when ctx is cancelled or the channel closes.
func (s *BookingService) ConsumeReminders(ctx context.Context, reminders <-chan models.Reminder) {
	for {
		select {
		case <-ctx.Done():
			return
		case r, ok := <-reminders:
			if !ok {
				return
			}
			s.notifier.Notify("Reminder: You have a booking in about 24 hours. Please review your itinerary.", models.SeverityWarning)
			if booking, found := s.repo.GetBooking(r.BookingID); found {
				s.publishBookingEvent(events.EventReminderFired, booking, "", "")
			}
			metrics.IncReminderFired(r.Kind)
			s.sync(ctx)
		}
	}
}

// Close stops every armed confirmation timer. Requests left pending are
// picked up from the snapshot on the next start.
func (s *BookingService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

// ResumePending re-arms confirmation timers for requests restored from a
// snapshot in status pending, so a restart does not strand them.
func (s *BookingService) ResumePending() int {
	resumed := 0
	for _, req := range s.repo.RebookingRequests() {
		if req.Status == models.RequestPending {
			s.armConfirmation(req.ID)
			resumed++
		}
	}
	return resumed
}

// sync persists the full application state and pushes the active booking
// set to the reminder scheduler. Persistence failures are logged, never
// surfaced: snapshotting is best effort.
func (s *BookingService) sync(ctx context.Context) {
	if s.sink != nil {
		s.sink.SetBookings(s.repo.ActiveBookings())
	}

	if s.snapshots == nil {
		return
	}
	snap := s.repo.Snapshot()
	snap.Notifications = s.notifier.Notifications()
	if err := s.snapshots.Save(ctx, snap); err != nil {
		s.logger.Error().Err(err).Msg("snapshot save failed")
	}
}

func (s *BookingService) publishBookingEvent(eventType string, booking *models.Booking, requestID, newDate string) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:         booking.ID,
		Kind:              booking.Kind,
		Status:            booking.Status,
		TotalAmount:       booking.TotalAmount,
		BookingDate:       booking.BookingDate,
		OriginalBookingID: booking.OriginalBookingID,
		RequestID:         requestID,
		NewDate:           newDate,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingService) publishRequestEvent(eventType string, req *models.RebookingRequest, reason string) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: req.OriginalBookingID,
		RequestID: req.ID,
		NewDate:   req.NewDate,
		Reason:    reason,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("request_id", req.ID).Msg("publish event error")
	}
}
