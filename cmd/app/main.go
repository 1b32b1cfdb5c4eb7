package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travelbook/internal/config"
	"travelbook/internal/domain"
	"travelbook/internal/events"
	"travelbook/internal/export"
	"travelbook/internal/ledger"
	"travelbook/internal/logging"
	"travelbook/internal/metrics"
	"travelbook/internal/notify"
	"travelbook/internal/repository"
	"travelbook/internal/scheduler"
	"travelbook/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "config.yaml", "path to config file")
	exportBookings := flag.Bool("export-bookings", false, "write an Excel report of all bookings and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *exportBookings {
		return runExport(ctx, cfg, logger)
	}

	eventBus := events.NewEventBus()

	var auditLedger *ledger.Ledger
	if cfg.Ledger.Enabled {
		auditLedger, err = ledger.Open(cfg.Ledger.Path)
		if err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
		defer auditLedger.Close()
		auditLedger.Subscribe(eventBus)
	}

	snapshots := initSnapshotStore(cfg, logger)

	repo := repository.NewMemoryBookingRepository()
	relay := notify.NewRelay()

	// Restore the previous session; a missing or corrupt snapshot means
	// an empty start, never a refusal to boot.
	snap, err := snapshots.Load(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("snapshot restore failed, starting empty")
	} else {
		repo.Restore(snap)
		relay.Restore(snap.Notifications)
		logger.Info().Int("bookings", len(snap.Bookings)).
			Int("requests", len(snap.RebookingRequests)).
			Msg("state restored from snapshot")
	}

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		go serveMetrics(cfg.Monitoring.PrometheusPort, logger)
	}

	reminderScheduler := scheduler.NewReminderScheduler(scheduler.Config{
		Tick:      cfg.Booking.ReminderTick.Std(),
		Lead:      cfg.Booking.ReminderLead.Std(),
		Tolerance: cfg.Booking.ReminderTolerance.Std(),
	}, logger)

	bookingService := service.NewBookingService(repo, relay, eventBus, snapshots, reminderScheduler, service.Config{
		RebookingDelay: cfg.Booking.RebookingDelay.Std(),
		RefundSLADays:  cfg.Booking.RefundSLADays,
		RebookingRPS:   cfg.Booking.RebookingRPS,
		RebookingBurst: cfg.Booking.RebookingBurst,
	}, logger)
	defer bookingService.Close()

	reminderScheduler.Start(ctx)
	defer reminderScheduler.Stop()
	reminderScheduler.SetBookings(repo.ActiveBookings())

	go bookingService.ConsumeReminders(ctx, reminderScheduler.Reminders())

	if resumed := bookingService.ResumePending(); resumed > 0 {
		logger.Info().Int("requests", resumed).Msg("resumed pending rebooking confirmations")
	}

	logger.Info().Msg("travelbook started")
	<-ctx.Done()
	logger.Info().Msg("shutting down")

	// Final best-effort snapshot so the next session resumes cleanly.
	finalSnap := repo.Snapshot()
	finalSnap.Notifications = relay.Notifications()
	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := snapshots.Save(saveCtx, finalSnap); err != nil {
		logger.Error().Err(err).Msg("final snapshot save failed")
	}

	return nil
}

// runExport loads the last snapshot and writes an Excel report of every
// booking it contains, then exits without starting the service.
func runExport(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) error {
	snapshots := initSnapshotStore(cfg, logger)
	snap, err := snapshots.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	path, err := export.WriteBookingsReport(snap.Bookings, cfg.Exports.Path)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logger.Info().Str("path", path).Int("bookings", len(snap.Bookings)).Msg("bookings report written")
	return nil
}

func initSnapshotStore(cfg *config.Config, logger *zerolog.Logger) domain.SnapshotStore {
	fileStore := repository.NewFileSnapshotStore(cfg.Snapshot.Path, logger)
	if !cfg.Snapshot.RedisEnabled {
		return fileStore
	}

	client := repository.NewRedisClient(cfg.Redis)
	redisStore := repository.NewRedisSnapshotStore(client, cfg.Snapshot.RedisTTL.Std())
	return repository.NewFailoverSnapshotStore(redisStore, fileStore, logger)
}

func serveMetrics(port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", port)
	logger.Info().Str("addr", addr).Msg("metrics server listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
