package repository

import (
	"context"
	"sync/atomic"
	"time"

	"travelbook/internal/domain"
	"travelbook/internal/models"

	"github.com/rs/zerolog"
)

// FailoverSnapshotStore prefers the primary store and falls back to the
// secondary when the primary errors, probing the primary again after a
// minute.
type FailoverSnapshotStore struct {
	primary   domain.SnapshotStore
	fallback  domain.SnapshotStore
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverSnapshotStore(primary, fallback domain.SnapshotStore, logger *zerolog.Logger) *FailoverSnapshotStore {
	return &FailoverSnapshotStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (s *FailoverSnapshotStore) markDown(err error) {
	s.logger.Error().Err(err).Msg("primary snapshot store failed, falling back")
	s.isDown.Store(true)
	s.lastCheck.Store(time.Now().UnixNano())
}

func (s *FailoverSnapshotStore) shouldProbe() bool {
	return time.Since(time.Unix(0, s.lastCheck.Load())) > time.Minute
}

func (s *FailoverSnapshotStore) Save(ctx context.Context, snap *models.Snapshot) error {
	if !s.isDown.Load() || s.shouldProbe() {
		err := s.primary.Save(ctx, snap)
		if err == nil {
			s.isDown.Store(false)
			// Keep the fallback warm so a later primary outage still
			// has a recent snapshot to restore from.
			if ferr := s.fallback.Save(ctx, snap); ferr != nil {
				s.logger.Warn().Err(ferr).Msg("fallback snapshot save failed")
			}
			return nil
		}
		s.markDown(err)
	}

	return s.fallback.Save(ctx, snap)
}

func (s *FailoverSnapshotStore) Load(ctx context.Context) (*models.Snapshot, error) {
	if !s.isDown.Load() || s.shouldProbe() {
		snap, err := s.primary.Load(ctx)
		if err == nil {
			s.isDown.Store(false)
			return snap, nil
		}
		s.markDown(err)
	}

	return s.fallback.Load(ctx)
}
