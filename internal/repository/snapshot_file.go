package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"travelbook/internal/models"

	"github.com/rs/zerolog"
)

// FileSnapshotStore persists the application snapshot as one JSON file.
// Load fails open: a missing or unparseable file yields an empty snapshot
// with a logged warning, never an error.
type FileSnapshotStore struct {
	path   string
	logger *zerolog.Logger
}

func NewFileSnapshotStore(path string, logger *zerolog.Logger) *FileSnapshotStore {
	return &FileSnapshotStore{path: path, logger: logger}
}

func (s *FileSnapshotStore) Save(ctx context.Context, snap *models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	// Write-then-rename so a crash mid-write never corrupts the snapshot.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (s *FileSnapshotStore) Load(ctx context.Context) (*models.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("snapshot unreadable, starting empty")
		}
		return &models.Snapshot{}, nil
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("snapshot corrupt, starting empty")
		return &models.Snapshot{}, nil
	}
	return &snap, nil
}
