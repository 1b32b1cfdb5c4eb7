package repository

import (
	"context"
	"testing"
	"time"

	"travelbook/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSnapshotStore(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	store := NewRedisSnapshotStore(client, time.Hour)
	ctx := context.Background()

	t.Run("SaveAndLoad", func(t *testing.T) {
		snap := &models.Snapshot{
			Bookings: []*models.Booking{{
				ID:     "b-1",
				Kind:   models.KindHotel,
				Status: models.StatusConfirmed,
			}},
			SavedAt: time.Now(),
		}

		require.NoError(t, store.Save(ctx, snap))

		got, err := store.Load(ctx)
		require.NoError(t, err)
		require.Len(t, got.Bookings, 1)
		assert.Equal(t, "b-1", got.Bookings[0].ID)
	})

	t.Run("LoadEmptyKey", func(t *testing.T) {
		s.FlushAll()
		got, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, got.Bookings)
	})

	t.Run("TTLSet", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, &models.Snapshot{}))
		assert.Greater(t, s.TTL(snapshotKey), time.Duration(0))
	})

	t.Run("CorruptValue", func(t *testing.T) {
		s.Set(snapshotKey, "{broken")
		_, err := store.Load(ctx)
		assert.Error(t, err)
	})
}

func TestRedisSnapshotStoreNilClient(t *testing.T) {
	store := NewRedisSnapshotStore(nil, time.Hour)
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, &models.Snapshot{}))
	_, err := store.Load(ctx)
	assert.Error(t, err)
}
