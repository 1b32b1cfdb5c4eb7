package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"travelbook/internal/config"
	"travelbook/internal/models"

	"github.com/redis/go-redis/v9"
)

const snapshotKey = "travelbook:snapshot"

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// RedisSnapshotStore keeps the application snapshot under a single key
// with a TTL, so a stale session eventually evaporates on its own.
type RedisSnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSnapshotStore(client *redis.Client, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client, ttl: ttl}
}

func (s *RedisSnapshotStore) Save(ctx context.Context, snap *models.Snapshot) error {
	if s.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := s.client.Set(ctx, snapshotKey, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot to redis: %w", err)
	}
	return nil
}

func (s *RedisSnapshotStore) Load(ctx context.Context) (*models.Snapshot, error) {
	if s.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}

	val, err := s.client.Get(ctx, snapshotKey).Result()
	if err == redis.Nil {
		return &models.Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot from redis: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
