package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"podtrend/internal/logger"
	"podtrend/internal/models"
)

// RedisStore keeps snapshot slots in Redis so the cache survives restarts
// and is shared between replicas. Expiry uses Redis' native TTL, which
// matches the slot rules exactly: an expired slot simply stops existing.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(url, prefix string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client: client,
		prefix: prefix,
	}, nil
}

func (r *RedisStore) key(slot int) string {
	return fmt.Sprintf("%ssnapshot:%d", r.prefix, slot)
}

func (r *RedisStore) Get(ctx context.Context, slot int) (*models.TrendSnapshot, bool) {
	data, err := r.client.Get(ctx, r.key(slot)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Get().Warn().Err(err).Int("slot", slot).Msg("Redis snapshot read failed")
		}
		return nil, false
	}

	var snapshot models.TrendSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		logger.Get().Warn().Err(err).Int("slot", slot).Msg("Corrupt snapshot entry in Redis")
		return nil, false
	}
	return &snapshot, true
}

func (r *RedisStore) Set(ctx context.Context, slot int, snapshot *models.TrendSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := r.client.Set(ctx, r.key(slot), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
