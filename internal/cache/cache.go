package cache

import (
	"context"
	"time"

	"podtrend/internal/models"
)

// KeyUnbounded is the cache slot used when no duration filter applies.
// Filtered requests use the filter value in seconds as their own slot.
const KeyUnbounded = -1

// SnapshotStore caches trend snapshots per duration-filter slot. A slot is
// never served past its expiry; forced refreshes bypass Get entirely and
// rewrite the slot through Set.
type SnapshotStore interface {
	Get(ctx context.Context, key int) (*models.TrendSnapshot, bool)
	Set(ctx context.Context, key int, snapshot *models.TrendSnapshot, ttl time.Duration) error
	Close() error
}
