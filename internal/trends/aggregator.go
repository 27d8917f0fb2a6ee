package trends

import (
	"context"
	"errors"
	"sync"
	"time"

	"podtrend/internal/cache"
	"podtrend/internal/logger"
	"podtrend/internal/models"
	"podtrend/internal/podchaser"
)

// ErrEpisodeNotFound means the requested episode id is absent from the
// current snapshot.
var ErrEpisodeNotFound = errors.New("episode not found in current snapshot")

const (
	episodesPerCategory = 3
	recencyWindow       = 48 * time.Hour
)

// SnapshotOptions controls one snapshot request.
type SnapshotOptions struct {
	// ForceRefresh bypasses the cache and always recomputes the slot.
	ForceRefresh bool
	// MaxDurationSeconds restricts episode length; 0 means unbounded.
	MaxDurationSeconds int
}

// Aggregator builds trend snapshots by fanning out over the configured
// categories, substituting static fallback content on any failure, and
// caching results per duration-filter slot. It never fails outward:
// every catalog-side error degrades to fallback data.
type Aggregator struct {
	catalog *podchaser.Client
	store   cache.SnapshotStore
	ttl     time.Duration
	now     func() time.Time
}

// NewAggregator wires the aggregator to its catalog client and snapshot store.
func NewAggregator(catalog *podchaser.Client, store cache.SnapshotStore, ttl time.Duration) *Aggregator {
	return &Aggregator{
		catalog: catalog,
		store:   store,
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock overrides the aggregator clock, for tests.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

// Snapshot returns the trend snapshot for the requested duration filter,
// serving the cached slot when fresh and recomputing otherwise.
func (a *Aggregator) Snapshot(ctx context.Context, opts SnapshotOptions) *models.TrendSnapshot {
	key := cache.KeyUnbounded
	if opts.MaxDurationSeconds > 0 {
		key = opts.MaxDurationSeconds
	}

	if !opts.ForceRefresh {
		if snapshot, ok := a.store.Get(ctx, key); ok {
			return snapshot
		}
	}

	now := a.now()

	if !a.catalog.HasCredentials() {
		logger.Get().Warn().Msg("Podchaser credentials missing; serving fallback trend snapshot")
		return a.finish(ctx, key, fallbackSnapshot(now))
	}

	token, err := a.catalog.Token(ctx)
	if err != nil {
		logger.Get().Warn().Err(err).Msg("Falling back to sample data due to Podchaser token error")
		return a.finish(ctx, key, fallbackSnapshot(now))
	}

	// Fire-and-forget fan-out over all categories, joined by a single
	// barrier. Output order stays fixed to configuration order.
	results := make([]models.CategoryTrend, len(categories))
	var wg sync.WaitGroup
	for i, cat := range categories {
		wg.Add(1)
		go func(i int, cat Category) {
			defer wg.Done()
			results[i] = a.buildCategory(ctx, cat, token, opts.MaxDurationSeconds)
		}(i, cat)
	}
	wg.Wait()

	return a.finish(ctx, key, &models.TrendSnapshot{
		GeneratedAt: now,
		Categories:  results,
	})
}

// buildCategory fetches and scores one category. Any failure, including
// no matching episodes, substitutes the category's static fallback entry
// so a single category can never fail the whole snapshot.
func (a *Aggregator) buildCategory(ctx context.Context, cat Category, token string, maxDurationSeconds int) models.CategoryTrend {
	now := a.now()

	podcast, err := a.catalog.DiscoverCategory(ctx, cat.SearchTerm, episodesPerCategory, now.Add(-recencyWindow), maxDurationSeconds, token)
	if err != nil {
		if !errors.Is(err, podchaser.ErrNoEpisodes) {
			logger.Get().Warn().Err(err).Str("category", cat.ID).Msg("Failed to fetch Podchaser data")
		}
		return fallbackCategory(cat.ID, now)
	}

	raw := podcast.Episodes.Data
	if len(raw) > episodesPerCategory {
		raw = raw[:episodesPerCategory]
	}

	episodes := make([]models.Episode, 0, len(raw))
	for i, ep := range raw {
		episodes = append(episodes, MapEpisode(ep, podcast, i, now))
	}

	return models.CategoryTrend{
		ID:             cat.ID,
		Name:           cat.Name,
		Summary:        cat.Summary,
		SampleEpisodes: episodes,
		UpdatedAt:      now,
	}
}

// finish writes the computed snapshot into its cache slot before returning it.
func (a *Aggregator) finish(ctx context.Context, key int, snapshot *models.TrendSnapshot) *models.TrendSnapshot {
	if err := a.store.Set(ctx, key, snapshot, a.ttl); err != nil {
		logger.Get().Warn().Err(err).Int("slot", key).Msg("Failed to cache trend snapshot")
	}
	return snapshot
}

// FindEpisode scans the (possibly cached) snapshot for an episode id and
// returns it with its owning category.
func (a *Aggregator) FindEpisode(ctx context.Context, episodeID string, opts SnapshotOptions) (models.Episode, models.CategoryTrend, error) {
	snapshot := a.Snapshot(ctx, opts)

	for _, category := range snapshot.Categories {
		for _, episode := range category.SampleEpisodes {
			if episode.ID == episodeID {
				return episode, category, nil
			}
		}
	}

	return models.Episode{}, models.CategoryTrend{}, ErrEpisodeNotFound
}
