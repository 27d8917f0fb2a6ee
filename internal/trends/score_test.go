package trends

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podtrend/internal/podchaser"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestMapEpisodeScoreFormula(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	pod := &podchaser.Podcast{
		ID:            "pod-1",
		Title:         "The Daily Build",
		RatingAverage: floatPtr(3.0),
		RatingCount:   intPtr(1000),
	}
	ep := podchaser.Episode{
		ID:      "ep-1",
		Title:   "Release day",
		AirDate: now.Add(-10 * 24 * time.Hour).Format(time.RFC3339),
	}

	// recency 20, rating 24, bonus 2, base 20, no rank penalty.
	got := MapEpisode(ep, pod, 0, now)
	assert.Equal(t, 66, got.PopularityScore)

	// Same inputs at rank 2 lose 12 points.
	got = MapEpisode(ep, pod, 2, now)
	assert.Equal(t, 54, got.PopularityScore)
}

func TestMapEpisodeScoreBounds(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	// High everything clamps to 100.
	top := &podchaser.Podcast{RatingAverage: floatPtr(4.8), RatingCount: intPtr(100000)}
	fresh := podchaser.Episode{AirDate: now.Format(time.RFC3339)}
	assert.Equal(t, 100, MapEpisode(fresh, top, 0, now).PopularityScore)

	// A stale, unrated episode at the bottom of the list clamps to 10.
	flop := &podchaser.Podcast{RatingAverage: floatPtr(0), RatingCount: intPtr(0)}
	stale := podchaser.Episode{AirDate: now.Add(-100 * 24 * time.Hour).Format(time.RFC3339)}
	got := MapEpisode(stale, flop, 2, now)
	assert.Equal(t, 10, got.PopularityScore)
}

func TestMapEpisodeScoreAlwaysInRange(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	pods := []*podchaser.Podcast{
		{},
		{RatingAverage: floatPtr(0), RatingCount: intPtr(0)},
		{RatingAverage: floatPtr(5), RatingCount: intPtr(1 << 20)},
	}
	ages := []time.Duration{0, -72 * time.Hour, 24 * time.Hour, 365 * 24 * time.Hour}

	for _, pod := range pods {
		for _, age := range ages {
			for rank := 0; rank < 3; rank++ {
				ep := podchaser.Episode{AirDate: now.Add(-age).Format(time.RFC3339)}
				score := MapEpisode(ep, pod, rank, now).PopularityScore
				assert.GreaterOrEqual(t, score, 10)
				assert.LessOrEqual(t, score, 100)
			}
		}
	}
}

func TestMapEpisodeFutureReleaseScoresAsToday(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	pod := &podchaser.Podcast{RatingAverage: floatPtr(0), RatingCount: intPtr(0)}

	future := podchaser.Episode{AirDate: now.Add(48 * time.Hour).Format(time.RFC3339)}
	today := podchaser.Episode{AirDate: now.Format(time.RFC3339)}

	assert.Equal(t,
		MapEpisode(today, pod, 0, now).PopularityScore,
		MapEpisode(future, pod, 0, now).PopularityScore)
}

func TestMapEpisodeDeterministicUnderFrozenClock(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	pod := &podchaser.Podcast{
		ID:            "pod-9",
		Title:         "Frozen Clock FM",
		ImageURL:      "https://example.com/pod.jpg",
		RatingAverage: floatPtr(4.3),
		RatingCount:   intPtr(700),
	}
	ep := podchaser.Episode{
		ID:      "ep-9",
		Title:   "Determinism",
		AirDate: now.Add(-12 * 24 * time.Hour).Format(time.RFC3339),
		WebURL:  "https://example.com/ep",
	}

	first := MapEpisode(ep, pod, 1, now)
	second := MapEpisode(ep, pod, 1, now)
	assert.Equal(t, first, second)
}

func TestMapEpisodeFieldMapping(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	pod := &podchaser.Podcast{
		ID:       "pod-2",
		Title:    "Field Notes",
		ImageURL: "https://example.com/pod.jpg",
		URL:      "https://example.com/pod",
	}
	ep := podchaser.Episode{
		ID:          "ep-2",
		Title:       "Mapping",
		Description: "desc",
		AudioURL:    "https://example.com/a.mp3",
		AirDate:     "2026-01-20T08:00:00Z",
		Explicit:    true,
	}

	got := MapEpisode(ep, pod, 0, now)
	require.Equal(t, "ep-2", got.ID)
	assert.Equal(t, "Field Notes", got.PodcastTitle)
	assert.Equal(t, "pod-2", got.PodcastID)
	// Episode has no image; the podcast image backfills both slots.
	assert.Equal(t, "https://example.com/pod.jpg", got.ImageURL)
	assert.Equal(t, "https://example.com/pod.jpg", got.ThumbnailURL)
	// Episode carries no web link; the podcast URL is the last resort.
	assert.Equal(t, "https://example.com/pod", got.SourceURL)
	assert.True(t, got.Explicit)
	assert.Equal(t, time.Date(2026, 1, 20, 8, 0, 0, 0, time.UTC), got.ReleaseDate.UTC())
}
