package trends

import (
	"math"
	"time"

	"podtrend/internal/models"
	"podtrend/internal/podchaser"
)

// airDate values come back as ISO timestamps; some catalog records use a
// plain datetime without a zone.
var airDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// MapEpisode converts a raw catalog episode into a normalized Episode with
// its popularity score. rank is the episode's position within the sampled
// list; now is injected so scoring is deterministic under a frozen clock.
//
// The score combines release recency, the podcast's rating, a rating-count
// bonus, and a list-position penalty, clamped to [10, 100]:
//
//	recency  = max(0, 60 - daysSinceRelease*4)
//	rating   = ratingAverage(default 4) * 8
//	bonus    = min(20, ratingCount/500)
//	score    = round(recency + rating + bonus + 20 - rank*6)
func MapEpisode(ep podchaser.Episode, pod *podchaser.Podcast, rank int, now time.Time) models.Episode {
	releaseDate, hasAirDate := parseAirDate(ep.AirDate)
	airTime := now
	if hasAirDate {
		airTime = releaseDate
	} else {
		releaseDate = now
	}

	// Future-dated releases score as released today.
	daysSince := math.Max(0, now.Sub(airTime).Hours()/24)
	recency := math.Max(0, 60-daysSince*4)

	ratingAverage := 4.0
	if pod.RatingAverage != nil {
		ratingAverage = *pod.RatingAverage
	}
	ratingBase := ratingAverage * 8

	ratingCount := 0
	if pod.RatingCount != nil {
		ratingCount = *pod.RatingCount
	}
	countBonus := math.Min(20, float64(ratingCount)/500)

	raw := recency + ratingBase + countBonus + 20 - float64(rank*6)
	score := int(math.Max(10, math.Min(100, math.Round(raw))))

	imageURL := ep.ImageURL
	if imageURL == "" {
		imageURL = pod.ImageURL
	}

	return models.Episode{
		ID:              ep.ID,
		Title:           ep.Title,
		Description:     ep.Description,
		AudioURL:        ep.AudioURL,
		PodcastTitle:    pod.Title,
		PodcastID:       pod.ID,
		ImageURL:        imageURL,
		ThumbnailURL:    imageURL,
		SourceURL:       firstNonEmpty(ep.WebURL, ep.URL, pod.WebURL, pod.URL),
		ReleaseDate:     releaseDate,
		Explicit:        ep.Explicit,
		PopularityScore: score,
	}
}

func parseAirDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range airDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
