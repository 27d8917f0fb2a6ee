package models

import "time"

// Episode is a normalized podcast episode with its computed popularity score.
// Instances are created by the trends package and are not mutated afterwards.
type Episode struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	AudioURL        string    `json:"audioUrl,omitempty"`
	PodcastTitle    string    `json:"podcastTitle"`
	PodcastID       string    `json:"podcastId"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	ThumbnailURL    string    `json:"thumbnailUrl,omitempty"`
	SourceURL       string    `json:"sourceUrl,omitempty"`
	ReleaseDate     time.Time `json:"releaseDate"`
	Explicit        bool      `json:"explicit"`
	PopularityScore int       `json:"popularityScore"`
}

// CategoryTrend holds the sampled episodes for one configured topic.
// It is replaced wholesale on every aggregation cycle.
type CategoryTrend struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Summary        string    `json:"summary"`
	SampleEpisodes []Episode `json:"sampleEpisodes"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// TrendSnapshot is the unit that gets cached and served: one CategoryTrend
// per configured topic, in configuration order.
type TrendSnapshot struct {
	GeneratedAt time.Time       `json:"generatedAt"`
	Categories  []CategoryTrend `json:"categories"`
}
