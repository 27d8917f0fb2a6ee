package trends

import (
	"fmt"
	"time"

	"podtrend/internal/models"
)

const fallbackDescription = "Podchaser APIの認証情報が未設定、または直近48時間に該当カテゴリでエピソードが見つからなかったため、サンプルデータを表示しています。環境変数にAPIキーを追加し、条件を満たす番組があると最新トレンドが取得されます。"

// fallbackSnapshot synthesizes the static sample snapshot served when live
// catalog data is unavailable. Episode ids follow `<categoryId>-ep-1`.
func fallbackSnapshot(now time.Time) *models.TrendSnapshot {
	snapshot := &models.TrendSnapshot{
		GeneratedAt: now,
		Categories:  make([]models.CategoryTrend, 0, len(categories)),
	}
	for i, cat := range categories {
		snapshot.Categories = append(snapshot.Categories, models.CategoryTrend{
			ID:        cat.ID,
			Name:      cat.Name,
			Summary:   cat.Summary,
			UpdatedAt: now,
			SampleEpisodes: []models.Episode{
				{
					ID:              fmt.Sprintf("%s-ep-1", cat.ID),
					Title:           "サンプルエピソード 1",
					Description:     fallbackDescription,
					PodcastTitle:    fmt.Sprintf("デモポッドキャスト %d", i+1),
					PodcastID:       fmt.Sprintf("%s-podcast", cat.ID),
					ReleaseDate:     now.Add(-time.Duration(i) * 24 * time.Hour),
					Explicit:        false,
					PopularityScore: 50 + i*5,
				},
			},
		})
	}
	return snapshot
}

// fallbackCategory returns the static entry for one category, stamped with
// the current time.
func fallbackCategory(categoryID string, now time.Time) models.CategoryTrend {
	snapshot := fallbackSnapshot(now)
	for _, cat := range snapshot.Categories {
		if cat.ID == categoryID {
			return cat
		}
	}
	// The category list is fixed, so this only happens on a programming error.
	panic(fmt.Sprintf("fallback data missing for category %s", categoryID))
}
