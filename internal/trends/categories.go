package trends

// Category is a fixed topical grouping configured at the aggregator level.
// Output order of a snapshot always follows the order of this list.
type Category struct {
	ID         string
	Name       string
	Summary    string
	SearchTerm string
}

var categories = []Category{
	{
		ID:         "technology",
		Name:       "テクノロジー",
		Summary:    "シリコンバレーの最新動向やAIトレンドを追うテック系人気番組から厳選。",
		SearchTerm: "technology",
	},
	{
		ID:         "news",
		Name:       "ニュース",
		Summary:    "米国内外で話題の政治・経済ニュースを深掘りするジャーナル番組。",
		SearchTerm: "us politics news",
	},
	{
		ID:         "business",
		Name:       "ビジネス",
		Summary:    "起業・マーケティング・戦略を扱うビジネスリーダー必聴の最新エピソード。",
		SearchTerm: "business leadership",
	},
	{
		ID:         "health_fitness",
		Name:       "ヘルス＆フィットネス",
		Summary:    "ウェルビーイングやメンタルヘルス、最新フィットネストレンドを学べる番組。",
		SearchTerm: "health fitness",
	},
	{
		ID:         "culture",
		Name:       "カルチャー",
		Summary:    "ポップカルチャーから社会問題まで、アメリカ文化を多角的に捉える番組を紹介。",
		SearchTerm: "society culture",
	},
}

// CategoryMeta is the display metadata exposed by the categories endpoint.
type CategoryMeta struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

// CategoryMetadata returns display metadata for all configured categories.
func CategoryMetadata() []CategoryMeta {
	meta := make([]CategoryMeta, 0, len(categories))
	for _, cat := range categories {
		meta = append(meta, CategoryMeta{ID: cat.ID, Name: cat.Name, Summary: cat.Summary})
	}
	return meta
}
