package tts

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podtrend/internal/models"
)

type stubTranslator struct {
	fn func(text string) string
}

func (s stubTranslator) ToJapanese(_ context.Context, text string) string {
	return s.fn(text)
}

func identityTranslator() stubTranslator {
	return stubTranslator{fn: func(text string) string { return text }}
}

func TestBuildScriptTemplate(t *testing.T) {
	episode := models.Episode{
		Title:        "The Future of Batteries",
		Description:  "<p>Deep dive into <b>solid state</b> cells.</p>",
		PodcastTitle: "Tech Tomorrow",
		ReleaseDate:  time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}

	script := BuildScript(context.Background(), episode, identityTranslator())
	lines := strings.Split(script, "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "こんにちは。アメリカの人気ポッドキャスト「Tech Tomorrow」の注目エピソードをご紹介します。", lines[0])
	assert.Equal(t, "エピソードタイトルは「The Future of Batteries」。公開日は2026年3月15日です。", lines[1])
	assert.Equal(t, "内容のハイライト: Deep dive into solid state cells.", lines[2])
	assert.Equal(t, "より詳しい内容は本編でお楽しみください。", lines[3])
}

func TestBuildScriptOmitsHighlightWithoutDescription(t *testing.T) {
	episode := models.Episode{
		Title:        "Silent Episode",
		PodcastTitle: "Quiet Hours",
		ReleaseDate:  time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}

	script := BuildScript(context.Background(), episode, identityTranslator())
	lines := strings.Split(script, "\n")
	require.Len(t, lines, 3)
	assert.NotContains(t, script, "内容のハイライト")
}

func TestBuildScriptTruncatesDescription(t *testing.T) {
	var translated string
	translator := stubTranslator{fn: func(text string) string {
		if len(text) > len("Long Episode") {
			translated = text
		}
		return text
	}}

	episode := models.Episode{
		Title:        "Long Episode",
		Description:  strings.Repeat("a", 900),
		PodcastTitle: "Marathon FM",
		ReleaseDate:  time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}

	BuildScript(context.Background(), episode, translator)
	assert.Len(t, translated, maxDescriptionRunes)
}

func TestBuildScriptFormatsDateInPacificTime(t *testing.T) {
	// 03:00 UTC is still the previous evening on the US west coast.
	episode := models.Episode{
		Title:        "Midnight Release",
		PodcastTitle: "Night Owls",
		ReleaseDate:  time.Date(2026, 7, 10, 3, 0, 0, 0, time.UTC),
	}

	script := BuildScript(context.Background(), episode, identityTranslator())
	assert.Contains(t, script, "公開日は2026年7月9日です。")
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "plain text here", stripHTML("  <div>plain\n<span>text</span>\t here</div> "))
	assert.Equal(t, "", stripHTML("<br/><img src='x'/>"))
}
