package tts

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"podtrend/internal/models"
)

const maxDescriptionRunes = 600

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Release dates are announced in the podcast's home market timezone.
var narrationLocation = func() *time.Location {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// Translator turns English text into Japanese, degrading to marked source
// text rather than failing.
type Translator interface {
	ToJapanese(ctx context.Context, text string) string
}

func stripHTML(input string) string {
	out := tagPattern.ReplaceAllString(input, "")
	out = whitespacePattern.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// BuildScript assembles the Japanese narration script for an episode:
// podcast intro, translated title with release date, an optional content
// highlight, and a fixed closing line. The highlight line is omitted when
// the episode has no description.
func BuildScript(ctx context.Context, episode models.Episode, translator Translator) string {
	cleanDescription := truncateRunes(stripHTML(episode.Description), maxDescriptionRunes)

	var titleJP, descriptionJP string
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		titleJP = translator.ToJapanese(ctx, episode.Title)
	}()
	go func() {
		defer wg.Done()
		descriptionJP = translator.ToJapanese(ctx, cleanDescription)
	}()
	wg.Wait()

	releaseDateJP := formatJapaneseDate(episode.ReleaseDate.In(narrationLocation))

	lines := []string{
		fmt.Sprintf("こんにちは。アメリカの人気ポッドキャスト「%s」の注目エピソードをご紹介します。", episode.PodcastTitle),
		fmt.Sprintf("エピソードタイトルは「%s」。公開日は%sです。", titleJP, releaseDateJP),
	}
	if descriptionJP != "" {
		lines = append(lines, fmt.Sprintf("内容のハイライト: %s", descriptionJP))
	}
	lines = append(lines, "より詳しい内容は本編でお楽しみください。")

	return strings.Join(lines, "\n")
}

func formatJapaneseDate(t time.Time) string {
	return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day())
}
