package translate

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"podtrend/internal/logger"
)

// fallbackPrefix marks text that could not be translated and is passed
// through in its source language.
const fallbackPrefix = "英語原文: "

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// Client calls a LibreTranslate-compatible endpoint. Translation failures
// never propagate: the caller always gets usable text back.
type Client struct {
	http     *resty.Client
	endpoint string
	apiKey   string
}

// NewClient creates a translation client for the given endpoint.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		http:     resty.New().SetTimeout(20 * time.Second),
		endpoint: endpoint,
		apiKey:   apiKey,
	}
}

// ToJapanese translates English text to Japanese. On any failure the source
// text is returned prefixed with a fixed marker. Empty input stays empty.
func (c *Client) ToJapanese(ctx context.Context, input string) string {
	text := strings.TrimSpace(input)
	if text == "" {
		return ""
	}

	var result translateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(translateRequest{
			Q:      text,
			Source: "en",
			Target: "ja",
			Format: "text",
			APIKey: c.apiKey,
		}).
		SetResult(&result).
		Post(c.endpoint)

	switch {
	case err != nil:
		logger.Get().Warn().Err(err).Msg("Translation failed, falling back to original text")
	case resp.IsError():
		logger.Get().Warn().Int("status", resp.StatusCode()).Msg("Translation failed, falling back to original text")
	case result.TranslatedText != "":
		return result.TranslatedText
	}

	return fallbackPrefix + text
}
