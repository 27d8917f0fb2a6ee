package podchaser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"podtrend/internal/logger"
)

const defaultEndpoint = "https://api.podchaser.com/graphql"

// tokenSafetyWindow is subtracted from the issuer lifetime so we never
// present a token that is about to expire mid-request.
const tokenSafetyWindow = time.Minute

const accessTokenMutation = `
mutation RequestAccessToken($client_id: String!, $client_secret: String!) {
  requestAccessToken(
    input: {
      grant_type: CLIENT_CREDENTIALS
      client_id: $client_id
      client_secret: $client_secret
    }
  ) {
    access_token
    expires_in
    token_type
  }
}`

const discoverCategoryQuery = `
query DiscoverCategory(
  $searchTerm: String!
  $episodeCount: Int!
  $recentSince: DateTime
  $maxLengthRange: [RangeInput!]
) {
  podcasts(
    searchTerm: $searchTerm
    filters: { language: "en" }
    sort: { sortBy: DATE_OF_FIRST_EPISODE, direction: DESCENDING }
    first: 10
    page: 0
  ) {
    data {
      id
      title
      description
      imageUrl
      webUrl
      url
      ratingAverage
      ratingCount
      episodes(
        first: $episodeCount
        sort: { sortBy: AIR_DATE, direction: DESCENDING }
        filters: { airDate: { from: $recentSince }, length: $maxLengthRange }
      ) {
        data {
          id
          title
          description
          airDate
          audioUrl
          webUrl
          url
          imageUrl
          explicit
        }
      }
    }
  }
}`

// Episode is a raw catalog episode record.
type Episode struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	AirDate     string `json:"airDate"`
	AudioURL    string `json:"audioUrl"`
	WebURL      string `json:"webUrl"`
	URL         string `json:"url"`
	ImageURL    string `json:"imageUrl"`
	Explicit    bool   `json:"explicit"`
}

// Podcast is a raw catalog podcast record with its filtered episodes.
type Podcast struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	ImageURL      string   `json:"imageUrl"`
	WebURL        string   `json:"webUrl"`
	URL           string   `json:"url"`
	RatingAverage *float64 `json:"ratingAverage"`
	RatingCount   *int     `json:"ratingCount"`
	Episodes      struct {
		Data []Episode `json:"data"`
	} `json:"episodes"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// Client talks to the Podchaser GraphQL catalog. It owns the process-wide
// access-token cache: the token is refreshed on expiry and replaced
// wholesale, never returned past its safety-adjusted lifetime.
type Client struct {
	http         *resty.Client
	endpoint     string
	clientID     string
	clientSecret string
	now          func() time.Time

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the catalog endpoint, mainly for tests.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithClock overrides the clock used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a catalog client. Empty credentials are allowed; Token
// then fails with ErrMissingCredentials and the caller falls back.
func NewClient(clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		http:         resty.New().SetTimeout(30 * time.Second),
		endpoint:     defaultEndpoint,
		clientID:     clientID,
		clientSecret: clientSecret,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasCredentials reports whether live catalog access is possible at all.
func (c *Client) HasCredentials() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// Token returns the cached bearer token, refreshing it through the
// credential-exchange mutation when expired. No retries; the aggregator
// owns fallback behavior.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	if !c.HasCredentials() {
		return "", ErrMissingCredentials
	}

	data, err := c.execute(ctx, accessTokenMutation, map[string]any{
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
	}, "")
	if err != nil {
		return "", &AuthError{Message: err.Error()}
	}

	var result struct {
		RequestAccessToken *struct {
			AccessToken string `json:"access_token"`
			ExpiresIn   *int   `json:"expires_in"`
		} `json:"requestAccessToken"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", &AuthError{Message: err.Error()}
	}
	if result.RequestAccessToken == nil || result.RequestAccessToken.AccessToken == "" {
		return "", &AuthError{Message: "response missing access_token"}
	}

	expiresIn := 3600
	if result.RequestAccessToken.ExpiresIn != nil {
		expiresIn = *result.RequestAccessToken.ExpiresIn
	}

	c.token = result.RequestAccessToken.AccessToken
	c.tokenExpiry = c.now().Add(time.Duration(expiresIn)*time.Second - tokenSafetyWindow)

	return c.token, nil
}

// DiscoverCategory runs one filtered catalog query and returns the first
// podcast that has at least one episode matching the filters.
// maxDurationSeconds <= 0 means no length constraint.
func (c *Client) DiscoverCategory(ctx context.Context, searchTerm string, episodeLimit int, recentSince time.Time, maxDurationSeconds int, token string) (*Podcast, error) {
	variables := map[string]any{
		"searchTerm":   searchTerm,
		"episodeCount": episodeLimit,
		"recentSince":  recentSince.UTC().Format(time.RFC3339),
	}
	if maxDurationSeconds > 0 {
		variables["maxLengthRange"] = []map[string]int{{"max": maxDurationSeconds}}
	}

	data, err := c.execute(ctx, discoverCategoryQuery, variables, token)
	if err != nil {
		return nil, &QueryError{Message: err.Error()}
	}

	var result struct {
		Podcasts *struct {
			Data []Podcast `json:"data"`
		} `json:"podcasts"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &QueryError{Message: err.Error()}
	}

	var podcasts []Podcast
	if result.Podcasts != nil {
		podcasts = result.Podcasts.Data
	}
	for i := range podcasts {
		if len(podcasts[i].Episodes.Data) > 0 {
			return &podcasts[i], nil
		}
	}

	logger.Get().Warn().
		Str("search_term", searchTerm).
		Int("podcast_count", len(podcasts)).
		Int("max_duration_seconds", maxDurationSeconds).
		Msg("No episodes found within constraints")

	return nil, ErrNoEpisodes
}

// execute posts one GraphQL document and unwraps the {data, errors} envelope.
func (c *Client) execute(ctx context.Context, query string, variables map[string]any, token string) (json.RawMessage, error) {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"query":     query,
			"variables": variables,
		})
	if token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}

	resp, err := req.Post(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	var envelope graphQLEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("invalid response with status %d", resp.StatusCode())
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, gqlErr := range envelope.Errors {
			messages = append(messages, gqlErr.Message)
		}
		return nil, fmt.Errorf("%s", strings.Join(messages, ", "))
	}
	if resp.IsError() {
		return nil, fmt.Errorf("status %d", resp.StatusCode())
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil, fmt.Errorf("response missing data")
	}

	return envelope.Data, nil
}
