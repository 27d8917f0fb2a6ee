package tts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"podtrend/internal/logger"
)

const (
	defaultLiveEndpoint = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"
	defaultModel        = "models/gemini-2.5-flash-native-audio-preview-09-2025"
)

// sessionState tracks the duplex streaming session through its lifecycle:
// Connecting -> Sending -> Streaming -> Completing -> Done | Failed.
type sessionState int

const (
	stateConnecting sessionState = iota
	stateSending
	stateStreaming
	stateCompleting
	stateDone
	stateFailed
)

func (s sessionState) String() string {
	switch s {
	case stateConnecting:
		return "connecting"
	case stateSending:
		return "sending"
	case stateStreaming:
		return "streaming"
	case stateCompleting:
		return "completing"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	}
	return "unknown"
}

// completionLatch honors exactly one resolution; anything after the first
// is ignored.
type completionLatch struct {
	once sync.Once
	done chan struct{}
	err  error
}

func newCompletionLatch() *completionLatch {
	return &completionLatch{done: make(chan struct{})}
}

func (l *completionLatch) resolve(err error) {
	l.once.Do(func() {
		l.err = err
		close(l.done)
	})
}

// Outbound wire messages.

type setupMessage struct {
	Setup setupPayload `json:"setup"`
}

type setupPayload struct {
	Model            string            `json:"model"`
	GenerationConfig generationConfig  `json:"generationConfig"`
	ContextWindow    *windowCompaction `json:"contextWindowCompression,omitempty"`
}

type generationConfig struct {
	ResponseModalities []string     `json:"responseModalities"`
	MediaResolution    string       `json:"mediaResolution"`
	SpeechConfig       speechConfig `json:"speechConfig"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type windowCompaction struct {
	TriggerTokens string        `json:"triggerTokens"`
	SlidingWindow slidingWindow `json:"slidingWindow"`
}

type slidingWindow struct {
	TargetTokens string `json:"targetTokens"`
}

type clientContentMessage struct {
	ClientContent clientContent `json:"clientContent"`
}

type clientContent struct {
	Turns        []contentTurn `json:"turns"`
	TurnComplete bool          `json:"turnComplete"`
}

type contentTurn struct {
	Role  string        `json:"role"`
	Parts []contentPart `json:"parts"`
}

type contentPart struct {
	Text string `json:"text"`
}

// Inbound wire messages.

type serverMessage struct {
	SetupComplete *struct{}      `json:"setupComplete"`
	ServerContent *serverContent `json:"serverContent"`
	Error         *serverError   `json:"error"`
}

type serverContent struct {
	ModelTurn    *modelTurn `json:"modelTurn"`
	TurnComplete bool       `json:"turnComplete"`
}

type modelTurn struct {
	Parts []serverPart `json:"parts"`
}

type serverPart struct {
	InlineData *inlineData `json:"inlineData"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type serverError struct {
	Message string `json:"message"`
}

// LiveClient runs duplex speech-generation sessions against the Gemini
// Live API.
type LiveClient struct {
	apiKey   string
	endpoint string
	model    string
	voice    string
	timeout  time.Duration
	dialer   *websocket.Dialer
}

// LiveOption configures a LiveClient.
type LiveOption func(*LiveClient)

// WithLiveEndpoint overrides the provider endpoint, mainly for tests.
func WithLiveEndpoint(endpoint string) LiveOption {
	return func(c *LiveClient) { c.endpoint = endpoint }
}

// NewLiveClient creates a speech-generation client.
func NewLiveClient(apiKey, voice string, timeout time.Duration, opts ...LiveOption) *LiveClient {
	if voice == "" {
		voice = "Zephyr"
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	c := &LiveClient{
		apiKey:   apiKey,
		endpoint: defaultLiveEndpoint,
		model:    defaultModel,
		voice:    voice,
		timeout:  timeout,
		dialer:   &websocket.Dialer{HandshakeTimeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *LiveClient) sessionURL() string {
	return c.endpoint + "?key=" + url.QueryEscape(c.apiKey)
}

// streamResult carries what the reader accumulated during the session.
type streamResult struct {
	fragments []string
	mimeType  string
	state     sessionState
}

// Stream opens a duplex session, sends the script as the sole turn, and
// accumulates inline audio fragments until the provider signals turn
// completion. The session is closed on every exit path, and only the
// first resolution (success, provider error, or closure) is honored.
func (c *LiveClient) Stream(ctx context.Context, script string) ([]string, string, error) {
	if c.apiKey == "" {
		return nil, "", ErrMissingAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, resp, err := c.dialer.DialContext(ctx, c.sessionURL(), nil)
	if err != nil {
		if resp != nil {
			return nil, "", fmt.Errorf("speech session connect failed with status %d: %w", resp.StatusCode, err)
		}
		return nil, "", fmt.Errorf("speech session connect failed: %w", err)
	}
	defer conn.Close()

	setup := setupMessage{
		Setup: setupPayload{
			Model: c.model,
			GenerationConfig: generationConfig{
				ResponseModalities: []string{"AUDIO"},
				MediaResolution:    "MEDIA_RESOLUTION_MEDIUM",
				SpeechConfig: speechConfig{
					VoiceConfig: voiceConfig{
						PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: c.voice},
					},
				},
			},
			ContextWindow: &windowCompaction{
				TriggerTokens: "25600",
				SlidingWindow: slidingWindow{TargetTokens: "12800"},
			},
		},
	}
	if err := conn.WriteJSON(setup); err != nil {
		return nil, "", fmt.Errorf("failed to send session setup: %w", err)
	}

	// Send and receive interleave from here on; the script goes out as
	// the sole turn while the reader drains inbound messages.
	content := clientContentMessage{
		ClientContent: clientContent{
			Turns: []contentTurn{{
				Role:  "user",
				Parts: []contentPart{{Text: script}},
			}},
			TurnComplete: true,
		},
	}
	if err := conn.WriteJSON(content); err != nil {
		return nil, "", fmt.Errorf("failed to send narration turn: %w", err)
	}

	result := &streamResult{state: stateStreaming}
	latch := newCompletionLatch()

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		readLoop(conn, result, latch)
	}()

	select {
	case <-latch.done:
	case <-ctx.Done():
		// Unblock the reader; its later resolution loses to this one.
		latch.resolve(ctx.Err())
		conn.Close()
	}
	<-readerDone

	if latch.err != nil {
		logger.Get().Warn().Err(latch.err).Str("state", result.state.String()).Msg("Speech session failed")
		return nil, "", latch.err
	}

	return result.fragments, result.mimeType, nil
}

// readLoop drains the session, accumulating inline fragments and the first
// declared MIME type, and resolves the latch on turn completion, provider
// error, or closure before completion.
func readLoop(conn *websocket.Conn, result *streamResult, latch *completionLatch) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			result.state = stateFailed
			latch.resolve(fmt.Errorf("speech session closed before completion: %w", err))
			return
		}

		var msg serverMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Get().Debug().Err(err).Msg("Skipping unparseable session message")
			continue
		}

		if msg.Error != nil {
			result.state = stateFailed
			latch.resolve(fmt.Errorf("speech provider error: %s", msg.Error.Message))
			return
		}

		if msg.ServerContent == nil {
			continue
		}

		if msg.ServerContent.ModelTurn != nil {
			for _, part := range msg.ServerContent.ModelTurn.Parts {
				if part.InlineData == nil || part.InlineData.Data == "" {
					continue
				}
				if result.mimeType == "" && part.InlineData.MimeType != "" {
					result.mimeType = part.InlineData.MimeType
				}
				result.fragments = append(result.fragments, part.InlineData.Data)
			}
		}

		if msg.ServerContent.TurnComplete {
			result.state = stateCompleting
			if len(result.fragments) == 0 {
				result.state = stateFailed
				latch.resolve(ErrEmptyAudio)
				return
			}
			result.state = stateDone
			latch.resolve(nil)
			return
		}
	}
}
