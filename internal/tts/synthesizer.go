package tts

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"podtrend/internal/logger"
	"podtrend/internal/models"
)

// narrationCharsPerSecond estimates spoken duration from script length.
const narrationCharsPerSecond = 8

// Result describes one completed narration: the generated script, the
// written audio file, and its public URL.
type Result struct {
	Script                   string `json:"script"`
	AudioPath                string `json:"audioPath"`
	PublicURL                string `json:"publicUrl"`
	AudioFormat              string `json:"audioFormat"`
	EstimatedDurationSeconds int    `json:"estimatedDurationSeconds"`
}

// Synthesizer builds a Japanese narration script for an episode, streams
// it through the speech provider, and persists the assembled audio under
// the public audio directory.
type Synthesizer struct {
	live       *LiveClient
	translator Translator
	audioDir   string
}

// NewSynthesizer wires the synthesis pipeline.
func NewSynthesizer(live *LiveClient, translator Translator, audioDir string) *Synthesizer {
	return &Synthesizer{
		live:       live,
		translator: translator,
		audioDir:   audioDir,
	}
}

// SynthesizeEpisode runs the full pipeline for one episode. A repeated
// request for the same episode overwrites the previous file at the same
// path; the filename is derived solely from the episode id.
func (s *Synthesizer) SynthesizeEpisode(ctx context.Context, episode models.Episode) (*Result, error) {
	if s.live.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	start := time.Now()
	script := BuildScript(ctx, episode, s.translator)

	fragments, mimeType, err := s.live.Stream(ctx, script)
	if err != nil {
		return nil, err
	}

	buffer, err := assembleWAV(fragments, mimeType)
	if err != nil {
		return nil, err
	}

	// The assembled container is always a canonical WAV regardless of the
	// fragment encoding.
	const containerMIME = "audio/wav"

	if err := os.MkdirAll(s.audioDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audio directory: %w", err)
	}

	extension := audioExtension(containerMIME)
	filename := fmt.Sprintf("%s.%s", episode.ID, extension)
	audioPath := filepath.Join(s.audioDir, filename)

	if err := os.WriteFile(audioPath, buffer, 0644); err != nil {
		return nil, fmt.Errorf("failed to write audio file: %w", err)
	}

	logger.Get().Info().
		Str("episode_id", episode.ID).
		Int("fragments", len(fragments)).
		Int("bytes", len(buffer)).
		Dur("duration", time.Since(start)).
		Msg("Narration synthesized")

	return &Result{
		Script:                   script,
		AudioPath:                audioPath,
		PublicURL:                "/audio/" + filename,
		AudioFormat:              extension,
		EstimatedDurationSeconds: int(math.Round(float64(utf8.RuneCountInString(script)) / narrationCharsPerSecond)),
	}, nil
}
