package tts

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podtrend/internal/models"
)

func TestSynthesizeEpisodeWritesWAVFile(t *testing.T) {
	client := newLiveServer(t, func(conn *websocket.Conn) {
		conn.WriteJSON(audioChunk("audio/L16;rate=24000;channels=1", []byte{0x01, 0x02, 0x03, 0x04}))
		conn.WriteJSON(map[string]any{
			"serverContent": map[string]any{"turnComplete": true},
		})
	})

	dir := t.TempDir()
	synth := NewSynthesizer(client, identityTranslator(), dir)

	episode := models.Episode{
		ID:           "tech-ep-42",
		Title:        "Compiler Magic",
		Description:  "All about compilers.",
		PodcastTitle: "Build Radio",
		ReleaseDate:  time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}

	result, err := synth.SynthesizeEpisode(context.Background(), episode)
	require.NoError(t, err)

	assert.Equal(t, "/audio/tech-ep-42.wav", result.PublicURL)
	assert.Equal(t, "wav", result.AudioFormat)
	assert.Equal(t, filepath.Join(dir, "tech-ep-42.wav"), result.AudioPath)

	wantDuration := int(float64(utf8.RuneCountInString(result.Script))/narrationCharsPerSecond + 0.5)
	assert.Equal(t, wantDuration, result.EstimatedDurationSeconds)

	data, err := os.ReadFile(result.AudioPath)
	require.NoError(t, err)
	require.Len(t, data, wavHeaderSize+4)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, uint32(4), binary.LittleEndian.Uint32(data[40:44]))
}

func TestSynthesizeEpisodeOverwritesPriorFile(t *testing.T) {
	client := newLiveServer(t, func(conn *websocket.Conn) {
		conn.WriteJSON(audioChunk("audio/L16;rate=24000", []byte{0x0a, 0x0b}))
		conn.WriteJSON(map[string]any{
			"serverContent": map[string]any{"turnComplete": true},
		})
	})

	dir := t.TempDir()
	synth := NewSynthesizer(client, identityTranslator(), dir)

	stale := filepath.Join(dir, "tech-ep-42.wav")
	require.NoError(t, os.WriteFile(stale, []byte("stale content"), 0644))

	episode := models.Episode{
		ID:           "tech-ep-42",
		Title:        "Again",
		PodcastTitle: "Build Radio",
		ReleaseDate:  time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}

	_, err := synth.SynthesizeEpisode(context.Background(), episode)
	require.NoError(t, err)

	data, err := os.ReadFile(stale)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(data[0:4]))
}

func TestSynthesizeEpisodeMissingAPIKey(t *testing.T) {
	synth := NewSynthesizer(NewLiveClient("", "", time.Second), identityTranslator(), t.TempDir())

	_, err := synth.SynthesizeEpisode(context.Background(), models.Episode{ID: "x"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestSynthesizeEpisodeEmptyAudio(t *testing.T) {
	client := newLiveServer(t, func(conn *websocket.Conn) {
		conn.WriteJSON(map[string]any{
			"serverContent": map[string]any{"turnComplete": true},
		})
	})

	dir := t.TempDir()
	synth := NewSynthesizer(client, identityTranslator(), dir)
	_, err := synth.SynthesizeEpisode(context.Background(), models.Episode{
		ID:          "tech-ep-43",
		ReleaseDate: time.Now(),
	})
	assert.ErrorIs(t, err, ErrEmptyAudio)

	// A zero-length "valid" file must never appear.
	_, statErr := os.Stat(filepath.Join(dir, "tech-ep-43.wav"))
	assert.True(t, os.IsNotExist(statErr))
}
