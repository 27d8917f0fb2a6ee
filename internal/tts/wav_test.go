package tts

import (
	"encoding/base64"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func b64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func TestAssembleWAVFromRawPCM(t *testing.T) {
	first := []byte{0x01, 0x02, 0x03, 0x04}
	second := []byte{0x05, 0x06}

	out, err := assembleWAV([]string{b64(first), b64(second)}, "audio/L16;rate=24000;channels=1")
	require.NoError(t, err)
	require.Len(t, out, wavHeaderSize+6)

	assert.Equal(t, "RIFF", string(out[0:4]))
	assert.Equal(t, uint32(36+6), binary.LittleEndian.Uint32(out[4:8]))
	assert.Equal(t, "WAVE", string(out[8:12]))
	assert.Equal(t, "fmt ", string(out[12:16]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(out[20:22]), "format tag must be PCM")
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(out[22:24]), "channels")
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(out[24:28]), "sample rate")
	assert.Equal(t, uint32(24000*1*16/8), binary.LittleEndian.Uint32(out[28:32]), "byte rate")
	assert.Equal(t, uint16(1*16/8), binary.LittleEndian.Uint16(out[32:34]), "block align")
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(out[34:36]), "bits per sample")
	assert.Equal(t, "data", string(out[36:40]))
	assert.Equal(t, uint32(6), binary.LittleEndian.Uint32(out[40:44]), "data length")
	assert.Equal(t, append(first, second...), out[wavHeaderSize:])
}

func TestAssembleWAVPassThroughForCompleteContainer(t *testing.T) {
	first := []byte("RIFFxxxxWAVE")
	second := []byte("rest-of-file")

	out, err := assembleWAV([]string{b64(first), b64(second)}, "audio/wav")
	require.NoError(t, err)
	assert.Equal(t, append(first, second...), out)
}

func TestAssembleWAVEmptyFragments(t *testing.T) {
	_, err := assembleWAV(nil, "audio/L16;rate=24000")
	assert.ErrorIs(t, err, ErrEmptyAudio)
}

func TestAssembleWAVDefaultsMIMEWhenUndeclared(t *testing.T) {
	payload := []byte{0x00, 0x01}
	out, err := assembleWAV([]string{b64(payload)}, "")
	require.NoError(t, err)
	require.Len(t, out, wavHeaderSize+2)
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(out[24:28]))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(out[34:36]))
}

func TestAssembleWAVInvalidBase64(t *testing.T) {
	_, err := assembleWAV([]string{"not-base64!!"}, "audio/L16")
	assert.Error(t, err)
}

func TestParsePCMFormat(t *testing.T) {
	tests := []struct {
		name string
		mime string
		want pcmFormat
	}{
		{
			name: "full declaration",
			mime: "audio/L16;rate=24000;channels=1",
			want: pcmFormat{channels: 1, sampleRate: 24000, bitsPerSample: 16},
		},
		{
			name: "stereo 44k 24-bit",
			mime: "audio/L24;rate=44100;channels=2",
			want: pcmFormat{channels: 2, sampleRate: 44100, bitsPerSample: 24},
		},
		{
			name: "defaults for bare pcm",
			mime: "audio/pcm",
			want: pcmFormat{channels: 1, sampleRate: 24000, bitsPerSample: 16},
		},
		{
			name: "garbage params keep defaults",
			mime: "audio/Lxx;rate=abc;channels=",
			want: pcmFormat{channels: 1, sampleRate: 24000, bitsPerSample: 16},
		},
		{
			name: "spaced params",
			mime: "audio/L16; rate=16000; channels=2",
			want: pcmFormat{channels: 2, sampleRate: 16000, bitsPerSample: 16},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parsePCMFormat(tt.mime))
		})
	}
}

func TestAudioExtension(t *testing.T) {
	assert.Equal(t, "wav", audioExtension("audio/wav"))
	assert.Equal(t, "ogg", audioExtension("audio/ogg;codecs=opus"))
	assert.Equal(t, "wav", audioExtension("garbage"))
}
