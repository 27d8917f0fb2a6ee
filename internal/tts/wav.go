package tts

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// defaultAudioMIME is assumed when the provider never declares a fragment type.
const defaultAudioMIME = "audio/L16;rate=24000"

const wavHeaderSize = 44

// pcmFormat describes raw linear PCM samples as declared by an
// audio/L<bits>;rate=<hz>;channels=<n> MIME type.
type pcmFormat struct {
	channels      int
	sampleRate    int
	bitsPerSample int
}

// parsePCMFormat extracts sample parameters from a MIME type string.
// Unparseable or absent values keep their defaults (mono, 24kHz, 16-bit).
func parsePCMFormat(mimeType string) pcmFormat {
	format := pcmFormat{
		channels:      1,
		sampleRate:    24000,
		bitsPerSample: 16,
	}

	parts := strings.Split(mimeType, ";")
	fileType := strings.TrimSpace(parts[0])
	if _, subtype, ok := strings.Cut(fileType, "/"); ok && strings.HasPrefix(subtype, "L") {
		if bits, err := strconv.Atoi(subtype[1:]); err == nil {
			format.bitsPerSample = bits
		}
	}

	for _, param := range parts[1:] {
		key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok {
			continue
		}
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			continue
		}
		switch strings.TrimSpace(key) {
		case "rate":
			format.sampleRate = parsed
		case "channels":
			format.channels = parsed
		}
	}

	return format
}

// wavHeader builds the canonical 44-byte RIFF/WAVE header for a PCM
// payload of dataLength bytes.
func wavHeader(dataLength int, format pcmFormat) []byte {
	byteRate := format.sampleRate * format.channels * format.bitsPerSample / 8
	blockAlign := format.channels * format.bitsPerSample / 8

	header := make([]byte, wavHeaderSize)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataLength))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(header[20:22], 1)  // PCM format tag
	binary.LittleEndian.PutUint16(header[22:24], uint16(format.channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(format.sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], uint16(format.bitsPerSample))
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataLength))
	return header
}

// assembleWAV joins base64-encoded inline audio fragments into a playable
// buffer. Fragments already typed as a WAV container are concatenated
// as-is; anything else is treated as raw PCM and gets a header prepended.
func assembleWAV(fragments []string, mimeType string) ([]byte, error) {
	if len(fragments) == 0 {
		return nil, ErrEmptyAudio
	}
	if mimeType == "" {
		mimeType = defaultAudioMIME
	}

	var payload []byte
	for i, fragment := range fragments {
		decoded, err := base64.StdEncoding.DecodeString(fragment)
		if err != nil {
			return nil, fmt.Errorf("failed to decode audio fragment %d: %w", i, err)
		}
		payload = append(payload, decoded...)
	}

	if strings.HasPrefix(mimeType, "audio/wav") {
		return payload, nil
	}

	format := parsePCMFormat(mimeType)
	return append(wavHeader(len(payload), format), payload...), nil
}

// audioExtension derives a file extension from a MIME type subtype.
func audioExtension(mimeType string) string {
	_, subtype, ok := strings.Cut(mimeType, "/")
	if !ok {
		return "wav"
	}
	subtype, _, _ = strings.Cut(subtype, ";")
	if subtype == "" {
		return "wav"
	}
	return subtype
}
