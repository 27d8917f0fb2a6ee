package tts

import "errors"

// ErrMissingAPIKey means speech synthesis is not configured. Unlike
// missing catalog credentials this is a hard failure: there is no
// fallback audio.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not configured")

// ErrEmptyAudio means the provider completed the turn without emitting a
// single inline audio fragment.
var ErrEmptyAudio = errors.New("speech response did not include inline audio data")
