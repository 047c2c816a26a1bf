package stream

import (
	"net/url"
	"strings"
)

// ConnectConfig holds the ElevenLabs stream-input websocket parameters.
type ConnectConfig struct {
	// BaseURL is the websocket base URL, e.g. "wss://api.elevenlabs.io".
	BaseURL string
	// VoiceID is required.
	VoiceID string
	// APIKey is sent as the xi-api-key header.
	APIKey string

	ModelID      string
	LanguageCode string
	OutputFormat string
}

func DefaultBaseURL() string { return "wss://api.elevenlabs.io" }

func BuildURL(cfg ConnectConfig) (string, error) {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL()
	}
	base = strings.TrimRight(base, "/")

	u, err := url.Parse(base + "/v1/text-to-speech/" + url.PathEscape(cfg.VoiceID) + "/stream-input")
	if err != nil {
		return "", err
	}

	q := u.Query()
	if cfg.ModelID != "" {
		q.Set("model_id", cfg.ModelID)
	}
	if cfg.LanguageCode != "" {
		q.Set("language_code", cfg.LanguageCode)
	}
	if cfg.OutputFormat != "" {
		q.Set("output_format", cfg.OutputFormat)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
