// Package tts synthesizes speech through the ElevenLabs HTTP API. The
// service is optional: when no API key is configured the client reports
// ErrUnavailable and callers fall back to text-only replies.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io"
	// mp3 at 44.1kHz / 128kbps, the format browsers play without fuss.
	outputFormat = "mp3_44100_128"
)

var (
	// ErrUnavailable means TTS is not configured (no API key or voice).
	ErrUnavailable = errors.New("tts: service not configured")
	// ErrSynthesis means the provider rejected or failed the request.
	ErrSynthesis = errors.New("tts: synthesis failed")
)

type Client struct {
	BaseURL string
	APIKey  string
	ModelID string
	VoiceID string
	HTTP    *http.Client
	Logger  *log.Logger
}

func NewClient(apiKey, modelID, voiceID string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		BaseURL: defaultBaseURL,
		APIKey:  apiKey,
		ModelID: modelID,
		VoiceID: voiceID,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Logger:  logger,
	}
}

// Available reports whether the client has enough configuration to speak.
func (c *Client) Available() bool {
	return c.APIKey != "" && c.VoiceID != ""
}

type synthesizeRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// Synthesize converts text to mp3 audio bytes.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if !c.Available() {
		return nil, ErrUnavailable
	}
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", ErrSynthesis)
	}

	body, err := json.Marshal(synthesizeRequest{Text: text, ModelID: c.ModelID})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s",
		c.BaseURL, url.PathEscape(c.VoiceID), outputFormat)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.Logger.Printf("TTS request failed: status %d: %s", resp.StatusCode, detail)
		return nil, fmt.Errorf("%w: status %d", ErrSynthesis, resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: empty audio", ErrSynthesis)
	}
	return audio, nil
}
