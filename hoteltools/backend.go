package hoteltools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Backend is the HTTP client shared by all tool executors. Every tool maps
// to exactly one verb+path on this API.
type Backend struct {
	BaseURL string
	Client  *http.Client
	Logger  *log.Logger
}

// NewBackend creates a backend client with a fixed per-call timeout.
func NewBackend(baseURL string, logger *log.Logger) *Backend {
	if logger == nil {
		logger = log.Default()
	}
	return &Backend{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 10 * time.Second},
		Logger:  logger,
	}
}

// do performs one backend call and decodes the JSON response body.
// A 204 (or empty body) decodes to the string "success". An error status
// is returned as an error carrying the status code and URL; the caller
// decides what to do with it.
func (b *Backend) do(ctx context.Context, method, path, bearer string, body any) (any, error) {
	url := b.BaseURL + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("error marshalling request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	b.Logger.Printf("Backend API call: %s %s", method, url)

	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body from %s: %w", url, err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("backend returned status %d for %s", resp.StatusCode, url)
	}

	if resp.StatusCode == http.StatusNoContent || len(responseBody) == 0 {
		return "success", nil
	}

	var parsed any
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return nil, fmt.Errorf("error unmarshalling response from %s: %w", url, err)
	}
	return parsed, nil
}

// pathID renders a model-supplied id argument for use in a URL path.
// JSON numbers arrive as float64; whole values must not pick up a decimal
// point.
func pathID(v any) string {
	switch n := v.(type) {
	case float64:
		return fmt.Sprintf("%d", int64(n))
	case int:
		return fmt.Sprintf("%d", n)
	case int64:
		return fmt.Sprintf("%d", n)
	case string:
		return n
	default:
		return fmt.Sprintf("%v", v)
	}
}
