// Package stream speaks the ElevenLabs single-context stream-input
// websocket protocol, used to pipe reply text out as audio chunks while
// the text is still arriving.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Chunk is a parsed server message: a base64 audio frame or the final marker.
type Chunk struct {
	Kind     string          `json:"kind"` // "audio" | "final" | "unknown"
	AudioB64 string          `json:"audio_base_64,omitempty"`
	Raw      json.RawMessage `json:"raw,omitempty"`
}

type Client struct {
	conn   *websocket.Conn
	chunks chan Chunk
	errors chan error

	sendCh chan any
	once   sync.Once
	mu     sync.Mutex
	closed bool
}

// Dial opens the websocket and sends the initial handshake frame. The
// returned client is ready for SendText.
func Dial(ctx context.Context, cfg ConnectConfig) (*Client, error) {
	if cfg.VoiceID == "" {
		return nil, fmt.Errorf("missing voice_id")
	}

	headers := http.Header{}
	if cfg.APIKey != "" {
		headers.Set("xi-api-key", cfg.APIKey)
	}

	u, err := BuildURL(cfg)
	if err != nil {
		return nil, err
	}

	d := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := d.DialContext(ctx, u, headers)
	if err != nil {
		return nil, err
	}

	c := &Client{
		conn:   conn,
		chunks: make(chan Chunk, 256),
		errors: make(chan error, 16),
		sendCh: make(chan any, 256),
	}
	c.startLoops(ctx)

	// The protocol requires a leading space frame to open the context.
	if err := c.send(ctx, beginStream{Text: " ", XIAPIKey: cfg.APIKey}); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) Chunks() <-chan Chunk { return c.chunks }
func (c *Client) Errors() <-chan error { return c.errors }

func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.sendCh)
		_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(1000, "closing"), time.Now().Add(250*time.Millisecond))
		err = c.conn.Close()
		close(c.chunks)
		close(c.errors)
	})
	return err
}

func (c *Client) startLoops(ctx context.Context) {
	// Writer loop
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-c.sendCh:
				if !ok {
					return
				}
				if err := c.conn.WriteJSON(msg); err != nil {
					c.tryEmitErr(err)
					return
				}
			}
		}
	}()

	// Reader loop
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			_, b, err := c.conn.ReadMessage()
			if err != nil {
				c.tryEmitErr(err)
				return
			}

			// The server sends either
			// { "audio": "...", "normalizedAlignment": ... }
			// or { "isFinal": true }.
			var raw map[string]any
			if err := json.Unmarshal(b, &raw); err != nil {
				c.tryEmitErr(fmt.Errorf("tts stream: invalid json: %w", err))
				continue
			}

			if aud, ok := raw["audio"].(string); ok && aud != "" {
				select {
				case c.chunks <- Chunk{Kind: "audio", AudioB64: aud, Raw: json.RawMessage(b)}:
				default:
				}
				continue
			}

			if isFinal, ok := raw["isFinal"].(bool); ok && isFinal {
				select {
				case c.chunks <- Chunk{Kind: "final", Raw: json.RawMessage(b)}:
				default:
				}
				continue
			}

			select {
			case c.chunks <- Chunk{Kind: "unknown", Raw: json.RawMessage(b)}:
			default:
			}
		}
	}()
}

func (c *Client) tryEmitErr(err error) {
	if err == nil {
		return
	}
	select {
	case c.errors <- err:
	default:
	}
}

// --- Outgoing messages (client -> ElevenLabs) ---

type beginStream struct {
	Text     string `json:"text"`
	XIAPIKey string `json:"xi_api_key,omitempty"`
}

type sendText struct {
	Text                 string `json:"text"`
	TryTriggerGeneration bool   `json:"try_trigger_generation,omitempty"`
}

type endStream struct {
	Text string `json:"text"` // empty string closes the context
}

// SendText feeds a fragment of reply text into the stream.
func (c *Client) SendText(ctx context.Context, text string, trigger bool) error {
	if text == "" {
		return nil
	}
	return c.send(ctx, sendText{Text: text, TryTriggerGeneration: trigger})
}

// End tells the server no more text is coming; remaining audio is flushed
// and a final chunk follows.
func (c *Client) End(ctx context.Context) error {
	return c.send(ctx, endStream{})
}

func (c *Client) send(ctx context.Context, v any) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return fmt.Errorf("tts stream: client closed")
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case c.sendCh <- v:
		return nil
	}
}
