package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/grandhotel/concierge/elevenlabs/tts/stream"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Same policy as the REST CORS: any origin, no cookies.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type voiceFrame struct {
	Text string `json:"text"`
	End  bool   `json:"end,omitempty"`
}

type voiceChunk struct {
	Audio   string `json:"audio,omitempty"`
	IsFinal bool   `json:"isFinal,omitempty"`
	Error   string `json:"error,omitempty"`
}

// handleVoice relays text frames from the browser to the speech provider
// and streams the synthesized audio chunks back on the same socket.
func (s *Server) handleVoice(c *gin.Context) {
	if s.StreamCfg == nil {
		s.fail(c, http.StatusServiceUnavailable, "voice_unavailable", "voice streaming is not configured", "")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Printf("Voice websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()

	tts, err := stream.Dial(ctx, *s.StreamCfg)
	if err != nil {
		s.Logger.Printf("Voice stream dial failed: %v", err)
		_ = conn.WriteJSON(voiceChunk{Error: "speech provider unavailable"})
		return
	}
	defer tts.Close()

	// Relay upstream audio to the browser.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case chunk, ok := <-tts.Chunks():
				if !ok {
					return
				}
				switch chunk.Kind {
				case "audio":
					if err := conn.WriteJSON(voiceChunk{Audio: chunk.AudioB64}); err != nil {
						return
					}
				case "final":
					if err := conn.WriteJSON(voiceChunk{IsFinal: true}); err != nil {
						return
					}
				}
			case err, ok := <-tts.Errors():
				if !ok {
					return
				}
				s.Logger.Printf("Voice stream error: %v", err)
				_ = conn.WriteJSON(voiceChunk{Error: "speech stream interrupted"})
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	// Feed browser text frames upstream.
	for {
		var frame voiceFrame
		if err := conn.ReadJSON(&frame); err != nil {
			break
		}
		if frame.End || frame.Text == "" {
			if err := tts.End(ctx); err != nil {
				s.Logger.Printf("Voice stream end failed: %v", err)
			}
			continue
		}
		if err := tts.SendText(ctx, frame.Text, true); err != nil {
			s.Logger.Printf("Voice stream send failed: %v", err)
			break
		}
	}

	// Give the relay a moment to flush the trailing audio.
	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}
}
