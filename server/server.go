// Package server exposes the concierge over HTTP: a chat endpoint, a
// health probe and a websocket voice relay.
package server

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/grandhotel/concierge"
	"github.com/grandhotel/concierge/elevenlabs/tts/stream"
	"github.com/grandhotel/concierge/stores"
)

// Agent runs one conversational turn.
type Agent interface {
	Chat(ctx context.Context, turn concierge.Turn, history []stores.Message) (concierge.Result, error)
}

// Detector resolves the language of a guest's first message.
type Detector interface {
	Detect(ctx context.Context, text string) string
}

// Speech synthesizes reply audio for voice mode.
type Speech interface {
	Available() bool
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type Server struct {
	Agent     Agent
	Sessions  stores.SessionStore
	Traces    stores.TraceStore
	Languages Detector
	Speech    Speech

	// StreamCfg enables the websocket voice relay when non-nil.
	StreamCfg *stream.ConnectConfig

	MaxHistory int
	Version    string
	Logger     *log.Logger
}

// Router builds the gin engine with all routes mounted.
func (s *Server) Router() *gin.Engine {
	if s.Logger == nil {
		s.Logger = log.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery(), CORS())

	r.GET("/", s.handleRoot)

	agent := r.Group("/agent")
	agent.GET("/health", s.handleHealth)
	agent.POST("/chat", s.handleChat)
	agent.GET("/voice", s.handleVoice)

	return r
}
