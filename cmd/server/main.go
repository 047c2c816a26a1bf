package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/grandhotel/concierge"
	"github.com/grandhotel/concierge/elevenlabs/tts"
	"github.com/grandhotel/concierge/elevenlabs/tts/stream"
	"github.com/grandhotel/concierge/gemini"
	"github.com/grandhotel/concierge/hoteltools"
	"github.com/grandhotel/concierge/language"
	"github.com/grandhotel/concierge/server"
	"github.com/grandhotel/concierge/stores"
)

const version = "1.0.0"

func main() {
	logger := log.New(os.Stdout, "[concierge] ", log.LstdFlags)
	cfg := concierge.LoadConfig()

	ctx := context.Background()

	client, err := gemini.NewClient(ctx, cfg.GoogleAPIKey)
	if err != nil {
		logger.Fatalf("Could not create Gemini client: %v", err)
	}

	backend := hoteltools.NewBackend(cfg.BackendURL, logger)
	registry := hoteltools.DefaultRegistry(backend)
	logger.Printf("Registered %d hotel tools against %s", len(registry), cfg.BackendURL)

	orch := concierge.NewOrchestrator(client, cfg.GeminiModel, cfg.SystemPrompt, registry, logger)
	detector := language.NewDetector(client, cfg.GeminiModelLang, logger)

	sessions := openSessionStore(cfg, logger)
	defer sessions.Close()

	traces, err := stores.NewTraceStore(cfg.TraceDBType, cfg.TraceDB)
	if err != nil {
		logger.Fatalf("Could not open trace store: %v", err)
	}
	defer traces.Close()

	janitor := stores.NewJanitor(traces, time.Duration(cfg.TraceRetentionDays)*24*time.Hour, logger)
	if err := janitor.Start(); err != nil {
		logger.Fatalf("Could not start trace janitor: %v", err)
	}
	defer janitor.Stop()

	speech := tts.NewClient(cfg.ElevenLabsAPIKey, cfg.ElevenLabsModelID, cfg.ElevenLabsVoiceID, logger)
	var streamCfg *stream.ConnectConfig
	if speech.Available() {
		streamCfg = &stream.ConnectConfig{
			VoiceID: cfg.ElevenLabsVoiceID,
			APIKey:  cfg.ElevenLabsAPIKey,
			ModelID: cfg.ElevenLabsModelID,
		}
	} else {
		logger.Println("ElevenLabs not configured, voice replies disabled")
	}

	srv := &server.Server{
		Agent:      orch,
		Sessions:   sessions,
		Traces:     traces,
		Languages:  detector,
		Speech:     speech,
		StreamCfg:  streamCfg,
		MaxHistory: cfg.SessionMaxMessages,
		Version:    version,
		Logger:     logger,
	}

	logger.Printf("Listening on :%s (model %s)", cfg.Port, cfg.GeminiModel)
	if err := srv.Router().Run(":" + cfg.Port); err != nil {
		logger.Fatalf("Server stopped: %v", err)
	}
}

// openSessionStore prefers Redis and falls back to the in-process store so
// a missing cache never blocks startup.
func openSessionStore(cfg concierge.Config, logger *log.Logger) stores.SessionStore {
	ttl := time.Duration(cfg.SessionTTLMin) * time.Minute
	store, err := stores.NewRedisSessionStore(cfg.RedisURL, ttl, logger)
	if err != nil {
		logger.Printf("Redis unavailable (%v), using in-memory sessions", err)
		return stores.NewMemorySessionStore(ttl)
	}
	return store
}
