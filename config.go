package concierge

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all process configuration. Everything comes from the
// environment; a .env file is loaded when present (not in production).
type Config struct {
	// Gemini API
	GoogleAPIKey    string
	GeminiModel     string
	GeminiModelLang string
	SystemPrompt    string

	// Hotel backend API
	BackendURL string

	// Session cache
	RedisURL           string
	SessionTTLMin      int
	SessionMaxMessages int

	// ElevenLabs TTS
	ElevenLabsAPIKey  string
	ElevenLabsModelID string
	ElevenLabsVoiceID string

	// Tool trace audit store
	TraceDBType        string // "sqlite" or "postgres"
	TraceDB            string // file path or DSN
	TraceRetentionDays int

	Port string
}

// LoadConfig reads configuration from the environment.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return Config{
		GoogleAPIKey:    os.Getenv("GOOGLE_API_KEY"),
		GeminiModel:     envOr("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiModelLang: envOr("GEMINI_MODEL_LANG", "gemini-2.5-flash-lite"),
		SystemPrompt:    loadSystemPrompt(),

		BackendURL: envOr("BACKEND_URL", "http://localhost:8081"),

		RedisURL:           envOr("REDIS_URL", "redis://localhost:6379/0"),
		SessionTTLMin:      envIntOr("SESSION_TTL_MIN", 60),
		SessionMaxMessages: envIntOr("SESSION_MAX_MESSAGES", 50),

		ElevenLabsAPIKey:  os.Getenv("ELEVEN_LABS_API_KEY"),
		ElevenLabsModelID: envOr("ELEVEN_LABS_MODEL_ID", "eleven_multilingual_v2"),
		ElevenLabsVoiceID: os.Getenv("ELEVEN_LABS_VOICE_ID"),

		TraceDBType:        envOr("TRACE_DB_TYPE", "sqlite"),
		TraceDB:            envOr("TRACE_DB", "traces.sqlite"),
		TraceRetentionDays: envIntOr("TRACE_RETENTION_DAYS", 14),

		Port: envOr("PORT", "8080"),
	}
}

// loadSystemPrompt reads the prompt file named by SYSTEM_PROMPT_FILE,
// falling back to the built-in concierge persona.
func loadSystemPrompt() string {
	path := os.Getenv("SYSTEM_PROMPT_FILE")
	if path == "" {
		return DefaultSystemPrompt
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Could not read system prompt file %s: %v, using built-in prompt", path, err)
		return DefaultSystemPrompt
	}
	return string(data)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}
