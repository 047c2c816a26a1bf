package stores

import (
	"context"
	"time"
)

// Message roles persisted in session history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversation turn kept in the session cache.
type Message struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	TS      time.Time `json:"ts"`
}

// Session is the per-conversation state held in the cache. It is created
// lazily on first touch and expires on its own after the inactivity window;
// there is no explicit delete path.
type Session struct {
	CreatedAt time.Time `json:"createdAt"`
	Messages  []Message `json:"messages"`
	Language  string    `json:"language,omitempty"`
}

// NewSession returns an empty session stamped with the current UTC time.
func NewSession() *Session {
	return &Session{
		CreatedAt: time.Now().UTC(),
		Messages:  []Message{},
	}
}

// SessionStore is the sliding-TTL session cache. Every operation is
// best-effort: store failures are logged inside the implementation and
// surface only as "no session" and never fail the caller's turn.
type SessionStore interface {
	// Load returns the session and true when it exists, refreshing the TTL
	// as a side effect. Absence and store failure both report false.
	Load(ctx context.Context, id string) (*Session, bool)

	// Save upserts the session and resets its TTL.
	Save(ctx context.Context, id string, session *Session)

	Close() error
}
