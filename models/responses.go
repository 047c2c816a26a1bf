package models

// Tool execution outcome values recorded in a ToolTrace.
const (
	ToolStatusOK    = "OK"
	ToolStatusError = "ERROR"
)

// Audio_Output carries synthesized speech for the reply.
type Audio_Output struct {
	MimeType string `json:"mimeType"` // audio/mpeg
	Data     string `json:"data"`     // base64 encoded MP3
}

// ToolTrace records a single tool invocation made during a turn.
type ToolTrace struct {
	Name       string `json:"name"`
	Status     string `json:"status"` // OK or ERROR
	DurationMs int64  `json:"durationMs"`
}

// Chat_Response is the POST /agent/chat 200 body.
type Chat_Response struct {
	SessionID string        `json:"sessionId"`
	Language  string        `json:"language"`
	Reply     string        `json:"reply"`
	Audio     *Audio_Output `json:"audio,omitempty"`
	ToolTrace []ToolTrace   `json:"toolTrace,omitempty"`
}

// Error_Response is the standard error envelope.
type Error_Response struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Status  int            `json:"status"`
	TraceID string         `json:"traceId,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Health_Response is the GET /agent/health body.
type Health_Response struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
