package models

// Audio_Input carries audio captured by the client for voice mode.
type Audio_Input struct {
	// MimeType is the audio MIME type (audio/webm, audio/wav, audio/mp3, ...).
	MimeType string `json:"mimeType"`
	// Data is the base64 encoded audio payload.
	Data string `json:"data"`
}

// Client_Meta is optional metadata supplied by the calling client.
type Client_Meta struct {
	TraceID string `json:"traceId,omitempty"`
}

// Chat_Request is the POST /agent/chat body.
// At least one of Message or Audio must be present.
type Chat_Request struct {
	SessionID string       `json:"sessionId" binding:"required"`
	Message   string       `json:"message,omitempty"`
	Audio     *Audio_Input `json:"audio,omitempty"`
	VoiceMode bool         `json:"voiceMode,omitempty"`
	Client    *Client_Meta `json:"client,omitempty"`
}
