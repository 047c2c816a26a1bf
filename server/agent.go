package server

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/grandhotel/concierge"
	"github.com/grandhotel/concierge/models"
	"github.com/grandhotel/concierge/stores"
)

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "grand-hotel-concierge",
		"version": s.Version,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, models.Health_Response{Status: "ok", Version: s.Version})
}

// handleChat runs one conversational turn: load session, resolve language,
// run the agent, persist history and traces, optionally speak the reply.
func (s *Server) handleChat(c *gin.Context) {
	var req models.Chat_Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "bad_request", "invalid request: "+err.Error(), "")
		return
	}
	if req.Message == "" && req.Audio == nil {
		s.fail(c, http.StatusBadRequest, "bad_request", "either message or audio is required", "")
		return
	}

	traceID := ""
	if req.Client != nil {
		traceID = req.Client.TraceID
	}
	if traceID == "" {
		traceID = uuid.NewString()
	}

	ctx := c.Request.Context()

	session, found := s.Sessions.Load(ctx, req.SessionID)
	if !found {
		session = stores.NewSession()
	}

	// Language is negotiated once per session, from the first text we see.
	language := session.Language
	if language == "" && req.Message != "" {
		language = s.Languages.Detect(ctx, req.Message)
	}

	turn := concierge.Turn{
		Message:  req.Message,
		Language: language,
		Bearer:   bearerToken(c.GetHeader("Authorization")),
	}
	if req.Audio != nil {
		data, err := base64.StdEncoding.DecodeString(req.Audio.Data)
		if err != nil {
			s.fail(c, http.StatusBadRequest, "bad_request", "invalid base64 audio data", traceID)
			return
		}
		turn.AudioData = data
		turn.AudioMIMEType = req.Audio.MimeType
	}

	res, err := s.Agent.Chat(ctx, turn, session.Messages)
	if err != nil {
		s.Logger.Printf("Agent turn failed (session %s, trace %s): %v", req.SessionID, traceID, err)
		s.fail(c, http.StatusBadGateway, "upstream_error", "model provider unavailable", traceID)
		return
	}

	// For audio input the transcription stands in as the user message.
	userText := req.Message
	if userText == "" {
		userText = res.Transcription
	}
	if language == "" && userText != "" {
		language = s.Languages.Detect(ctx, userText)
	}

	now := time.Now().UTC()
	if userText != "" {
		session.Messages = append(session.Messages, stores.Message{Role: stores.RoleUser, Content: userText, TS: now})
	}
	session.Messages = append(session.Messages, stores.Message{Role: stores.RoleAssistant, Content: res.Reply, TS: now})
	session.Messages = stores.TrimHistory(session.Messages, s.MaxHistory)
	session.Language = language
	s.Sessions.Save(ctx, req.SessionID, session)

	if s.Traces != nil && len(res.ToolTraces) > 0 {
		if err := s.Traces.SaveTraces(req.SessionID, traceID, res.ToolTraces); err != nil {
			s.Logger.Printf("Could not persist tool traces (trace %s): %v", traceID, err)
		}
	}

	out := models.Chat_Response{
		SessionID: req.SessionID,
		Language:  language,
		Reply:     res.Reply,
		ToolTrace: res.ToolTraces,
	}

	if req.VoiceMode && s.Speech != nil && s.Speech.Available() {
		audio, err := s.Speech.Synthesize(ctx, res.Reply)
		if err != nil {
			// Voice is best-effort: the guest still gets the text.
			s.Logger.Printf("TTS failed, replying with text only (trace %s): %v", traceID, err)
		} else {
			out.Audio = &models.Audio_Output{
				MimeType: "audio/mpeg",
				Data:     base64.StdEncoding.EncodeToString(audio),
			}
		}
	}

	c.JSON(http.StatusOK, out)
}

func (s *Server) fail(c *gin.Context, status int, code, message, traceID string) {
	c.AbortWithStatusJSON(status, models.Error_Response{
		Code:    code,
		Message: message,
		Status:  status,
		TraceID: traceID,
	})
}
