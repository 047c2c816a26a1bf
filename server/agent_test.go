package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/grandhotel/concierge"
	"github.com/grandhotel/concierge/models"
	"github.com/grandhotel/concierge/stores"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAgent struct {
	res      concierge.Result
	err      error
	lastTurn concierge.Turn
	lastHist []stores.Message
	calls    int
}

func (f *fakeAgent) Chat(ctx context.Context, turn concierge.Turn, history []stores.Message) (concierge.Result, error) {
	f.calls++
	f.lastTurn = turn
	f.lastHist = history
	return f.res, f.err
}

type fakeSessions struct {
	sessions map[string]*stores.Session
	saved    map[string]*stores.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: map[string]*stores.Session{}, saved: map[string]*stores.Session{}}
}

func (f *fakeSessions) Load(ctx context.Context, id string) (*stores.Session, bool) {
	s, ok := f.sessions[id]
	return s, ok
}

func (f *fakeSessions) Save(ctx context.Context, id string, session *stores.Session) {
	f.saved[id] = session
}

func (f *fakeSessions) Close() error { return nil }

type fakeTraces struct {
	sessionID string
	traceID   string
	traces    []models.ToolTrace
	err       error
}

func (f *fakeTraces) SaveTraces(sessionID, traceID string, traces []models.ToolTrace) error {
	f.sessionID, f.traceID, f.traces = sessionID, traceID, traces
	return f.err
}

func (f *fakeTraces) ListBySession(sessionID string) ([]stores.ToolTraceRecord, error) {
	return nil, nil
}

func (f *fakeTraces) PurgeOlderThan(cutoff time.Time) (int64, error) { return 0, nil }

func (f *fakeTraces) Close() error { return nil }

type fakeDetector struct {
	tag   string
	calls int
	texts []string
}

func (f *fakeDetector) Detect(ctx context.Context, text string) string {
	f.calls++
	f.texts = append(f.texts, text)
	return f.tag
}

type fakeSpeech struct {
	audio []byte
	err   error
	avail bool
}

func (f *fakeSpeech) Available() bool { return f.avail }

func (f *fakeSpeech) Synthesize(ctx context.Context, text string) ([]byte, error) {
	return f.audio, f.err
}

type testEnv struct {
	agent    *fakeAgent
	sessions *fakeSessions
	traces   *fakeTraces
	detector *fakeDetector
	speech   *fakeSpeech
	router   *gin.Engine
}

func newTestEnv() *testEnv {
	env := &testEnv{
		agent:    &fakeAgent{res: concierge.Result{Reply: "Dzień dobry!"}},
		sessions: newFakeSessions(),
		traces:   &fakeTraces{},
		detector: &fakeDetector{tag: "pl-PL"},
		speech:   &fakeSpeech{avail: true, audio: []byte("mp3")},
	}
	srv := &Server{
		Agent:      env.agent,
		Sessions:   env.sessions,
		Traces:     env.traces,
		Languages:  env.detector,
		Speech:     env.speech,
		MaxHistory: 50,
		Version:    "test",
		Logger:     log.New(&strings.Builder{}, "", 0),
	}
	env.router = srv.Router()
	return env
}

func (env *testEnv) post(t *testing.T, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/agent/chat", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeChat(t *testing.T, w *httptest.ResponseRecorder) models.Chat_Response {
	t.Helper()
	var out models.Chat_Response
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestChatEndpoint(t *testing.T) {
	env := newTestEnv()

	w := env.post(t, models.Chat_Request{SessionID: "s1", Message: "Cześć"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}
	out := decodeChat(t, w)
	if out.Reply != "Dzień dobry!" || out.SessionID != "s1" || out.Language != "pl-PL" {
		t.Errorf("response = %+v", out)
	}

	saved := env.sessions.saved["s1"]
	if saved == nil {
		t.Fatal("session not saved")
	}
	if len(saved.Messages) != 2 {
		t.Fatalf("saved messages = %d, want user+assistant", len(saved.Messages))
	}
	if saved.Messages[0].Role != stores.RoleUser || saved.Messages[0].Content != "Cześć" {
		t.Errorf("saved[0] = %+v", saved.Messages[0])
	}
	if saved.Messages[1].Role != stores.RoleAssistant || saved.Messages[1].Content != "Dzień dobry!" {
		t.Errorf("saved[1] = %+v", saved.Messages[1])
	}
	if saved.Language != "pl-PL" {
		t.Errorf("saved language = %q", saved.Language)
	}
}

func TestChatRequiresMessageOrAudio(t *testing.T) {
	env := newTestEnv()

	w := env.post(t, models.Chat_Request{SessionID: "s1"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var errResp models.Error_Response
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if errResp.Code != "bad_request" || errResp.Status != http.StatusBadRequest {
		t.Errorf("envelope = %+v", errResp)
	}
	if env.agent.calls != 0 {
		t.Errorf("agent called %d times on invalid input", env.agent.calls)
	}
}

func TestChatRequiresSessionID(t *testing.T) {
	env := newTestEnv()
	if w := env.post(t, map[string]any{"message": "hi"}, nil); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 without sessionId", w.Code)
	}
}

func TestChatForwardsBearerToken(t *testing.T) {
	env := newTestEnv()
	env.post(t, models.Chat_Request{SessionID: "s1", Message: "hi"},
		map[string]string{"Authorization": "Bearer tok-42"})
	if env.agent.lastTurn.Bearer != "tok-42" {
		t.Errorf("Bearer = %q, want tok-42", env.agent.lastTurn.Bearer)
	}
}

func TestChatReusesSessionLanguage(t *testing.T) {
	env := newTestEnv()
	env.sessions.sessions["s1"] = &stores.Session{
		Language: "de-DE",
		Messages: []stores.Message{{Role: stores.RoleUser, Content: "Hallo"}},
	}

	w := env.post(t, models.Chat_Request{SessionID: "s1", Message: "Noch was"}, nil)
	out := decodeChat(t, w)
	if out.Language != "de-DE" {
		t.Errorf("Language = %q, want the session's de-DE", out.Language)
	}
	if env.detector.calls != 0 {
		t.Errorf("detector called %d times for a known-language session", env.detector.calls)
	}
	if len(env.agent.lastHist) != 1 {
		t.Errorf("history passed = %d entries, want 1", len(env.agent.lastHist))
	}
	if env.agent.lastTurn.Language != "de-DE" {
		t.Errorf("turn language = %q", env.agent.lastTurn.Language)
	}
}

func TestChatAudioInput(t *testing.T) {
	env := newTestEnv()
	env.agent.res = concierge.Result{Reply: "Mamy wolne pokoje.", Transcription: "Czy są wolne pokoje?"}

	req := models.Chat_Request{
		SessionID: "s1",
		Audio: &models.Audio_Input{
			MimeType: "audio/webm",
			Data:     base64.StdEncoding.EncodeToString([]byte{1, 2, 3}),
		},
	}
	w := env.post(t, req, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}

	if env.agent.lastTurn.AudioMIMEType != "audio/webm" || len(env.agent.lastTurn.AudioData) != 3 {
		t.Errorf("turn audio = %q/%d bytes", env.agent.lastTurn.AudioMIMEType, len(env.agent.lastTurn.AudioData))
	}

	// The transcription stands in for the user message, for history and
	// for the deferred language detection.
	saved := env.sessions.saved["s1"]
	if saved.Messages[0].Content != "Czy są wolne pokoje?" {
		t.Errorf("saved user message = %q, want the transcription", saved.Messages[0].Content)
	}
	if len(env.detector.texts) != 1 || env.detector.texts[0] != "Czy są wolne pokoje?" {
		t.Errorf("detector texts = %v, want the transcription", env.detector.texts)
	}
}

func TestChatInvalidBase64Audio(t *testing.T) {
	env := newTestEnv()
	req := models.Chat_Request{
		SessionID: "s1",
		Audio:     &models.Audio_Input{MimeType: "audio/webm", Data: "!!not-base64!!"},
	}
	if w := env.post(t, req, nil); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if env.agent.calls != 0 {
		t.Errorf("agent called despite invalid audio")
	}
}

func TestChatAgentFailure(t *testing.T) {
	env := newTestEnv()
	env.agent.err = errors.New("model request failed: 500")

	w := env.post(t, models.Chat_Request{SessionID: "s1", Message: "hi"}, nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	var errResp models.Error_Response
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if errResp.Code != "upstream_error" {
		t.Errorf("code = %q", errResp.Code)
	}
	if len(env.sessions.saved) != 0 {
		t.Errorf("session saved despite agent failure")
	}
}

func TestChatPersistsToolTraces(t *testing.T) {
	env := newTestEnv()
	env.agent.res = concierge.Result{
		Reply:      "Zarezerwowane.",
		ToolTraces: []models.ToolTrace{{Name: "reservations_create", Status: models.ToolStatusOK, DurationMs: 42}},
	}

	req := models.Chat_Request{
		SessionID: "s1",
		Message:   "Zarezerwuj pokój 2",
		Client:    &models.Client_Meta{TraceID: "trace-7"},
	}
	w := env.post(t, req, nil)
	out := decodeChat(t, w)
	if len(out.ToolTrace) != 1 || out.ToolTrace[0].Name != "reservations_create" {
		t.Errorf("ToolTrace = %v", out.ToolTrace)
	}
	if env.traces.sessionID != "s1" || env.traces.traceID != "trace-7" || len(env.traces.traces) != 1 {
		t.Errorf("persisted traces = session %q trace %q %v", env.traces.sessionID, env.traces.traceID, env.traces.traces)
	}
}

func TestChatTraceStoreFailureIsAbsorbed(t *testing.T) {
	env := newTestEnv()
	env.traces.err = errors.New("disk full")
	env.agent.res = concierge.Result{
		Reply:      "Ok.",
		ToolTraces: []models.ToolTrace{{Name: "rooms_list", Status: models.ToolStatusOK}},
	}

	if w := env.post(t, models.Chat_Request{SessionID: "s1", Message: "hi"}, nil); w.Code != http.StatusOK {
		t.Errorf("status = %d; trace store failure must not fail the turn", w.Code)
	}
}

func TestChatVoiceMode(t *testing.T) {
	env := newTestEnv()

	w := env.post(t, models.Chat_Request{SessionID: "s1", Message: "hi", VoiceMode: true}, nil)
	out := decodeChat(t, w)
	if out.Audio == nil {
		t.Fatal("Audio = nil, want synthesized reply")
	}
	if out.Audio.MimeType != "audio/mpeg" {
		t.Errorf("MimeType = %q", out.Audio.MimeType)
	}
	if decoded, _ := base64.StdEncoding.DecodeString(out.Audio.Data); string(decoded) != "mp3" {
		t.Errorf("audio payload = %q", out.Audio.Data)
	}
}

func TestChatVoiceModeDegradesToText(t *testing.T) {
	env := newTestEnv()
	env.speech.err = errors.New("quota exceeded")

	w := env.post(t, models.Chat_Request{SessionID: "s1", Message: "hi", VoiceMode: true}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	out := decodeChat(t, w)
	if out.Audio != nil {
		t.Errorf("Audio = %+v, want nil after synthesis failure", out.Audio)
	}
	if out.Reply == "" {
		t.Error("Reply empty; text must survive TTS failure")
	}
}

func TestChatVoiceModeSkippedWhenUnavailable(t *testing.T) {
	env := newTestEnv()
	env.speech.avail = false

	w := env.post(t, models.Chat_Request{SessionID: "s1", Message: "hi", VoiceMode: true}, nil)
	if out := decodeChat(t, w); out.Audio != nil {
		t.Errorf("Audio = %+v, want nil when TTS is not configured", out.Audio)
	}
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv()
	req := httptest.NewRequest(http.MethodGet, "/agent/health", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var out models.Health_Response
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Status != "ok" || out.Version != "test" {
		t.Errorf("health = %+v", out)
	}
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv()
	req := httptest.NewRequest(http.MethodOptions, "/agent/chat", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"Bearer  abc ", "abc"},
		{"abc", ""},
		{"", ""},
		{"Basic abc", ""},
	}
	for _, tt := range tests {
		if got := bearerToken(tt.header); got != tt.want {
			t.Errorf("bearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
