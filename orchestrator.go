package concierge

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/grandhotel/concierge/gemini"
	"github.com/grandhotel/concierge/hoteltools"
	"github.com/grandhotel/concierge/models"
	"github.com/grandhotel/concierge/stores"
)

// Retry configuration for transient empty responses (known Gemini 2.5 bug:
// empty Content without parts despite finish_reason=STOP).
const (
	maxRetries     = 3
	retryDelayBase = 500 * time.Millisecond
)

// Turn is one user input to process. At least one of Message or AudioData
// must be present; both may be (audio with a text hint).
type Turn struct {
	Message       string
	AudioData     []byte
	AudioMIMEType string
	// Language is the negotiated BCP-47 tag. Empty means no directive is
	// injected and the model answers in whatever language it picks.
	Language string
	// Bearer is the caller's token, forwarded unverified to tool calls.
	Bearer string
}

// Result is the outcome of one orchestration call.
type Result struct {
	Reply      string
	ToolTraces []models.ToolTrace
	// Transcription is the text the model extracted from audio input, for
	// the caller to persist as the effective user message.
	Transcription string
}

// Orchestrator drives the function-calling conversation loop: one model
// call, at most one tool hop, one follow-up call. It holds no per-request
// state; a single instance serves concurrent turns.
type Orchestrator struct {
	Gen          gemini.Generator
	Model        string
	SystemPrompt string
	Tools        hoteltools.Registry
	Logger       *log.Logger

	// sleep is swappable in tests. Nil means a context-aware timer sleep.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewOrchestrator wires the loop with its collaborators.
func NewOrchestrator(gen gemini.Generator, model, systemPrompt string, tools hoteltools.Registry, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		Gen:          gen,
		Model:        model,
		SystemPrompt: systemPrompt,
		Tools:        tools,
		Logger:       logger,
	}
}

// Chat processes one user turn against the prior history.
//
// Model-content anomalies (empty, blocked, malformed) become fixed
// user-facing replies and tool failures become ERROR traces; the only
// errors returned are transport/configuration failures from the provider.
func (o *Orchestrator) Chat(ctx context.Context, turn Turn, history []stores.Message) (Result, error) {
	res := Result{ToolTraces: []models.ToolTrace{}}

	contents := o.buildContents(turn, history)
	config := o.buildConfig(turn.Language)

	resp, out, err := o.generateWithRetry(ctx, contents, config)
	if err != nil {
		return Result{}, err
	}

	if out.Kind == outcomeTerminal {
		res.Reply = out.Message
		return res, nil
	}

	if out.Call != nil {
		call := out.Call
		o.Logger.Printf("Function calling: tool invoked: %s", call.Name)

		// Execute the tool. Failures of any kind are folded into the result
		// object handed back to the model; they never abort the turn.
		start := time.Now()
		status := models.ToolStatusOK
		var result map[string]any

		if tool, ok := o.Tools[call.Name]; ok {
			r, execErr := tool.Execute(ctx, call.Args, turn.Bearer)
			if execErr != nil {
				o.Logger.Printf("Function calling: tool execution failed: %s: %v", call.Name, execErr)
				result = map[string]any{"error": execErr.Error()}
				status = models.ToolStatusError
			} else {
				result = r
			}
		} else {
			o.Logger.Printf("Function calling: unknown tool: %s", call.Name)
			result = map[string]any{"error": fmt.Sprintf("Unknown tool: %s", call.Name)}
			status = models.ToolStatusError
		}

		res.ToolTraces = append(res.ToolTraces, models.ToolTrace{
			Name:       call.Name,
			Status:     status,
			DurationMs: time.Since(start).Milliseconds(),
		})

		// Round trip: replay the model's own partial turn, then a synthetic
		// user turn carrying the tool result. The candidate content is
		// guaranteed non-nil here because classification found the call in it.
		contents = append(contents, resp.Candidates[0].Content)
		contents = append(contents, genai.NewContentFromParts(
			[]*genai.Part{genai.NewPartFromFunctionResponse(call.Name, result)},
			genai.RoleUser,
		))

		_, finalOut, err := o.generateWithRetry(ctx, contents, config)
		if err != nil {
			return Result{}, err
		}
		if finalOut.Kind == outcomeTerminal {
			res.Reply = finalOut.Message
			return res, nil
		}

		finalText := strings.Join(finalOut.Texts, " ")
		if finalText == "" {
			finalText = MsgEmptyToolEnd
		}
		res.Reply = finalText

		// Text the model emitted before the function call is its reading of
		// the audio input.
		if len(turn.AudioData) > 0 && len(out.Texts) > 0 {
			res.Transcription = strings.Join(out.Texts, " ")
		}
		return res, nil
	}

	// No function call: the joined fragments are the final reply.
	finalText := strings.Join(out.Texts, " ")
	if finalText == "" {
		finalText = MsgNoReply
	}
	res.Reply = finalText

	if len(turn.AudioData) > 0 && turn.Message == "" && len(out.Texts) > 0 {
		res.Transcription = finalText
	}
	return res, nil
}

// buildContents replays the history and appends the current turn. History
// entries that fail validation are dropped, not rejected: the loop degrades
// rather than fails.
func (o *Orchestrator) buildContents(turn Turn, history []stores.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)

	for _, msg := range history {
		if msg.Content == "" {
			continue
		}
		var role genai.Role = genai.RoleUser
		switch msg.Role {
		case stores.RoleUser:
		case stores.RoleAssistant:
			// The provider's vocabulary says "model", not "assistant".
			role = genai.RoleModel
		default:
			continue
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}

	var parts []*genai.Part
	if len(turn.AudioData) > 0 && turn.AudioMIMEType != "" {
		o.Logger.Printf("Adding audio input to request (%d bytes, %s)", len(turn.AudioData), turn.AudioMIMEType)
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: turn.AudioMIMEType, Data: turn.AudioData},
		})
	}
	if turn.Message != "" {
		parts = append(parts, genai.NewPartFromText(turn.Message))
	}
	if len(parts) > 0 {
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}
	return contents
}

// buildConfig assembles the per-call generation config: tool catalog in
// automatic mode plus the system instruction with its runtime preamble.
func (o *Orchestrator) buildConfig(language string) *genai.GenerateContentConfig {
	now := time.Now().UTC()
	var sys strings.Builder
	sys.WriteString(o.SystemPrompt)
	fmt.Fprintf(&sys, "\n\n[Runtime Context]\nCURRENT_DATETIME_UTC = %s\nToday's date (UTC): %s\n",
		now.Format(time.RFC3339), now.Format("2006-01-02"))
	if language != "" {
		fmt.Fprintf(&sys, "\n\n[Runtime Instruction]\nLANG = %s\nOdpowiadaj wyłącznie w LANG. Nie mieszaj języków.\n", language)
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(sys.String(), genai.RoleUser),
		ToolConfig: &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode: genai.FunctionCallingConfigModeAuto,
			},
		},
	}
	if len(o.Tools) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: o.Tools.Declarations()}}
	}
	return config
}

// generateWithRetry invokes the model, retrying only the transient-empty
// outcome: up to 3 attempts with 0.5s/1.0s backoff. Exhaustion downgrades
// to a fixed terminal message instead of an error.
func (o *Orchestrator) generateWithRetry(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, modelOutcome, error) {
	var resp *genai.GenerateContentResponse

	for attempt := 0; attempt < maxRetries; attempt++ {
		r, err := o.Gen.GenerateContent(ctx, o.Model, contents, config)
		if err != nil {
			return nil, modelOutcome{}, fmt.Errorf("model request failed: %w", err)
		}
		resp = r

		out := classifyResponse(resp, o.Logger)
		if out.Kind != outcomeTransientEmpty {
			return resp, out, nil
		}

		if attempt < maxRetries-1 {
			delay := retryDelayBase << attempt
			o.Logger.Printf("Empty response from model, retrying in %s (attempt %d/%d)", delay, attempt+1, maxRetries)
			if err := o.wait(ctx, delay); err != nil {
				return nil, modelOutcome{}, err
			}
		}
	}

	o.Logger.Printf("All retries failed - empty response from model")
	return resp, modelOutcome{Kind: outcomeTerminal, Message: MsgConnection}, nil
}

func (o *Orchestrator) wait(ctx context.Context, d time.Duration) error {
	if o.sleep != nil {
		return o.sleep(ctx, d)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
