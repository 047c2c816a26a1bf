package concierge

import (
	"log"

	"google.golang.org/genai"
)

// Fixed user-facing messages for model failure modes. These are returned as
// replies, never as errors, so a turn always produces something to say.
const (
	MsgBlocked      = "Przepraszam, nie mogę odpowiedzieć na to pytanie."
	MsgConnection   = "Przepraszam, wystąpił problem z połączeniem. Spróbuj ponownie."
	MsgNoReply      = "Przepraszam, nie udało się uzyskać odpowiedzi."
	MsgEmptyToolEnd = "Przepraszam, nie udało się przetworzyć odpowiedzi."
)

type outcomeKind int

const (
	// outcomeFunctionCall: the model asked for a tool. Texts may still hold
	// fragments emitted before the call (transcription of audio input).
	outcomeFunctionCall outcomeKind = iota
	// outcomeText: a plain text answer.
	outcomeText
	// outcomeTransientEmpty: no usable content and no block reason. The
	// Gemini 2.5 "empty candidates despite STOP" bug looks like this; it is
	// the only outcome worth retrying.
	outcomeTransientEmpty
	// outcomeTerminal: a content-policy block. Carries the fixed apology.
	outcomeTerminal
)

// modelOutcome is the classified form of one model response.
type modelOutcome struct {
	Kind    outcomeKind
	Call    *genai.FunctionCall
	Texts   []string
	Message string
}

// classifyResponse reduces a raw model response to exactly one outcome.
// Classification order matters: prompt block, then safety finish, then
// missing content, then part extraction (first function call wins over any
// accompanying text).
func classifyResponse(resp *genai.GenerateContentResponse, logger *log.Logger) modelOutcome {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil &&
			resp.PromptFeedback.BlockReason != "" &&
			resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
			logger.Printf("Prompt blocked: %s", resp.PromptFeedback.BlockReason)
			return modelOutcome{Kind: outcomeTerminal, Message: MsgBlocked}
		}
		logger.Printf("Empty candidates in response")
		return modelOutcome{Kind: outcomeTransientEmpty}
	}

	candidate := resp.Candidates[0]

	if candidate.FinishReason == genai.FinishReasonSafety {
		logger.Printf("Response blocked by safety filter")
		return modelOutcome{Kind: outcomeTerminal, Message: MsgBlocked}
	}

	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		logger.Printf("Empty content in candidate (finish reason: %s)", candidate.FinishReason)
		return modelOutcome{Kind: outcomeTransientEmpty}
	}

	out := modelOutcome{Kind: outcomeTransientEmpty}
	for _, part := range candidate.Content.Parts {
		if part.FunctionCall != nil {
			out.Call = part.FunctionCall
			break // function call takes precedence
		}
		if part.Text != "" {
			out.Texts = append(out.Texts, part.Text)
		}
	}

	switch {
	case out.Call != nil:
		out.Kind = outcomeFunctionCall
	case len(out.Texts) > 0:
		out.Kind = outcomeText
	}
	return out
}
