// Package language resolves the BCP-47 language tag of a user message so
// replies can be pinned to the language the guest opened with.
package language

import (
	"context"
	"log"
	"strings"

	"google.golang.org/genai"

	"github.com/grandhotel/concierge/gemini"
)

// DefaultTag is used whenever detection cannot produce a usable tag.
const DefaultTag = "en-US"

const detectInstruction = `You are a language identification engine.
Return ONLY the primary BCP-47 language code of the user's text
(for example: pl-PL, en-US, de-DE, uk-UA).
Do not explain. Do not add punctuation. Return the code and nothing else.`

// Detector identifies message language with a small, cheap model. It never
// returns an error: any failure degrades to DefaultTag.
type Detector struct {
	Gen    gemini.Generator
	Model  string
	Logger *log.Logger
}

func NewDetector(gen gemini.Generator, model string, logger *log.Logger) *Detector {
	if logger == nil {
		logger = log.Default()
	}
	return &Detector{Gen: gen, Model: model, Logger: logger}
}

// Detect returns the BCP-47 tag for text. Blank input skips the model call
// entirely and returns DefaultTag.
func (d *Detector) Detect(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return DefaultTag
	}

	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(detectInstruction, genai.RoleUser),
	}

	resp, err := d.Gen.GenerateContent(ctx, d.Model, contents, config)
	if err != nil {
		d.Logger.Printf("Language detection failed: %v, using %s", err, DefaultTag)
		return DefaultTag
	}

	tag := firstText(resp)
	tag = strings.TrimSpace(tag)
	if !validTag(tag) {
		d.Logger.Printf("Language detection returned %q, using %s", tag, DefaultTag)
		return DefaultTag
	}
	d.Logger.Printf("Detected language: %s", tag)
	return tag
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return ""
	}
	for _, part := range content.Parts {
		if part.Text != "" {
			return part.Text
		}
	}
	return ""
}

// validTag accepts short codes like "pl" or "pl-PL" and rejects anything
// that looks like prose leaking out of the model.
func validTag(tag string) bool {
	if len(tag) < 2 || len(tag) > 8 {
		return false
	}
	if strings.ContainsAny(tag, " \t\n.") {
		return false
	}
	return true
}
