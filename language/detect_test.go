package language

import (
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"google.golang.org/genai"
)

type scriptedGen struct {
	resp  *genai.GenerateContentResponse
	err   error
	calls int
}

func (s *scriptedGen) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	s.calls++
	return s.resp, s.err
}

func tagResponse(tag string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: tag}}},
		}},
	}
}

func newTestDetector(gen *scriptedGen) *Detector {
	return NewDetector(gen, "test-lite", log.New(&strings.Builder{}, "", 0))
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		resp string
		want string
	}{
		{"plain tag", "pl-PL", "pl-PL"},
		{"short code", "de", "de"},
		{"padded tag", "  uk-UA\n", "uk-UA"},
		{"prose leak", "The language is Polish.", DefaultTag},
		{"empty reply", "", DefaultTag},
		{"single char", "p", DefaultTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDetector(&scriptedGen{resp: tagResponse(tt.resp)})
			if got := d.Detect(context.Background(), "jakieś zdanie"); got != tt.want {
				t.Errorf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectBlankInputSkipsModel(t *testing.T) {
	gen := &scriptedGen{resp: tagResponse("pl-PL")}
	d := newTestDetector(gen)

	if got := d.Detect(context.Background(), "   \n\t"); got != DefaultTag {
		t.Errorf("Detect() = %q, want %q", got, DefaultTag)
	}
	if gen.calls != 0 {
		t.Errorf("model calls = %d, want 0 for blank input", gen.calls)
	}
}

func TestDetectModelFailure(t *testing.T) {
	d := newTestDetector(&scriptedGen{err: errors.New("quota exceeded")})
	if got := d.Detect(context.Background(), "bonjour"); got != DefaultTag {
		t.Errorf("Detect() = %q, want %q on provider error", got, DefaultTag)
	}
}

func TestDetectEmptyCandidates(t *testing.T) {
	d := newTestDetector(&scriptedGen{resp: &genai.GenerateContentResponse{}})
	if got := d.Detect(context.Background(), "hola"); got != DefaultTag {
		t.Errorf("Detect() = %q, want %q on empty response", got, DefaultTag)
	}
}
