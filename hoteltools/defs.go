package hoteltools

import (
	"context"

	"google.golang.org/genai"
)

// Executor performs one backend call on behalf of a model-issued tool
// invocation. The bearer token, when present, is forwarded unverified.
// Executors return the JSON-decoded result object or an error; they never
// swallow HTTP failures themselves (the orchestrator absorbs them).
type Executor func(ctx context.Context, args map[string]any, bearer string) (map[string]any, error)

// Tool pairs a declaration advertised to the model with its executor.
type Tool struct {
	Declaration *genai.FunctionDeclaration
	Execute     Executor
}

// Registry maps tool name to Tool. It is built once at process start and
// never mutated afterwards.
type Registry map[string]Tool

// Declarations returns the full tool catalog advertised to the model on
// every call.
func (r Registry) Declarations() []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(r))
	for _, tool := range r {
		decls = append(decls, tool.Declaration)
	}
	return decls
}
