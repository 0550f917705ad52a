package interfaces

import "context"

// CompletionRequest describes one text-completion call.
type CompletionRequest struct {
	System      string  // optional system prompt
	Prompt      string  // user prompt
	Temperature float32
	MaxTokens   int
	JSONMode    bool // request a JSON object response
}

// Completer is the text-completion capability. Implementations must be
// safe for concurrent use and substitutable with a deterministic stub in
// tests.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
