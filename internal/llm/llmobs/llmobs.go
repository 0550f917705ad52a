package llmobs

import (
	"context"

	"crypto-insight/internal/interfaces"
	"crypto-insight/internal/logger"
	"crypto-insight/internal/trace"
)

// observableCompleter wraps a Completer with observability (logging & tracing)
type observableCompleter struct {
	completer interfaces.Completer
}

// Compile-time interface check
var _ interfaces.Completer = (*observableCompleter)(nil)

// Wrap wraps a completer with observability middleware
func Wrap(completer interfaces.Completer) interfaces.Completer {
	return &observableCompleter{
		completer: completer,
	}
}

// Complete performs a completion call with observability
func (oc *observableCompleter) Complete(ctx context.Context, req interfaces.CompletionRequest) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Complete")
	defer span.End()

	// Skip(1) so the log line reports the actual caller, not this wrapper
	logger.DebugSkip(ctx, 1, "Requesting completion",
		"prompt_len", len(req.Prompt),
		"max_tokens", req.MaxTokens,
		"json_mode", req.JSONMode,
	)

	text, err := oc.completer.Complete(ctx, req)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Completion call failed", err,
			"prompt_len", len(req.Prompt),
		)
		return "", err
	}

	logger.InfoSkip(ctx, 1, "Completion received",
		"response_len", len(text),
		"json_mode", req.JSONMode,
	)

	return text, nil
}
