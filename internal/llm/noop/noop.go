package noop

import (
	"context"
	"errors"

	"crypto-insight/internal/interfaces"
	"crypto-insight/internal/logger"
)

// Completer is the fallback used when no LLM provider is configured. It
// always fails, which downstream code degrades gracefully: extraction
// yields no record, synthesis yields a failure message.
type Completer struct{}

// New returns a completer that always reports the capability as absent.
func New() *Completer {
	return &Completer{}
}

func (c *Completer) Complete(ctx context.Context, req interfaces.CompletionRequest) (string, error) {
	logger.Debug(ctx, "Noop completer called - no LLM provider configured")
	return "", errors.New("no completion provider configured")
}
