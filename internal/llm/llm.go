package llm

import (
	"strings"
	"time"

	"crypto-insight/internal/api"
	"crypto-insight/internal/interfaces"
	"crypto-insight/internal/llm/claude"
	"crypto-insight/internal/llm/groq"
	"crypto-insight/internal/llm/llmobs"
	"crypto-insight/internal/llm/noop"
	"crypto-insight/internal/store"
)

// completion calls get a generous ceiling; the per-request timeout is
// the implementation-level bound required for every external call.
const clientTimeout = 120 * time.Second

// NewCompleter builds the configured completion provider wrapped with
// observability. Unknown providers fall back to the noop completer.
func NewCompleter(cfg *store.Config) interfaces.Completer {
	client := api.NewClient(
		api.WithTimeout(clientTimeout),
		api.WithLogging(true),
	)

	var completer interfaces.Completer
	switch strings.ToUpper(cfg.LLM.Provider) {
	case "GROQ":
		completer = groq.New(client, cfg.LLM.Model)
	case "CLAUDE":
		completer = claude.New(client, cfg.LLM.Model)
	default:
		completer = noop.New()
	}

	return llmobs.Wrap(completer)
}
