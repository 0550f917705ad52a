package claude

import (
	"context"
	"errors"
	"os"
	"strings"

	"crypto-insight/internal/api"
	"crypto-insight/internal/interfaces"
	"crypto-insight/internal/trace"
)

const baseURL = "https://api.anthropic.com/v1"

// Completer calls the Anthropic messages API.
type Completer struct {
	client *api.Client
	model  string
}

// New creates a Claude completer for the given model using a shared HTTP
// client.
func New(client *api.Client, model string) *Completer {
	return &Completer{client: client, model: model}
}

func (c *Completer) Complete(ctx context.Context, req interfaces.CompletionRequest) (string, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return "", errors.New("ANTHROPIC_API_KEY missing")
	}

	system := req.System
	if req.JSONMode {
		// The messages API has no response_format knob; the instruction
		// rides on the system prompt instead.
		if system != "" {
			system += " "
		}
		system += "Respond ONLY with a valid JSON object."
	}

	body := map[string]any{
		"model":       c.model,
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
		"messages": []map[string]string{
			{"role": "user", "content": req.Prompt},
		},
	}
	if system != "" {
		body["system"] = system
	}

	resp, err := c.client.POST(ctx, baseURL+"/messages", body, map[string]string{
		"x-api-key":         apiKey,
		"anthropic-version": "2023-06-01",
	})
	if err != nil {
		return "", err
	}

	var r struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := resp.ParseJSON(&r); err != nil {
		return "", err
	}
	if len(r.Content) == 0 {
		return "", errors.New("no content")
	}

	return strings.TrimSpace(r.Content[0].Text), nil
}
