package openai

import (
	"context"
	"encoding/json"
	"fmt"
)

type completion struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *APIError `json:"error"`
}

// FirstContent extracts choices[0].message.content from a raw response. An
// API error payload is returned as *APIError.
func FirstContent(raw json.RawMessage) (string, error) {
	var c completion
	if err := json.Unmarshal(raw, &c); err != nil {
		return "", fmt.Errorf("failed to decode completion: %w", err)
	}
	if c.Error != nil {
		return "", c.Error
	}
	if len(c.Choices) == 0 {
		return "", ErrNoChoices
	}
	return c.Choices[0].Message.Content, nil
}

// FetchResponse sends prompt as a single user message with the default
// sampling parameters.
func FetchResponse(ctx context.Context, key, prompt string, tokens int, opts ...Option) (json.RawMessage, error) {
	return NewRequestBuilder(opts...).
		WithAPIKey(key).
		WithUserMessage(prompt).
		WithMaxTokens(tokens).
		Execute(ctx)
}

// FetchCreativeResponse is FetchResponse with the creative preset.
func FetchCreativeResponse(ctx context.Context, key, prompt string, tokens int, opts ...Option) (json.RawMessage, error) {
	return NewRequestBuilder(opts...).
		WithAPIKey(key).
		WithUserMessage(prompt).
		WithMaxTokens(tokens).
		ForCreativeResponse().
		Execute(ctx)
}

// FetchPreciseResponse is FetchResponse with the precise preset.
func FetchPreciseResponse(ctx context.Context, key, prompt string, tokens int, opts ...Option) (json.RawMessage, error) {
	return NewRequestBuilder(opts...).
		WithAPIKey(key).
		WithUserMessage(prompt).
		WithMaxTokens(tokens).
		ForPreciseResponse().
		Execute(ctx)
}
