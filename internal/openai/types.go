// Package openai builds chat-completion requests through a fluent builder and
// sends them to the OpenAI HTTP API. Responses are returned exactly as the
// API produced them, error payloads included.
package openai

import (
	"errors"
	"fmt"
)

// DefaultEndpoint is the chat-completion endpoint requests are posted to.
const DefaultEndpoint = "https://api.openai.com/v1/chat/completions"

// Request defaults.
const (
	DefaultModel       = "gpt-3.5-turbo"
	DefaultTemperature = 0.8
	DefaultTopP        = 1.0
	DefaultMaxTokens   = 1000
)

// Sampling presets.
const (
	CreativeTemperature = 1.2
	CreativeTopP        = 0.9
	PreciseTemperature  = 0.3
	PreciseTopP         = 1.0
)

// Role tags a message author.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation sent to the model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Payload is the JSON body of a completion request.
type Payload struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	TopP        float64   `json:"top_p"`
}

// Defaults overrides the starting values of a builder. Zero fields keep the
// package defaults.
type Defaults struct {
	Model       string
	Temperature *float64
	TopP        *float64
	MaxTokens   int
}

// Snapshot is an independent copy of a builder's request.
type Snapshot struct {
	Config  Payload
	Headers map[string]string
}

// Errors returned while reading a response.
var (
	ErrInvalidJSON = errors.New("response body is not valid JSON")
	ErrNoChoices   = errors.New("no response choices available")
)

// TransportError is returned by Execute when the request could not be sent or
// its response could not be read as JSON.
type TransportError struct {
	Op     string // "send", "read" or "decode"
	Status int    // HTTP status, when a response was received
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("completion request %s failed (status %d): %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("completion request %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is the error object of an API error payload.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s (type: %s, code: %s)", e.Message, e.Type, e.Code)
}
