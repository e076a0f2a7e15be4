package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"slices"

	"github.com/edgard/nutriplan/internal/fields"
)

// RequestBuilder accumulates a completion request. It can be executed any
// number of times and modified between executions.
type RequestBuilder struct {
	payload    Payload
	headers    map[string]string
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a RequestBuilder.
type Option func(*RequestBuilder)

// WithEndpoint posts requests to url instead of DefaultEndpoint.
func WithEndpoint(url string) Option {
	return func(b *RequestBuilder) {
		if url != "" {
			b.endpoint = url
		}
	}
}

// WithHTTPClient sends requests through c.
func WithHTTPClient(c *http.Client) Option {
	return func(b *RequestBuilder) {
		if c != nil {
			b.httpClient = c
		}
	}
}

// WithLogger sets the logger used to report transport faults.
func WithLogger(l *slog.Logger) Option {
	return func(b *RequestBuilder) {
		if l != nil {
			b.logger = l.With("component", "openai")
		}
	}
}

// WithDefaults replaces the starting request values. Numeric values go
// through the same clamps as the fluent setters.
func WithDefaults(d Defaults) Option {
	return func(b *RequestBuilder) {
		if d.Model != "" {
			b.payload.Model = d.Model
		}
		if d.Temperature != nil {
			b.payload.Temperature = fields.ClampTemperature(*d.Temperature)
		}
		if d.TopP != nil {
			b.payload.TopP = fields.ClampTopP(*d.TopP)
		}
		if d.MaxTokens != 0 {
			b.payload.MaxTokens = fields.ClampMaxTokens(d.MaxTokens)
		}
	}
}

// NewRequestBuilder returns a builder holding the default request.
func NewRequestBuilder(opts ...Option) *RequestBuilder {
	b := &RequestBuilder{
		payload: Payload{
			Model:       DefaultModel,
			Messages:    []Message{},
			Temperature: DefaultTemperature,
			MaxTokens:   DefaultMaxTokens,
			TopP:        DefaultTopP,
		},
		headers:    map[string]string{"Content-Type": "application/json"},
		endpoint:   DefaultEndpoint,
		httpClient: http.DefaultClient,
		logger:     slog.Default().With("component", "openai"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WithAPIKey sets the bearer token sent in the Authorization header.
func (b *RequestBuilder) WithAPIKey(key string) *RequestBuilder {
	b.headers["Authorization"] = "Bearer " + key
	return b
}

func (b *RequestBuilder) WithModel(model string) *RequestBuilder {
	b.payload.Model = model
	return b
}

// WithTemperature stores t clamped into [0, 2].
func (b *RequestBuilder) WithTemperature(t float64) *RequestBuilder {
	b.payload.Temperature = fields.ClampTemperature(t)
	return b
}

// WithTopP stores p clamped into [0, 1].
func (b *RequestBuilder) WithTopP(p float64) *RequestBuilder {
	b.payload.TopP = fields.ClampTopP(p)
	return b
}

// WithMaxTokens stores n, raised to at least 1.
func (b *RequestBuilder) WithMaxTokens(n int) *RequestBuilder {
	b.payload.MaxTokens = fields.ClampMaxTokens(n)
	return b
}

func (b *RequestBuilder) WithUserMessage(content string) *RequestBuilder {
	return b.appendMessage(RoleUser, content)
}

func (b *RequestBuilder) WithSystemMessage(content string) *RequestBuilder {
	return b.appendMessage(RoleSystem, content)
}

func (b *RequestBuilder) WithAssistantMessage(content string) *RequestBuilder {
	return b.appendMessage(RoleAssistant, content)
}

func (b *RequestBuilder) appendMessage(role Role, content string) *RequestBuilder {
	b.payload.Messages = append(b.payload.Messages, Message{Role: role, Content: content})
	return b
}

// ForCreativeResponse selects temperature 1.2 and top_p 0.9.
func (b *RequestBuilder) ForCreativeResponse() *RequestBuilder {
	b.payload.Temperature = CreativeTemperature
	b.payload.TopP = CreativeTopP
	return b
}

// ForPreciseResponse selects temperature 0.3 and top_p 1.
func (b *RequestBuilder) ForPreciseResponse() *RequestBuilder {
	b.payload.Temperature = PreciseTemperature
	b.payload.TopP = PreciseTopP
	return b
}

// GetConfig returns a copy of the request body and headers.
func (b *RequestBuilder) GetConfig() Snapshot {
	cfg := b.payload
	cfg.Messages = slices.Clone(b.payload.Messages)
	return Snapshot{
		Config:  cfg,
		Headers: maps.Clone(b.headers),
	}
}

// Execute posts the request and returns the response body. The HTTP status
// is not inspected: an API error payload is valid JSON and is returned as
// data. Only transport failures and non-JSON bodies produce an error, which
// is a *TransportError and is logged before being returned.
func (b *RequestBuilder) Execute(ctx context.Context) (json.RawMessage, error) {
	body, err := json.Marshal(b.payload)
	if err != nil {
		return nil, b.fail(ctx, &TransportError{Op: "send", Err: fmt.Errorf("failed to marshal request body: %w", err)})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, b.fail(ctx, &TransportError{Op: "send", Err: fmt.Errorf("failed to create request: %w", err)})
	}
	for k, v := range b.headers {
		req.Header.Set(k, v)
	}

	b.logger.DebugContext(ctx, "Sending completion request",
		"model", b.payload.Model,
		"messages", len(b.payload.Messages),
		"max_tokens", b.payload.MaxTokens)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, b.fail(ctx, &TransportError{Op: "send", Err: err})
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, b.fail(ctx, &TransportError{Op: "read", Status: resp.StatusCode, Err: err})
	}
	if !json.Valid(data) {
		return nil, b.fail(ctx, &TransportError{Op: "decode", Status: resp.StatusCode, Err: ErrInvalidJSON})
	}

	b.logger.DebugContext(ctx, "Completion response received", "status", resp.StatusCode, "bytes", len(data))
	return json.RawMessage(data), nil
}

func (b *RequestBuilder) fail(ctx context.Context, err *TransportError) error {
	b.logger.ErrorContext(ctx, "Erro na requisição", "error", err)
	return err
}
