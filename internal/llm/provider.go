// Package llm talks to chat-completion providers on behalf of the LLM
// analyzer.
package llm

import (
	"context"
	"net/http"
)

// Provider is a chat-completion backend
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one prompt (optionally with images) and returns the answer
	Complete(ctx context.Context, req Request) (*Response, error)

	// IsAvailable checks that the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// Image is an inline image attachment
type Image struct {
	MIMEType string
	Data     []byte
}

// Request is a single-turn completion request
type Request struct {
	System string
	Prompt string
	Images []Image

	// JSON asks the provider to constrain output to a JSON object where
	// it supports that
	JSON bool

	// Model and MaxTokens override the provider config when set
	Model     string
	MaxTokens int
}

// Response is the provider's answer
type Response struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	Model   string
	APIKey  string
	BaseURL string

	Timeout   int // seconds
	MaxTokens int

	// HTTPClient carries proxy and TLS settings; nil uses a plain client
	HTTPClient *http.Client
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "openai",
		Timeout:   60,
		MaxTokens: 3000,
	}
}

func (c Config) model(req Request, fallback string) string {
	switch {
	case req.Model != "":
		return req.Model
	case c.Model != "":
		return c.Model
	}
	return fallback
}

func (c Config) maxTokens(req Request) int {
	switch {
	case req.MaxTokens > 0:
		return req.MaxTokens
	case c.MaxTokens > 0:
		return c.MaxTokens
	}
	return 3000
}
