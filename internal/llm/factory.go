package llm

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/ppiankov/assay/internal/model"
)

// NewProvider creates the provider named in config
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)
	case "anthropic", "claude":
		return NewAnthropicProvider(config)
	case "ollama":
		return NewOllamaProvider(config)
	case "":
		return nil, fmt.Errorf("no LLM provider configured (set llm.provider)")
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromModel converts the application config, filling the API key and
// Ollama URL from the environment when the config leaves them blank
func ConfigFromModel(m model.LLMConfig, client *http.Client) Config {
	cfg := Config{
		Provider:   m.Provider,
		Model:      m.Model,
		APIKey:     m.APIKey,
		BaseURL:    m.BaseURL,
		Timeout:    m.Timeout,
		MaxTokens:  m.MaxTokens,
		HTTPClient: client,
	}

	switch strings.ToLower(cfg.Provider) {
	case "openai":
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	case "anthropic", "claude":
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	case "ollama":
		if cfg.BaseURL == "" {
			cfg.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	}
	return cfg
}

func encodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
