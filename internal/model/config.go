package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the complete assay configuration
type Config struct {
	HTTP         HTTPConfig        `yaml:"http" mapstructure:"http"`
	Analyzer     AnalyzerConfig    `yaml:"analyzer" mapstructure:"analyzer"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	LLM          LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Relevance    RelevanceConfig   `yaml:"relevance" mapstructure:"relevance"`
	Authority    AuthorityConfig   `yaml:"authority" mapstructure:"authority"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
	Logging      LoggingConfig     `yaml:"logging" mapstructure:"logging"`
	Server       ServerConfig      `yaml:"server" mapstructure:"server"`
}

// HTTPConfig configures outbound HTTP (article fetches and remote collaborators)
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// Analyzer kinds
const (
	AnalyzerMock = "mock"
	AnalyzerHTTP = "http"
	AnalyzerLLM  = "llm"
)

// AnalyzerConfig selects and configures the analysis collaborator
type AnalyzerConfig struct {
	Kind      string        `yaml:"kind" mapstructure:"kind"`             // mock, http, llm
	Endpoint  string        `yaml:"endpoint" mapstructure:"endpoint"`     // base URL for the http collaborator
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`       // bounded wait for one submission
	MockDelay time.Duration `yaml:"mock_delay" mapstructure:"mock_delay"` // simulated processing time
}

// CacheConfig configures the collaborator response cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig configures the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitConfig configures per-host request pacing
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// LLMConfig configures the LLM-backed collaborator
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, ollama
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// RelevanceConfig configures the input gate in front of the collaborator
type RelevanceConfig struct {
	BlockedHosts []string `yaml:"blocked_hosts" mapstructure:"blocked_hosts"`
}

// OutputConfig configures rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// LoggingConfig configures the structured logger
type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // debug, info, warn, error
	File  string `yaml:"file,omitempty" mapstructure:"file"`
}

// ServerConfig configures the collaborator HTTP API started by serve
type ServerConfig struct {
	Addr          string `yaml:"addr" mapstructure:"addr"`
	ValidateReply bool   `yaml:"validate_reply" mapstructure:"validate_reply"` // reject payloads that fail report validation
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "Assay/0.1 (+https://github.com/ppiankov/assay)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Analyzer: AnalyzerConfig{
			Kind:     AnalyzerMock,
			Endpoint: "http://localhost:8080",
			Timeout:  2 * time.Minute,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			Timeout:   60,
			MaxTokens: 3000,
		},
		Relevance: RelevanceConfig{
			BlockedHosts: []string{"amazon.com", "ebay.com", "facebook.com", "instagram.com"},
		},
		Authority: AuthorityConfig{
			PrimaryDomains: []string{
				"doi.org",
				"pubmed.ncbi.nlm.nih.gov",
				"ncbi.nlm.nih.gov",
				"nih.gov",
				"cdc.gov",
				"who.int",
				"nature.com",
				"thelancet.com",
				"nejm.org",
				"bmj.com",
				"jamanetwork.com",
				"sciencedirect.com",
				"cochranelibrary.com",
			},
			SecondaryDomains: []string{
				"wikipedia.org",
				"heart.org",
				"mayoclinic.org",
				"nhs.uk",
				"reuters.com",
				"apnews.com",
				"bbc.co.uk",
			},
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr:          ":8080",
			ValidateReply: true,
		},
	}
}

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "assay")
}
