package analyze

import (
	"fmt"
	"net/http"

	"github.com/ppiankov/assay/internal/cache"
	"github.com/ppiankov/assay/internal/extract"
	"github.com/ppiankov/assay/internal/llm"
	"github.com/ppiankov/assay/internal/model"
	"github.com/ppiankov/assay/internal/util"
	"github.com/ppiankov/assay/internal/worker"
)

// New builds the analyzer chain cfg describes: the gate, then the cache
// (except for the mock), then the configured adapter
func New(cfg *model.Config) (Analyzer, error) {
	client := util.NewHTTPClient(cfg.HTTP)
	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)

	inner, err := newAdapter(cfg, client, limiter)
	if err != nil {
		return nil, err
	}
	if cfg.Cache.Enabled && cfg.Analyzer.Kind != model.AnalyzerMock {
		c := cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		inner = NewCached(inner, c, cfg.Cache.DiskTTL)
	}
	return Gated(NewGate(cfg.Relevance.BlockedHosts), inner), nil
}

func newAdapter(cfg *model.Config, client *http.Client, limiter *worker.Limiter) (Analyzer, error) {
	switch cfg.Analyzer.Kind {
	case model.AnalyzerMock, "":
		return NewMock(cfg.Analyzer.MockDelay), nil
	case model.AnalyzerHTTP:
		return NewHTTP(cfg.Analyzer.Endpoint, client, limiter)
	case model.AnalyzerLLM:
		provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM, client))
		if err != nil {
			return nil, fmt.Errorf("create LLM provider: %w", err)
		}
		return NewLLM(provider, extract.NewFetcher(client, cfg.HTTP, limiter)), nil
	default:
		return nil, fmt.Errorf("unknown analyzer kind: %s (supported: mock, http, llm)", cfg.Analyzer.Kind)
	}
}
