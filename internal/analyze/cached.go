package analyze

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/assay/internal/cache"
	"github.com/ppiankov/assay/internal/logging"
	"github.com/ppiankov/assay/internal/model"
	"github.com/ppiankov/assay/internal/validate"
)

// Cached wraps an Analyzer with a response cache. Only payloads that pass
// validation are stored, so a bad answer is never replayed.
type Cached struct {
	next  Analyzer
	cache cache.Cache
	ttl   time.Duration
}

// NewCached caches next's payloads for ttl
func NewCached(next Analyzer, c cache.Cache, ttl time.Duration) *Cached {
	return &Cached{next: next, cache: c, ttl: ttl}
}

// Analyze serves ref from the cache when possible
func (c *Cached) Analyze(ctx context.Context, ref model.ContentRef) ([]byte, error) {
	key, err := CacheKey(ref)
	if err != nil {
		return nil, err
	}
	log := logging.New("cache")

	if data, ok := c.cache.Get(key); ok {
		log.Debug("cache hit", "ref", ref.String())
		return data, nil
	}

	data, err := c.next.Analyze(ctx, ref)
	if err != nil {
		return nil, err
	}
	if _, verr := validate.ValidateReport(data); verr != nil {
		return data, nil
	}
	if err := c.cache.Set(key, data, c.ttl); err != nil {
		log.Warn("cache write failed", "ref", ref.String(), "err", err)
	}
	return data, nil
}

// CacheKey derives the cache key for ref: the normalized URL for articles
// and the content digest for screenshots
func CacheKey(ref model.ContentRef) (string, error) {
	switch ref.Kind {
	case model.ContentURL:
		return cache.Key("url", normalizeURL(ref.URL)), nil
	case model.ContentImage:
		img, err := LoadImage(ref.Handle)
		if err != nil {
			return "", err
		}
		return cache.Key("image", cache.Digest(img.Data)), nil
	}
	return "", fmt.Errorf("cache: %w: %s", ErrUnsupportedContent, ref.Kind)
}

// normalizeURL lowercases scheme and host and drops the fragment
func normalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	return u.String()
}
