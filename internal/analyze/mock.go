package analyze

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/ppiankov/assay/internal/model"
)

var (
	//go:embed mockdata/article.json
	mockArticle []byte

	//go:embed mockdata/screenshot.json
	mockScreenshot []byte
)

// Mock returns canned reports after an optional simulated delay: a
// single-study report for URLs and a no-specific-research report for
// screenshots
type Mock struct {
	delay time.Duration
}

// NewMock creates a mock analyzer
func NewMock(delay time.Duration) *Mock {
	return &Mock{delay: delay}
}

// Analyze waits for the configured delay, honoring ctx, then returns a copy
// of the canned payload for ref's kind
func (m *Mock) Analyze(ctx context.Context, ref model.ContentRef) ([]byte, error) {
	var payload []byte
	switch ref.Kind {
	case model.ContentURL:
		payload = mockArticle
	case model.ContentImage:
		payload = mockScreenshot
	default:
		return nil, fmt.Errorf("mock: %w: %s", ErrUnsupportedContent, ref.Kind)
	}

	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return bytes.Clone(payload), nil
}
