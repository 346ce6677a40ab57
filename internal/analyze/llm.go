package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ppiankov/assay/internal/cache"
	"github.com/ppiankov/assay/internal/extract"
	"github.com/ppiankov/assay/internal/llm"
	"github.com/ppiankov/assay/internal/logging"
	"github.com/ppiankov/assay/internal/model"
)

// MsgDisallowed is returned when the publisher forbids automated fetching
const MsgDisallowed = "This site does not allow automated access to the article."

// ArticleFetcher retrieves the readable text of an article
type ArticleFetcher interface {
	FetchArticle(ctx context.Context, rawURL string) (*extract.Article, error)
}

// LLM asks a language model to write the report. It only forwards content
// and returns the model's JSON; validation happens downstream.
type LLM struct {
	provider llm.Provider
	fetcher  ArticleFetcher
	now      func() time.Time
}

// NewLLM creates an LLM-backed analyzer
func NewLLM(provider llm.Provider, fetcher ArticleFetcher) *LLM {
	return &LLM{provider: provider, fetcher: fetcher, now: time.Now}
}

// Analyze fetches and prompts for URLs, or attaches the image for screenshots
func (a *LLM) Analyze(ctx context.Context, ref model.ContentRef) ([]byte, error) {
	date := a.now().Format("January 2, 2006")

	var req llm.Request
	var imageID string
	switch ref.Kind {
	case model.ContentURL:
		article, err := a.fetcher.FetchArticle(ctx, ref.URL)
		if err != nil {
			if errors.Is(err, extract.ErrDisallowed) {
				return nil, &Error{Message: MsgDisallowed}
			}
			return nil, fmt.Errorf("fetch article: %w", err)
		}
		if article.Truncated {
			logging.New("analyze").Debug("article text truncated", "url", ref.URL)
		}
		req = llm.Request{
			System: llm.SystemPrompt,
			Prompt: llm.BuildArticlePrompt(ref.URL, article.Title, article.Text, date, article.Citations),
			JSON:   true,
		}

	case model.ContentImage:
		img, err := LoadImage(ref.Handle)
		if err != nil {
			return nil, err
		}
		imageID = cache.Digest(img.Data)[:16]
		req = llm.Request{
			System: llm.SystemPrompt,
			Prompt: llm.BuildScreenshotPrompt(date),
			Images: []llm.Image{img},
			JSON:   true,
		}

	default:
		return nil, fmt.Errorf("llm: %w: %s", ErrUnsupportedContent, ref.Kind)
	}

	resp, err := a.provider.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.provider.Name(), err)
	}
	logging.New("analyze").Debug("model answered", "provider", a.provider.Name(), "model", resp.Model, "tokens", resp.TokensUsed)

	payload, err := llm.ExtractJSON(resp.Text)
	if err != nil {
		return nil, err
	}
	return finishPayload(payload, imageID)
}

// finishPayload turns the model's irrelevance answer into an *Error and
// stamps screenshot reports with an image identity
func finishPayload(payload []byte, imageID string) ([]byte, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(payload, &doc); err != nil {
		// Not an object; let validation report it.
		return payload, nil
	}

	if raw, ok := doc["type"]; ok && len(doc) <= 2 {
		var t string
		if json.Unmarshal(raw, &t) == nil && t == TypeIrrelevant {
			return nil, &Error{Message: MsgIrrelevant, Type: TypeIrrelevant}
		}
	}

	if imageID == "" {
		return payload, nil
	}
	if _, ok := doc["imageId"]; ok {
		return payload, nil
	}
	doc["imageId"], _ = json.Marshal(imageID)
	return json.Marshal(doc)
}
