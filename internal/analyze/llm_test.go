package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/assay/internal/extract"
	"github.com/ppiankov/assay/internal/llm"
	"github.com/ppiankov/assay/internal/model"
)

type fakeProvider struct {
	answer string
	err    error
	got    llm.Request
}

func (p *fakeProvider) Name() string                     { return "fake" }
func (p *fakeProvider) IsAvailable(context.Context) bool { return true }
func (p *fakeProvider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	p.got = req
	if p.err != nil {
		return nil, p.err
	}
	return &llm.Response{Text: p.answer, Model: "fake-1"}, nil
}

type fakeFetcher struct {
	article *extract.Article
	err     error
}

func (f fakeFetcher) FetchArticle(context.Context, string) (*extract.Article, error) {
	return f.article, f.err
}

func newTestLLM(p llm.Provider, f ArticleFetcher) *LLM {
	a := NewLLM(p, f)
	a.now = func() time.Time { return time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC) }
	return a
}

func TestLLM_AnalyzeURL(t *testing.T) {
	provider := &fakeProvider{answer: "Sure!\n```json\n{\"contentType\": \"News Article\"}\n```"}
	fetcher := fakeFetcher{article: &extract.Article{
		Title:     "Fasting",
		Text:      "ARTICLE BODY",
		Citations: []string{"https://doi.org/10.1/x"},
	}}

	raw, err := newTestLLM(provider, fetcher).Analyze(context.Background(), model.URLRef("https://news.example.com/a"))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if string(raw) != `{"contentType": "News Article"}` {
		t.Errorf("raw = %s", raw)
	}
	if !provider.got.JSON || len(provider.got.Images) != 0 {
		t.Errorf("unexpected request: %+v", provider.got)
	}
	for _, want := range []string{"ARTICLE BODY", "March 8, 2025", "https://doi.org/10.1/x"} {
		if !strings.Contains(provider.got.Prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestLLM_AnalyzeScreenshotStampsImageID(t *testing.T) {
	provider := &fakeProvider{answer: `{"contentType": "Social Media Post"}`}
	path := writeFile(t, "post.png", pngHeader)

	raw, err := newTestLLM(provider, nil).Analyze(context.Background(), model.ImageRef(path))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	var doc map[string]string
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc["imageId"]) != 16 {
		t.Errorf("imageId = %q, want 16 hex chars", doc["imageId"])
	}
	if len(provider.got.Images) != 1 || provider.got.Images[0].MIMEType != "image/png" {
		t.Errorf("expected one png attachment, got %+v", provider.got.Images)
	}
}

func TestLLM_IrrelevantAnswer(t *testing.T) {
	provider := &fakeProvider{answer: llm.IrrelevantAnswer}
	fetcher := fakeFetcher{article: &extract.Article{Text: "Buy now"}}

	_, err := newTestLLM(provider, fetcher).Analyze(context.Background(), model.URLRef("https://shop.example.com"))
	e, ok := AsError(err)
	if !ok || !e.Irrelevant() || e.Message != MsgIrrelevant {
		t.Fatalf("expected irrelevant *Error, got %v", err)
	}
}

func TestLLM_Errors(t *testing.T) {
	ref := model.URLRef("https://news.example.com/a")

	_, err := newTestLLM(&fakeProvider{}, fakeFetcher{err: fmt.Errorf("x: %w", extract.ErrDisallowed)}).Analyze(context.Background(), ref)
	if e, ok := AsError(err); !ok || e.Message != MsgDisallowed {
		t.Errorf("expected disallowed *Error, got %v", err)
	}

	boom := errors.New("boom")
	_, err = newTestLLM(&fakeProvider{err: boom}, fakeFetcher{article: &extract.Article{Text: "t"}}).Analyze(context.Background(), ref)
	if !errors.Is(err, boom) {
		t.Errorf("expected provider error, got %v", err)
	}

	_, err = newTestLLM(&fakeProvider{answer: "I can't"}, fakeFetcher{article: &extract.Article{Text: "t"}}).Analyze(context.Background(), ref)
	if !errors.Is(err, llm.ErrNoJSON) {
		t.Errorf("expected ErrNoJSON, got %v", err)
	}
}

func TestFinishPayload_KeepsExistingImageID(t *testing.T) {
	out, err := finishPayload([]byte(`{"imageId":"given","type":"x"}`), "computed")
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"imageId":"given","type":"x"}` {
		t.Errorf("payload rewritten: %s", out)
	}
}
