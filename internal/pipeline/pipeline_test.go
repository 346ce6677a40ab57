package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/assay/internal/analyze"
	"github.com/ppiankov/assay/internal/disclosure"
	"github.com/ppiankov/assay/internal/model"
	"github.com/ppiankov/assay/internal/session"
)

func testPipeline(a analyze.Analyzer) *Pipeline {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	return NewWithAnalyzer(cfg, a)
}

func TestEvaluateMockArticle(t *testing.T) {
	p := testPipeline(analyze.NewMock(0))

	result, err := p.Evaluate(context.Background(), model.URLRef("https://news.example.com/fasting"), Options{
		Open: []disclosure.SectionID{disclosure.Claims, disclosure.Context},
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if result.Report.Validity.Grade != "B-" {
		t.Errorf("grade = %q, want B-", result.Report.Validity.Grade)
	}

	claims, ok := result.View.Section(disclosure.Claims)
	if !ok || !claims.Expanded {
		t.Fatalf("claims section missing or collapsed: %+v", claims)
	}
	if len(claims.Claims) != 3 {
		t.Errorf("claims = %d, want 3", len(claims.Claims))
	}

	resources, ok := result.View.Section(disclosure.Resources)
	if !ok {
		t.Fatal("resources section missing")
	}
	if resources.Expanded || resources.Resources != nil {
		t.Errorf("resources should stay collapsed: %+v", resources)
	}
	if result.Links != nil {
		t.Errorf("links checked without CheckLinks: %v", result.Links)
	}
}

func TestEvaluateUnknownSection(t *testing.T) {
	p := testPipeline(analyze.NewMock(0))

	_, err := p.Evaluate(context.Background(), model.URLRef("https://news.example.com/a"), Options{
		Open: []disclosure.SectionID{"bogus"},
	})
	if err == nil {
		t.Fatal("expected error for unknown section")
	}
}

func TestEvaluateFailure(t *testing.T) {
	a := analyze.Func(func(ctx context.Context, ref model.ContentRef) ([]byte, error) {
		return []byte(`{"contentType": 3}`), nil
	})
	p := testPipeline(a)

	_, err := p.Evaluate(context.Background(), model.URLRef("https://news.example.com/a"), Options{})
	var f *session.Failure
	if !errors.As(err, &f) {
		t.Fatalf("error = %v, want *session.Failure", err)
	}
	if f.Class != session.ClassValidation {
		t.Errorf("class = %s, want %s", f.Class, session.ClassValidation)
	}
}

func TestEvaluateURL(t *testing.T) {
	p := testPipeline(analyze.NewMock(0))

	report, err := p.EvaluateURL(context.Background(), "https://news.example.com/fasting")
	if err != nil {
		t.Fatalf("EvaluateURL() error = %v", err)
	}
	if report.Source.Provenance.Kind != model.KindSingle {
		t.Errorf("kind = %s, want single", report.Source.Provenance.Kind)
	}
}

func TestAllOpen(t *testing.T) {
	state := AllOpen()
	for _, id := range disclosure.TopLevel {
		if !state.IsOpen(id) {
			t.Errorf("%s not open", id)
		}
	}
	if !state.Visible(disclosure.ContextSources) {
		t.Error("context sources not visible")
	}
}

func TestRenderReport(t *testing.T) {
	p := testPipeline(analyze.NewMock(0))
	report, err := p.EvaluateURL(context.Background(), "https://news.example.com/fasting")
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "out", "report.json")
	mdPath := filepath.Join(dir, "report.md")

	var out bytes.Buffer
	if err := p.RenderReport(&out, report, jsonPath, mdPath, true); err != nil {
		t.Fatalf("RenderReport() error = %v", err)
	}

	if !strings.Contains(out.String(), "✓ Wrote JSON") {
		t.Errorf("summary missing JSON confirmation:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Scientific Validity: B-") {
		t.Errorf("summary missing grade:\n%s", out.String())
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read JSON: %v", err)
	}
	if !strings.Contains(string(data), `"contentType": "Research Report"`) {
		t.Errorf("JSON output missing content type:\n%s", data)
	}

	md, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("read markdown: %v", err)
	}
	if !strings.Contains(string(md), "## ▾ Claims Assessment (3)") {
		t.Errorf("markdown missing expanded claims:\n%s", md)
	}
}
