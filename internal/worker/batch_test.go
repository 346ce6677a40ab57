package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ppiankov/assay/internal/model"
)

func TestBatchProcessor_ProcessURLs(t *testing.T) {
	evaluate := func(_ context.Context, u string) (*model.Report, error) {
		if strings.Contains(u, "bad") {
			return nil, errors.New("collaborator failed")
		}
		return &model.Report{ContentType: "News Article", AnalysisDate: u}, nil
	}

	var mu sync.Mutex
	var seen []string
	progress := func(r BatchResult) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, r.URL)
	}

	urls := []string{"https://a.example/1", "https://bad.example/2", "https://c.example/3"}
	results := NewBatchProcessor(evaluate, 2, progress).ProcessURLs(context.Background(), urls)

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, r := range results {
		if r.URL != urls[i] {
			t.Errorf("result %d URL = %q, want %q", i, r.URL, urls[i])
		}
	}
	if !results[0].OK() || results[1].OK() || !results[2].OK() {
		t.Errorf("unexpected outcomes: %+v", results)
	}
	if len(seen) != 3 {
		t.Errorf("progress called %d times", len(seen))
	}

	ok, failed := Summary(results)
	if ok != 2 || failed != 1 {
		t.Errorf("Summary = %d, %d", ok, failed)
	}
}

func TestReadURLs(t *testing.T) {
	input := `
# health articles
https://a.example/1
https://a.example/1

  https://b.example/2
`
	urls, err := ReadURLs(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadURLs: %v", err)
	}
	if len(urls) != 2 || urls[0] != "https://a.example/1" || urls[1] != "https://b.example/2" {
		t.Errorf("ReadURLs = %v", urls)
	}
}

func TestReadURLsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	if err := os.WriteFile(path, []byte("https://a.example\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	urls, err := ReadURLsFromFile(path)
	if err != nil || len(urls) != 1 {
		t.Errorf("ReadURLsFromFile = %v, %v", urls, err)
	}

	if _, err := ReadURLsFromFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
