package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestRobotsChecker_Allowed(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte("User-agent: Assay\nDisallow: /private\nCrawl-delay: 2\n\nUser-agent: *\nDisallow: /\n"))
	}))
	defer server.Close()

	checker := NewRobotsChecker(server.Client(), "Assay/0.1 (+https://github.com/ppiankov/assay)")
	ctx := context.Background()

	tests := []struct {
		path string
		want bool
	}{
		{"/health/article-1", true},
		{"/private/draft", false},
		{"", true},
	}
	for _, tt := range tests {
		allowed, delay, err := checker.Allowed(ctx, server.URL+tt.path)
		if err != nil {
			t.Fatalf("Allowed(%q): %v", tt.path, err)
		}
		if allowed != tt.want {
			t.Errorf("Allowed(%q) = %v, want %v", tt.path, allowed, tt.want)
		}
		if delay != 2*time.Second {
			t.Errorf("crawl delay = %v, want 2s", delay)
		}
	}

	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("robots.txt fetched %d times, want 1", got)
	}
}

func TestRobotsChecker_MissingFileAllows(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	checker := NewRobotsChecker(server.Client(), "Assay")
	allowed, _, err := checker.Allowed(context.Background(), server.URL+"/anything")
	if err != nil || !allowed {
		t.Errorf("Allowed = %v, %v; want true, nil", allowed, err)
	}
}

func TestRobotsChecker_UnreachableAllows(t *testing.T) {
	checker := NewRobotsChecker(&http.Client{Timeout: 100 * time.Millisecond}, "Assay")
	allowed, _, err := checker.Allowed(context.Background(), "http://127.0.0.1:1/page")
	if err != nil || !allowed {
		t.Errorf("Allowed = %v, %v; want true, nil", allowed, err)
	}
}

func TestNormalizeUserAgent(t *testing.T) {
	tests := map[string]string{
		"Assay/0.1 (+https://github.com/ppiankov/assay)": "Assay",
		"curl":  "curl",
		"":      "",
	}
	for in, want := range tests {
		if got := NormalizeUserAgent(in); got != want {
			t.Errorf("NormalizeUserAgent(%q) = %q, want %q", in, got, want)
		}
	}
}
