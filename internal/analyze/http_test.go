package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ppiankov/assay/internal/model"
)

func TestHTTP_AnalyzeURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/analyze" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["url"] != "https://news.example.com/a" {
			t.Errorf("url = %q", body["url"])
		}
		_, _ = w.Write([]byte(`{"contentType":"News Article"}`))
	}))
	defer server.Close()

	h, err := NewHTTP(server.URL+"/", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := h.Analyze(context.Background(), model.URLRef("https://news.example.com/a"))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if string(raw) != `{"contentType":"News Article"}` {
		t.Errorf("raw = %s", raw)
	}
}

func TestHTTP_AnalyzeScreenshot(t *testing.T) {
	path := writeFile(t, "post.png", pngHeader)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/analyze-screenshot" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		file, header, err := r.FormFile("screenshot")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(file)
		if header.Filename != "post.png" || len(data) != len(pngHeader) {
			t.Errorf("unexpected upload %s (%d bytes)", header.Filename, len(data))
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	h, _ := NewHTTP(server.URL, nil, nil)
	if _, err := h.Analyze(context.Background(), model.ImageRef(path)); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
}

func TestHTTP_ErrorBody(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"` + MsgIrrelevant + `","type":"IRRELEVANT_CONTENT"}`))
	}))
	defer server.Close()

	h, _ := NewHTTP(server.URL, nil, nil)
	_, err := h.Analyze(context.Background(), model.URLRef("https://shop.example.com"))
	e, ok := AsError(err)
	if !ok || !e.Irrelevant() || e.Message != MsgIrrelevant {
		t.Fatalf("expected irrelevant *Error, got %v", err)
	}
	if attempts.Load() != 1 {
		t.Errorf("4xx should not be retried, got %d attempts", attempts.Load())
	}
}

func TestHTTP_RetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	h, _ := NewHTTP(server.URL, nil, nil)
	if _, err := h.Analyze(context.Background(), model.URLRef("https://x.example")); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts.Load() != 3 {
		t.Errorf("attempts = %d, want 3", attempts.Load())
	}
}

func TestHTTP_GivesUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"Error analyzing the article"}`))
	}))
	defer server.Close()

	h, _ := NewHTTP(server.URL, nil, nil)
	_, err := h.Analyze(context.Background(), model.URLRef("https://x.example"))
	if err == nil || !strings.Contains(err.Error(), "after 3 attempts") {
		t.Fatalf("expected exhausted retries, got %v", err)
	}
	if e, ok := AsError(err); !ok || e.Message != "Error analyzing the article" {
		t.Errorf("expected wrapped collaborator message, got %v", err)
	}
}

func TestHTTP_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h, _ := NewHTTP("http://127.0.0.1:1", nil, nil)
	if _, err := h.Analyze(ctx, model.URLRef("https://x.example")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewHTTP_RequiresEndpoint(t *testing.T) {
	if _, err := NewHTTP(" ", nil, nil); err == nil {
		t.Fatal("expected error for empty endpoint")
	}
}
