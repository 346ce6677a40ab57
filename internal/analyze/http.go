package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/assay/internal/logging"
	"github.com/ppiankov/assay/internal/model"
	"github.com/ppiankov/assay/internal/worker"
)

// httpSleepFunc is replaced in tests
var httpSleepFunc = time.Sleep

const (
	maxHTTPAttempts  = 3
	maxResponseBytes = 10 << 20
)

// HTTP calls a remote collaborator exposing /api/analyze and
// /api/analyze-screenshot
type HTTP struct {
	endpoint string
	client   *http.Client
	limiter  *worker.Limiter
}

// NewHTTP creates an adapter for the collaborator at endpoint. A nil limiter
// disables pacing.
func NewHTTP(endpoint string, client *http.Client, limiter *worker.Limiter) (*HTTP, error) {
	endpoint = strings.TrimSuffix(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, errors.New("analyzer endpoint is required")
	}
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	return &HTTP{endpoint: endpoint, client: client, limiter: limiter}, nil
}

// Analyze posts ref to the collaborator, retrying 5xx, 429 and network
// failures with exponential backoff
func (h *HTTP) Analyze(ctx context.Context, ref model.ContentRef) ([]byte, error) {
	newRequest, err := h.requestFor(ref)
	if err != nil {
		return nil, err
	}
	log := logging.New("analyze")

	var lastErr error
	for attempt := 0; attempt < maxHTTPAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			log.Debug("retrying collaborator", "ref", ref.String(), "attempt", attempt+1, "backoff", backoff, "err", lastErr)
			httpSleepFunc(backoff)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if h.limiter != nil {
			if err := h.limiter.Wait(ctx, h.endpoint); err != nil {
				return nil, fmt.Errorf("rate limit: %w", err)
			}
		}

		req, err := newRequest(ctx)
		if err != nil {
			return nil, err
		}
		body, retry, err := h.do(req)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry {
			return nil, err
		}
	}
	return nil, fmt.Errorf("collaborator failed after %d attempts: %w", maxHTTPAttempts, lastErr)
}

// requestFor prepares a request builder so the body can be replayed
func (h *HTTP) requestFor(ref model.ContentRef) (func(context.Context) (*http.Request, error), error) {
	switch ref.Kind {
	case model.ContentURL:
		body, err := json.Marshal(map[string]string{"url": ref.URL})
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		return func(ctx context.Context) (*http.Request, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint+"/api/analyze", bytes.NewReader(body))
			if err != nil {
				return nil, fmt.Errorf("create request: %w", err)
			}
			req.Header.Set("Content-Type", "application/json")
			return req, nil
		}, nil

	case model.ContentImage:
		img, err := LoadImage(ref.Handle)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("screenshot", filepath.Base(ref.Handle))
		if err != nil {
			return nil, fmt.Errorf("create form file: %w", err)
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, fmt.Errorf("write form file: %w", err)
		}
		if err := mw.Close(); err != nil {
			return nil, fmt.Errorf("close multipart: %w", err)
		}
		body, contentType := buf.Bytes(), mw.FormDataContentType()
		return func(ctx context.Context) (*http.Request, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint+"/api/analyze-screenshot", bytes.NewReader(body))
			if err != nil {
				return nil, fmt.Errorf("create request: %w", err)
			}
			req.Header.Set("Content-Type", contentType)
			return req, nil
		}, nil
	}
	return nil, fmt.Errorf("http: %w: %s", ErrUnsupportedContent, ref.Kind)
}

// do sends req and reports whether a failure is worth retrying
func (h *HTTP) do(req *http.Request) ([]byte, bool, error) {
	resp, err := h.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, false, err
		}
		return nil, true, fmt.Errorf("call collaborator: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusOK {
		return body, false, nil
	}

	retry := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
	var apiErr Error
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
		if retry {
			return nil, true, fmt.Errorf("collaborator error (%d): %w", resp.StatusCode, &apiErr)
		}
		return nil, false, &apiErr
	}
	return nil, retry, fmt.Errorf("collaborator error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
