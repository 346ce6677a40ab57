package validate

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ppiankov/assay/internal/model"
)

const linkMaxRetries = 3

// linkSleepFunc is the sleep function used between retries (injectable for tests)
var linkSleepFunc = time.Sleep

// LinkStatus is the outcome of checking one resource link
type LinkStatus struct {
	URL         string              `json:"url"`
	Reachable   bool                `json:"reachable"`
	Dead        bool                `json:"dead"`
	StatusCode  int                 `json:"statusCode,omitempty"`
	RedirectURL string              `json:"redirectUrl,omitempty"`
	Tier        model.AuthorityTier `json:"tier"`
	Error       string              `json:"error,omitempty"`
}

// LinkChecker checks further-reading links concurrently
type LinkChecker struct {
	client     *http.Client
	userAgent  string
	maxWorkers int
	authority  *AuthorityClassifier
}

// NewLinkChecker wraps client so that it follows at most three redirects
func NewLinkChecker(client *http.Client, userAgent string, maxWorkers int, authority *AuthorityClassifier) *LinkChecker {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if maxWorkers <= 0 {
		maxWorkers = 8
	}
	if authority == nil {
		authority = NewAuthorityClassifier(nil)
	}

	limited := *client
	limited.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= 3 {
			return errors.New("stopped after 3 redirects")
		}
		return nil
	}

	return &LinkChecker{
		client:     &limited,
		userAgent:  userAgent,
		maxWorkers: maxWorkers,
		authority:  authority,
	}
}

// Check probes every resource and returns statuses in input order
func (l *LinkChecker) Check(ctx context.Context, resources []model.Resource) []LinkStatus {
	statuses := make([]LinkStatus, len(resources))
	sem := make(chan struct{}, l.maxWorkers)
	var wg sync.WaitGroup

	for i, r := range resources {
		wg.Add(1)
		go func(idx int, rawURL string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				statuses[idx] = LinkStatus{URL: rawURL, Tier: l.authority.Classify(rawURL), Error: ctx.Err().Error()}
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			statuses[idx] = l.checkWithRetry(ctx, rawURL)
		}(i, r.URL)
	}

	wg.Wait()
	return statuses
}

// StatusByURL indexes statuses for lookups from the view layer
func StatusByURL(statuses []LinkStatus) map[string]LinkStatus {
	out := make(map[string]LinkStatus, len(statuses))
	for _, s := range statuses {
		out[s.URL] = s
	}
	return out
}

func (l *LinkChecker) checkWithRetry(ctx context.Context, rawURL string) LinkStatus {
	var status LinkStatus
	var err error
	for attempt := 0; attempt < linkMaxRetries; attempt++ {
		status, err = l.check(ctx, rawURL)
		if !retryableLink(status, err) {
			break
		}
		if attempt < linkMaxRetries-1 {
			linkSleepFunc(time.Duration(1<<uint(attempt)) * time.Second)
		}
	}
	return status
}

func (l *LinkChecker) check(ctx context.Context, rawURL string) (LinkStatus, error) {
	status := LinkStatus{URL: rawURL, Tier: l.authority.Classify(rawURL)}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		status.Dead = true
		status.Error = fmt.Sprintf("create request: %v", err)
		return status, nil
	}
	if l.userAgent != "" {
		req.Header.Set("User-Agent", l.userAgent)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		status.Dead = true
		status.Error = fmt.Sprintf("request failed: %v", err)
		return status, err
	}
	defer func() { _ = resp.Body.Close() }()

	// Some publishers refuse HEAD outright
	if resp.StatusCode == http.StatusMethodNotAllowed {
		_ = resp.Body.Close()
		req.Method = http.MethodGet
		if resp, err = l.client.Do(req); err != nil {
			status.Dead = true
			status.Error = fmt.Sprintf("request failed: %v", err)
			return status, err
		}
		defer func() { _ = resp.Body.Close() }()
	}

	status.StatusCode = resp.StatusCode
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		status.Reachable = true
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		status.Dead = true
	}
	if final := resp.Request.URL.String(); final != rawURL {
		status.RedirectURL = final
	}
	return status, nil
}

func retryableLink(status LinkStatus, err error) bool {
	if status.StatusCode >= 500 || status.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
