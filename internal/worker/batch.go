package worker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/assay/internal/model"
)

// EvaluateFunc analyzes one URL in its own session
type EvaluateFunc func(ctx context.Context, rawURL string) (*model.Report, error)

// BatchResult is the outcome for one URL
type BatchResult struct {
	URL      string
	Report   *model.Report
	Err      error
	Duration time.Duration
}

// OK reports whether a report was produced
func (r BatchResult) OK() bool {
	return r.Err == nil && r.Report != nil
}

// BatchProcessor analyzes a URL list concurrently
type BatchProcessor struct {
	evaluate EvaluateFunc
	workers  int
	progress func(BatchResult)
}

// NewBatchProcessor creates a processor with the given concurrency. progress,
// if set, is called once per finished URL from the worker goroutine.
func NewBatchProcessor(evaluate EvaluateFunc, workers int, progress func(BatchResult)) *BatchProcessor {
	return &BatchProcessor{evaluate: evaluate, workers: workers, progress: progress}
}

// ProcessURLs returns one result per URL, in input order
func (b *BatchProcessor) ProcessURLs(ctx context.Context, urls []string) []BatchResult {
	run := func(ctx context.Context, u string) BatchResult {
		start := time.Now()
		report, err := b.evaluate(ctx, u)
		res := BatchResult{URL: u, Report: report, Err: err, Duration: time.Since(start)}
		if b.progress != nil {
			b.progress(res)
		}
		return res
	}
	skip := func(u string, err error) BatchResult {
		return BatchResult{URL: u, Err: fmt.Errorf("skipped: %w", err)}
	}
	return Map(ctx, b.workers, urls, run, skip)
}

// ProcessFile reads a URL list from path and processes it
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]BatchResult, error) {
	urls, err := ReadURLsFromFile(path)
	if err != nil {
		return nil, err
	}
	return b.ProcessURLs(ctx, urls), nil
}

// ReadURLsFromFile reads one URL per line; "-" reads stdin
func ReadURLsFromFile(path string) ([]string, error) {
	if path == "-" {
		return ReadURLs(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadURLs(f)
}

// ReadURLs reads one URL per line, skipping blanks, # comments and duplicates
func ReadURLs(r io.Reader) ([]string, error) {
	var urls []string
	seen := make(map[string]bool)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || seen[line] {
			continue
		}
		seen[line] = true
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan urls: %w", err)
	}
	return urls, nil
}

// Summary counts successes and failures
func Summary(results []BatchResult) (ok, failed int) {
	for _, r := range results {
		if r.OK() {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}
