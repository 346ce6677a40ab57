package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/assay/internal/logging"
	"github.com/ppiankov/assay/internal/pipeline"
	"github.com/ppiankov/assay/internal/session"
	"github.com/ppiankov/assay/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze a list of article URLs in parallel",
	Long: `Batch analyzes every URL in a file (one per line, # comments allowed,
"-" reads stdin) with a pool of workers. Each URL runs in its own session;
a JSON report and a fully expanded Markdown report are written per URL.

Example:
  assay batch urls.txt
  assay batch urls.txt --concurrency 8 --output-dir ./reports
  assay batch - --analyzer llm < urls.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./assay-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "batch-timeout", 30*time.Minute, "total timeout for batch processing")

	// Same collaborator flags as analyze
	batchCmd.Flags().StringVar(&analyzerKind, "analyzer", "", "analysis collaborator (mock, http, llm); overrides config")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the response cache")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "omit the report footer")
	batchCmd.Flags().DurationVar(&timeout, "timeout", 0, "bounded wait per URL (default from config)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyAnalyzeFlags(cfg)
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}
	defer logging.Close()

	ctx, cancel := signalContext(context.Background())
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, batchTimeout)
	defer cancelTimeout()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Assay Batch Analysis\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Analyzer:     %s\n", cfg.Analyzer.Kind)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "⚙️  Reading URLs from file...\n")
	urls, err := worker.ReadURLsFromFile(file)
	if err != nil {
		return fmt.Errorf("read urls: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Loaded %d URLs\n\n", len(urls))

	var mu sync.Mutex
	progress := func(r worker.BatchResult) {
		mu.Lock()
		defer mu.Unlock()
		if !r.OK() {
			fmt.Fprintf(os.Stderr, "✗ %s: %s\n", r.URL, failureMessage(r.Err))
			return
		}
		fmt.Fprintf(os.Stderr, "✓ %s (%s, %v)\n", r.URL, r.Report.Validity.Grade, r.Duration.Round(time.Millisecond))
	}

	processor := worker.NewBatchProcessor(p.EvaluateURL, cfg.Concurrency.Workers, progress)
	fmt.Fprintf(os.Stderr, "⚙️  Processing URLs with %d workers...\n\n", cfg.Concurrency.Workers)
	results := processor.ProcessURLs(ctx, urls)

	used := make(map[string]int)
	for _, r := range results {
		if !r.OK() {
			continue
		}
		slug := uniqueSlug(reportSlug(r.URL), used)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")
		if err := p.RenderReport(io.Discard, r.Report, jsonPath, mdPath, false); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.URL, err)
		}
	}

	ok, failed := worker.Summary(results)
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d URLs\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", ok)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failed)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if ok == 0 && failed > 0 {
		return fmt.Errorf("all %d URLs failed", failed)
	}
	return nil
}

func failureMessage(err error) string {
	var f *session.Failure
	if errors.As(err, &f) {
		if f.Path != "" {
			return fmt.Sprintf("%s: %s (%s)", f.Title(), f.Message, f.Path)
		}
		return fmt.Sprintf("%s: %s", f.Title(), f.Message)
	}
	return err.Error()
}

// reportSlug derives a file name from an article URL, e.g.
// https://www.example.com/health/fasting -> example.com-health-fasting
func reportSlug(rawURL string) string {
	name := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		name = strings.TrimPrefix(u.Hostname(), "www.") + u.Path
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}

	s := strings.Trim(b.String(), "-.")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "report"
	}
	return s
}

func uniqueSlug(slug string, used map[string]int) string {
	used[slug]++
	if n := used[slug]; n > 1 {
		return fmt.Sprintf("%s-%d", slug, n)
	}
	return slug
}
