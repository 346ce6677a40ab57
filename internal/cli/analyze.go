package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/assay/internal/disclosure"
	"github.com/ppiankov/assay/internal/logging"
	"github.com/ppiankov/assay/internal/model"
	"github.com/ppiankov/assay/internal/pipeline"
	"github.com/ppiankov/assay/internal/session"
)

var (
	outJSON      string
	outMD        string
	outFormat    string
	imagePath    string
	openSections []string
	expandAll    bool
	checkLinks   bool
	analyzerKind string
	noCache      bool
	noFooter     bool
	timeout      time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [url]",
	Short: "Analyze one article or screenshot and print its report card",
	Long: `Analyze submits one article URL (or, with --image, a screenshot) to the
configured analysis collaborator and prints the validated report card.

Sections start collapsed, as in the interactive viewer. Open them with
--open (claims, context, context.sources, resources, methodology) or show
everything with --expand-all.

Example:
  assay analyze https://example.com/health/fasting-study
  assay analyze https://example.com/a --open claims,context --check-links
  assay analyze --image post.png --format markdown
  assay analyze https://example.com/a --json report.json --markdown report.md`,
	Args: func(cmd *cobra.Command, args []string) error {
		if imagePath != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Input flags
	analyzeCmd.Flags().StringVar(&imagePath, "image", "", "analyze a screenshot file instead of a URL")

	// Output flags
	analyzeCmd.Flags().StringVar(&outFormat, "format", "text", "stdout format (text, markdown, json)")
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "also write the validated report JSON to this path")
	analyzeCmd.Flags().StringVar(&outMD, "markdown", "", "also write the fully expanded Markdown report to this path")
	analyzeCmd.Flags().StringSliceVar(&openSections, "open", nil, "sections to expand (comma separated)")
	analyzeCmd.Flags().BoolVar(&expandAll, "expand-all", false, "expand every section")
	analyzeCmd.Flags().BoolVar(&checkLinks, "check-links", false, "check that further-reading links resolve")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "omit the report footer")

	// Collaborator flags
	analyzeCmd.Flags().StringVar(&analyzerKind, "analyzer", "", "analysis collaborator (mock, http, llm); overrides config")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the response cache")
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 0, "bounded wait for the analysis (default from config)")
}

// applyAnalyzeFlags overlays the collaborator flags shared by analyze and batch
func applyAnalyzeFlags(cfg *model.Config) {
	if analyzerKind != "" {
		cfg.Analyzer.Kind = analyzerKind
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	if timeout > 0 {
		cfg.Analyzer.Timeout = timeout
	}
	cfg.Output.Verbose = cfg.Output.Verbose || verbose
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyAnalyzeFlags(cfg)
	if err := setupLogging(cfg); err != nil {
		return err
	}
	defer logging.Close()

	format, err := pipeline.ParseFormat(outFormat)
	if err != nil {
		return err
	}
	opts, err := analyzeOptions()
	if err != nil {
		return err
	}

	ref := model.ImageRef(imagePath)
	if imagePath == "" {
		ref = model.URLRef(args[0])
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Analyzing %s (analyzer: %s)\n", ref.String(), cfg.Analyzer.Kind)
	}

	ctx, cancel := signalContext(context.Background())
	defer cancel()

	result, err := p.Evaluate(ctx, ref, opts)
	if err != nil {
		var f *session.Failure
		if errors.As(err, &f) {
			p.Renderer().RenderFailure(os.Stderr, f)
		}
		return err
	}

	if err := p.Renderer().Render(cmd.OutOrStdout(), result.View, format); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if outJSON != "" || outMD != "" {
		if err := p.RenderReport(os.Stderr, result.Report, outJSON, outMD, true); err != nil {
			return err
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Done in %v\n", result.Duration.Round(time.Millisecond))
		if n := unreachable(result); n > 0 {
			fmt.Fprintf(os.Stderr, "⚠️  %d further-reading link(s) unreachable\n", n)
		}
	}
	return nil
}

// analyzeOptions turns --open, --expand-all and --check-links into pipeline
// options. Checking links needs the resources section open to show results.
func analyzeOptions() (pipeline.Options, error) {
	opts := pipeline.Options{CheckLinks: checkLinks}
	if expandAll {
		opts.Open = append(append([]disclosure.SectionID{}, disclosure.TopLevel...), disclosure.ContextSources)
		return opts, nil
	}

	seen := make(map[disclosure.SectionID]bool)
	for _, s := range openSections {
		id, err := disclosure.ParseSectionID(s)
		if err != nil {
			return opts, fmt.Errorf("--open %q: %w", s, err)
		}
		if !seen[id] {
			seen[id] = true
			opts.Open = append(opts.Open, id)
		}
	}
	if checkLinks && !seen[disclosure.Resources] {
		opts.Open = append(opts.Open, disclosure.Resources)
	}
	return opts, nil
}

func unreachable(result *pipeline.Result) int {
	n := 0
	for _, l := range result.Links {
		if !l.Reachable {
			n++
		}
	}
	return n
}
