// Package pipeline wires the analyzer, session, link checker and renderer
// into the end-to-end evaluation used by the CLI commands.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ppiankov/assay/internal/analyze"
	"github.com/ppiankov/assay/internal/disclosure"
	"github.com/ppiankov/assay/internal/model"
	"github.com/ppiankov/assay/internal/present"
	"github.com/ppiankov/assay/internal/session"
	"github.com/ppiankov/assay/internal/util"
	"github.com/ppiankov/assay/internal/validate"
)

// Pipeline evaluates content end to end
type Pipeline struct {
	analyzer analyze.Analyzer
	mapper   *present.Mapper
	links    *validate.LinkChecker
	renderer *Renderer
	config   *model.Config
}

// NewPipeline builds a pipeline from configuration
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	a, err := analyze.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create analyzer: %w", err)
	}
	return NewWithAnalyzer(cfg, a), nil
}

// NewWithAnalyzer builds a pipeline around an existing analyzer
func NewWithAnalyzer(cfg *model.Config, a analyze.Analyzer) *Pipeline {
	authority := validate.NewAuthorityClassifier(&cfg.Authority)
	return &Pipeline{
		analyzer: a,
		mapper:   present.NewMapper(authority),
		links:    validate.NewLinkChecker(util.NewHTTPClient(cfg.HTTP), cfg.HTTP.UserAgent, cfg.Concurrency.Workers, authority),
		renderer: NewRenderer(cfg.Output.IncludeFooter, cfg.Output.Verbose),
		config:   cfg,
	}
}

// Options control one evaluation
type Options struct {
	CheckLinks bool
	Open       []disclosure.SectionID // sections to expand in the view
}

// Result is one evaluated piece of content
type Result struct {
	Ref      model.ContentRef
	Report   *model.Report
	View     *present.ViewModel
	Links    []validate.LinkStatus
	Duration time.Duration
}

// NewSession creates a session that uses the pipeline's analyzer and mapper
func (p *Pipeline) NewSession() *session.Session {
	return session.New(p.analyzer,
		session.WithTimeout(p.config.Analyzer.Timeout),
		session.WithMapper(p.mapper))
}

// Evaluate submits ref, opens the requested sections and optionally checks
// the further-reading links. A failed submission returns *session.Failure.
func (p *Pipeline) Evaluate(ctx context.Context, ref model.ContentRef, opts Options) (*Result, error) {
	start := time.Now()
	s := p.NewSession()
	if err := s.Submit(ctx, ref); err != nil {
		return nil, err
	}
	for _, id := range opts.Open {
		if err := s.Toggle(id); err != nil {
			return nil, fmt.Errorf("open %s: %w", id, err)
		}
	}

	view, err := s.View()
	if err != nil {
		return nil, fmt.Errorf("project report: %w", err)
	}
	result := &Result{Ref: ref, Report: s.Report(), View: view}

	if opts.CheckLinks && len(result.Report.Resources) > 0 {
		result.Links = p.links.Check(ctx, result.Report.Resources)
		view.ApplyLinkStatus(validate.StatusByURL(result.Links))
	}

	result.Duration = time.Since(start)
	return result, nil
}

// EvaluateURL evaluates an article URL and returns the validated report. It
// satisfies worker.EvaluateFunc.
func (p *Pipeline) EvaluateURL(ctx context.Context, rawURL string) (*model.Report, error) {
	result, err := p.Evaluate(ctx, model.URLRef(rawURL), Options{})
	if err != nil {
		return nil, err
	}
	return result.Report, nil
}

// View projects report with every section (and nested list) expanded
func (p *Pipeline) View(report *model.Report) (*present.ViewModel, error) {
	return p.mapper.Project(report, AllOpen())
}

// AllOpen returns a disclosure state with every section expanded
func AllOpen() disclosure.State {
	state := disclosure.Init()
	for _, id := range disclosure.TopLevel {
		state, _ = disclosure.Toggle(state, id)
	}
	state, _ = disclosure.Toggle(state, disclosure.ContextSources)
	return state
}

// Renderer returns the pipeline's renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// RenderReport writes the report as JSON and Markdown to the given paths
// (either may be empty) and prints a summary to out
func (p *Pipeline) RenderReport(out io.Writer, report *model.Report, jsonPath, mdPath string, verbose bool) error {
	view, err := p.View(report)
	if err != nil {
		return fmt.Errorf("project report: %w", err)
	}

	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			_, _ = fmt.Fprintf(out, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(view, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			_, _ = fmt.Fprintf(out, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(out, view)
	return nil
}
