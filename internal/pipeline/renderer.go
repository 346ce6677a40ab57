package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/assay/internal/present"
	"github.com/ppiankov/assay/internal/session"
)

// Format selects an output encoding
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat accepts text, markdown (md) and json
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown format: %s (supported: text, markdown, json)", s)
}

const footer = "Generated by assay. This analysis cannot substitute for professional medical advice."

// Renderer writes view models as plain text, Markdown or JSON
type Renderer struct {
	includeFooter bool
	verbose       bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter, verbose bool) *Renderer {
	return &Renderer{includeFooter: includeFooter, verbose: verbose}
}

// Render writes vm to w in format
func (r *Renderer) Render(w io.Writer, vm *present.ViewModel, format Format) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(vm, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal view: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case FormatMarkdown:
		_, err := io.WriteString(w, r.Markdown(vm))
		return err
	default:
		_, err := io.WriteString(w, r.Text(vm))
		return err
	}
}

// Markdown renders vm as a Markdown document
func (r *Renderer) Markdown(vm *present.ViewModel) string {
	d := &markdownDoc{}
	r.write(d, vm)
	return d.String()
}

// Text renders vm for a terminal without styling
func (r *Renderer) Text(vm *present.ViewModel) string {
	d := &textDoc{}
	r.write(d, vm)
	return d.String()
}

// RenderJSON writes v (a report or view) to path as indented JSON
func (r *Renderer) RenderJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes vm to path as Markdown
func (r *Renderer) RenderMarkdown(vm *present.ViewModel, path string) error {
	return writeFile(path, []byte(r.Markdown(vm)))
}

// RenderSummary prints a one-screen summary of vm
func (r *Renderer) RenderSummary(w io.Writer, vm *present.ViewModel) {
	v := vm.Validity
	_, _ = fmt.Fprintf(w, "\n%s  %s  %s\n", gradeLabel(v), v.Indicator, vm.ContentType)
	_, _ = fmt.Fprintf(w, "   %s\n", vm.Source.Provenance.SummaryLabel)
	for _, c := range vm.Components {
		_, _ = fmt.Fprintf(w, "   %-18s %-3s %s\n", c.Title, gradeOrDash(c.GradeView), c.Indicator)
	}
	if r.verbose {
		for _, t := range vm.Takeaways {
			_, _ = fmt.Fprintf(w, "   %s: %s\n", t.Label, t.Text)
		}
	}
}

// RenderFailure writes a failed submission in text form
func (r *Renderer) RenderFailure(w io.Writer, f *session.Failure) {
	_, _ = fmt.Fprintf(w, "%s\n\n%s\n", f.Title(), f.Message)
	if f.Path != "" {
		_, _ = fmt.Fprintf(w, "Field: %s\n", f.Path)
	}
	if f.Class == session.ClassIrrelevant {
		_, _ = fmt.Fprintf(w, "\n%s\n", session.GuidanceIntro)
		for _, g := range session.Guidance {
			_, _ = fmt.Fprintf(w, "  • %s\n", g)
		}
	}
	_, _ = fmt.Fprintf(w, "\n%s\n", session.RecoveryHint)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func gradeOrDash(g present.GradeView) string {
	if !g.Known {
		return "-"
	}
	return string(g.Grade)
}

func gradeLabel(g present.GradeView) string {
	s := "Scientific Validity: " + gradeOrDash(g)
	if g.Label != "" {
		s += " (" + g.Label + ")"
	}
	return s
}

// doc is the small set of blocks a report is made of
type doc interface {
	heading(level int, text string)
	para(text string)
	field(label, value string)
	item(text string)
	rule()
}

func (r *Renderer) write(d doc, vm *present.ViewModel) {
	v := vm.Validity
	d.heading(1, gradeLabel(v))
	if v.Known {
		d.para(fmt.Sprintf("%s  %.1f / 5.0  ·  %s", v.Indicator, v.Score, vm.ContentType))
	} else {
		d.para(vm.ContentType)
	}
	d.para(v.Explanation)

	d.heading(2, "Grade Breakdown")
	for _, c := range vm.Components {
		d.field(c.Title, fmt.Sprintf("%s %s", gradeOrDash(c.GradeView), c.Indicator))
		if r.verbose {
			d.item(c.Explanation)
		}
	}

	d.heading(2, "Source")
	src := vm.Source
	d.field("Publication", src.Publication)
	d.field("Date", src.Date)
	if src.Author != "" {
		d.field("Author", src.Author)
	}
	p := src.Provenance
	d.field("Research", p.SummaryLabel)
	switch {
	case p.ContentBasis != "":
		d.field("Content basis", p.ContentBasis)
	case p.Citation != "":
		d.field("Citation", p.Citation)
		if p.DOIURL != "" {
			d.field("DOI", p.DOIURL)
		}
		d.field("Access", p.Accessibility)
	}
	if p.CountNote != "" {
		d.para(p.CountNote)
	}

	if vm.ExtractedText != "" {
		d.heading(2, "Extracted Text")
		d.para(vm.ExtractedText)
	}

	d.heading(2, "Key Takeaways")
	for _, t := range vm.Takeaways {
		d.field(t.Label, t.Text)
	}

	for _, sec := range vm.Sections {
		r.writeSection(d, sec)
	}

	if r.includeFooter {
		d.rule()
		d.para(footer)
	}
}

func (r *Renderer) writeSection(d doc, sec present.SectionView) {
	title := sec.Title
	if sec.Items > 0 {
		title = fmt.Sprintf("%s (%d)", title, sec.Items)
	}
	if !sec.Expanded {
		d.heading(2, "▸ "+title)
		return
	}
	d.heading(2, "▾ "+title)

	switch {
	case sec.Claims != nil:
		for _, c := range sec.Claims {
			d.heading(3, fmt.Sprintf("%q", c.Text))
			d.field("Rating", c.Rating)
			if c.EvidenceQuality != "" {
				d.field("Evidence quality", c.EvidenceQuality)
			}
			d.para(c.Explanation)
		}
	case sec.Context != nil:
		cv := sec.Context
		d.heading(3, cv.Heading)
		for _, row := range cv.Rows {
			d.field(row.Label, row.Text)
		}
		if cv.MissingContext != "" {
			d.field("Missing context", cv.MissingContext)
		}
		if cv.CountNote != "" {
			d.para(cv.CountNote)
		}
		for _, paper := range cv.Papers {
			d.item(paper.Citation + " (" + paper.Accessibility + ")")
		}
		if cv.PaperToggle != "" {
			d.para("[" + cv.PaperToggle + "]")
		}
	case sec.Resources != nil:
		for _, res := range sec.Resources {
			line := fmt.Sprintf("%s: %s [%s]", res.Title, res.URL, res.Tier)
			if res.Checked && !res.Reachable {
				line += " (unreachable)"
			}
			if res.Description != "" {
				line += " " + res.Description
			}
			d.item(line)
		}
	case sec.Methodology != nil:
		m := sec.Methodology
		d.para(m.Statement)
		d.para(m.Limitations)
		d.para(m.FeedbackPrompt + " " + strings.Join(m.FeedbackOptions, " / "))
	}
}

type markdownDoc struct{ b strings.Builder }

func (d *markdownDoc) heading(level int, text string) {
	fmt.Fprintf(&d.b, "%s %s\n\n", strings.Repeat("#", level), text)
}
func (d *markdownDoc) para(text string) {
	if text != "" {
		fmt.Fprintf(&d.b, "%s\n\n", text)
	}
}
func (d *markdownDoc) field(label, value string) {
	fmt.Fprintf(&d.b, "- **%s:** %s\n", label, value)
}
func (d *markdownDoc) item(text string) { fmt.Fprintf(&d.b, "  - %s\n", text) }
func (d *markdownDoc) rule()            { d.b.WriteString("---\n\n") }
func (d *markdownDoc) String() string   { return strings.TrimRight(d.b.String(), "\n") + "\n" }

type textDoc struct{ b strings.Builder }

func (d *textDoc) heading(level int, text string) {
	switch level {
	case 1:
		fmt.Fprintf(&d.b, "%s\n%s\n", text, strings.Repeat("=", len([]rune(text))))
	case 2:
		fmt.Fprintf(&d.b, "\n%s\n", text)
	default:
		fmt.Fprintf(&d.b, "\n  %s\n", text)
	}
}
func (d *textDoc) para(text string) {
	if text != "" {
		fmt.Fprintf(&d.b, "  %s\n", text)
	}
}
func (d *textDoc) field(label, value string) { fmt.Fprintf(&d.b, "  %s: %s\n", label, value) }
func (d *textDoc) item(text string)          { fmt.Fprintf(&d.b, "    • %s\n", text) }
func (d *textDoc) rule()                     { d.b.WriteString("\n" + strings.Repeat("-", 40) + "\n") }
func (d *textDoc) String() string            { return d.b.String() }
