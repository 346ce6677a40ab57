package ui

import (
	"fmt"
	"strings"

	"github.com/ppiankov/assay/internal/present"
	"github.com/ppiankov/assay/internal/session"
)

// View renders the current screen
func (a App) View() string {
	var body string
	switch {
	case a.editing:
		body = a.viewInput()
	case a.session.Phase() == session.PhaseLoading:
		body = fmt.Sprintf("\n %s Analyzing %s ...\n", a.spinner.View(), a.session.Ref().String())
	case a.session.Phase() == session.PhaseFailed:
		body = a.viewFailure(a.session.Failure())
	case a.session.Phase() == session.PhaseReady:
		vm, err := a.session.View()
		if err != nil {
			body = errorStyle.Render(err.Error())
		} else {
			body = renderReport(vm)
		}
	}

	if a.err != nil {
		body += "\n" + errorStyle.Render(a.err.Error())
	}

	return titleStyle.Render("assay") + "\n" + a.scroll(body) + "\n" + a.statusBar()
}

func (a App) viewInput() string {
	var b strings.Builder
	b.WriteString("\n Analyze a science or health article\n\n ")
	b.WriteString(a.input.View())
	b.WriteString("\n")
	return b.String()
}

func (a App) viewFailure(f *session.Failure) string {
	if f == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n" + errorStyle.Render(f.Title()) + "\n\n")
	b.WriteString(" " + textStyle.Render(f.Message) + "\n")
	if f.Path != "" {
		b.WriteString(" " + labelStyle.Render("Field: "+f.Path) + "\n")
	}
	if f.Class == session.ClassIrrelevant {
		b.WriteString("\n " + session.GuidanceIntro + "\n")
		for _, g := range session.Guidance {
			b.WriteString("   • " + g + "\n")
		}
	}
	b.WriteString("\n " + headingStyle.Render(session.RecoveryHint) + " (n)\n")
	return b.String()
}

// scroll shows the window of body that fits between title and status bar
func (a App) scroll(body string) string {
	if a.height <= 2 {
		return body
	}
	lines := strings.Split(body, "\n")
	visible := a.height - 2
	offset := a.offset
	if last := len(lines) - visible; offset > last {
		offset = last
	}
	if offset < 0 {
		offset = 0
	}
	end := offset + visible
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[offset:end], "\n")
}

func (a App) statusBar() string {
	var hints string
	switch {
	case a.editing:
		hints = "enter analyze · esc back · ctrl+c quit"
	case a.session.Phase() == session.PhaseReady:
		hints = "c claims · x context · s sources · r resources · m method · j/k scroll · n new · q quit"
	default:
		hints = "n new · q quit"
	}
	return statusBar.Render(hints)
}

func renderReport(vm *present.ViewModel) string {
	var b strings.Builder
	v := vm.Validity

	grade := "-"
	if v.Known {
		grade = string(v.Grade)
	}
	fmt.Fprintf(&b, "\n %s %s  %s\n", labelStyle.Render("Scientific Validity"),
		gradeStyle(v.Slug).Render(grade+"  "+v.Indicator.String()), textStyle.Render(v.Label))
	fmt.Fprintf(&b, " %s\n", labelStyle.Render(vm.ContentType))
	if v.Explanation != "" {
		fmt.Fprintf(&b, " %s\n", v.Explanation)
	}

	b.WriteString(headingStyle.Render(" Grade Breakdown") + "\n")
	for _, c := range vm.Components {
		g := "-"
		if c.Known {
			g = string(c.Grade)
		}
		fmt.Fprintf(&b, "   %-18s %s\n", c.Title, gradeStyle(c.Slug).Render(fmt.Sprintf("%-3s %s", g, c.Indicator)))
	}

	src := vm.Source
	b.WriteString(headingStyle.Render(" Source") + "\n")
	fmt.Fprintf(&b, "   %s · %s\n", src.Publication, src.Date)
	if src.Author != "" {
		fmt.Fprintf(&b, "   %s\n", src.Author)
	}
	fmt.Fprintf(&b, "   %s\n", labelStyle.Render(src.Provenance.SummaryLabel))
	if src.Provenance.Citation != "" {
		fmt.Fprintf(&b, "   %s (%s)\n", src.Provenance.Citation, src.Provenance.Accessibility)
	}
	if src.Provenance.ContentBasis != "" {
		fmt.Fprintf(&b, "   %s\n", src.Provenance.ContentBasis)
	}

	b.WriteString(headingStyle.Render(" Key Takeaways") + "\n")
	for _, t := range vm.Takeaways {
		fmt.Fprintf(&b, "   %s %s\n", labelStyle.Render(t.Label+":"), t.Text)
	}

	for _, sec := range vm.Sections {
		renderSection(&b, sec)
	}
	return b.String()
}

func renderSection(b *strings.Builder, sec present.SectionView) {
	marker := "▸"
	if sec.Expanded {
		marker = "▾"
	}
	title := sec.Title
	if sec.Items > 0 {
		title = fmt.Sprintf("%s (%d)", title, sec.Items)
	}
	b.WriteString(headingStyle.Render(" "+marker+" "+title) + "\n")
	if !sec.Expanded {
		return
	}

	for _, c := range sec.Claims {
		fmt.Fprintf(b, "   %q\n     %s", c.Text, ratingStyle(c.RatingSlug).Render(c.Rating))
		if c.EvidenceQuality != "" {
			fmt.Fprintf(b, " · evidence %s", c.EvidenceQuality)
		}
		fmt.Fprintf(b, "\n     %s\n", c.Explanation)
	}

	if cv := sec.Context; cv != nil {
		fmt.Fprintf(b, "   %s\n", textStyle.Render(cv.Heading))
		for _, row := range cv.Rows {
			fmt.Fprintf(b, "   %s %s\n", labelStyle.Render(row.Label+":"), row.Text)
		}
		if cv.MissingContext != "" {
			fmt.Fprintf(b, "   %s %s\n", labelStyle.Render("Missing context:"), cv.MissingContext)
		}
		for _, p := range cv.Papers {
			fmt.Fprintf(b, "     • %s (%s)\n", p.Citation, p.Accessibility)
		}
		if cv.CountNote != "" {
			fmt.Fprintf(b, "   %s\n", labelStyle.Render(cv.CountNote))
		}
		if cv.PaperToggle != "" {
			fmt.Fprintf(b, "   %s\n", labelStyle.Render("["+cv.PaperToggle+"] (s)"))
		}
	}

	for _, r := range sec.Resources {
		fmt.Fprintf(b, "   %s %s\n     %s\n", r.Title, labelStyle.Render("["+r.Tier+"]"), r.URL)
	}

	if m := sec.Methodology; m != nil {
		fmt.Fprintf(b, "   %s\n   %s\n   %s\n", m.Statement, m.Limitations, labelStyle.Render(m.FeedbackPrompt))
	}
}
