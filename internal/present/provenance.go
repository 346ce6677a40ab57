package present

import (
	"fmt"

	"github.com/ppiankov/assay/internal/model"
)

// ProvenanceView is the source block's description of the backing research
type ProvenanceView struct {
	Kind         model.ResearchKind `json:"kind"`
	SummaryLabel string             `json:"summaryLabel"`

	ContentBasis string `json:"contentBasis,omitempty"`

	Citation      string `json:"citation,omitempty"`
	DOI           string `json:"doi,omitempty"`
	DOIURL        string `json:"doiUrl,omitempty"`
	Accessibility string `json:"accessibility,omitempty"`

	Count       int         `json:"count,omitempty"`
	CountNote   string      `json:"countNote,omitempty"` // "Showing 3 of 5" when the list is elided
	PapersOpen  bool        `json:"papersOpen,omitempty"`
	Papers      []PaperView `json:"papers,omitempty"` // only while PapersOpen
	PaperToggle string      `json:"paperToggle,omitempty"`
}

// PaperView is one cited study
type PaperView struct {
	Citation      string `json:"citation"`
	Accessibility string `json:"accessibility"`
}

// ContextView is the body of the scientific context section
type ContextView struct {
	Kind           model.ResearchKind `json:"kind"`
	Heading        string             `json:"heading"`
	Rows           []LabeledText      `json:"rows"`
	MissingContext string             `json:"missingContext,omitempty"`

	// Multiple-study reports only
	CountNote   string      `json:"countNote,omitempty"`
	PapersOpen  bool        `json:"papersOpen,omitempty"`
	Papers      []PaperView `json:"papers,omitempty"`
	PaperToggle string      `json:"paperToggle,omitempty"`
}

// LabeledText is a heading/paragraph pair
type LabeledText struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// ResolveProvenanceView renders p. The paper list of a multiple-study
// provenance is only included when papersOpen is set.
func ResolveProvenanceView(p model.ResearchProvenance, papersOpen bool) (ProvenanceView, error) {
	v := ProvenanceView{Kind: p.Kind}

	switch p.Kind {
	case model.KindNone:
		v.SummaryLabel = "No Specific Research Cited"
		v.ContentBasis = p.ContentBasis
	case model.KindSingle:
		v.SummaryLabel = "Single Research Source"
		v.Citation = p.Citation
		v.DOI = p.DOI
		if p.DOI != "" {
			v.DOIURL = "https://doi.org/" + p.DOI
		}
		v.Accessibility = string(p.Accessibility)
	case model.KindMultiple:
		v.SummaryLabel = fmt.Sprintf("Multiple Research Sources (%d)", p.Count)
		v.Count = p.Count
		v.CountNote = countNote(p)
		v.PapersOpen = papersOpen
		v.PaperToggle = paperToggle(p, papersOpen)
		if papersOpen {
			v.Papers = paperViews(p.Papers)
		}
	default:
		return ProvenanceView{}, fmt.Errorf("resolve provenance: %w: %q", model.ErrUnknownProvenanceKind, p.Kind)
	}
	return v, nil
}

// ResolveContextView renders c alongside the provenance p it must agree
// with. Mismatched kinds are never rendered.
func ResolveContextView(c model.ScientificContext, p model.ResearchProvenance, papersOpen bool) (ContextView, error) {
	if c.Kind != p.Kind {
		return ContextView{}, fmt.Errorf("resolve context: %w: context %q, provenance %q",
			model.ErrProvenanceContextMismatch, c.Kind, p.Kind)
	}

	v := ContextView{Kind: c.Kind, MissingContext: c.MissingContext}
	switch c.Kind {
	case model.KindNone:
		v.Heading = "General Scientific Context"
		v.Rows = rows(
			"Field Summary", c.FieldSummary,
			"State of Knowledge", c.StateOfKnowledge,
			"Limitations", c.Limitations,
		)
	case model.KindSingle:
		v.Heading = "About the Study"
		v.Rows = rows(
			"Research Summary", c.ResearchSummary,
			"Study Design", c.Design,
			"Sample Size", c.SampleSize,
			"Key Limitations", c.Limitations,
			"Conflicts of Interest", c.Conflicts,
		)
	case model.KindMultiple:
		v.Heading = "Across the Research"
		v.Rows = rows(
			"Scientific Consensus", c.ConsensusStatement,
			"Strength of Evidence", c.StrengthOfEvidence,
			"Areas of Uncertainty", c.AreasOfUncertainty,
		)
		v.CountNote = countNote(p)
		v.PapersOpen = papersOpen
		v.PaperToggle = paperToggle(p, papersOpen)
		if papersOpen {
			v.Papers = paperViews(p.Papers)
		}
	default:
		return ContextView{}, fmt.Errorf("resolve context: %w: %q", model.ErrUnknownProvenanceKind, c.Kind)
	}
	return v, nil
}

// rows pairs labels with texts, skipping blank optional fields
func rows(pairs ...string) []LabeledText {
	out := make([]LabeledText, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		out = append(out, LabeledText{Label: pairs[i], Text: pairs[i+1]})
	}
	return out
}

func countNote(p model.ResearchProvenance) string {
	if !p.Elided {
		return ""
	}
	return fmt.Sprintf("Showing %d of %d", len(p.Papers), p.Count)
}

func paperToggle(p model.ResearchProvenance, open bool) string {
	if open {
		return "Hide studies"
	}
	if p.Elided {
		return fmt.Sprintf("View %d cited studies", len(p.Papers))
	}
	return fmt.Sprintf("View all %d studies", p.Count)
}

func paperViews(papers []model.Paper) []PaperView {
	out := make([]PaperView, len(papers))
	for i, p := range papers {
		out[i] = PaperView{Citation: p.Citation, Accessibility: string(p.Accessibility)}
	}
	return out
}
