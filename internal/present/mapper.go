// Package present projects a validated report and its disclosure state into
// a renderer-neutral view model.
package present

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ppiankov/assay/internal/disclosure"
	"github.com/ppiankov/assay/internal/grade"
	"github.com/ppiankov/assay/internal/model"
	"github.com/ppiankov/assay/internal/validate"
)

// ErrNilReport is returned when projecting without a report
var ErrNilReport = errors.New("no report to project")

const (
	methodologyStatement = "This analysis was conducted using a combination of AI-assisted evaluation " +
		"and scientific knowledge accessed on %s. The assessment evaluates the content based on " +
		"reporting accuracy, scientific validity, and contextual completeness."
	methodologyLimitations = "This analysis cannot substitute for professional medical advice. " +
		"Scientific understanding evolves over time."
	feedbackPrompt = "Was this analysis helpful?"
)

var feedbackOptions = []string{"Yes, it was helpful", "No, it needs improvement"}

// ViewModel is everything a renderer needs to draw one report
type ViewModel struct {
	ContentType   string          `json:"contentType"`
	Validity      GradeView       `json:"validity"`
	Components    []ComponentView `json:"components"`
	Source        SourceView      `json:"source"`
	Takeaways     []LabeledText   `json:"takeaways"`
	Sections      []SectionView   `json:"sections"`
	ExtractedText string          `json:"extractedText,omitempty"`
	ImageID       string          `json:"imageId,omitempty"`
}

// GradeView is a letter grade with everything needed to draw it
type GradeView struct {
	Grade       grade.Grade     `json:"grade"`
	Known       bool            `json:"known"`
	Score       float64         `json:"score"`
	Indicator   grade.Indicator `json:"indicator"`
	Slug        string          `json:"slug"`
	Label       string          `json:"label,omitempty"`
	Explanation string          `json:"explanation"`
}

// ComponentView is one of the three sub-grades
type ComponentView struct {
	Key   model.ComponentKey `json:"key"`
	Title string             `json:"title"`
	GradeView
}

// SourceView describes the publication
type SourceView struct {
	Publication string         `json:"publication"`
	Date        string         `json:"date"`
	Author      string         `json:"author,omitempty"`
	Provenance  ProvenanceView `json:"provenance"`
}

// SectionView is one collapsible section. Only the body matching ID is set,
// and only while Expanded.
type SectionView struct {
	ID       disclosure.SectionID `json:"id"`
	Title    string               `json:"title"`
	Expanded bool                 `json:"expanded"`
	Items    int                  `json:"items,omitempty"`

	Claims      []ClaimView      `json:"claims,omitempty"`
	Context     *ContextView     `json:"context,omitempty"`
	Resources   []ResourceView   `json:"resources,omitempty"`
	Methodology *MethodologyView `json:"methodology,omitempty"`
}

// ClaimView is one rated claim
type ClaimView struct {
	Text            string `json:"text"`
	Rating          string `json:"rating"`
	RatingSlug      string `json:"ratingSlug"`
	EvidenceQuality string `json:"evidenceQuality,omitempty"`
	Explanation     string `json:"explanation"`
}

// ResourceView is one further-reading link
type ResourceView struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Host        string `json:"host"`
	Description string `json:"description,omitempty"`
	Tier        string `json:"tier"`

	// Set by ApplyLinkStatus
	Checked     bool   `json:"checked,omitempty"`
	Reachable   bool   `json:"reachable,omitempty"`
	RedirectURL string `json:"redirectUrl,omitempty"`
}

// MethodologyView is the "about this analysis" body
type MethodologyView struct {
	AnalysisDate    string   `json:"analysisDate"`
	Statement       string   `json:"statement"`
	Limitations     string   `json:"limitations"`
	FeedbackPrompt  string   `json:"feedbackPrompt"`
	FeedbackOptions []string `json:"feedbackOptions"`
}

var sectionTitles = map[disclosure.SectionID]string{
	disclosure.Claims:      "Claims Assessment",
	disclosure.Context:     "Scientific Context",
	disclosure.Resources:   "Additional Resources",
	disclosure.Methodology: "About This Analysis",
}

// Mapper projects reports. The zero value is not usable; use NewMapper.
type Mapper struct {
	authority *validate.AuthorityClassifier
}

// NewMapper creates a mapper that tiers resource links with authority. A nil
// classifier uses the built-in domain lists.
func NewMapper(authority *validate.AuthorityClassifier) *Mapper {
	if authority == nil {
		authority = validate.NewAuthorityClassifier(nil)
	}
	return &Mapper{authority: authority}
}

var defaultMapper = NewMapper(nil)

// Project projects report with the default mapper
func Project(report *model.Report, state disclosure.State) (*ViewModel, error) {
	return defaultMapper.Project(report, state)
}

// Project builds the view model for report under state. It is pure: the
// same inputs always give an equal view model.
func (m *Mapper) Project(report *model.Report, state disclosure.State) (*ViewModel, error) {
	if report == nil {
		return nil, ErrNilReport
	}

	papersOpen := state.Visible(disclosure.ContextSources)
	provenance, err := ResolveProvenanceView(report.Source.Provenance, papersOpen)
	if err != nil {
		return nil, err
	}
	contextView, err := ResolveContextView(report.Context, report.Source.Provenance, papersOpen)
	if err != nil {
		return nil, err
	}

	vm := &ViewModel{
		ContentType: report.ContentType,
		Validity:    gradeView(report.Validity),
		Source: SourceView{
			Publication: report.Source.Publication,
			Date:        report.Source.Date,
			Author:      report.Source.Author,
			Provenance:  provenance,
		},
		Takeaways: []LabeledText{
			{Label: "Bottom Line", Text: report.Takeaways.BottomLine},
			{Label: "Context for Readers", Text: report.Takeaways.ContextForReaders},
			{Label: "Practical Significance", Text: report.Takeaways.PracticalSignificance},
		},
		ExtractedText: report.ExtractedText,
		ImageID:       report.ImageID,
	}

	for _, key := range model.ComponentKeys {
		ga, _ := report.Components.Get(key)
		vm.Components = append(vm.Components, ComponentView{Key: key, Title: key.Title(), GradeView: gradeView(ga)})
	}

	for _, id := range disclosure.TopLevel {
		sv := SectionView{ID: id, Title: sectionTitles[id], Expanded: state.IsOpen(id)}
		switch id {
		case disclosure.Claims:
			if len(report.Claims) == 0 {
				continue
			}
			sv.Items = len(report.Claims)
			if sv.Expanded {
				sv.Claims = claimViews(report.Claims)
			}
		case disclosure.Context:
			if sv.Expanded {
				cv := contextView
				sv.Context = &cv
			}
		case disclosure.Resources:
			if len(report.Resources) == 0 {
				continue
			}
			sv.Items = len(report.Resources)
			if sv.Expanded {
				sv.Resources = m.resourceViews(report.Resources)
			}
		case disclosure.Methodology:
			if sv.Expanded {
				sv.Methodology = &MethodologyView{
					AnalysisDate:    report.AnalysisDate,
					Statement:       fmt.Sprintf(methodologyStatement, report.AnalysisDate),
					Limitations:     methodologyLimitations,
					FeedbackPrompt:  feedbackPrompt,
					FeedbackOptions: append([]string(nil), feedbackOptions...),
				}
			}
		}
		vm.Sections = append(vm.Sections, sv)
	}

	return vm, nil
}

// Section returns the section with id, if the view has one
func (vm *ViewModel) Section(id disclosure.SectionID) (*SectionView, bool) {
	for i := range vm.Sections {
		if vm.Sections[i].ID == id {
			return &vm.Sections[i], true
		}
	}
	return nil, false
}

// ApplyLinkStatus annotates expanded resource views with link check results
func (vm *ViewModel) ApplyLinkStatus(statuses map[string]validate.LinkStatus) {
	sv, ok := vm.Section(disclosure.Resources)
	if !ok {
		return
	}
	for i := range sv.Resources {
		st, ok := statuses[sv.Resources[i].URL]
		if !ok {
			continue
		}
		sv.Resources[i].Checked = true
		sv.Resources[i].Reachable = st.Reachable
		sv.Resources[i].RedirectURL = st.RedirectURL
	}
}

func gradeView(ga model.GradedAssessment) GradeView {
	return GradeView{
		Grade:       ga.Grade,
		Known:       ga.Grade.Known(),
		Score:       grade.ScoreOf(ga.Grade),
		Indicator:   grade.IndicatorOf(ga.Grade),
		Slug:        ga.Grade.Slug(),
		Label:       ga.Label,
		Explanation: ga.Explanation,
	}
}

func claimViews(claims []model.ClaimAssessment) []ClaimView {
	out := make([]ClaimView, len(claims))
	for i, c := range claims {
		out[i] = ClaimView{
			Text:            c.Text,
			Rating:          string(c.Rating),
			RatingSlug:      c.Rating.Slug(),
			EvidenceQuality: c.EvidenceQuality,
			Explanation:     c.Explanation,
		}
	}
	return out
}

func (m *Mapper) resourceViews(resources []model.Resource) []ResourceView {
	out := make([]ResourceView, len(resources))
	for i, r := range resources {
		host := ""
		if u, err := url.Parse(r.URL); err == nil {
			host = strings.TrimPrefix(u.Hostname(), "www.")
		}
		out[i] = ResourceView{
			Title:       r.Title,
			URL:         r.URL,
			Host:        host,
			Description: r.Description,
			Tier:        m.authority.Classify(r.URL).String(),
		}
	}
	return out
}
