package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/ppiankov/assay/internal/grade"
	"github.com/ppiankov/assay/internal/model"
)

// Wire shapes use pointers so absent fields can be told apart from blank ones.

type wireReport struct {
	ContentType   *string                `json:"contentType"`
	Validity      *wireGraded            `json:"validity"`
	Components    map[string]*wireGraded `json:"components"`
	Source        *wireSource            `json:"source"`
	Takeaways     *wireTakeaways         `json:"takeaways"`
	Claims        *[]wireClaim           `json:"claims"`
	Context       *wireContext           `json:"context"`
	Resources     *[]wireResource        `json:"resources"`
	AnalysisDate  *string                `json:"analysisDate"`
	ExtractedText string                 `json:"extractedText"`
	ImageID       string                 `json:"imageId"`
}

type wireGraded struct {
	Grade       *string `json:"grade"`
	Label       string  `json:"label"`
	Explanation *string `json:"explanation"`
}

type wireSource struct {
	Publication *string         `json:"publication"`
	Date        *string         `json:"date"`
	Author      string          `json:"author"`
	Provenance  *wireProvenance `json:"provenance"`
}

type wireProvenance struct {
	Kind          string      `json:"kind"`
	ResearchType  string      `json:"researchType"`
	ContentBasis  *string     `json:"contentBasis"`
	Citation      *string     `json:"citation"`
	DOI           string      `json:"doi"`
	Accessibility *string     `json:"accessibility"`
	Count         *int        `json:"count"`
	Papers        []wirePaper `json:"papers"`
	Elided        bool        `json:"elided"`
}

type wirePaper struct {
	Citation      *string `json:"citation"`
	Accessibility *string `json:"accessibility"`
}

type wireTakeaways struct {
	BottomLine            *string `json:"bottomLine"`
	ContextForReaders     *string `json:"contextForReaders"`
	PracticalSignificance *string `json:"practicalSignificance"`
}

type wireClaim struct {
	Text            *string `json:"text"`
	Rating          *string `json:"rating"`
	EvidenceQuality string  `json:"evidenceQuality"`
	Explanation     *string `json:"explanation"`
}

type wireContext struct {
	Kind               string  `json:"kind"`
	ResearchType       string  `json:"researchType"`
	FieldSummary       *string `json:"fieldSummary"`
	StateOfKnowledge   *string `json:"stateOfKnowledge"`
	Limitations        *string `json:"limitations"`
	ResearchSummary    *string `json:"researchSummary"`
	Conflicts          string  `json:"conflicts"`
	Design             string  `json:"design"`
	SampleSize         string  `json:"sampleSize"`
	ConsensusStatement *string `json:"consensusStatement"`
	StrengthOfEvidence *string `json:"strengthOfEvidence"`
	AreasOfUncertainty *string `json:"areasOfUncertainty"`
	MissingContext     string  `json:"missingContext"`
}

type wireResource struct {
	Title       *string `json:"title"`
	URL         *string `json:"url"`
	Description string  `json:"description"`
}

// ValidateReport decodes a collaborator payload and checks every invariant of
// the report schema. It returns either a complete Report or a *ValidationError
// naming the first offending field; never both.
func ValidateReport(raw []byte) (*model.Report, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &ValidationError{Path: RootPath, Message: "payload is not a JSON object", Err: ErrMalformed}
	}

	var w wireReport
	if err := json.Unmarshal(trimmed, &w); err != nil {
		path := RootPath
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			path = typeErr.Field
		}
		return nil, &ValidationError{Path: path, Message: fmt.Sprintf("decode: %v", err), Err: ErrMalformed}
	}

	c := &checker{}
	report := &model.Report{
		ContentType:   c.required("contentType", w.ContentType),
		Validity:      c.graded("validity", w.Validity),
		Components:    c.components("components", w.Components),
		Source:        c.source("source", w.Source),
		Takeaways:     c.takeaways("takeaways", w.Takeaways),
		Claims:        c.claims("claims", w.Claims),
		Resources:     c.resources("resources", w.Resources),
		AnalysisDate:  c.required("analysisDate", w.AnalysisDate),
		ExtractedText: strings.TrimSpace(w.ExtractedText),
		ImageID:       strings.TrimSpace(w.ImageID),
	}
	report.Context = c.context("context", w.Context, report.Source.Provenance.Kind)

	if c.err != nil {
		return nil, c.err
	}
	return report, nil
}

// checker records the first violation; later checks still run but cannot
// overwrite it, which keeps the reported path stable.
type checker struct {
	err *ValidationError
}

func (c *checker) fail(path string, sentinel error, format string, args ...any) {
	if c.err != nil {
		return
	}
	c.err = &ValidationError{Path: path, Message: fmt.Sprintf(format, args...), Err: sentinel}
}

func (c *checker) required(path string, v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		c.fail(path, ErrMissingField, "required")
		return ""
	}
	return strings.TrimSpace(*v)
}

func (c *checker) grade(path string, v *string) grade.Grade {
	s := c.required(path, v)
	if s == "" {
		return ""
	}
	g, ok := grade.Parse(s)
	if !ok {
		c.fail(path, ErrInvalidValue, "unknown grade %q", s)
	}
	return g
}

func (c *checker) graded(path string, w *wireGraded) model.GradedAssessment {
	if w == nil {
		c.fail(path, ErrMissingField, "required")
		return model.GradedAssessment{}
	}
	return model.GradedAssessment{
		Grade:       c.grade(path+".grade", w.Grade),
		Label:       strings.TrimSpace(w.Label),
		Explanation: c.required(path+".explanation", w.Explanation),
	}
}

func (c *checker) components(path string, w map[string]*wireGraded) model.Components {
	if w == nil {
		c.fail(path, ErrMissingField, "required")
		return model.Components{}
	}

	out := model.Components{
		ResearchEvidence: c.graded(path+"."+string(model.ComponentResearchEvidence), w[string(model.ComponentResearchEvidence)]),
		ArticleAccuracy:  c.graded(path+"."+string(model.ComponentArticleAccuracy), w[string(model.ComponentArticleAccuracy)]),
		BroaderContext:   c.graded(path+"."+string(model.ComponentBroaderContext), w[string(model.ComponentBroaderContext)]),
	}

	for _, key := range slices.Sorted(maps.Keys(w)) {
		if !slices.Contains(model.ComponentKeys, model.ComponentKey(key)) {
			c.fail(path+"."+key, ErrInvalidValue, "unknown component %q", key)
		}
	}
	return out
}

func (c *checker) source(path string, w *wireSource) model.Source {
	if w == nil {
		c.fail(path, ErrMissingField, "required")
		return model.Source{}
	}
	return model.Source{
		Publication: c.required(path+".publication", w.Publication),
		Date:        c.required(path+".date", w.Date),
		Author:      strings.TrimSpace(w.Author),
		Provenance:  c.provenance(path+".provenance", w.Provenance),
	}
}

func (c *checker) kind(path, kind, alias string) model.ResearchKind {
	raw := strings.TrimSpace(kind)
	if raw == "" {
		raw = strings.TrimSpace(alias)
	}
	if raw == "" {
		c.fail(path, ErrMissingField, "required")
		return ""
	}
	k, ok := model.ParseResearchKind(raw)
	if !ok {
		c.fail(path, model.ErrUnknownProvenanceKind, "unknown research kind %q", raw)
		return ""
	}
	return k
}

func (c *checker) provenance(path string, w *wireProvenance) model.ResearchProvenance {
	if w == nil {
		c.fail(path, ErrMissingField, "required")
		return model.ResearchProvenance{}
	}

	p := model.ResearchProvenance{Kind: c.kind(path+".kind", w.Kind, w.ResearchType)}
	switch p.Kind {
	case model.KindNone:
		p.ContentBasis = c.required(path+".contentBasis", w.ContentBasis)
	case model.KindSingle:
		p.Citation = c.required(path+".citation", w.Citation)
		p.DOI = c.doi(path+".doi", w.DOI)
		p.Accessibility = c.accessibility(path+".accessibility", w.Accessibility)
	case model.KindMultiple:
		p.Count, p.Papers, p.Elided = c.papers(path, w)
	}
	return p
}

// papers checks that a multiple-study list never claims more than it backs:
// the list matches count exactly unless it is marked elided.
func (c *checker) papers(path string, w *wireProvenance) (int, []model.Paper, bool) {
	if w.Count == nil {
		c.fail(path+".count", ErrMissingField, "required")
		return 0, nil, false
	}
	count := *w.Count
	if count < 1 {
		c.fail(path+".count", ErrInvalidValue, "must be at least 1, got %d", count)
	}
	if len(w.Papers) == 0 {
		c.fail(path+".papers", ErrMissingField, "at least one paper is required")
	}

	switch {
	case w.Elided && len(w.Papers) >= count:
		c.fail(path+".elided", ErrInvalidValue, "elided list must be shorter than count (%d papers, count %d)", len(w.Papers), count)
	case !w.Elided && len(w.Papers) != count:
		c.fail(path+".count", ErrInvalidValue, "count %d does not match %d listed papers", count, len(w.Papers))
	}

	papers := make([]model.Paper, 0, len(w.Papers))
	for i, wp := range w.Papers {
		pp := fmt.Sprintf("%s.papers[%d]", path, i)
		papers = append(papers, model.Paper{
			Citation:      c.required(pp+".citation", wp.Citation),
			Accessibility: c.accessibility(pp+".accessibility", wp.Accessibility),
		})
	}
	return count, papers, w.Elided
}

func (c *checker) doi(path, raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "doi:"} {
		if strings.HasPrefix(strings.ToLower(s), prefix) {
			s = s[len(prefix):]
			break
		}
	}
	if !strings.HasPrefix(s, "10.") || !strings.Contains(s, "/") {
		c.fail(path, ErrInvalidValue, "not a DOI: %q", raw)
	}
	return s
}

func (c *checker) accessibility(path string, v *string) model.Accessibility {
	s := c.required(path, v)
	if s == "" {
		return ""
	}
	a, ok := model.ParseAccessibility(s)
	if !ok {
		c.fail(path, ErrInvalidValue, "unknown accessibility %q", s)
	}
	return a
}

func (c *checker) takeaways(path string, w *wireTakeaways) model.Takeaways {
	if w == nil {
		c.fail(path, ErrMissingField, "required")
		return model.Takeaways{}
	}
	return model.Takeaways{
		BottomLine:            c.required(path+".bottomLine", w.BottomLine),
		ContextForReaders:     c.required(path+".contextForReaders", w.ContextForReaders),
		PracticalSignificance: c.required(path+".practicalSignificance", w.PracticalSignificance),
	}
}

func (c *checker) claims(path string, w *[]wireClaim) []model.ClaimAssessment {
	if w == nil {
		c.fail(path, ErrMissingField, "required (use [] for no claims)")
		return nil
	}

	claims := make([]model.ClaimAssessment, 0, len(*w))
	for i, wc := range *w {
		cp := fmt.Sprintf("%s[%d]", path, i)
		claims = append(claims, model.ClaimAssessment{
			Text:            c.required(cp+".text", wc.Text),
			Rating:          c.rating(cp+".rating", wc.Rating),
			EvidenceQuality: strings.TrimSpace(wc.EvidenceQuality),
			Explanation:     c.required(cp+".explanation", wc.Explanation),
		})
	}
	return claims
}

func (c *checker) rating(path string, v *string) model.ClaimRating {
	s := c.required(path, v)
	if s == "" {
		return ""
	}
	r, ok := model.ParseClaimRating(s)
	if !ok {
		c.fail(path, ErrInvalidValue, "unrecognized rating %q", s)
	}
	return r
}

func (c *checker) context(path string, w *wireContext, provenanceKind model.ResearchKind) model.ScientificContext {
	if w == nil {
		c.fail(path, ErrMissingField, "required")
		return model.ScientificContext{}
	}

	sc := model.ScientificContext{
		Kind:           c.kind(path+".kind", w.Kind, w.ResearchType),
		MissingContext: strings.TrimSpace(w.MissingContext),
	}
	if sc.Kind != "" && provenanceKind != "" && sc.Kind != provenanceKind {
		c.fail(path+".kind", model.ErrProvenanceContextMismatch,
			"context kind %q does not match provenance kind %q", sc.Kind, provenanceKind)
		return sc
	}

	switch sc.Kind {
	case model.KindNone:
		sc.FieldSummary = c.required(path+".fieldSummary", w.FieldSummary)
		sc.StateOfKnowledge = c.required(path+".stateOfKnowledge", w.StateOfKnowledge)
		sc.Limitations = c.required(path+".limitations", w.Limitations)
	case model.KindSingle:
		sc.ResearchSummary = c.required(path+".researchSummary", w.ResearchSummary)
		sc.Limitations = c.required(path+".limitations", w.Limitations)
		sc.Conflicts = strings.TrimSpace(w.Conflicts)
		sc.Design = strings.TrimSpace(w.Design)
		sc.SampleSize = strings.TrimSpace(w.SampleSize)
	case model.KindMultiple:
		sc.ConsensusStatement = c.required(path+".consensusStatement", w.ConsensusStatement)
		sc.StrengthOfEvidence = c.required(path+".strengthOfEvidence", w.StrengthOfEvidence)
		sc.AreasOfUncertainty = c.required(path+".areasOfUncertainty", w.AreasOfUncertainty)
	}
	return sc
}

func (c *checker) resources(path string, w *[]wireResource) []model.Resource {
	if w == nil {
		c.fail(path, ErrMissingField, "required (use [] for no resources)")
		return nil
	}

	resources := make([]model.Resource, 0, len(*w))
	for i, wr := range *w {
		rp := fmt.Sprintf("%s[%d]", path, i)
		resources = append(resources, model.Resource{
			Title:       c.required(rp+".title", wr.Title),
			URL:         c.absoluteURL(rp+".url", wr.URL),
			Description: strings.TrimSpace(wr.Description),
		})
	}
	return resources
}

func (c *checker) absoluteURL(path string, v *string) string {
	s := c.required(path, v)
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" || !strings.Contains(s, "://") {
		c.fail(path, ErrInvalidValue, "not an absolute URL: %q", s)
	}
	return s
}
