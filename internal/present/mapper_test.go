package present

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ppiankov/assay/internal/disclosure"
	"github.com/ppiankov/assay/internal/grade"
	"github.com/ppiankov/assay/internal/model"
	"github.com/ppiankov/assay/internal/validate"
)

func open(t *testing.T, ids ...disclosure.SectionID) disclosure.State {
	t.Helper()
	s := disclosure.Init()
	for _, id := range ids {
		var err error
		if s, err = disclosure.Toggle(s, id); err != nil {
			t.Fatalf("Toggle(%s): %v", id, err)
		}
	}
	return s
}

func sectionIDs(vm *ViewModel) []disclosure.SectionID {
	var ids []disclosure.SectionID
	for _, s := range vm.Sections {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestProject_CollapsedByDefault(t *testing.T) {
	vm, err := Project(singleReport(), disclosure.Init())
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	want := []disclosure.SectionID{disclosure.Claims, disclosure.Context, disclosure.Resources, disclosure.Methodology}
	if diff := cmp.Diff(want, sectionIDs(vm)); diff != "" {
		t.Errorf("section order (-want +got):\n%s", diff)
	}
	for _, s := range vm.Sections {
		if s.Expanded || s.Claims != nil || s.Context != nil || s.Resources != nil || s.Methodology != nil {
			t.Errorf("section %s should be collapsed with no body: %+v", s.ID, s)
		}
	}
	if claims, _ := vm.Section(disclosure.Claims); claims.Items != 1 {
		t.Errorf("claims items = %d, want 1", claims.Items)
	}
}

func TestProject_Header(t *testing.T) {
	vm, err := Project(singleReport(), disclosure.Init())
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	want := GradeView{
		Grade:       "B",
		Known:       true,
		Score:       3.7,
		Indicator:   grade.Indicator{Full: 3, Half: 1, Empty: 1},
		Slug:        "b",
		Label:       "Somewhat Reliable",
		Explanation: "Mostly sound.",
	}
	if diff := cmp.Diff(want, vm.Validity); diff != "" {
		t.Errorf("validity (-want +got):\n%s", diff)
	}

	var titles []string
	for _, c := range vm.Components {
		titles = append(titles, c.Title)
	}
	if diff := cmp.Diff([]string{"Research Evidence", "Article Accuracy", "Broader Context"}, titles); diff != "" {
		t.Errorf("component order (-want +got):\n%s", diff)
	}
	if vm.Components[1].Slug != "b-minus" {
		t.Errorf("articleAccuracy slug = %q", vm.Components[1].Slug)
	}
	if vm.Source.Provenance.DOIURL != "https://doi.org/10.1016/x.2024.1" {
		t.Errorf("DOI URL = %q", vm.Source.Provenance.DOIURL)
	}
	if vm.Takeaways[0].Text != "Modest effect." {
		t.Errorf("takeaways = %+v", vm.Takeaways)
	}
}

func TestProject_ExpandedBodies(t *testing.T) {
	state := open(t, disclosure.Claims, disclosure.Context, disclosure.Resources, disclosure.Methodology)
	vm, err := Project(singleReport(), state)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	claims, _ := vm.Section(disclosure.Claims)
	wantClaims := []ClaimView{{
		Text:            "Fasting reverses prediabetes",
		Rating:          "Misleading",
		RatingSlug:      "misleading",
		EvidenceQuality: "Moderate",
		Explanation:     "Most stayed prediabetic.",
	}}
	if diff := cmp.Diff(wantClaims, claims.Claims); diff != "" {
		t.Errorf("claims (-want +got):\n%s", diff)
	}

	ctx, _ := vm.Section(disclosure.Context)
	wantRows := []LabeledText{
		{Label: "Research Summary", Text: "A 12-week RCT."},
		{Label: "Sample Size", Text: "1,200"},
		{Label: "Key Limitations", Text: "Short follow-up."},
	}
	if diff := cmp.Diff(wantRows, ctx.Context.Rows); diff != "" {
		t.Errorf("context rows (-want +got):\n%s", diff)
	}

	res, _ := vm.Section(disclosure.Resources)
	if res.Resources[0].Tier != "primary" || res.Resources[1].Tier != "tertiary" {
		t.Errorf("tiers = %q, %q", res.Resources[0].Tier, res.Resources[1].Tier)
	}
	if res.Resources[1].Host != "example-blog.net" {
		t.Errorf("host = %q", res.Resources[1].Host)
	}

	meth, _ := vm.Section(disclosure.Methodology)
	if meth.Methodology.AnalysisDate != "2024-03-20" {
		t.Errorf("analysis date = %q", meth.Methodology.AnalysisDate)
	}
	if meth.Methodology.Limitations == "" || len(meth.Methodology.FeedbackOptions) != 2 {
		t.Errorf("methodology = %+v", meth.Methodology)
	}
}

func TestProject_EmptyClaimsOmitted(t *testing.T) {
	r := singleReport()
	r.Claims = []model.ClaimAssessment{}
	r.Resources = []model.Resource{}

	for _, state := range []disclosure.State{disclosure.Init(), open(t, disclosure.Claims, disclosure.Resources)} {
		vm, err := Project(r, state)
		if err != nil {
			t.Fatalf("Project: %v", err)
		}
		if _, ok := vm.Section(disclosure.Claims); ok {
			t.Error("claims section present for a report with no claims")
		}
		if _, ok := vm.Section(disclosure.Resources); ok {
			t.Error("resources section present for a report with no resources")
		}
		want := []disclosure.SectionID{disclosure.Context, disclosure.Methodology}
		if diff := cmp.Diff(want, sectionIDs(vm)); diff != "" {
			t.Errorf("sections (-want +got):\n%s", diff)
		}
	}
}

func TestProject_Deterministic(t *testing.T) {
	state := open(t, disclosure.Context, disclosure.ContextSources)
	a, err := Project(multipleReport(), state)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	b, _ := Project(multipleReport(), state)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("projection not deterministic:\n%s", diff)
	}
}

func TestProject_Mismatch(t *testing.T) {
	r := multipleReport()
	r.Context = model.ScientificContext{Kind: model.KindSingle, ResearchSummary: "x", Limitations: "y"}

	vm, err := Project(r, disclosure.Init())
	if vm != nil {
		t.Error("expected no view model for mismatched kinds")
	}
	if !errors.Is(err, model.ErrProvenanceContextMismatch) {
		t.Errorf("expected ErrProvenanceContextMismatch, got %v", err)
	}
}

func TestProject_NilReport(t *testing.T) {
	if _, err := Project(nil, disclosure.Init()); !errors.Is(err, ErrNilReport) {
		t.Errorf("expected ErrNilReport, got %v", err)
	}
}

func TestApplyLinkStatus(t *testing.T) {
	vm, err := Project(singleReport(), open(t, disclosure.Resources))
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	vm.ApplyLinkStatus(map[string]validate.LinkStatus{
		"https://doi.org/10.1016/x.2024.1": {Reachable: true, RedirectURL: "https://journal.example/a"},
	})

	res, _ := vm.Section(disclosure.Resources)
	if !res.Resources[0].Checked || !res.Resources[0].Reachable || res.Resources[0].RedirectURL == "" {
		t.Errorf("first resource not annotated: %+v", res.Resources[0])
	}
	if res.Resources[1].Checked {
		t.Errorf("second resource should be unchecked: %+v", res.Resources[1])
	}
}
