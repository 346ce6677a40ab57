package validate

import (
	"testing"

	"github.com/ppiankov/assay/internal/model"
)

func TestAuthorityClassifier_Classify(t *testing.T) {
	classifier := NewAuthorityClassifier(&model.AuthorityConfig{
		PrimaryDomains:   []string{"doi.org", "nih.gov", "nature.com"},
		SecondaryDomains: []string{"wikipedia.org", "mayoclinic.org"},
		DomainMap:        map[string]string{"blog.nature.com": "tertiary"},
		PathPatterns:     []model.PathPattern{{Pattern: `^/papers/`, Tier: "primary"}, {Pattern: `[`, Tier: "primary"}},
	})

	tests := []struct {
		url  string
		want model.AuthorityTier
		desc string
	}{
		{"https://doi.org/10.1000/xyz", model.TierPrimary, "DOI resolver"},
		{"https://www.ncbi.nlm.nih.gov/pmc/articles/PMC1", model.TierPrimary, "subdomain of primary"},
		{"https://WWW.Nature.com/articles/s1", model.TierPrimary, "case and www ignored"},
		{"https://blog.nature.com/post", model.TierTertiary, "explicit map wins over suffix"},
		{"https://en.wikipedia.org/wiki/Vitamin_D", model.TierSecondary, "encyclopedia"},
		{"https://www.mayoclinic.org/diseases", model.TierSecondary, "clinic"},
		{"https://example.org/papers/42.pdf", model.TierPrimary, "path pattern"},
		{"https://health.state.gov/report", model.TierPrimary, ".gov TLD"},
		{"https://med.ox.ac.uk/study", model.TierPrimary, ".ac.uk TLD"},
		{"https://wellness-blog.example.com/post", model.TierTertiary, "everything else"},
		{"not a url", model.TierUnknown, "unparsable"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := classifier.Classify(tt.url); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestAuthorityClassifier_Defaults(t *testing.T) {
	classifier := NewAuthorityClassifier(nil)
	if got := classifier.Classify("https://www.cdc.gov/diabetes"); got != model.TierPrimary {
		t.Errorf("cdc.gov = %v, want primary", got)
	}
	if got := classifier.Classify("https://www.nhs.uk/conditions"); got != model.TierSecondary {
		t.Errorf("nhs.uk = %v, want secondary", got)
	}
}

func TestAuthorityClassifier_ClassifyResources(t *testing.T) {
	classifier := NewAuthorityClassifier(nil)
	tiers := classifier.ClassifyResources([]model.Resource{
		{Title: "Paper", URL: "https://doi.org/10.1/abc"},
		{Title: "Blog", URL: "https://someone.example.net/post"},
	})
	if tiers["https://doi.org/10.1/abc"] != model.TierPrimary {
		t.Error("expected DOI to be primary")
	}
	if tiers["https://someone.example.net/post"] != model.TierTertiary {
		t.Error("expected blog to be tertiary")
	}
}

func TestParseTier(t *testing.T) {
	tests := map[string]model.AuthorityTier{
		"primary":   model.TierPrimary,
		"Secondary": model.TierSecondary,
		"2":         model.TierSecondary,
		"tertiary":  model.TierTertiary,
		"whatever":  model.TierTertiary,
	}
	for in, want := range tests {
		if got := ParseTier(in); got != want {
			t.Errorf("ParseTier(%q) = %v, want %v", in, got, want)
		}
	}
}
