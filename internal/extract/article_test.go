package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const samplePage = `<!doctype html>
<html><head>
<title>Ignored title</title>
<meta property="og:title" content="Coffee and the heart">
<meta property="article:published_time" content="2025-03-05T08:00:00Z">
<script>var tracking = "noise";</script>
</head>
<body>
<nav><a href="/">Home</a> Subscribe</nav>
<article>
  <h1>Coffee and the heart</h1>
  <p>A new   study links
     coffee to lower risk.</p>
  <p>Read the <a href="https://doi.org/10.1000/xyz#section">paper</a> or the
     <a href="https://www.ncbi.nlm.nih.gov/pmc/articles/PMC1">review</a>.</p>
  <p>See also <a href="/related">related</a> and <a href="https://doi.org/10.1000/xyz">the DOI again</a>.</p>
  <aside>Advertisement</aside>
</article>
<footer>Copyright</footer>
</body></html>`

func TestParseArticle(t *testing.T) {
	a, err := ParseArticle(samplePage, "https://news.example.com/health/coffee")
	if err != nil {
		t.Fatalf("ParseArticle failed: %v", err)
	}

	want := &Article{
		Title:     "Coffee and the heart",
		Published: "2025-03-05T08:00:00Z",
		Text: "Coffee and the heart\n" +
			"A new study links coffee to lower risk.\n" +
			"Read the paper or the review .\n" +
			"See also related and the DOI again .",
		Citations: []string{
			"https://doi.org/10.1000/xyz",
			"https://www.ncbi.nlm.nih.gov/pmc/articles/PMC1",
		},
	}
	if diff := cmp.Diff(want, a); diff != "" {
		t.Errorf("ParseArticle() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseArticle_FallsBackToBody(t *testing.T) {
	a, err := ParseArticle(`<html><head><title> Plain  page </title></head><body><div>Body text</div></body></html>`, "https://x.example/")
	if err != nil {
		t.Fatalf("ParseArticle failed: %v", err)
	}
	if a.Title != "Plain page" || a.Text != "Body text" {
		t.Errorf("unexpected article: %+v", a)
	}
	if len(a.Citations) != 0 {
		t.Errorf("expected no citations, got %v", a.Citations)
	}
}

func TestParseArticle_NoText(t *testing.T) {
	_, err := ParseArticle(`<html><body><script>only()</script></body></html>`, "https://x.example/")
	if !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
}

func TestParseArticle_Truncates(t *testing.T) {
	page := "<html><body><p>" + strings.Repeat("é", MaxTextRunes+50) + "</p></body></html>"
	a, err := ParseArticle(page, "https://x.example/")
	if err != nil {
		t.Fatalf("ParseArticle failed: %v", err)
	}
	if !a.Truncated || len([]rune(a.Text)) != MaxTextRunes {
		t.Errorf("expected truncation to %d runes, got %d", MaxTextRunes, len([]rune(a.Text)))
	}
}

func TestIsResearchHost(t *testing.T) {
	tests := map[string]bool{
		"doi.org":                 true,
		"WWW.NATURE.COM":          true,
		"pubmed.ncbi.nlm.nih.gov": true,
		"journals.plos.org":       true,
		"notnature.com":           false,
		"example.com":             false,
	}
	for host, want := range tests {
		if got := IsResearchHost(host); got != want {
			t.Errorf("IsResearchHost(%q) = %v, want %v", host, got, want)
		}
	}
}
