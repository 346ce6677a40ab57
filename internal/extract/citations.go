package extract

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// maxCitations bounds how many research links are forwarded to a prompt
const maxCitations = 20

// researchHosts are hosts whose links almost always point at a paper
var researchHosts = []string{
	"doi.org", "pubmed.ncbi.nlm.nih.gov", "ncbi.nlm.nih.gov", "nature.com",
	"thelancet.com", "nejm.org", "jamanetwork.com", "bmj.com", "sciencedirect.com",
	"cell.com", "onlinelibrary.wiley.com", "link.springer.com", "journals.plos.org",
	"academic.oup.com", "science.org", "arxiv.org", "medrxiv.org", "biorxiv.org",
	"cochranelibrary.com", "clinicaltrials.gov",
}

// Citations returns links under n that point at research hosts, resolved
// against sourceURL, in document order
func Citations(n *html.Node, sourceURL string) ([]string, error) {
	base, err := url.Parse(sourceURL)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var links []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(links) >= maxCitations {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			if resolved := resolveURL(base, strings.TrimSpace(attr(n, "href"))); resolved != "" && !seen[resolved] {
				if u, err := url.Parse(resolved); err == nil && IsResearchHost(u.Hostname()) {
					seen[resolved] = true
					links = append(links, resolved)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return links, nil
}

// IsResearchHost reports whether host is, or is a subdomain of, a known
// publisher or index
func IsResearchHost(host string) bool {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	for _, h := range researchHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// resolveURL resolves href against base, dropping anchors, javascript: and
// mailto: links, and anything that is not http(s)
func resolveURL(base *url.URL, href string) string {
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	if strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(parsed)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}
