package validate

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/ppiankov/assay/internal/model"
)

// AuthorityClassifier sorts further-reading links into authority tiers so a
// journal DOI can be told apart from a blog post at a glance
type AuthorityClassifier struct {
	domainMap map[string]model.AuthorityTier
	primary   []string
	secondary []string
	patterns  []tierPattern
}

type tierPattern struct {
	re   *regexp.Regexp
	tier model.AuthorityTier
}

// NewAuthorityClassifier builds a classifier from cfg, falling back to the
// built-in domain lists when cfg is nil. Invalid path patterns are skipped.
func NewAuthorityClassifier(cfg *model.AuthorityConfig) *AuthorityClassifier {
	if cfg == nil {
		cfg = &model.DefaultConfig().Authority
	}

	a := &AuthorityClassifier{
		domainMap: make(map[string]model.AuthorityTier, len(cfg.DomainMap)),
	}
	for host, tier := range cfg.DomainMap {
		a.domainMap[normalizeHost(host)] = ParseTier(tier)
	}
	for _, d := range cfg.PrimaryDomains {
		a.primary = append(a.primary, normalizeHost(d))
	}
	for _, d := range cfg.SecondaryDomains {
		a.secondary = append(a.secondary, normalizeHost(d))
	}
	for _, p := range cfg.PathPatterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		a.patterns = append(a.patterns, tierPattern{re: re, tier: ParseTier(p.Tier)})
	}
	return a
}

// Classify returns the tier of rawURL. Explicit host mappings win, then the
// primary and secondary domain lists (suffix match), then path patterns, then
// academic and government TLDs. Anything else is tertiary.
func (a *AuthorityClassifier) Classify(rawURL string) model.AuthorityTier {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return model.TierUnknown
	}
	host := normalizeHost(u.Hostname())

	if tier, ok := a.domainMap[host]; ok {
		return tier
	}
	if matchesDomain(host, a.primary) {
		return model.TierPrimary
	}
	if matchesDomain(host, a.secondary) {
		return model.TierSecondary
	}
	for _, p := range a.patterns {
		if p.re.MatchString(u.Path) {
			return p.tier
		}
	}
	for _, suffix := range []string{".gov", ".edu", ".ac.uk", ".gov.uk", ".nhs.uk"} {
		if strings.HasSuffix(host, suffix) {
			return model.TierPrimary
		}
	}
	return model.TierTertiary
}

// ClassifyResources tiers every resource link, keyed by URL
func (a *AuthorityClassifier) ClassifyResources(resources []model.Resource) map[string]model.AuthorityTier {
	tiers := make(map[string]model.AuthorityTier, len(resources))
	for _, r := range resources {
		tiers[r.URL] = a.Classify(r.URL)
	}
	return tiers
}

// ParseTier converts a config tier name (or its number) to an AuthorityTier
func ParseTier(s string) model.AuthorityTier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "primary", "1":
		return model.TierPrimary
	case "secondary", "2":
		return model.TierSecondary
	default:
		return model.TierTertiary
	}
}

func matchesDomain(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func normalizeHost(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.TrimPrefix(h, "www.")
}
