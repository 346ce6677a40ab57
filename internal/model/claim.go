package model

import "strings"

// ClaimRating is the closed set of verdicts for a claim
type ClaimRating string

const (
	RatingAccuratelyReported ClaimRating = "Accurately Reported"
	RatingPartiallyAccurate  ClaimRating = "Partially Accurate"
	RatingMisleading         ClaimRating = "Misleading"
	RatingUnsupported        ClaimRating = "Unsupported"
)

// ClaimRatings lists every rating, most favourable first
var ClaimRatings = []ClaimRating{
	RatingAccuratelyReported,
	RatingPartiallyAccurate,
	RatingMisleading,
	RatingUnsupported,
}

var ratingsByKey = func() map[string]ClaimRating {
	m := make(map[string]ClaimRating, len(ClaimRatings))
	for _, r := range ClaimRatings {
		m[normalizeLabel(string(r))] = r
	}
	return m
}()

// ParseClaimRating matches a free-text label against the known ratings,
// ignoring case, whitespace, dashes and underscores.
func ParseClaimRating(s string) (ClaimRating, bool) {
	r, ok := ratingsByKey[normalizeLabel(s)]
	return r, ok
}

// Slug returns the styling key, e.g. "partially-accurate"
func (r ClaimRating) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(r)), " ", "-")
}

// Severity orders ratings from 0 (accurate) to 3 (unsupported); unknown is -1
func (r ClaimRating) Severity() int {
	for i, known := range ClaimRatings {
		if known == r {
			return i
		}
	}
	return -1
}

// normalizeLabel lowercases and strips separators so "Open-Access",
// "open access" and "OPEN_ACCESS" compare equal.
func normalizeLabel(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '\t', '\n', '\r', '-', '_':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
