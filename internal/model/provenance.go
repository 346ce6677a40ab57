package model

import "errors"

var (
	// ErrUnknownProvenanceKind marks a research kind outside none/single/multiple
	ErrUnknownProvenanceKind = errors.New("unknown provenance kind")

	// ErrProvenanceContextMismatch marks a report whose scientific context
	// describes a different research kind than its provenance
	ErrProvenanceContextMismatch = errors.New("provenance and context kinds differ")
)

// ResearchKind says how many studies back the content. It is shared by
// ResearchProvenance and ScientificContext.
type ResearchKind string

const (
	KindNone     ResearchKind = "none"
	KindSingle   ResearchKind = "single"
	KindMultiple ResearchKind = "multiple"
)

// Aliases used by earlier payloads
var researchKindAliases = map[string]ResearchKind{
	"none":               KindNone,
	"nospecificresearch": KindNone,
	"single":             KindSingle,
	"singlestudy":        KindSingle,
	"singleresearch":     KindSingle,
	"multiple":           KindMultiple,
	"multiplestudies":    KindMultiple,
	"multipleresearch":   KindMultiple,
}

// ParseResearchKind normalizes a wire value into a ResearchKind
func ParseResearchKind(s string) (ResearchKind, bool) {
	k, ok := researchKindAliases[normalizeLabel(s)]
	return k, ok
}

// Valid reports whether k is in the closed set
func (k ResearchKind) Valid() bool {
	switch k {
	case KindNone, KindSingle, KindMultiple:
		return true
	}
	return false
}

// Accessibility says whether a paper can be read without a subscription
type Accessibility string

const (
	AccessOpen      Accessibility = "Open Access"
	AccessPaywalled Accessibility = "Paywalled"
	AccessUnknown   Accessibility = "Unknown"
)

// ParseAccessibility normalizes a free-text accessibility label
func ParseAccessibility(s string) (Accessibility, bool) {
	switch normalizeLabel(s) {
	case "openaccess", "open":
		return AccessOpen, true
	case "paywalled", "paywall":
		return AccessPaywalled, true
	case "unknown":
		return AccessUnknown, true
	}
	return "", false
}

// ResearchProvenance is a tagged union on Kind:
//   - none:     ContentBasis
//   - single:   Citation, DOI (optional), Accessibility
//   - multiple: Count, Papers, Elided
type ResearchProvenance struct {
	Kind ResearchKind `json:"kind"`

	ContentBasis string `json:"contentBasis,omitempty"`

	Citation      string        `json:"citation,omitempty"`
	DOI           string        `json:"doi,omitempty"`
	Accessibility Accessibility `json:"accessibility,omitempty"`

	Count  int     `json:"count,omitempty"`
	Papers []Paper `json:"papers,omitempty"`
	Elided bool    `json:"elided,omitempty"` // Papers is a subset of Count
}

// Paper is one cited study in a multiple-study provenance
type Paper struct {
	Citation      string        `json:"citation"`
	Accessibility Accessibility `json:"accessibility"`
}

// ScientificContext is a tagged union on Kind, mirroring ResearchProvenance:
//   - none:     FieldSummary, StateOfKnowledge, Limitations
//   - single:   ResearchSummary, Limitations, Conflicts/Design/SampleSize (optional)
//   - multiple: ConsensusStatement, StrengthOfEvidence, AreasOfUncertainty
type ScientificContext struct {
	Kind ResearchKind `json:"kind"`

	FieldSummary     string `json:"fieldSummary,omitempty"`
	StateOfKnowledge string `json:"stateOfKnowledge,omitempty"`
	Limitations      string `json:"limitations,omitempty"`

	ResearchSummary string `json:"researchSummary,omitempty"`
	Conflicts       string `json:"conflicts,omitempty"`
	Design          string `json:"design,omitempty"`
	SampleSize      string `json:"sampleSize,omitempty"`

	ConsensusStatement string `json:"consensusStatement,omitempty"`
	StrengthOfEvidence string `json:"strengthOfEvidence,omitempty"`
	AreasOfUncertainty string `json:"areasOfUncertainty,omitempty"`

	MissingContext string `json:"missingContext,omitempty"`
}
