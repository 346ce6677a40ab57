package model

import "github.com/ppiankov/assay/internal/grade"

// Report is the complete scientific validity report for one piece of content.
// It is built once from a validated collaborator payload and never mutated.
type Report struct {
	ContentType  string            `json:"contentType"`
	Validity     GradedAssessment  `json:"validity"`
	Components   Components        `json:"components"`
	Source       Source            `json:"source"`
	Takeaways    Takeaways         `json:"takeaways"`
	Claims       []ClaimAssessment `json:"claims"`
	Context      ScientificContext `json:"context"`
	Resources    []Resource        `json:"resources"`
	AnalysisDate string            `json:"analysisDate"`

	// Screenshot submissions only
	ExtractedText string `json:"extractedText,omitempty"`
	ImageID       string `json:"imageId,omitempty"`
}

// GradedAssessment pairs a letter grade with its explanation
type GradedAssessment struct {
	Grade       grade.Grade `json:"grade"`
	Label       string      `json:"label,omitempty"` // e.g. "Somewhat Reliable"
	Explanation string      `json:"explanation"`
}

// Components holds the three sub-grades behind the overall validity grade
type Components struct {
	ResearchEvidence GradedAssessment `json:"researchEvidence"`
	ArticleAccuracy  GradedAssessment `json:"articleAccuracy"`
	BroaderContext   GradedAssessment `json:"broaderContext"`
}

// ComponentKey names one sub-grade
type ComponentKey string

const (
	ComponentResearchEvidence ComponentKey = "researchEvidence"
	ComponentArticleAccuracy  ComponentKey = "articleAccuracy"
	ComponentBroaderContext   ComponentKey = "broaderContext"
)

// ComponentKeys lists the sub-grades in display order
var ComponentKeys = []ComponentKey{
	ComponentResearchEvidence,
	ComponentArticleAccuracy,
	ComponentBroaderContext,
}

// Title returns the display name of the sub-grade
func (k ComponentKey) Title() string {
	switch k {
	case ComponentResearchEvidence:
		return "Research Evidence"
	case ComponentArticleAccuracy:
		return "Article Accuracy"
	case ComponentBroaderContext:
		return "Broader Context"
	default:
		return string(k)
	}
}

// Get returns the assessment for key
func (c Components) Get(key ComponentKey) (GradedAssessment, bool) {
	switch key {
	case ComponentResearchEvidence:
		return c.ResearchEvidence, true
	case ComponentArticleAccuracy:
		return c.ArticleAccuracy, true
	case ComponentBroaderContext:
		return c.BroaderContext, true
	}
	return GradedAssessment{}, false
}

// Source describes where the content came from and what research backs it
type Source struct {
	Publication string             `json:"publication"`
	Date        string             `json:"date"`
	Author      string             `json:"author,omitempty"`
	Provenance  ResearchProvenance `json:"provenance"`
}

// Takeaways is the reader-facing summary
type Takeaways struct {
	BottomLine            string `json:"bottomLine"`
	ContextForReaders     string `json:"contextForReaders"`
	PracticalSignificance string `json:"practicalSignificance"`
}

// ClaimAssessment rates one claim made by the content
type ClaimAssessment struct {
	Text            string      `json:"text"`
	Rating          ClaimRating `json:"rating"`
	EvidenceQuality string      `json:"evidenceQuality,omitempty"` // e.g. "Moderate"
	Explanation     string      `json:"explanation"`
}

// Resource is a further-reading link
type Resource struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}
