package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when a model answer contains no JSON object
var ErrNoJSON = errors.New("no JSON object in model output")

// IrrelevantAnswer is the whole answer a model gives for content outside
// science and health
const IrrelevantAnswer = `{"type": "IRRELEVANT_CONTENT"}`

// SystemPrompt frames the model as the report author
const SystemPrompt = `You evaluate how accurately science and health content reports the underlying research. ` +
	`You answer with a single JSON object and nothing else.`

// reportSchema documents the payload the validator accepts
const reportSchema = `{
  "contentType": "News Article | Social Media Post | Opinion | ...",
  "validity": {"grade": "A+..F", "label": "short verdict", "explanation": "..."},
  "components": {
    "researchEvidence": {"grade": "...", "explanation": "..."},
    "articleAccuracy":  {"grade": "...", "explanation": "..."},
    "broaderContext":   {"grade": "...", "explanation": "..."}
  },
  "source": {
    "publication": "...", "date": "...", "author": "optional",
    "provenance": one of
      {"kind": "none", "contentBasis": "..."}
      {"kind": "single", "citation": "...", "doi": "10.x/optional", "accessibility": "Open Access | Paywalled | Unknown"}
      {"kind": "multiple", "count": N, "papers": [{"citation": "...", "accessibility": "..."}], "elided": true if fewer than N papers are listed}
  },
  "takeaways": {"bottomLine": "...", "contextForReaders": "...", "practicalSignificance": "..."},
  "claims": [{"text": "...", "rating": "Accurately Reported | Partially Accurate | Misleading | Unsupported", "evidenceQuality": "optional", "explanation": "..."}],
  "context": matching the provenance kind
      {"kind": "none", "fieldSummary": "...", "stateOfKnowledge": "...", "limitations": "..."}
      {"kind": "single", "researchSummary": "...", "limitations": "...", "conflicts": "optional", "design": "optional", "sampleSize": "optional"}
      {"kind": "multiple", "consensusStatement": "...", "strengthOfEvidence": "...", "areasOfUncertainty": "..."}
    plus optional "missingContext",
  "resources": [{"title": "...", "url": "https://absolute", "description": "optional"}],
  "analysisDate": "YYYY-MM-DD"
}`

// BuildArticlePrompt asks for a report on extracted article text. citations
// are research links found in the page.
func BuildArticlePrompt(sourceURL, title, text, date string, citations []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Assess the scientific validity of the article below.\n\nURL: %s\n", sourceURL)
	if title != "" {
		fmt.Fprintf(&b, "Title: %s\n", title)
	}
	fmt.Fprintf(&b, "Analysis date: %s\n\nRespond with JSON shaped exactly like:\n%s\n\nRules:\n", date, reportSchema)
	b.WriteString("- Use \"kind\": \"none\" when the article cites no specific study.\n")
	b.WriteString("- context.kind must equal source.provenance.kind.\n")
	b.WriteString("- Use [] for claims or resources when there are none.\n")
	b.WriteString("- Only list resources you are confident exist.\n")
	fmt.Fprintf(&b, "- If the article is not about science or health, answer only %s.\n", IrrelevantAnswer)
	if len(citations) > 0 {
		b.WriteString("\nResearch links found in the article:\n")
		for _, c := range citations {
			fmt.Fprintf(&b, "- %s\n", c)
		}
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "ARTICLE TEXT:\n%s\n", text)
	return b.String()
}

// BuildScreenshotPrompt asks for a report on an attached social post image
func BuildScreenshotPrompt(date string) string {
	return fmt.Sprintf("The attached image is a screenshot of a social media post. "+
		"Transcribe its text into \"extractedText\" and assess its scientific validity.\n"+
		"Analysis date: %s\n\nRespond with JSON shaped exactly like:\n%s\n"+
		"with an extra top-level \"extractedText\" field.\n"+
		"If the post is not about science or health, answer only %s.\n", date, reportSchema, IrrelevantAnswer)
}

// ExtractJSON returns the first complete JSON object in a model answer,
// tolerating code fences and surrounding prose
func ExtractJSON(text string) ([]byte, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, ErrNoJSON
	}

	dec := json.NewDecoder(strings.NewReader(text[start:]))
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoJSON, err)
	}
	return bytes.TrimSpace(raw), nil
}
