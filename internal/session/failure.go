package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/assay/internal/analyze"
	"github.com/ppiankov/assay/internal/disclosure"
	"github.com/ppiankov/assay/internal/model"
	"github.com/ppiankov/assay/internal/validate"
)

// Class separates bad content from bad data from bad luck
type Class string

const (
	ClassIrrelevant Class = "irrelevant" // content outside science and health
	ClassGeneric    Class = "generic"    // transport or collaborator failure
	ClassValidation Class = "validation" // payload violates the report schema
	ClassTimeout    Class = "timeout"    // no answer within the bounded wait
)

const (
	// MsgGeneric is shown when a collaborator failure carries no message
	MsgGeneric = "Failed to analyze article"

	// MsgTimeout is shown when the bounded wait elapses
	MsgTimeout = "The analysis took too long to complete. Please try again."

	// MsgInvalidReport is shown for schema violations; Path names the field
	MsgInvalidReport = "The analysis service returned an invalid report."

	// RecoveryHint labels the only way out of a failure: a new submission
	RecoveryHint = "Try Another Article"

	// GuidanceIntro introduces Guidance
	GuidanceIntro = "This tool is designed to analyze science and health news articles. " +
		"Examples of content that can be analyzed include:"
)

// Guidance lists content that can be analyzed, shown with Irrelevant failures
var Guidance = []string{
	"Health news from major media outlets",
	"Science reporting on recent studies",
	"Medical advice articles from health websites",
	"Nutrition and wellness articles",
}

// Failure is the terminal outcome of a submission that produced no report
type Failure struct {
	Class   Class
	Message string
	Path    string // schema violations only
	Err     error
}

func (f *Failure) Error() string {
	if f.Path != "" {
		return fmt.Sprintf("%s: %s (at %s)", f.Class, f.Message, f.Path)
	}
	return fmt.Sprintf("%s: %s", f.Class, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Title is the heading a renderer shows above the message
func (f *Failure) Title() string {
	switch f.Class {
	case ClassIrrelevant:
		return "Not Analyzable Content"
	case ClassValidation:
		return "Invalid Analysis"
	case ClassTimeout:
		return "Analysis Timed Out"
	default:
		return "Analysis Error"
	}
}

// Classify maps a collaborator, validation or projection error to a Failure
func Classify(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Failure{Class: ClassTimeout, Message: MsgTimeout, Err: err}
	}

	var verr *validate.ValidationError
	if errors.As(err, &verr) {
		return &Failure{Class: ClassValidation, Message: verr.Message, Path: verr.Path, Err: err}
	}
	if errors.Is(err, model.ErrProvenanceContextMismatch) ||
		errors.Is(err, model.ErrUnknownProvenanceKind) ||
		errors.Is(err, disclosure.ErrUnknownSectionID) {
		return &Failure{Class: ClassValidation, Message: MsgInvalidReport, Err: err}
	}

	if aerr, ok := analyze.AsError(err); ok {
		if aerr.Irrelevant() {
			return &Failure{Class: ClassIrrelevant, Message: aerr.Message, Err: err}
		}
		msg := aerr.Message
		if msg == "" {
			msg = MsgGeneric
		}
		return &Failure{Class: ClassGeneric, Message: msg, Err: err}
	}

	return &Failure{Class: ClassGeneric, Message: MsgGeneric, Err: err}
}
