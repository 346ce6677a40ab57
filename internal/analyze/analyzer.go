// Package analyze holds the adapters that turn a content reference into a raw
// report payload: a canned mock, a remote HTTP collaborator and an LLM.
package analyze

import (
	"context"
	"errors"

	"github.com/ppiankov/assay/internal/model"
)

// TypeIrrelevant marks an Error raised because the content is not science or
// health related
const TypeIrrelevant = "IRRELEVANT_CONTENT"

// ErrUnsupportedContent is returned for content kinds an adapter cannot handle
var ErrUnsupportedContent = errors.New("unsupported content kind")

// Analyzer produces the raw report JSON for one piece of content
type Analyzer interface {
	Analyze(ctx context.Context, ref model.ContentRef) ([]byte, error)
}

// Func adapts a function to Analyzer
type Func func(ctx context.Context, ref model.ContentRef) ([]byte, error)

// Analyze calls f
func (f Func) Analyze(ctx context.Context, ref model.ContentRef) ([]byte, error) {
	return f(ctx, ref)
}

// Error is a rejection reported by the collaborator. It mirrors the
// {message, type} body of the collaborator API.
type Error struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// Irrelevant reports whether the content was rejected as out of scope
func (e *Error) Irrelevant() bool {
	return e.Type == TypeIrrelevant
}

// AsError returns the *Error in err's chain, if any
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
