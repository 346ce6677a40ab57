package validate

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed marks a payload that is not a JSON report object
	ErrMalformed = errors.New("malformed payload")

	// ErrMissingField marks a required field that is absent or blank
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidValue marks a field whose value is outside its allowed set
	ErrInvalidValue = errors.New("invalid value")
)

// RootPath is the field path used for whole-document failures
const RootPath = "$"

// ValidationError reports the first schema violation found in a payload
type ValidationError struct {
	Path    string // e.g. "claims[2].rating"
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid report at %s: %s", e.Path, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
