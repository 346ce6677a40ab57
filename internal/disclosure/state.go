// Package disclosure tracks which report sections a reader has expanded.
package disclosure

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSectionID is returned when toggling an id outside the closed set
var ErrUnknownSectionID = errors.New("unknown section id")

// SectionID names a collapsible section. Child sections use a dotted key
// ("context.sources") and are only visible while their parent is open.
type SectionID string

const (
	Claims         SectionID = "claims"
	Context        SectionID = "context"
	Resources      SectionID = "resources"
	Methodology    SectionID = "methodology"
	ContextSources SectionID = "context.sources"
)

// sections fixes the slot of every id in State
var sections = []SectionID{Claims, Context, Resources, Methodology, ContextSources}

// TopLevel lists the top-level sections in display order
var TopLevel = []SectionID{Claims, Context, Resources, Methodology}

func index(id SectionID) (int, bool) {
	for i, s := range sections {
		if s == id {
			return i, true
		}
	}
	return -1, false
}

// Parent returns the enclosing section of a dotted id
func (id SectionID) Parent() (SectionID, bool) {
	i := strings.LastIndex(string(id), ".")
	if i < 0 {
		return "", false
	}
	return id[:i], true
}

// Known reports whether id is in the closed set
func (id SectionID) Known() bool {
	_, ok := index(id)
	return ok
}

// ParseSectionID accepts an id as typed by a user
func ParseSectionID(s string) (SectionID, error) {
	id := SectionID(strings.ToLower(strings.TrimSpace(s)))
	if !id.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSectionID, s)
	}
	return id, nil
}

// State is an immutable set of open flags. The zero value has every section
// collapsed. States are comparable with ==.
type State struct {
	open [5]bool
}

// Init returns the state used whenever a new report is loaded
func Init() State {
	return State{}
}

// Toggle returns a copy of s with exactly the flag for id flipped. An unknown
// id yields ErrUnknownSectionID and s unchanged.
func Toggle(s State, id SectionID) (State, error) {
	i, ok := index(id)
	if !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownSectionID, id)
	}
	s.open[i] = !s.open[i]
	return s, nil
}

// IsOpen is the raw flag for id, ignoring ancestors
func (s State) IsOpen(id SectionID) bool {
	i, ok := index(id)
	return ok && s.open[i]
}

// Visible reports whether id is open and every ancestor is open too
func (s State) Visible(id SectionID) bool {
	if !s.IsOpen(id) {
		return false
	}
	if parent, ok := id.Parent(); ok {
		return s.Visible(parent)
	}
	return true
}

// Equal reports whether both states have the same flags
func (s State) Equal(other State) bool {
	return s == other
}

// Open lists the ids whose raw flag is set, in slot order
func (s State) Open() []SectionID {
	var out []SectionID
	for i, id := range sections {
		if s.open[i] {
			out = append(out, id)
		}
	}
	return out
}

func (s State) String() string {
	parts := make([]string, len(sections))
	for i, id := range sections {
		parts[i] = fmt.Sprintf("%s:%t", id, s.open[i])
	}
	return "{" + strings.Join(parts, " ") + "}"
}
