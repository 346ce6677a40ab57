package disclosure

import (
	"errors"
	"testing"
)

func TestInit_AllClosed(t *testing.T) {
	s := Init()
	for _, id := range sections {
		if s.IsOpen(id) {
			t.Errorf("%s open after Init", id)
		}
	}
	if !s.Equal(State{}) {
		t.Error("Init should equal the zero state")
	}
}

func TestToggle_FlipsExactlyOne(t *testing.T) {
	for _, id := range sections {
		t.Run(string(id), func(t *testing.T) {
			before := Init()
			after, err := Toggle(before, id)
			if err != nil {
				t.Fatalf("Toggle: %v", err)
			}
			if !after.IsOpen(id) {
				t.Errorf("%s not open after toggle", id)
			}
			for _, other := range sections {
				if other != id && after.IsOpen(other) != before.IsOpen(other) {
					t.Errorf("toggling %s changed %s", id, other)
				}
			}
			if before.IsOpen(id) {
				t.Error("original state was mutated")
			}
		})
	}
}

func TestToggle_Twice(t *testing.T) {
	s, _ := Toggle(Init(), Resources)
	s, _ = Toggle(s, Context)
	start := s

	s, _ = Toggle(s, Methodology)
	s, _ = Toggle(s, Methodology)
	if !s.Equal(start) {
		t.Errorf("double toggle = %v, want %v", s, start)
	}
}

func TestToggle_Unknown(t *testing.T) {
	start, _ := Toggle(Init(), Claims)
	got, err := Toggle(start, "summary")
	if !errors.Is(err, ErrUnknownSectionID) {
		t.Fatalf("expected ErrUnknownSectionID, got %v", err)
	}
	if !got.Equal(start) {
		t.Error("state changed on unknown id")
	}
}

func TestVisible_RequiresParent(t *testing.T) {
	s, _ := Toggle(Init(), ContextSources)
	if !s.IsOpen(ContextSources) {
		t.Fatal("raw flag should be set")
	}
	if s.Visible(ContextSources) {
		t.Error("child visible while parent closed")
	}

	s, _ = Toggle(s, Context)
	if !s.Visible(ContextSources) {
		t.Error("child hidden while parent open")
	}

	s, _ = Toggle(s, Context)
	if s.Visible(ContextSources) {
		t.Error("child still visible after parent closed")
	}
	if !s.IsOpen(ContextSources) {
		t.Error("closing the parent must not clear the child flag")
	}
}

func TestParseSectionID(t *testing.T) {
	tests := []struct {
		in   string
		want SectionID
		ok   bool
	}{
		{"claims", Claims, true},
		{" Context.Sources ", ContextSources, true},
		{"header", "", false},
	}
	for _, tt := range tests {
		got, err := ParseSectionID(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseSectionID(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestParent(t *testing.T) {
	if p, ok := ContextSources.Parent(); !ok || p != Context {
		t.Errorf("Parent() = %q, %v", p, ok)
	}
	if _, ok := Claims.Parent(); ok {
		t.Error("top-level id has no parent")
	}
}

func TestOpenAndString(t *testing.T) {
	s, _ := Toggle(Init(), Resources)
	s, _ = Toggle(s, Claims)
	open := s.Open()
	if len(open) != 2 || open[0] != Claims || open[1] != Resources {
		t.Errorf("Open() = %v", open)
	}
	if got := Init().String(); got != "{claims:false context:false resources:false methodology:false context.sources:false}" {
		t.Errorf("String() = %q", got)
	}
}
