package analyze

import (
	"context"
	"errors"
	"testing"

	"github.com/ppiankov/assay/internal/model"
)

func TestGate_Check(t *testing.T) {
	gate := NewGate([]string{"amazon.com", " www.eBay.com ", ""})

	tests := []struct {
		name    string
		ref     model.ContentRef
		wantMsg string
		wantTyp string
	}{
		{"science article", model.URLRef("https://www.nature.com/articles/x"), "", ""},
		{"empty url", model.URLRef("  "), MsgURLRequired, ""},
		{"no scheme", model.URLRef("nature.com/articles/x"), MsgInvalidURL, ""},
		{"ftp", model.URLRef("ftp://files.example.com/a"), MsgInvalidURL, ""},
		{"no host", model.URLRef("https://"), MsgInvalidURL, ""},
		{"blocked host", model.URLRef("https://amazon.com/dp/1"), MsgIrrelevant, TypeIrrelevant},
		{"blocked subdomain", model.URLRef("https://smile.amazon.com/dp/1"), MsgIrrelevant, TypeIrrelevant},
		{"blocked www", model.URLRef("http://www.ebay.com/itm/2"), MsgIrrelevant, TypeIrrelevant},
		{"lookalike allowed", model.URLRef("https://notamazon.com/health"), "", ""},
		{"screenshot", model.ImageRef("/tmp/post.png"), "", ""},
		{"screenshot missing", model.ImageRef(""), MsgScreenshotRequired, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gate.Check(tt.ref)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("Check() = %v, want nil", err)
				}
				return
			}
			e, ok := AsError(err)
			if !ok {
				t.Fatalf("Check() = %v, want *Error", err)
			}
			if e.Message != tt.wantMsg || e.Type != tt.wantTyp {
				t.Errorf("Check() = {%q, %q}, want {%q, %q}", e.Message, e.Type, tt.wantMsg, tt.wantTyp)
			}
			if e.Irrelevant() != (tt.wantTyp == TypeIrrelevant) {
				t.Error("Irrelevant() disagrees with Type")
			}
		})
	}
}

func TestGate_UnknownKind(t *testing.T) {
	err := NewGate(nil).Check(model.ContentRef{Kind: "video"})
	if !errors.Is(err, ErrUnsupportedContent) {
		t.Fatalf("expected ErrUnsupportedContent, got %v", err)
	}
}

func TestGated_ShortCircuits(t *testing.T) {
	called := false
	next := Func(func(ctx context.Context, ref model.ContentRef) ([]byte, error) {
		called = true
		return []byte("{}"), nil
	})
	a := Gated(NewGate([]string{"instagram.com"}), next)

	if _, err := a.Analyze(context.Background(), model.URLRef("https://instagram.com/p/1")); err == nil {
		t.Fatal("expected gate rejection")
	}
	if called {
		t.Fatal("next analyzer should not run for rejected input")
	}

	if _, err := a.Analyze(context.Background(), model.URLRef("https://who.int/news")); err != nil || !called {
		t.Fatalf("expected pass-through, err=%v called=%v", err, called)
	}
}
