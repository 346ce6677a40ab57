package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ppiankov/assay/internal/analyze"
	"github.com/ppiankov/assay/internal/disclosure"
	"github.com/ppiankov/assay/internal/model"
	"github.com/ppiankov/assay/internal/session"
)

func newTestApp(initial *model.ContentRef) App {
	a := analyze.Gated(analyze.NewGate(model.DefaultConfig().Relevance.BlockedHosts), analyze.NewMock(0))
	return NewApp(context.Background(), session.New(a), initial)
}

// results runs cmd, flattening batches, and returns every resultMsg produced
func results(cmd tea.Cmd) []resultMsg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case resultMsg:
		return []resultMsg{msg}
	case tea.BatchMsg:
		var out []resultMsg
		for _, c := range msg {
			out = append(out, results(c)...)
		}
		return out
	}
	return nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, app App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := app.Update(msg)
	next, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T, want App", m)
	}
	return next, cmd
}

// deliver feeds the collaborator answers produced by cmd back into app
func deliver(t *testing.T, app App, cmd tea.Cmd) App {
	t.Helper()
	msgs := results(cmd)
	if len(msgs) == 0 {
		t.Fatal("command produced no result")
	}
	for _, msg := range msgs {
		app, _ = update(t, app, msg)
	}
	return app
}

func TestInitialSubmission(t *testing.T) {
	ref := model.URLRef("https://news.example.com/fasting")
	app := newTestApp(&ref)

	cmd := app.Init()
	if app.session.Phase() != session.PhaseLoading {
		t.Fatalf("phase = %s, want loading", app.session.Phase())
	}
	if !strings.Contains(app.View(), "Analyzing") {
		t.Error("loading view missing spinner text")
	}

	app = deliver(t, app, cmd)
	if app.session.Phase() != session.PhaseReady {
		t.Fatalf("phase = %s, want ready", app.session.Phase())
	}
	view := app.View()
	if !strings.Contains(view, "▸ Claims Assessment (3)") {
		t.Errorf("ready view missing collapsed claims:\n%s", view)
	}
}

func TestPromptSubmission(t *testing.T) {
	app := newTestApp(nil)
	if !app.editing {
		t.Fatal("app without initial ref should start editing")
	}

	app, _ = update(t, app, key("https://news.example.com/a"))
	app, cmd := update(t, app, key("enter"))
	if app.editing {
		t.Error("enter should leave the prompt")
	}
	if got := app.session.Ref(); got.URL != "https://news.example.com/a" {
		t.Errorf("submitted ref = %+v", got)
	}

	app = deliver(t, app, cmd)
	if app.session.Phase() != session.PhaseReady {
		t.Errorf("phase = %s, want ready", app.session.Phase())
	}
}

func TestToggleKeys(t *testing.T) {
	ref := model.URLRef("https://news.example.com/fasting")
	app := newTestApp(&ref)
	app = deliver(t, app, app.Init())

	app, _ = update(t, app, key("c"))
	if !app.session.Disclosure().IsOpen(disclosure.Claims) {
		t.Error("c should open claims")
	}
	if !strings.Contains(app.View(), "Intermittent fasting reduced insulin resistance") {
		t.Error("expanded claims missing claim text")
	}

	app, _ = update(t, app, key("c"))
	if app.session.Disclosure().IsOpen(disclosure.Claims) {
		t.Error("second c should close claims")
	}

	app, _ = update(t, app, key("s"))
	if !app.session.Disclosure().IsOpen(disclosure.ContextSources) {
		t.Error("s should flip context sources")
	}
	if app.session.Disclosure().Visible(disclosure.ContextSources) {
		t.Error("sources should stay hidden while context is closed")
	}
}

func TestIrrelevantFailure(t *testing.T) {
	ref := model.URLRef("https://www.amazon.com/dp/123")
	app := newTestApp(&ref)
	app = deliver(t, app, app.Init())

	if app.session.Phase() != session.PhaseFailed {
		t.Fatalf("phase = %s, want failed", app.session.Phase())
	}
	view := app.View()
	for _, want := range []string{"Not Analyzable Content", session.GuidanceIntro, session.RecoveryHint} {
		if !strings.Contains(view, want) {
			t.Errorf("failure view missing %q", want)
		}
	}

	app, _ = update(t, app, key("n"))
	if !app.editing {
		t.Error("n should open the prompt after a failure")
	}
}

func TestStaleResultDiscarded(t *testing.T) {
	first := model.URLRef("https://news.example.com/first")
	app := newTestApp(&first)
	stale := app.Init()

	// a second submission before the first answer arrives
	app, _ = update(t, app, key("n"))
	app, _ = update(t, app, key("https://www.amazon.com/x"))
	app, fresh := update(t, app, key("enter"))

	app = deliver(t, app, fresh)
	if app.session.Phase() != session.PhaseFailed {
		t.Fatalf("phase = %s, want failed", app.session.Phase())
	}
	app = deliver(t, app, stale)
	if app.session.Phase() != session.PhaseFailed {
		t.Errorf("stale result changed phase to %s", app.session.Phase())
	}
}

func TestParseRef(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	if err := os.WriteFile(path, []byte("png"), 0o600); err != nil {
		t.Fatal(err)
	}

	if ref := ParseRef(path); ref.Kind != model.ContentImage || ref.Handle != path {
		t.Errorf("ParseRef(file) = %+v", ref)
	}
	if ref := ParseRef("https://example.com/a"); ref.Kind != model.ContentURL {
		t.Errorf("ParseRef(url) = %+v", ref)
	}
	if ref := ParseRef("not a file"); ref.Kind != model.ContentURL {
		t.Errorf("ParseRef(missing) = %+v", ref)
	}
}

func TestQuit(t *testing.T) {
	ref := model.URLRef("https://news.example.com/a")
	app := newTestApp(&ref)
	app = deliver(t, app, app.Init())

	_, cmd := update(t, app, key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
