package ui

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ppiankov/assay/internal/disclosure"
	"github.com/ppiankov/assay/internal/model"
	"github.com/ppiankov/assay/internal/session"
)

// sectionKeys maps a key to the section it toggles
var sectionKeys = map[string]disclosure.SectionID{
	"c": disclosure.Claims,
	"x": disclosure.Context,
	"r": disclosure.Resources,
	"m": disclosure.Methodology,
	"s": disclosure.ContextSources,
}

// App is the root Bubble Tea model. It owns the session; collaborator calls
// run in commands and report back through resultMsg.
type App struct {
	ctx     context.Context
	session *session.Session
	initial *model.ContentRef

	input   textinput.Model
	spinner spinner.Model
	editing bool
	err     error // last toggle or view error, cleared on key press

	offset int
	width  int
	height int
}

// NewApp creates the viewer. When initial is non-nil it is submitted on
// start; otherwise the viewer opens with the URL prompt.
func NewApp(ctx context.Context, s *session.Session, initial *model.ContentRef) App {
	ti := textinput.New()
	ti.Placeholder = "https://example.com/health-article or path/to/screenshot.png"
	ti.CharLimit = 2048
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	a := App{
		ctx:     ctx,
		session: s,
		initial: initial,
		input:   ti,
		spinner: sp,
	}
	if initial == nil {
		a.editing = true
		a.input.Focus()
	}
	return a
}

// Init submits the initial reference or starts the cursor blinking
func (a App) Init() tea.Cmd {
	if a.initial != nil {
		return a.submit(*a.initial)
	}
	return textinput.Blink
}

// Update handles messages and returns the updated model and any commands
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case resultMsg:
		a.session.Complete(msg.ticket, msg.raw, msg.err)
		a.offset = 0
		return a, nil

	case spinner.TickMsg:
		if a.session.Phase() != session.PhaseLoading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if a.editing {
			return a.handleInputKey(msg)
		}
		return a.handleKey(msg)
	}

	if a.editing {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc":
		if a.session.Phase() != session.PhaseIdle {
			a.editing = false
			a.input.Blur()
		}
		return a, nil
	case "enter":
		value := strings.TrimSpace(a.input.Value())
		a.editing = false
		a.input.Blur()
		a.input.Reset()
		return a, a.submit(ParseRef(value))
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.err = nil
	key := msg.String()

	switch key {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "n", "enter":
		a.editing = true
		return a, a.input.Focus()
	case "j", "down":
		a.offset++
		return a, nil
	case "k", "up":
		if a.offset > 0 {
			a.offset--
		}
		return a, nil
	case "g", "home":
		a.offset = 0
		return a, nil
	}

	if id, ok := sectionKeys[key]; ok && a.session.Phase() == session.PhaseReady {
		if err := a.session.Toggle(id); err != nil {
			a.err = err
		}
	}
	return a, nil
}

// submit starts a new request. Begin issues a fresh ticket, so an answer
// still in flight for an earlier request is dropped on arrival.
func (a App) submit(ref model.ContentRef) tea.Cmd {
	ticket := a.session.Begin(ref)
	return tea.Batch(a.spinner.Tick, call(a.ctx, a.session, ticket, ref))
}

func call(ctx context.Context, s *session.Session, t session.Ticket, ref model.ContentRef) tea.Cmd {
	return func() tea.Msg {
		raw, err := s.Call(ctx, ref)
		return resultMsg{ticket: t, raw: raw, err: err}
	}
}

// ParseRef turns prompt input into a content reference: an existing
// non-URL path is a screenshot, anything else is an article URL
func ParseRef(value string) model.ContentRef {
	if !strings.Contains(value, "://") {
		if info, err := os.Stat(value); err == nil && !info.IsDir() {
			return model.ImageRef(value)
		}
	}
	return model.URLRef(value)
}
