// Package session runs one report request at a time: submission, the call
// to the analysis collaborator, validation and disclosure toggles.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/assay/internal/analyze"
	"github.com/ppiankov/assay/internal/disclosure"
	"github.com/ppiankov/assay/internal/logging"
	"github.com/ppiankov/assay/internal/model"
	"github.com/ppiankov/assay/internal/present"
	"github.com/ppiankov/assay/internal/validate"
)

// Phase is where a session is in its lifecycle
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Ticket identifies one submission. Results carrying an older ticket are
// discarded.
type Ticket string

// ErrNotReady is returned by report operations outside PhaseReady
var ErrNotReady = errors.New("no report loaded")

// DefaultTimeout bounds one collaborator call
const DefaultTimeout = 2 * time.Minute

// Session holds the state of a single report request. It is owned by one
// caller and is not safe for concurrent use; only Call may run elsewhere.
type Session struct {
	analyzer analyze.Analyzer
	mapper   *present.Mapper
	timeout  time.Duration
	newID    func() string

	phase   Phase
	ticket  Ticket
	ref     model.ContentRef
	report  *model.Report
	state   disclosure.State
	failure *Failure
}

// Option configures a Session
type Option func(*Session)

// WithTimeout sets the bounded wait for the collaborator. Zero or negative
// disables it.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// WithMapper sets the mapper used by View
func WithMapper(m *present.Mapper) Option {
	return func(s *Session) { s.mapper = m }
}

// New creates an idle session
func New(analyzer analyze.Analyzer, opts ...Option) *Session {
	s := &Session{
		analyzer: analyzer,
		timeout:  DefaultTimeout,
		newID:    uuid.NewString,
		state:    disclosure.Init(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.mapper == nil {
		s.mapper = present.NewMapper(nil)
	}
	return s
}

// Begin starts a new submission from any phase: the previous report and
// disclosure are dropped and a fresh ticket is issued
func (s *Session) Begin(ref model.ContentRef) Ticket {
	s.phase = PhaseLoading
	s.ticket = Ticket(s.newID())
	s.ref = ref
	s.report = nil
	s.failure = nil
	s.state = disclosure.Init()

	logging.New("session").Debug("submission started", "ticket", s.ticket, "ref", ref.String())
	return s.ticket
}

// Call asks the collaborator for ref under the session's bounded wait. It
// does not touch session state and may run on another goroutine.
func (s *Session) Call(ctx context.Context, ref model.ContentRef) ([]byte, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.analyzer.Analyze(ctx, ref)
}

// Complete applies the collaborator's answer for ticket t. A result for any
// ticket other than the current one is discarded and false is returned.
func (s *Session) Complete(t Ticket, raw []byte, err error) bool {
	log := logging.New("session")
	if s.phase != PhaseLoading || t != s.ticket {
		log.Debug("discarding stale result", "ticket", t, "current", s.ticket)
		return false
	}

	if err != nil {
		s.fail(Classify(err))
		return true
	}

	report, err := validate.ValidateReport(raw)
	if err != nil {
		s.fail(Classify(err))
		return true
	}
	if _, err := s.mapper.Project(report, disclosure.Init()); err != nil {
		s.fail(Classify(err))
		return true
	}

	s.report = report
	s.phase = PhaseReady
	log.Info("report ready", "ticket", t, "grade", report.Validity.Grade, "kind", report.Source.Provenance.Kind)
	return true
}

func (s *Session) fail(f *Failure) {
	s.failure = f
	s.phase = PhaseFailed
	logging.New("session").Warn("submission failed", "ticket", s.ticket, "class", f.Class, "path", f.Path, "err", f.Err)
}

// Submit runs Begin, Call and Complete in sequence. It returns the Failure
// when the submission does not produce a report.
func (s *Session) Submit(ctx context.Context, ref model.ContentRef) error {
	t := s.Begin(ref)
	raw, err := s.Call(ctx, ref)
	s.Complete(t, raw, err)
	if s.failure != nil {
		return s.failure
	}
	return nil
}

// Toggle flips one disclosure flag. Only valid in PhaseReady.
func (s *Session) Toggle(id disclosure.SectionID) error {
	if s.phase != PhaseReady {
		return ErrNotReady
	}
	next, err := disclosure.Toggle(s.state, id)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// View projects the current report with the current disclosure
func (s *Session) View() (*present.ViewModel, error) {
	if s.phase != PhaseReady {
		return nil, ErrNotReady
	}
	return s.mapper.Project(s.report, s.state)
}

// Phase returns the current phase
func (s *Session) Phase() Phase { return s.phase }

// Ticket returns the current submission's ticket
func (s *Session) Ticket() Ticket { return s.ticket }

// Ref returns the content of the current submission
func (s *Session) Ref() model.ContentRef { return s.ref }

// Report returns the validated report, or nil outside PhaseReady
func (s *Session) Report() *model.Report { return s.report }

// Disclosure returns the current disclosure state
func (s *Session) Disclosure() disclosure.State { return s.state }

// Failure returns the failure, or nil outside PhaseFailed
func (s *Session) Failure() *Failure { return s.failure }
