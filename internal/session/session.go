// Package session is the command-submission boundary: it owns the in-flight
// guard, routes text to the interpreter or the agent, and records every
// reply and summary in the transcript.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ajitpratap0/openclaw-desk/internal/actions"
	"github.com/ajitpratap0/openclaw-desk/internal/agent"
	"github.com/ajitpratap0/openclaw-desk/internal/backend"
	"github.com/ajitpratap0/openclaw-desk/internal/effects"
	"github.com/ajitpratap0/openclaw-desk/internal/executor"
	"github.com/ajitpratap0/openclaw-desk/internal/gate"
	"github.com/ajitpratap0/openclaw-desk/internal/intent"
	"github.com/ajitpratap0/openclaw-desk/internal/metrics"
	"github.com/ajitpratap0/openclaw-desk/internal/temporal"
	"github.com/ajitpratap0/openclaw-desk/internal/transcript"
	"github.com/ajitpratap0/openclaw-desk/internal/ui"
)

// ErrBusy is returned when a command arrives while another is still running.
// The command is rejected, not queued.
var ErrBusy = errors.New("session busy: a command is still running")

// ErrEmptyCommand is returned for blank input.
var ErrEmptyCommand = errors.New("empty command")

// Assistant messages owned by the session.
const (
	agentFailureReply = "Perdón, no pude procesar el pedido en este momento. Probá de nuevo en unos minutos."
	nothingToExecute  = "No encontré acciones válidas para ejecutar."
	confirmPrompt     = "¿Confirmás? Respondé «confirmar» o «cancelar»."
	nothingPending    = "No hay acciones pendientes de confirmar."
	cancelledReply    = "Listo, descarté las acciones propuestas."
	defaultAgentReply = "Preparé estas acciones:"
)

// Options configures a Session.
type Options struct {
	Mode          intent.Mode
	CalendarDays  int
	Location      *time.Location
	OrderCacheTTL time.Duration
	// Clock overrides time.Now. Used by tests.
	Clock func() time.Time
}

// Outcome is what one call produced: the transcript messages it appended,
// the view commands it issued and the batch now awaiting confirmation.
type Outcome struct {
	Intent   string               `json:"intent,omitempty"`
	Messages []transcript.Message `json:"messages"`
	UI       []ui.Command         `json:"ui,omitempty"`
	Pending  *PendingBatch        `json:"pending,omitempty"`
}

// PendingBatch is the client-facing view of a staged batch.
type PendingBatch struct {
	ID       string           `json:"id"`
	Reply    string           `json:"reply"`
	Preview  []string         `json:"preview"`
	Actions  []map[string]any `json:"actions"`
	StagedAt time.Time        `json:"staged_at"`
}

// Session serves one operator. All methods are safe for concurrent use.
type Session struct {
	mode         intent.Mode
	backend      backend.Backend
	agent        agent.Agent
	interp       *intent.Interpreter
	runner       *effects.Runner
	engine       *executor.Engine
	gate         *gate.Gate
	transcript   *transcript.Transcript
	view         *ui.Recorder
	calendarDays int
	loc          *time.Location
	now          func() time.Time
	logger       *slog.Logger

	busy chan struct{}

	mu       sync.Mutex
	autofill *rescheduleTarget
}

// New creates a Session. ag may be nil, in which case retail requests that no
// lookup rule handles get the help reply.
func New(b backend.Backend, ag agent.Agent, opts Options, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if !opts.Mode.IsValid() {
		opts.Mode = intent.ModeGeneral
	}
	if opts.CalendarDays <= 0 {
		opts.CalendarDays = 14
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.OrderCacheTTL <= 0 {
		opts.OrderCacheTTL = executor.DefaultOrderCacheTTL
	}

	view := ui.NewRecorder()
	parser := temporal.NewParser(temporal.WithClock(opts.Clock), temporal.WithLocation(opts.Location))
	return &Session{
		mode:    opts.Mode,
		backend: b,
		agent:   ag,
		interp:  intent.NewInterpreter(opts.Mode, parser, logger),
		runner:  effects.NewRunner(b, view, logger),
		engine: executor.New(b, view, logger,
			executor.WithOrderCacheTTL(opts.OrderCacheTTL),
			executor.WithClock(opts.Clock),
		),
		gate:         gate.New(),
		transcript:   transcript.New(),
		view:         view,
		calendarDays: opts.CalendarDays,
		loc:          opts.Location,
		now:          opts.Clock,
		logger:       logger,
		busy:         make(chan struct{}, 1),
	}
}

// Mode returns the business mode of the session.
func (s *Session) Mode() intent.Mode { return s.mode }

func (s *Session) acquire() bool {
	select {
	case s.busy <- struct{}{}:
		return true
	default:
		metrics.Inc(metrics.CommandsBusy)
		return false
	}
}

func (s *Session) release() { <-s.busy }

// Submit handles one typed command. The user's text is recorded first, then
// the reply, and only then are effects run.
func (s *Session) Submit(ctx context.Context, text string) (Outcome, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Outcome{}, ErrEmptyCommand
	}
	if !s.acquire() {
		return Outcome{}, ErrBusy
	}
	defer s.release()

	metrics.Inc(metrics.CommandsTotal)
	mark := s.transcript.Len()
	s.transcript.User(text)

	var snap intent.Snapshot
	if s.mode == intent.ModeGeneral {
		snap = s.snapshot(ctx)
	}
	res := s.interp.Interpret(text, snap)
	metrics.IncIntent(string(res.Intent))

	if s.mode == intent.ModeRetail && res.Intent == intent.IntentFallback && s.agent != nil {
		s.propose(ctx, text)
		return s.outcome(mark, res.Intent), nil
	}

	s.transcript.Assistant(res.Reply)
	s.holdAutofill(res.Effects)
	if notes := s.runner.Run(ctx, res.Effects); len(notes) > 0 {
		s.transcript.Assistant(strings.Join(notes, "\n"))
	}
	return s.outcome(mark, res.Intent), nil
}

// propose asks the agent, normalizes its actions and stages them.
func (s *Session) propose(ctx context.Context, text string) {
	metrics.Inc(metrics.AgentCalls)
	p, err := s.agent.Propose(ctx, s.agentRequest(ctx, text))
	if err != nil {
		metrics.Inc(metrics.AgentFailures)
		s.logger.Warn("agent proposal failed", "error", err)
		s.transcript.Assistant(agentFailureReply)
		return
	}

	rep := actions.Inspect(p.Actions)
	metrics.Add(metrics.ActionsNormalized, len(rep.Actions))
	metrics.Add(metrics.ActionsDropped, rep.Dropped)
	if rep.Dropped > 0 {
		s.logger.Info("dropped proposed actions", "kept", len(rep.Actions), "dropped", rep.Dropped, "reasons", rep.Reasons)
	}

	reply := p.Reply
	if reply == "" {
		reply = defaultAgentReply
	}
	if len(rep.Actions) == 0 {
		s.transcript.Assistant(reply)
		s.transcript.Assistant(nothingToExecute)
		return
	}

	s.gate.Stage(reply, rep.Actions)
	metrics.Inc(metrics.BatchesStaged)

	var b strings.Builder
	b.WriteString(reply)
	for _, a := range rep.Actions {
		fmt.Fprintf(&b, "\n• %s", actions.Describe(a))
	}
	b.WriteString("\n")
	b.WriteString(confirmPrompt)
	s.transcript.Assistant(b.String())
}

// Confirm executes the staged batch and records its summary.
func (s *Session) Confirm(ctx context.Context) (Outcome, error) {
	if !s.acquire() {
		return Outcome{}, ErrBusy
	}
	defer s.release()

	mark := s.transcript.Len()
	list := s.gate.Confirm()
	if len(list) == 0 {
		s.transcript.Assistant(nothingPending)
		return s.outcome(mark, ""), nil
	}
	lines := s.engine.Execute(ctx, list)
	s.transcript.Assistant(strings.Join(lines, "\n"))
	return s.outcome(mark, ""), nil
}

// Cancel discards the staged batch and acknowledges it.
func (s *Session) Cancel(_ context.Context) (Outcome, error) {
	if !s.acquire() {
		return Outcome{}, ErrBusy
	}
	defer s.release()

	mark := s.transcript.Len()
	if s.gate.Cancel() {
		metrics.Inc(metrics.BatchesCanceled)
		s.transcript.Assistant(cancelledReply)
	} else {
		s.transcript.Assistant(nothingPending)
	}
	return s.outcome(mark, ""), nil
}

// Transcript returns every message so far.
func (s *Session) Transcript() []transcript.Message { return s.transcript.Entries() }

// Pending returns the batch awaiting confirmation, if any.
func (s *Session) Pending() (*PendingBatch, bool) {
	b, ok := s.gate.Pending()
	if !ok {
		return nil, false
	}
	canon, err := actions.Canonical(b.Actions)
	if err != nil {
		s.logger.Warn("encoding pending actions", "error", err)
	}
	preview := make([]string, 0, len(b.Actions))
	for _, a := range b.Actions {
		preview = append(preview, actions.Describe(a))
	}
	return &PendingBatch{ID: b.ID, Reply: b.Reply, Preview: preview, Actions: canon, StagedAt: b.StagedAt}, true
}

func (s *Session) outcome(mark int, in intent.Intent) Outcome {
	o := Outcome{
		Intent:   string(in),
		Messages: s.transcript.Since(mark),
		UI:       s.view.Drain(),
	}
	if p, ok := s.Pending(); ok {
		o.Pending = p
	}
	return o
}
