// Package executor runs a confirmed action batch against the backend, one
// action at a time, and narrates the outcome as summary lines.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ajitpratap0/openclaw-desk/internal/actions"
	"github.com/ajitpratap0/openclaw-desk/internal/backend"
	"github.com/ajitpratap0/openclaw-desk/internal/metrics"
	"github.com/ajitpratap0/openclaw-desk/internal/models"
	"github.com/ajitpratap0/openclaw-desk/internal/ui"
)

// NothingExecuted is the single summary line of a batch with no effect.
const NothingExecuted = "No se ejecutó ninguna acción."

// DefaultOrderCacheTTL is how long the local order list is trusted.
const DefaultOrderCacheTTL = 2 * time.Minute

// Engine executes action batches. Actions run sequentially so later actions
// observe the writes of earlier ones and the summary reads in order.
type Engine struct {
	backend backend.Backend
	view    ui.View
	logger  *slog.Logger
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	orders   []models.Order
	loadedAt time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithOrderCacheTTL sets how long a loaded order list is considered fresh.
func WithOrderCacheTTL(d time.Duration) Option {
	return func(e *Engine) { e.ttl = d }
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine.
func New(b backend.Backend, view ui.View, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{backend: b, view: view, logger: logger, ttl: DefaultOrderCacheTTL, now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

// batch is per-Execute state.
type batch struct {
	reloaded bool
}

// Execute runs list in order and returns one or more summary lines per
// action. A failing action never stops the ones after it. The result is
// never empty.
func (e *Engine) Execute(ctx context.Context, list []actions.Action) []string {
	st := &batch{}
	var lines []string
	for _, a := range list {
		out := e.run(ctx, st, a)
		metrics.Inc(metrics.ActionsExecuted)
		lines = append(lines, out...)
	}
	if len(lines) == 0 {
		return []string{NothingExecuted}
	}
	return lines
}

func (e *Engine) run(ctx context.Context, st *batch, a actions.Action) []string {
	switch a := a.(type) {
	case actions.Navigate:
		e.view.OpenSection(a.Target)
		return []string{fmt.Sprintf("Abrí la sección %s.", sectionLabel(a.Target))}
	case actions.SendPaymentReminders:
		return e.sendPaymentReminders(ctx, st, a)
	case actions.AdjustStock:
		return []string{e.adjustStock(ctx, a)}
	case actions.IncreasePricesPercent:
		return []string{e.increasePrices(ctx, a)}
	case actions.BroadcastPrompt:
		e.view.OpenBroadcast("", a.Message)
		return []string{fmt.Sprintf("Abrí el envío masivo con el mensaje «%s». Revisalo antes de enviar.", a.Message)}
	case actions.Noop:
		if a.Note == "" {
			return nil
		}
		return []string{a.Note}
	}
	e.logger.Warn("ignoring unknown action", "type", fmt.Sprintf("%T", a))
	return []string{fmt.Sprintf("Acción ignorada: %T.", a)}
}

// failed counts and logs a per-action failure and returns its summary line.
func (e *Engine) failed(line string, err error, args ...any) string {
	metrics.Inc(metrics.ActionFailures)
	e.logger.Warn("action failed", append(args, "error", err)...)
	return line
}

var sectionLabels = map[models.Section]string{
	models.SectionOrders:     "de pedidos",
	models.SectionDebts:      "de deudas",
	models.SectionStock:      "de stock",
	models.SectionPromotions: "de promociones",
	models.SectionClients:    "de clientes",
}

func sectionLabel(s models.Section) string {
	if l, ok := sectionLabels[s]; ok {
		return l
	}
	return string(s)
}
