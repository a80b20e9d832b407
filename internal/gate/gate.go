// Package gate holds at most one proposed action batch until the user
// confirms or cancels it.
package gate

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ajitpratap0/openclaw-desk/internal/actions"
)

// Batch is a staged proposal.
type Batch struct {
	ID       string           `json:"id"`
	Reply    string           `json:"reply"`
	Actions  []actions.Action `json:"-"`
	StagedAt time.Time        `json:"staged_at"`
}

// Gate is a single-slot staging area. Staging replaces whatever was pending;
// the gate never executes anything itself.
type Gate struct {
	mu      sync.Mutex
	pending *Batch
	now     func() time.Time
}

// New creates an empty Gate.
func New() *Gate {
	return &Gate{now: time.Now}
}

// Stage holds a new batch, discarding any batch still pending.
func (g *Gate) Stage(reply string, list []actions.Action) Batch {
	b := Batch{
		ID:       uuid.New().String(),
		Reply:    reply,
		Actions:  append([]actions.Action(nil), list...),
		StagedAt: g.now().UTC(),
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = &b
	return b
}

// Confirm returns the pending actions and clears the slot. With nothing
// staged it returns an empty list.
func (g *Gate) Confirm() []actions.Action {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil {
		return []actions.Action{}
	}
	list := g.pending.Actions
	g.pending = nil
	return list
}

// Cancel clears the slot and reports whether a batch was pending.
func (g *Gate) Cancel() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	had := g.pending != nil
	g.pending = nil
	return had
}

// Pending returns a copy of the staged batch, if any.
func (g *Gate) Pending() (Batch, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil {
		return Batch{}, false
	}
	b := *g.pending
	b.Actions = append([]actions.Action(nil), g.pending.Actions...)
	return b, true
}
