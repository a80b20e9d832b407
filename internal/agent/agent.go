// Package agent asks an external model for a reply and an untrusted list of
// proposed actions. Proposals are never executed directly: callers pass
// Actions through actions.Normalize and stage them behind the gate.
package agent

import (
	"context"
	"errors"

	"github.com/ajitpratap0/openclaw-desk/internal/models"
)

// ErrEmptyResponse is returned when the agent answers with nothing usable.
var ErrEmptyResponse = errors.New("empty agent response")

// Request is the user's text plus the business context the agent may refer to.
type Request struct {
	Text     string           `json:"text"`
	Products []models.Product `json:"products,omitempty"`
	Orders   []models.Order   `json:"orders,omitempty"`
}

// Proposal is the agent's raw answer. Actions is untrusted.
type Proposal struct {
	Reply   string `json:"reply"`
	Actions []any  `json:"actions"`
}

// Agent proposes actions for a retail request.
type Agent interface {
	Propose(ctx context.Context, req Request) (*Proposal, error)
}
