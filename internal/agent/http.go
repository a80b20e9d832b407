package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPAgent forwards requests to an external agent service that answers
// POST /propose with {"reply": ..., "actions": [...]}.
type HTTPAgent struct {
	client *resty.Client
	logger *slog.Logger
}

// NewHTTPAgent creates a client for the agent service at baseURL.
func NewHTTPAgent(baseURL, token string, timeout time.Duration, logger *slog.Logger) *HTTPAgent {
	if logger == nil {
		logger = slog.Default()
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if token != "" {
		c.SetAuthToken(token)
	}
	return &HTTPAgent{client: c, logger: logger}
}

// Propose implements Agent.
func (a *HTTPAgent) Propose(ctx context.Context, req Request) (*Proposal, error) {
	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(&req).
		Post("/propose")
	if err != nil {
		return nil, fmt.Errorf("agent request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("agent status %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	a.logger.Debug("agent proposal response", "status", resp.StatusCode(), "bytes", len(resp.Body()))
	return ParseProposal(resp.String())
}
