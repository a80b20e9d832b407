// Package mcp implements the Model Context Protocol server for openclaw-desk.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ajitpratap0/openclaw-desk/internal/actions"
	"github.com/ajitpratap0/openclaw-desk/internal/session"
	"github.com/ajitpratap0/openclaw-desk/internal/temporal"
)

// Server wraps an MCPServer around one operator session.
type Server struct {
	mcp     *mcpserver.MCPServer
	session *session.Session
	parser  *temporal.Parser
	logger  *slog.Logger
}

// NewServer creates a new MCP server. If sess is nil, the session tools
// return an error response instead of panicking.
func NewServer(sess *session.Session, parser *temporal.Parser, logger *slog.Logger) *Server {
	if parser == nil {
		parser = temporal.NewParser()
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		session: sess,
		parser:  parser,
		logger:  logger,
	}

	mcpSrv := mcpserver.NewMCPServer(
		"openclaw-desk",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
	)

	mcpSrv.AddTool(buildCommandTool(), s.handleCommand)
	mcpSrv.AddTool(buildConfirmTool(), s.handleConfirm)
	mcpSrv.AddTool(buildCancelTool(), s.handleCancel)
	mcpSrv.AddTool(buildTranscriptTool(), s.handleTranscript)
	mcpSrv.AddTool(buildParseTimeTool(), s.handleParseTime)
	mcpSrv.AddTool(buildNormalizeTool(), s.handleNormalize)

	s.mcp = mcpSrv
	return s
}

// MCPServer returns the underlying mcp-go MCPServer for use with ServeStdio.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

// HandleCommand is the exported handler for the "command" tool.
// It is exposed for direct testing without the mcp-go transport layer.
func (s *Server) HandleCommand(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleCommand(ctx, req)
}

// HandleConfirm is the exported handler for the "confirm" tool.
func (s *Server) HandleConfirm(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleConfirm(ctx, req)
}

// HandleCancel is the exported handler for the "cancel" tool.
func (s *Server) HandleCancel(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleCancel(ctx, req)
}

// HandleTranscript is the exported handler for the "transcript" tool.
func (s *Server) HandleTranscript(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleTranscript(ctx, req)
}

// HandleParseTime is the exported handler for the "parse_time" tool.
func (s *Server) HandleParseTime(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleParseTime(ctx, req)
}

// HandleNormalize is the exported handler for the "normalize_actions" tool.
func (s *Server) HandleNormalize(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleNormalize(ctx, req)
}

// --- helpers ---

// toolResultJSON marshals v to JSON and returns it as a tool text result.
func toolResultJSON(v any) (*mcpgo.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mcp: marshaling result: %w", err)
	}
	return mcpgo.NewToolResultText(string(b)), nil
}

// outcomeResult renders a session outcome, mapping the busy rejection to a
// tool error so the caller can retry.
func outcomeResult(out session.Outcome, err error) (*mcpgo.CallToolResult, error) {
	switch {
	case err == nil:
		return toolResultJSON(out)
	case errors.Is(err, session.ErrBusy):
		return mcpgo.NewToolResultError("another command is still running; try again when it finishes"), nil
	case errors.Is(err, session.ErrEmptyCommand):
		return mcpgo.NewToolResultError("text is required and must not be empty"), nil
	default:
		return mcpgo.NewToolResultErrorf("command failed: %s", err.Error()), nil
	}
}

// --- tool definitions ---

func buildCommandTool() mcpgo.Tool {
	return mcpgo.NewTool("command",
		mcpgo.WithDescription("Submit a Spanish command to the dashboard assistant, as if typed in the command bar. "+
			"Returns the replies, the view commands issued and any actions awaiting confirmation."),
		mcpgo.WithString("text",
			mcpgo.Required(),
			mcpgo.Description("The command text, e.g. \"recordatorio del turno de Ana\""),
		),
	)
}

func buildConfirmTool() mcpgo.Tool {
	return mcpgo.NewTool("confirm",
		mcpgo.WithDescription("Execute the staged actions and return one summary line per action."),
	)
}

func buildCancelTool() mcpgo.Tool {
	return mcpgo.NewTool("cancel",
		mcpgo.WithDescription("Discard the staged actions without executing them."),
	)
}

func buildTranscriptTool() mcpgo.Tool {
	return mcpgo.NewTool("transcript",
		mcpgo.WithDescription("Return the conversation transcript."),
		mcpgo.WithNumber("since",
			mcpgo.Description("Skip the first N messages (default: 0)"),
		),
	)
}

func buildParseTimeTool() mcpgo.Tool {
	return mcpgo.NewTool("parse_time",
		mcpgo.WithDescription("Extract a date and/or clock time from Spanish text (\"pasado mañana a las 10\")."),
		mcpgo.WithString("text",
			mcpgo.Required(),
			mcpgo.Description("Free text to scan"),
		),
	)
}

func buildNormalizeTool() mcpgo.Tool {
	return mcpgo.NewTool("normalize_actions",
		mcpgo.WithDescription("Normalize a JSON action batch into canonical actions without executing it."),
		mcpgo.WithString("actions",
			mcpgo.Required(),
			mcpgo.Description("JSON array of actions, or an object with an \"actions\" array"),
		),
	)
}

// --- tool handlers ---

func (s *Server) handleCommand(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.session == nil {
		return mcpgo.NewToolResultError("session is unavailable"), nil
	}
	text := req.GetString("text", "")
	out, err := s.session.Submit(ctx, text)
	if err == nil {
		s.logger.Info("mcp: command handled", "intent", out.Intent, "messages", len(out.Messages))
	}
	return outcomeResult(out, err)
}

func (s *Server) handleConfirm(ctx context.Context, _ mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.session == nil {
		return mcpgo.NewToolResultError("session is unavailable"), nil
	}
	return outcomeResult(s.session.Confirm(ctx))
}

func (s *Server) handleCancel(ctx context.Context, _ mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.session == nil {
		return mcpgo.NewToolResultError("session is unavailable"), nil
	}
	return outcomeResult(s.session.Cancel(ctx))
}

func (s *Server) handleTranscript(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.session == nil {
		return mcpgo.NewToolResultError("session is unavailable"), nil
	}
	msgs := s.session.Transcript()
	since := req.GetInt("since", 0)
	if since < 0 {
		return mcpgo.NewToolResultError("since must be >= 0"), nil
	}
	since = min(since, len(msgs))

	result := map[string]any{
		"messages": msgs[since:],
		"total":    len(msgs),
	}
	return toolResultJSON(result)
}

func (s *Server) handleParseTime(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	text := req.GetString("text", "")
	if strings.TrimSpace(text) == "" {
		return mcpgo.NewToolResultError("text is required and must not be empty"), nil
	}

	expr := s.parser.Parse(text)
	if expr == nil {
		return toolResultJSON(map[string]any{"found": false})
	}
	return toolResultJSON(map[string]any{"found": true, "expression": expr})
}

func (s *Server) handleNormalize(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	raw := req.GetString("actions", "")
	if strings.TrimSpace(raw) == "" {
		return mcpgo.NewToolResultError("actions is required and must not be empty"), nil
	}

	rep, err := actions.Decode([]byte(raw))
	if err != nil {
		return mcpgo.NewToolResultErrorf("invalid action batch: %s", err.Error()), nil
	}
	canon, err := actions.Canonical(rep.Actions)
	if err != nil {
		return nil, fmt.Errorf("mcp: encoding actions: %w", err)
	}
	preview := make([]string, 0, len(rep.Actions))
	for _, a := range rep.Actions {
		preview = append(preview, actions.Describe(a))
	}

	result := map[string]any{
		"actions": canon,
		"preview": preview,
		"dropped": rep.Dropped,
		"reasons": rep.Reasons,
	}
	return toolResultJSON(result)
}
