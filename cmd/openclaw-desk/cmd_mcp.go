package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	deskmcp "github.com/ajitpratap0/openclaw-desk/internal/mcp"
)

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP (Model Context Protocol) server over stdio",
		Long: `Starts an MCP JSON-RPC 2.0 server that reads from stdin and writes to stdout.
All diagnostic logs go to stderr so that stdout remains exclusively MCP protocol traffic.

Tools exposed:
  command            submit a command as if typed in the command bar
  confirm            execute the staged action batch
  cancel             discard the staged action batch
  transcript         read the conversation so far
  parse_time         extract a date and time from Spanish text
  normalize_actions  normalize an action batch without running it

If the dashboard backend is unreachable the server still starts; reads
degrade to empty data and writes report their errors in the replies.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()

			sess, err := newSession(logger)
			if err != nil {
				return fmt.Errorf("mcp: %w", err)
			}
			parser, err := newParser()
			if err != nil {
				return fmt.Errorf("mcp: %w", err)
			}

			srv := deskmcp.NewServer(sess, parser, logger)

			// Use a standard log.Logger pointing at stderr for the mcp-go error logger.
			errLogger := log.New(os.Stderr, "mcp: ", log.LstdFlags)

			logger.Info("mcp: openclaw-desk MCP server starting", "transport", "stdio", "mode", sess.Mode())

			return mcpserver.ServeStdio(
				srv.MCPServer(),
				mcpserver.WithErrorLogger(errLogger),
			)
		},
	}

	return cmd
}
