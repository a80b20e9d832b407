package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/openclaw-desk/internal/agent"
	"github.com/ajitpratap0/openclaw-desk/internal/backend"
	"github.com/ajitpratap0/openclaw-desk/internal/config"
	"github.com/ajitpratap0/openclaw-desk/internal/intent"
	"github.com/ajitpratap0/openclaw-desk/internal/session"
	"github.com/ajitpratap0/openclaw-desk/internal/temporal"
)

var cfg *config.Config

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	var (
		demo bool
		mode string
	)

	rootCmd := &cobra.Command{
		Use:   "openclaw-desk",
		Short: "OpenClaw Desk: command bar automation for a WhatsApp business dashboard",
		Long: "Desk interprets Spanish commands typed by a clinic or shop operator, " +
			"drives the dashboard views and runs confirmed action batches against the dashboard backend.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if cmd.Flags().Changed("demo") {
				cfg.Backend.Demo = demo
			}
			if cmd.Flags().Changed("mode") {
				cfg.Session.Mode = mode
			}
			return cfg.Validate()
		},
	}
	rootCmd.PersistentFlags().BoolVar(&demo, "demo", false, "use the seeded in-memory backend instead of the dashboard API")
	rootCmd.PersistentFlags().StringVar(&mode, "mode", "", "business mode: general (clinic) or retail (shop)")

	rootCmd.AddCommand(
		serveCmd(),
		mcpCmd(),
		chatCmd(),
		parseCmd(),
		normalizeCmd(),
	)

	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil {
		switch cfg.Logging.Level {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg != nil && cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func newBackend(loc *time.Location, logger *slog.Logger) backend.Backend {
	if cfg.Backend.Demo {
		mem := backend.NewMemoryBackend()
		backend.SeedDemo(mem, time.Now().In(loc))
		logger.Info("using demo backend")
		return mem
	}
	return backend.NewRESTBackend(cfg.Backend.URL, cfg.Backend.Token, cfg.Backend.Timeout, logger)
}

// newAgent returns nil when no agent is configured; retail requests then get
// the help reply.
func newAgent(logger *slog.Logger) agent.Agent {
	switch cfg.Agent.Provider {
	case config.ProviderHTTP:
		return agent.NewHTTPAgent(cfg.Agent.URL, cfg.Agent.Token, cfg.Agent.Timeout, logger)
	case config.ProviderClaude:
		if cfg.Claude.APIKey == "" {
			logger.Warn("agent: ANTHROPIC_API_KEY is not set; retail requests will get the help reply")
			return nil
		}
		return agent.NewClaudeAgent(cfg.Claude.APIKey, cfg.Claude.Model, cfg.Claude.MaxTokens, logger).
			WithContextBudget(cfg.Claude.ContextBudget)
	default:
		return nil
	}
}

func newSession(logger *slog.Logger) (*session.Session, error) {
	loc, err := cfg.Session.Location()
	if err != nil {
		return nil, err
	}
	sess := session.New(newBackend(loc, logger), newAgent(logger), session.Options{
		Mode:          intent.Mode(cfg.Session.Mode),
		CalendarDays:  cfg.Session.CalendarDays,
		Location:      loc,
		OrderCacheTTL: cfg.Executor.OrderCacheTTL,
	}, logger)
	return sess, nil
}

func newParser() (*temporal.Parser, error) {
	loc, err := cfg.Session.Location()
	if err != nil {
		return nil, err
	}
	return temporal.NewParser(temporal.WithLocation(loc)), nil
}
