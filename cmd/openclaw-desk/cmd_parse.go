package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/openclaw-desk/internal/temporal"
)

func parseCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "parse [text...]",
		Short: "Show the date and time the command bar would read from a text",
		Example: `  openclaw-desk parse "pasado mañana a las 10"
  openclaw-desk parse --at 2026-10-19T09:00:00-03:00 el próximo lunes`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := cfg.Session.Location()
			if err != nil {
				return err
			}
			opts := []temporal.Option{temporal.WithLocation(loc)}
			if at != "" {
				now, parseErr := time.Parse(time.RFC3339, at)
				if parseErr != nil {
					return fmt.Errorf("parse: --at must be RFC 3339: %w", parseErr)
				}
				opts = append(opts, temporal.WithClock(func() time.Time { return now }))
			}

			expr := temporal.NewParser(opts...).Parse(strings.Join(args, " "))
			out := cmd.OutOrStdout()
			if expr == nil {
				fmt.Fprintln(out, "Sin fecha ni hora reconocibles.")
				return nil
			}
			b, err := json.MarshalIndent(expr, "", "  ")
			if err != nil {
				return fmt.Errorf("parse: encoding result: %w", err)
			}
			fmt.Fprintln(out, string(b))
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "reference time in RFC 3339 (default: now)")
	return cmd
}
