package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ajitpratap0/openclaw-desk/internal/session"
	"github.com/ajitpratap0/openclaw-desk/internal/textnorm"
	"github.com/ajitpratap0/openclaw-desk/internal/transcript"
	"github.com/ajitpratap0/openclaw-desk/internal/ui"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// Chat words, in normalized form. The short ones only count while a batch
// is waiting; otherwise they go to the interpreter like any other text.
var (
	exitWords          = []string{"salir", "exit", "quit"}
	confirmWords       = []string{"confirmar", "confirmo"}
	cancelWords        = []string{"cancelar", "cancelo"}
	pendingConfirmWord = []string{"si", "dale", "ok"}
	pendingCancelWord  = []string{"no"}
)

// lineReader is satisfied by *readline.Instance and by scanReader.
type lineReader interface {
	Readline() (string, error)
	Close() error
}

// scanReader reads commands from a pipe or file, one per line.
type scanReader struct {
	sc *bufio.Scanner
}

func (r *scanReader) Readline() (string, error) {
	if r.sc.Scan() {
		return r.sc.Text(), nil
	}
	if err := r.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (r *scanReader) Close() error { return nil }

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Type commands interactively, as in the dashboard command bar",
		Long: `Starts an interactive session. Staged actions are executed with
"confirmar" and discarded with "cancelar". Type "salir" or press Ctrl+D to quit.
When stdin is not a terminal, commands are read one per line.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()

			sess, err := newSession(logger)
			if err != nil {
				return fmt.Errorf("chat: %w", err)
			}

			var (
				in  lineReader
				out io.Writer = os.Stdout
			)
			if term.IsTerminal(int(os.Stdin.Fd())) {
				rl, rlErr := readline.NewEx(&readline.Config{
					Prompt:            bold("desk> "),
					HistoryFile:       filepath.Join(homeDir(), ".openclaw-desk", "history"),
					InterruptPrompt:   "^C",
					EOFPrompt:         "salir",
					HistorySearchFold: true,
					Stdin:             readline.NewCancelableStdin(os.Stdin),
					Stdout:            os.Stdout,
					Stderr:            os.Stderr,
				})
				if rlErr != nil {
					return fmt.Errorf("chat: initializing readline: %w", rlErr)
				}
				in, out = rl, rl.Stdout()
				fmt.Fprintf(out, "%s (modo %s). Escribí un pedido; «salir» para terminar.\n\n", bold("OpenClaw Desk"), sess.Mode())
			} else {
				color.NoColor = true
				in = &scanReader{sc: bufio.NewScanner(os.Stdin)}
			}
			defer func() { _ = in.Close() }()

			return runChat(cmd.Context(), sess, in, out)
		},
	}
	return cmd
}

// runChat reads commands until EOF, an exit word or cancellation of ctx.
func runChat(ctx context.Context, sess *session.Session, in lineReader, out io.Writer) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := in.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if line == "" {
				return nil
			}
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("chat: reading input: %w", err)
		}

		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		word := textnorm.Normalize(text)
		if slices.Contains(exitWords, word) {
			return nil
		}

		_, pending := sess.Pending()
		var res session.Outcome
		switch {
		case slices.Contains(confirmWords, word) || (pending && slices.Contains(pendingConfirmWord, word)):
			res, err = sess.Confirm(ctx)
		case slices.Contains(cancelWords, word) || (pending && slices.Contains(pendingCancelWord, word)):
			res, err = sess.Cancel(ctx)
		default:
			res, err = sess.Submit(ctx, text)
		}
		if err != nil {
			fmt.Fprintln(out, red("error: "+err.Error()))
			continue
		}
		printOutcome(out, res)
	}
}

func printOutcome(w io.Writer, o session.Outcome) {
	for _, m := range o.Messages {
		if m.Role != transcript.RoleAssistant {
			continue
		}
		fmt.Fprintf(w, "%s %s\n", green("desk:"), m.Text)
	}
	for _, c := range o.UI {
		fmt.Fprintln(w, gray("  → "+describeCommand(c)))
	}
	if o.Pending != nil {
		fmt.Fprintln(w, yellow(fmt.Sprintf("  (%d acciones esperando confirmación)", len(o.Pending.Actions))))
	}
}

// describeCommand renders a view command for the terminal, which has no
// dashboard to switch.
func describeCommand(c ui.Command) string {
	switch c.Kind {
	case ui.CommandOpenSection:
		return "vista: sección " + string(c.Section)
	case ui.CommandOpenBroadcast:
		s := "vista: envío masivo"
		if c.Tier != "" {
			s += " (" + string(c.Tier) + ")"
		}
		if c.Message != "" {
			s += " «" + c.Message + "»"
		}
		return s
	case ui.CommandOpenReschedule:
		s := "vista: reprogramación del turno " + c.AppointmentID
		if c.TargetLabel != "" {
			s += " para " + c.TargetLabel
		}
		return s
	case ui.CommandOpenPatientRecord:
		s := "vista: ficha del paciente " + c.PatientID
		if c.GenerateHistory {
			s += " con historia clínica"
		}
		return s
	}
	return "vista: " + string(c.Kind)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
