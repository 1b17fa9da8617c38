package cli

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-chi-calculator/internal/calc"
	"go-chi-calculator/internal/keypad"
	"go-chi-calculator/internal/observability"
)

// InteractiveOptions holds flags for the interactive calculator.
type InteractiveOptions struct {
	Quiet bool

	root *RootOptions
}

// runInteractive reads keys from stdin until it is exhausted or the process
// is interrupted. The display is redrawn after every input line.
func runInteractive(cmd *cobra.Command, opts *InteractiveOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	formatter := opts.root.formatter
	state := calc.Initial()

	if !opts.Quiet {
		fmt.Fprint(out, keypad.Render())
		fmt.Fprintln(out, "keys: 0-9 . + - * / = Enter Escape Backspace p")
		fmt.Fprint(out, formatter.View(state).Render())
	}

	listener := keypad.Listen(ctx, cmd.InOrStdin(), func(ev keypad.KeyEvent) {
		if !ev.Handled {
			observability.Logger.Debug("key ignored", zap.String("key", ev.Key))
		} else {
			state = calc.Reduce(state, ev.Action)
			observability.Logger.Debug("key applied",
				zap.String("key", ev.Key),
				zap.Stringer("action", ev.Action),
				zap.Stringer("phase", state.Phase),
			)
		}

		if ev.EndOfLine && !opts.Quiet {
			fmt.Fprint(out, formatter.View(state).Render())
		}
	})

	select {
	case <-listener.Done():
	case <-ctx.Done():
	}
	if err := listener.Stop(); err != nil {
		return fmt.Errorf("read keys: %w", err)
	}

	if opts.Quiet {
		fmt.Fprintln(out, formatter.View(state).Current)
	}
	return nil
}
