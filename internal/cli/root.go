package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"

	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/display"
	"go-chi-calculator/internal/observability"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Locale  string

	formatter *display.Formatter
}

// NewRootCommand creates the root command of the calc CLI. Run without a
// subcommand it starts the interactive calculator.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "calc",
		Short:         "A four-function calculator for the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log debug output to stderr")
	cmd.PersistentFlags().StringVar(&opts.Locale, "locale", "", "locale for digit grouping (default from CALC_LOCALE)")

	interactive := &InteractiveOptions{root: opts}
	cmd.Flags().BoolVarP(&interactive.Quiet, "quiet", "q", false, "print only the final result")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd, interactive)
	}

	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewKeypadCommand())

	return cmd
}

// setup applies configuration: CALC_* variables first, flags on top.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := zapcore.WarnLevel
	if o.Verbose {
		level = zapcore.DebugLevel
	}
	if err := observability.InitLogger(level); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	locale := cfg.Locale
	if cmd.Flags().Changed("locale") {
		locale = o.Locale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("invalid locale %q: %w", locale, err)
	}

	o.formatter = display.NewFormatter(tag)
	return nil
}
