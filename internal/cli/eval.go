package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"go-chi-calculator/internal/calc"
	"go-chi-calculator/internal/keypad"
)

// NewEvalCommand evaluates a single binary operation.
func NewEvalCommand(root *RootOptions) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "eval [flags] [--] <previous> <operation> <current>",
		Short: "Evaluate one operation, e.g. calc eval 10 / 4",
		Long: `Evaluate one operation and print the result.

Negative operands look like flags, so put them after "--".`,
		Example: `  calc eval 10 / 4
  calc eval --raw 1000 x 1000
  calc eval -- -5 + 3`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, ok := calc.ParseOperation(args[1])
			if !ok {
				return fmt.Errorf("unknown operation %q: must be one of + - * / × ÷", args[1])
			}

			result := calc.Evaluate(args[0], args[2], op)
			if result == "" {
				return errors.New("no result: both operands must be numbers")
			}

			if !raw {
				result = root.formatter.Operand(result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the result without digit grouping")

	return cmd
}

// NewKeypadCommand prints the keypad layout.
func NewKeypadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keypad",
		Short: "Show the keypad layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), keypad.Render())
			return nil
		},
	}
}
