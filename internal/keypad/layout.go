package keypad

import (
	"fmt"
	"strings"

	"go-chi-calculator/internal/calc"
)

// Class is a presentation hint for a button.
type Class string

const (
	ClassDigit     Class = ""
	ClassOperation Class = "operation"
	ClassSpanTwo   Class = "span-two"
	ClassEquals    Class = "equals"
)

// Button is one key on the keypad. Pressing it dispatches exactly Action.
type Button struct {
	Label  string      `json:"label"`
	Class  Class       `json:"class,omitempty"`
	Action calc.Action `json:"-"`
}

func digit(d string) Button {
	return Button{Label: d, Action: calc.AddDigit(d)}
}

func operator(op calc.Operation) Button {
	return Button{Label: op.Symbol(), Class: ClassOperation, Action: calc.ChooseOperation(op)}
}

var rows = [][]Button{
	{
		{Label: "AC", Action: calc.Clear()},
		{Label: "DEL", Action: calc.DeleteDigit()},
		{Label: "+/-", Action: calc.ToggleSign()},
		operator(calc.OpDivide),
	},
	{digit("7"), digit("8"), digit("9"), operator(calc.OpMultiply)},
	{digit("4"), digit("5"), digit("6"), operator(calc.OpSubtract)},
	{digit("1"), digit("2"), digit("3"), operator(calc.OpAdd)},
	{
		{Label: "0", Class: ClassSpanTwo, Action: calc.AddDigit("0")},
		digit("."),
		{Label: "=", Class: ClassEquals, Action: calc.Equals()},
	},
}

// Layout returns the keypad rows, top to bottom. The result is a copy.
func Layout() [][]Button {
	out := make([][]Button, len(rows))
	for i, row := range rows {
		out[i] = append([]Button(nil), row...)
	}
	return out
}

// Lookup finds the button with the given label.
func Lookup(label string) (Button, bool) {
	for _, row := range rows {
		for _, b := range row {
			if b.Label == label {
				return b, true
			}
		}
	}
	return Button{}, false
}

// Render draws the keypad as text, one bracketed cell per button.
func Render() string {
	var b strings.Builder
	for _, row := range rows {
		for i, btn := range row {
			if i > 0 {
				b.WriteByte(' ')
			}
			width := 3
			if btn.Class == ClassSpanTwo {
				width = 9
			}
			fmt.Fprintf(&b, "[%-*s]", width, btn.Label)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
