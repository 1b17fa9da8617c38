package keypad

import (
	"strings"

	"go-chi-calculator/internal/calc"
)

// Named keys. Every other key is a single character.
const (
	KeyEnter     = "Enter"
	KeyEscape    = "Escape"
	KeyBackspace = "Backspace"
)

// ActionForKey maps a keyboard key to its calculator action. The boolean is
// false for keys the calculator does not handle; callers should let those
// through and suppress the default behavior of the rest.
func ActionForKey(key string) (calc.Action, bool) {
	if len(key) == 1 && calc.IsDigit(key) {
		return calc.AddDigit(key), true
	}

	switch key {
	case "+", "-", "*", "/":
		op, _ := calc.ParseOperation(key)
		return calc.ChooseOperation(op), true
	case KeyEnter, "=":
		return calc.Equals(), true
	case KeyEscape:
		return calc.Clear(), true
	case KeyBackspace:
		return calc.DeleteDigit(), true
	case "p", "P":
		return calc.ToggleSign(), true
	}

	return calc.Action{}, false
}

// SplitKeys breaks a typed line into keys. Fields naming a key ("Enter",
// "Escape", "Backspace") are kept whole; any other field is split into its
// characters, so "12+3=" is five keys.
func SplitKeys(line string) []string {
	var keys []string
	for _, field := range strings.Fields(line) {
		switch field {
		case KeyEnter, KeyEscape, KeyBackspace:
			keys = append(keys, field)
			continue
		}
		for _, r := range field {
			keys = append(keys, string(r))
		}
	}
	return keys
}
