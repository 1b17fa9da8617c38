package calc

import (
	"strings"
	"unicode/utf8"
)

// Reduce returns the state that follows s after applying a. Inputs that
// cannot apply (a full operand, a second decimal point, evaluating without
// two operands, unknown kinds) return s unchanged.
func Reduce(s State, a Action) State {
	switch a.Kind {
	case ActionAddDigit:
		return addDigit(s, a.Digit)
	case ActionChooseOperation:
		return chooseOperation(s, a.Operation)
	case ActionClear:
		return Initial()
	case ActionDeleteDigit:
		return deleteDigit(s)
	case ActionToggleSign:
		return toggleSign(s)
	case ActionEvaluate:
		return evaluate(s)
	default:
		return s
	}
}

// ReduceAll folds actions over s in order.
func ReduceAll(s State, actions ...Action) State {
	for _, a := range actions {
		s = Reduce(s, a)
	}
	return s
}

// IsDigit reports whether d is a single key accepted by ActionAddDigit.
func IsDigit(d string) bool {
	if len(d) != 1 {
		return false
	}
	return d == "." || (d[0] >= '0' && d[0] <= '9')
}

func addDigit(s State, digit string) State {
	if !IsDigit(digit) {
		return s
	}

	if s.Overwrite {
		s.CurrentOperand = digit
		s.Overwrite = false
		s.Phase = entryPhase(s)
		return s
	}

	switch {
	case digit == "0" && s.CurrentOperand == "0":
		return s
	case digit == "." && strings.Contains(s.CurrentOperand, "."):
		return s
	case len(s.CurrentOperand) >= MaxOperandLength:
		return s
	}

	s.CurrentOperand += digit
	s.Phase = entryPhase(s)
	return s
}

func chooseOperation(s State, op Operation) State {
	if !op.Valid() {
		return s
	}
	if s.CurrentOperand == "" && s.PreviousOperand == "" {
		return s
	}

	switch {
	case s.PreviousOperand == "":
		s.PreviousOperand = s.CurrentOperand
	case s.CurrentOperand == "":
		// Operator changed before the right-hand operand was entered.
	default:
		s.PreviousOperand = Evaluate(s.PreviousOperand, s.CurrentOperand, s.Operation)
	}

	s.Operation = op
	s.CurrentOperand = ""
	s.Overwrite = false
	s.Phase = PhaseOperationChosen
	return s
}

func deleteDigit(s State) State {
	if s.Overwrite {
		s.CurrentOperand = ""
		s.Overwrite = false
		s.Phase = entryPhase(s)
		return s
	}
	if s.CurrentOperand == "" {
		return s
	}

	_, size := utf8.DecodeLastRuneInString(s.CurrentOperand)
	s.CurrentOperand = s.CurrentOperand[:len(s.CurrentOperand)-size]
	s.Phase = entryPhase(s)
	return s
}

func toggleSign(s State) State {
	n, ok := ParseOperand(s.CurrentOperand)
	if !ok {
		return s
	}
	s.CurrentOperand = FormatNumber(-n)
	return s
}

func evaluate(s State) State {
	if !s.Pending() {
		return s
	}
	return State{
		CurrentOperand: Evaluate(s.PreviousOperand, s.CurrentOperand, s.Operation),
		Overwrite:      true,
		Phase:          PhaseEvaluated,
	}
}
