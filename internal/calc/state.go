package calc

import "fmt"

// MaxOperandLength caps how many characters digit entry may produce.
const MaxOperandLength = 15

// Phase names where the calculator is in its entry cycle:
//
//	Empty -> FirstOperand -> OperationChosen -> SecondOperand -> Evaluated
//
// Evaluated loops back to FirstOperand on a digit or to OperationChosen on
// an operator.
type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseFirstOperand
	PhaseOperationChosen
	PhaseSecondOperand
	PhaseEvaluated
)

var phaseNames = [...]string{
	PhaseEmpty:           "empty",
	PhaseFirstOperand:    "first-operand",
	PhaseOperationChosen: "operation-chosen",
	PhaseSecondOperand:   "second-operand",
	PhaseEvaluated:       "evaluated",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for i, name := range phaseNames {
		if name == string(text) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// State is the whole calculator. The zero value is the initial state.
type State struct {
	CurrentOperand  string
	PreviousOperand string
	Operation       Operation
	// Overwrite is set after an evaluation: the next digit starts a new
	// operand instead of extending the result.
	Overwrite bool
	Phase     Phase
}

// Initial returns the state a calculator starts in and returns to on clear.
func Initial() State {
	return State{}
}

// Pending reports whether both operands and an operator are present, i.e.
// an evaluate action would produce a result.
func (s State) Pending() bool {
	return s.Operation.Valid() && s.PreviousOperand != "" && s.CurrentOperand != ""
}

// entryPhase is the phase after editing the current operand outside an
// evaluation result.
func entryPhase(s State) Phase {
	switch {
	case s.Operation.Valid() && s.CurrentOperand == "":
		return PhaseOperationChosen
	case s.Operation.Valid():
		return PhaseSecondOperand
	case s.CurrentOperand == "":
		return PhaseEmpty
	default:
		return PhaseFirstOperand
	}
}
