package calc

import "fmt"

// ActionKind enumerates the inputs the calculator reacts to. It is the one
// place the action vocabulary is defined; keypad and transport code import
// it rather than redeclaring names.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionAddDigit
	ActionChooseOperation
	ActionClear
	ActionDeleteDigit
	ActionToggleSign
	ActionEvaluate
)

var actionNames = map[ActionKind]string{
	ActionAddDigit:        "add-digit",
	ActionChooseOperation: "choose-operation",
	ActionClear:           "clear",
	ActionDeleteDigit:     "delete-digit",
	ActionToggleSign:      "toggle-sign",
	ActionEvaluate:        "evaluate",
}

func (k ActionKind) String() string {
	if name, ok := actionNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// ParseActionKind maps a wire name such as "add-digit" to its kind.
func ParseActionKind(name string) (ActionKind, bool) {
	for k, n := range actionNames {
		if n == name {
			return k, true
		}
	}
	return ActionUnknown, false
}

// Action is a single calculator input. Digit is only read for
// ActionAddDigit and Operation only for ActionChooseOperation.
type Action struct {
	Kind      ActionKind
	Digit     string
	Operation Operation
}

func (a Action) String() string {
	switch a.Kind {
	case ActionAddDigit:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Digit)
	case ActionChooseOperation:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Operation)
	default:
		return a.Kind.String()
	}
}

func AddDigit(digit string) Action {
	return Action{Kind: ActionAddDigit, Digit: digit}
}

func ChooseOperation(op Operation) Action {
	return Action{Kind: ActionChooseOperation, Operation: op}
}

func Clear() Action { return Action{Kind: ActionClear} }

func DeleteDigit() Action { return Action{Kind: ActionDeleteDigit} }

func ToggleSign() Action { return Action{Kind: ActionToggleSign} }

// Equals is the evaluate action, named after the key that sends it.
func Equals() Action { return Action{Kind: ActionEvaluate} }
