package calculator

import (
	"fmt"

	"go-chi-calculator/internal/calc"
	"go-chi-calculator/internal/display"
	"go-chi-calculator/internal/keypad"
)

// EvaluateRequest is the JSON body for POST /calculator/evaluate.
type EvaluateRequest struct {
	Previous  string         `json:"previous"`
	Operation calc.Operation `json:"operation"`
	Current   string         `json:"current"`
}

// EvaluateResponse echoes the inputs with the result. Result is "" when an
// operand does not parse and "Error" on division by zero.
type EvaluateResponse struct {
	Previous  string         `json:"previous"`
	Operation calc.Operation `json:"operation"`
	Current   string         `json:"current"`
	Result    string         `json:"result"`
}

// ActionRequest is the JSON body for POST /calculator/sessions/{id}/actions.
type ActionRequest struct {
	Type      string         `json:"type"`                // "add-digit", "choose-operation", ...
	Digit     string         `json:"digit,omitempty"`     // add-digit only
	Operation calc.Operation `json:"operation,omitempty"` // choose-operation only
}

// Action converts the request into a calculator action.
func (r ActionRequest) Action() (calc.Action, error) {
	kind, ok := calc.ParseActionKind(r.Type)
	if !ok {
		return calc.Action{}, fmt.Errorf("unknown action type %q", r.Type)
	}
	return calc.Action{Kind: kind, Digit: r.Digit, Operation: r.Operation}, nil
}

// KeysRequest is the JSON body for POST /calculator/sessions/{id}/keys.
type KeysRequest struct {
	Keys []string `json:"keys"`
}

// PressRequest is the JSON body for POST /calculator/sessions/{id}/press.
type PressRequest struct {
	Label string `json:"label"`
}

// StateView is the JSON form of calc.State.
type StateView struct {
	CurrentOperand  string         `json:"current_operand"`
	PreviousOperand string         `json:"previous_operand"`
	Operation       calc.Operation `json:"operation"`
	Overwrite       bool           `json:"overwrite"`
	Phase           calc.Phase     `json:"phase"`
}

func newStateView(s calc.State) StateView {
	return StateView{
		CurrentOperand:  s.CurrentOperand,
		PreviousOperand: s.PreviousOperand,
		Operation:       s.Operation,
		Overwrite:       s.Overwrite,
		Phase:           s.Phase,
	}
}

// SessionResponse is returned by every session endpoint.
type SessionResponse struct {
	ID      string       `json:"id"`
	State   StateView    `json:"state"`
	Display display.View `json:"display"`
	// Ignored lists keys from a keys request that map to no action.
	Ignored []string `json:"ignored,omitempty"`
}

// KeypadResponse is the JSON response for GET /calculator/keypad.
type KeypadResponse struct {
	Rows [][]ButtonView `json:"rows"`
}

// ButtonView is one keypad button with its action spelled out.
type ButtonView struct {
	Label     string         `json:"label"`
	Class     keypad.Class   `json:"class,omitempty"`
	Action    string         `json:"action"`
	Digit     string         `json:"digit,omitempty"`
	Operation calc.Operation `json:"operation,omitempty"`
}

func newKeypadResponse(layout [][]keypad.Button) KeypadResponse {
	resp := KeypadResponse{Rows: make([][]ButtonView, 0, len(layout))}
	for _, row := range layout {
		views := make([]ButtonView, 0, len(row))
		for _, b := range row {
			views = append(views, ButtonView{
				Label:     b.Label,
				Class:     b.Class,
				Action:    b.Action.Kind.String(),
				Digit:     b.Action.Digit,
				Operation: b.Action.Operation,
			})
		}
		resp.Rows = append(resp.Rows, views)
	}
	return resp
}
