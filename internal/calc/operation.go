package calc

import "fmt"

// Operation is a pending binary operator. OpNone marks the absence of one.
type Operation int

const (
	OpNone Operation = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
)

var operationSymbols = map[Operation]string{
	OpAdd:      "+",
	OpSubtract: "-",
	OpMultiply: "×",
	OpDivide:   "÷",
}

// Symbol returns the display symbol of the operation, or "" for OpNone.
func (o Operation) Symbol() string {
	return operationSymbols[o]
}

func (o Operation) String() string {
	if s, ok := operationSymbols[o]; ok {
		return s
	}
	return "none"
}

// Valid reports whether o is one of the four arithmetic operators.
func (o Operation) Valid() bool {
	_, ok := operationSymbols[o]
	return ok
}

// ParseOperation accepts the display symbols, their ASCII keyboard
// equivalents and the operation names used by the HTTP API.
func ParseOperation(s string) (Operation, bool) {
	switch s {
	case "+", "add":
		return OpAdd, true
	case "-", "subtract":
		return OpSubtract, true
	case "×", "*", "x", "multiply":
		return OpMultiply, true
	case "÷", "/", "divide":
		return OpDivide, true
	}
	return OpNone, false
}

// MarshalText encodes the operation as its symbol; OpNone encodes as "".
func (o Operation) MarshalText() ([]byte, error) {
	return []byte(o.Symbol()), nil
}

// UnmarshalText decodes any form accepted by ParseOperation. An empty
// string decodes to OpNone.
func (o *Operation) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*o = OpNone
		return nil
	}
	op, ok := ParseOperation(string(text))
	if !ok {
		return &UnknownOperationError{Value: string(text)}
	}
	*o = op
	return nil
}

// UnknownOperationError is returned when decoding an unrecognized operator.
type UnknownOperationError struct {
	Value string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation %q", e.Value)
}
