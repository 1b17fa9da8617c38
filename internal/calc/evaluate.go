package calc

// Evaluate applies op to the two operands and returns the result in
// canonical form. It returns "" when either operand does not parse or op is
// not an arithmetic operator, and ErrorResult when dividing by zero.
func Evaluate(previous, current string, op Operation) string {
	prev, ok := ParseOperand(previous)
	if !ok {
		return ""
	}
	cur, ok := ParseOperand(current)
	if !ok {
		return ""
	}

	var result float64
	switch op {
	case OpAdd:
		result = prev + cur
	case OpSubtract:
		result = prev - cur
	case OpMultiply:
		result = prev * cur
	case OpDivide:
		if cur == 0 {
			return ErrorResult
		}
		result = prev / cur
	default:
		return ""
	}

	return FormatNumber(result)
}
