package calc

import (
	"math"
	"strconv"
)

// ErrorResult is what the calculator shows instead of a number when an
// operation has no finite result, such as division by zero.
const ErrorResult = "Error"

// Plain notation is used for magnitudes in [minPlain, maxPlain); anything
// outside that range is written with an exponent.
const (
	minPlain = 1e-6
	maxPlain = 1e21
)

// FormatNumber renders f in the calculator's canonical form: the shortest
// digits that parse back to f, plain notation for everyday magnitudes and
// exponent notation for very large or very small ones. Negative zero is
// written as "0" and non-finite values as ErrorResult.
func FormatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ErrorResult
	}
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs < minPlain || abs >= maxPlain {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseOperand parses an operand string. Empty, malformed and non-finite
// operands are rejected.
func ParseOperand(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
