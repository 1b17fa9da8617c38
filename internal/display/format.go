package display

import (
	"math/big"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter adds locale digit grouping to operands for display. It never
// changes the operand's value or the digits after the decimal point.
type Formatter struct {
	printer *message.Printer
	decimal string
	group   string
}

// NewFormatter returns a Formatter for the given locale.
func NewFormatter(tag language.Tag) *Formatter {
	p := message.NewPrinter(tag)

	decimal := strings.TrimFunc(p.Sprintf("%.1f", 1.5), unicode.IsDigit)
	if decimal == "" {
		decimal = "."
	}

	group := strings.TrimFunc(p.Sprintf("%d", 1000), unicode.IsDigit)

	return &Formatter{printer: p, decimal: decimal, group: group}
}

// Default formats for American English, matching the keypad's own symbols.
func Default() *Formatter {
	return NewFormatter(language.AmericanEnglish)
}

// Operand groups the integer part of s ("1234567.25" -> "1,234,567.25").
// Strings whose integer part is not a plain integer, such as "Error", "-",
// ".5" or exponent forms, are returned unchanged.
func (f *Formatter) Operand(s string) string {
	if s == "" {
		return ""
	}

	integer, fraction, hasFraction := strings.Cut(s, ".")
	if integer == "" || integer == "-" {
		return s
	}

	sign := ""
	if strings.HasPrefix(integer, "-") {
		sign, integer = "-", integer[1:]
	}
	if integer == "" || strings.TrimLeft(integer, "0123456789") != "" {
		return s
	}

	digits, ok := new(big.Int).SetString(integer, 10)
	if !ok {
		return s
	}

	grouped := sign + f.groupDigits(digits)
	if !hasFraction {
		return grouped
	}
	return grouped + f.decimal + fraction
}

// groupDigits uses the locale printer for integers that fit int64 and falls
// back to groups of three with the locale separator beyond that.
func (f *Formatter) groupDigits(n *big.Int) string {
	if n.IsInt64() {
		return f.printer.Sprintf("%d", n.Int64())
	}

	digits := n.String()
	var b strings.Builder
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteString(f.group)
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
