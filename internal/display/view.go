package display

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go-chi-calculator/internal/calc"
)

// FontSize is a coarse size class for the current operand line, chosen so
// that long numbers still fit the display.
type FontSize int

const (
	FontLarge FontSize = iota
	FontMedium
	FontSmall
	FontXSmall
)

var fontSizeNames = [...]string{"large", "medium", "small", "x-small"}

func (f FontSize) String() string {
	if f < 0 || int(f) >= len(fontSizeNames) {
		return fmt.Sprintf("font(%d)", int(f))
	}
	return fontSizeNames[f]
}

func (f FontSize) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *FontSize) UnmarshalText(text []byte) error {
	for i, name := range fontSizeNames {
		if name == string(text) {
			*f = FontSize(i)
			return nil
		}
	}
	return fmt.Errorf("unknown font size %q", text)
}

// FontSizeFor picks the size class for an already formatted operand.
func FontSizeFor(formatted string) FontSize {
	n := utf8.RuneCountInString(formatted)
	switch {
	case n > 16:
		return FontXSmall
	case n > 12:
		return FontSmall
	case n > 10:
		return FontMedium
	default:
		return FontLarge
	}
}

// View is what the display shows for one calculator state.
type View struct {
	// Previous is the formatted left operand followed by the pending operator.
	Previous string   `json:"previous"`
	Current  string   `json:"current"`
	FontSize FontSize `json:"font_size"`
}

// View renders s. An empty current operand is shown as "0".
func (f *Formatter) View(s calc.State) View {
	previous := strings.TrimSpace(f.Operand(s.PreviousOperand) + " " + s.Operation.Symbol())

	current := f.Operand(s.CurrentOperand)
	size := FontSizeFor(current)
	if current == "" {
		current = "0"
	}

	return View{
		Previous: previous,
		Current:  current,
		FontSize: size,
	}
}

// MinWidth is the narrowest text display Render draws.
const MinWidth = 20

// Render draws the view as a boxed, right-aligned two line text display.
func (v View) Render() string {
	width := max(MinWidth, utf8.RuneCountInString(v.Previous), utf8.RuneCountInString(v.Current))
	border := "+" + strings.Repeat("-", width+2) + "+\n"

	var b strings.Builder
	b.WriteString(border)
	fmt.Fprintf(&b, "| %*s |\n", width, v.Previous)
	fmt.Fprintf(&b, "| %*s |\n", width, v.Current)
	b.WriteString(border)
	return b.String()
}
