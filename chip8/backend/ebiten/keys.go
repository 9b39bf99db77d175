package ebiten

import (
	"strings"
	"unicode"
)

// keyTextName converts a key map name into the text form ebiten keys
// unmarshal from, e.g. "q" -> "Q", "1" -> "Digit1", "Up" -> "ArrowUp".
func keyTextName(name string) string {
	switch name {
	case "+", "=":
		return "Equal"
	case "-", "_":
		return "Minus"
	case "Up", "Down", "Left", "Right":
		return "Arrow" + name
	}

	if len(name) == 1 {
		r := rune(name[0])
		switch {
		case unicode.IsDigit(r):
			return "Digit" + name
		case unicode.IsLetter(r):
			return strings.ToUpper(name)
		}
	}
	return name
}
