package ebiten

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyTextName(t *testing.T) {
	tests := map[string]string{
		"q":      "Q",
		"1":      "Digit1",
		"Space":  "Space",
		"Escape": "Escape",
		"F5":     "F5",
		"=":      "Equal",
		"_":      "Minus",
		"Up":     "ArrowUp",
	}
	for in, want := range tests {
		assert.Equal(t, want, keyTextName(in), in)
	}
}
