package input

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/valerio/go-chip8/chip8/input/action"
)

// DefaultKeyMap provides default key mappings that work across backends.
// The left block of a QWERTY keyboard stands in for the hex keypad:
//
//	1 2 3 4        1 2 3 C
//	Q W E R  ->    4 5 6 D
//	A S D F        7 8 9 E
//	Z X C V        A 0 B F
var DefaultKeyMap = map[string]action.Action{
	"1": action.Keypad1,
	"2": action.Keypad2,
	"3": action.Keypad3,
	"4": action.KeypadC,
	"q": action.Keypad4,
	"w": action.Keypad5,
	"e": action.Keypad6,
	"r": action.KeypadD,
	"a": action.Keypad7,
	"s": action.Keypad8,
	"d": action.Keypad9,
	"f": action.KeypadE,
	"z": action.KeypadA,
	"x": action.Keypad0,
	"c": action.KeypadB,
	"v": action.KeypadF,

	// Emulator controls
	"Space":  action.EmulatorPauseToggle,
	"p":      action.EmulatorPauseToggle, // Alternative key
	"o":      action.EmulatorStepFrame,
	"i":      action.EmulatorStepInstruction,
	"n":      action.EmulatorStepInstruction, // Alternative key for step instruction
	"F5":     action.EmulatorSaveState,
	"F8":     action.EmulatorLoadState,
	"F9":     action.EmulatorSnapshot,
	"F10":    action.EmulatorDebugToggle,
	"Escape": action.EmulatorQuit,

	// Debug controls
	"+": action.DebugLogLevelIncrease,
	"=": action.DebugLogLevelIncrease, // Alternative without shift
	"-": action.DebugLogLevelDecrease,
	"_": action.DebugLogLevelDecrease, // Alternative with shift
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}

// KeyMap resolves backend key names to actions.
type KeyMap map[string]action.Action

// NewKeyMap returns a copy of DefaultKeyMap with the keypad bindings in
// overrides applied. Overrides map a hex digit ("0"-"F") to a key name.
// Single-character names are lowercased to match what backends report.
// A rebound key drops its previous binding.
func NewKeyMap(overrides map[string]string) (KeyMap, error) {
	km := make(KeyMap, len(DefaultKeyMap))
	for k, v := range DefaultKeyMap {
		km[k] = v
	}

	for digit, key := range overrides {
		var hex uint8
		if _, err := fmt.Sscanf(strings.ToUpper(digit), "%X", &hex); err != nil || len(digit) != 1 {
			return nil, fmt.Errorf("invalid keypad digit %q", digit)
		}
		if utf8.RuneCountInString(key) == 1 {
			key = strings.ToLower(key)
		}
		act := action.ForKey(hex)
		for name, bound := range km {
			if bound == act {
				delete(km, name)
			}
		}
		km[key] = act
	}

	return km, nil
}

// Lookup returns the action bound to key.
func (km KeyMap) Lookup(key string) (action.Action, bool) {
	act, ok := km[key]
	return act, ok
}
