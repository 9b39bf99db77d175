package action

import "fmt"

// Action represents input actions that can be performed in the emulator
type Action int

const (
	// Hex keypad, in key order so that KeypadKey(k) == Keypad0 + k
	Keypad0 Action = iota
	Keypad1
	Keypad2
	Keypad3
	Keypad4
	Keypad5
	Keypad6
	Keypad7
	Keypad8
	Keypad9
	KeypadA
	KeypadB
	KeypadC
	KeypadD
	KeypadE
	KeypadF

	// Emulator features
	EmulatorDebugToggle
	EmulatorSnapshot
	EmulatorPauseToggle
	EmulatorStepFrame
	EmulatorStepInstruction
	EmulatorSaveState
	EmulatorLoadState
	EmulatorQuit

	// Debug controls
	DebugLogLevelIncrease
	DebugLogLevelDecrease
)

// Category groups actions by how backends and the input manager treat them.
type Category int

const (
	// CategoryGameInput actions drive the hex keypad and are never debounced.
	CategoryGameInput Category = iota
	// CategoryEmulator actions control the emulator itself.
	CategoryEmulator
	// CategoryDebug actions only affect debugging aids.
	CategoryDebug
)

// Info describes an action for logs and help screens.
type Info struct {
	Category    Category
	Description string
}

var infos = map[Action]Info{
	EmulatorDebugToggle:     {CategoryDebug, "Toggle debug panel"},
	EmulatorSnapshot:        {CategoryEmulator, "Save PNG snapshot"},
	EmulatorPauseToggle:     {CategoryEmulator, "Pause/resume"},
	EmulatorStepFrame:       {CategoryEmulator, "Step one frame"},
	EmulatorStepInstruction: {CategoryEmulator, "Step one instruction"},
	EmulatorSaveState:       {CategoryEmulator, "Save state"},
	EmulatorLoadState:       {CategoryEmulator, "Load state"},
	EmulatorQuit:            {CategoryEmulator, "Quit"},
	DebugLogLevelIncrease:   {CategoryDebug, "More verbose logs"},
	DebugLogLevelDecrease:   {CategoryDebug, "Less verbose logs"},
}

// GetInfo returns the category and description of an action.
func GetInfo(act Action) Info {
	if key, ok := KeypadKey(act); ok {
		return Info{CategoryGameInput, fmt.Sprintf("Keypad %X", key)}
	}
	if info, ok := infos[act]; ok {
		return info
	}
	return Info{CategoryEmulator, fmt.Sprintf("Action(%d)", int(act))}
}

// KeypadKey returns the hex key an action stands for, if it is a keypad action.
func KeypadKey(act Action) (uint8, bool) {
	if act < Keypad0 || act > KeypadF {
		return 0, false
	}
	return uint8(act - Keypad0), true
}

// ForKey returns the keypad action for the low nibble of key.
func ForKey(key uint8) Action {
	return Keypad0 + Action(key&0x0F)
}
