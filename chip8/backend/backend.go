package backend

import (
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

// Backend represents a complete emulator platform (rendering + input)
// Backends are responsible for:
// - Rendering frames to their specific output (terminal, SDL window, etc.)
// - Translating platform-specific input events to Actions
// - Handling backend-specific features (snapshots, debug panels)
type Backend interface {
	// Init configures the backend with the provided configuration.
	// This is a required step before calling Update.
	Init(config BackendConfig) error

	// Update renders the provided frame, polls platform events and returns
	// them translated to actions. It is called once per 60 Hz frame.
	Update(frame *video.FrameBuffer) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// InputEvent is an action reported by a backend.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// DebugDataProvider gives backends access to emulator state for debug panels.
type DebugDataProvider interface {
	ExtractDebugData() *debug.Data
}

// BackendConfig holds configuration for backends
type BackendConfig struct {
	Title     string
	Scale     int
	ShowDebug bool // Backends may ignore unsupported features

	// KeyMap resolves key names to actions. Backends fall back to
	// input.DefaultKeyMap when nil.
	KeyMap map[string]action.Action

	DebugProvider DebugDataProvider
}

// Lookup resolves a key name through the configured key map.
func (c BackendConfig) Lookup(key string, fallback map[string]action.Action) (action.Action, bool) {
	km := c.KeyMap
	if km == nil {
		km = fallback
	}
	act, ok := km[key]
	return act, ok
}
