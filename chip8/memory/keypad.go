package memory

import "github.com/valerio/go-chip8/chip8/addr"

// Key is one of the 16 keys of the hex keypad, 0x0-0xF.
type Key uint8

const (
	Key0 Key = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
)

// Keypad holds the pressed state of each hex key as last delivered by the driver.
type Keypad struct {
	pressed [addr.KeyCount]bool
}

// NewKeypad creates a keypad with every key released.
func NewKeypad() *Keypad {
	return &Keypad{}
}

// Press marks the key as held down. Only the low nibble of key is used.
func (k *Keypad) Press(key Key) {
	k.pressed[key&0x0F] = true
}

// Release marks the key as up. Only the low nibble of key is used.
func (k *Keypad) Release(key Key) {
	k.pressed[key&0x0F] = false
}

// Set updates a key from a press/release flag.
func (k *Keypad) Set(key Key, pressed bool) {
	k.pressed[key&0x0F] = pressed
}

// IsPressed reports whether the key at the low nibble of key is held.
func (k *Keypad) IsPressed(key Key) bool {
	return k.pressed[key&0x0F]
}

// FirstPressed returns the lowest-index key currently held.
func (k *Keypad) FirstPressed() (Key, bool) {
	for i, down := range k.pressed {
		if down {
			return Key(i), true
		}
	}
	return 0, false
}

// ReleaseAll clears every key, used when a backend loses focus.
func (k *Keypad) ReleaseAll() {
	k.pressed = [addr.KeyCount]bool{}
}

// State returns a copy of the key states.
func (k *Keypad) State() [addr.KeyCount]bool {
	return k.pressed
}

// Restore replaces the key states.
func (k *Keypad) Restore(state [addr.KeyCount]bool) {
	k.pressed = state
}
