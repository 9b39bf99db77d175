package chip8

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/cpu"
)

// stateVersion is bumped whenever Snapshot changes shape.
const stateVersion = 1

var (
	// ErrStateVersion is returned when a saved state was written by an
	// incompatible version.
	ErrStateVersion = errors.New("unsupported save state version")
	// ErrNoStateFile is returned by the file based save and load actions
	// when no path is configured.
	ErrNoStateFile = errors.New("no state file configured")
)

// Snapshot is the complete machine state. Restoring it and running the same
// input produces the same frames, random numbers included.
type Snapshot struct {
	Version    int
	CPU        cpu.Snapshot
	Memory     [addr.MemorySize]byte
	Display    [addr.DisplaySize]byte
	Keys       [addr.KeyCount]bool
	DelayTimer uint8
	SoundTimer uint8
	RNG        []byte
	Carry      int
	Frames     uint64
}

// Snapshot captures the machine state.
func (v *VM) Snapshot() (Snapshot, error) {
	rng, err := v.pcg.MarshalBinary()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to capture rng: %w", err)
	}

	return Snapshot{
		Version:    stateVersion,
		CPU:        v.cpu.Snapshot(),
		Memory:     v.mem.Dump(),
		Display:    v.display.Bytes(),
		Keys:       v.keypad.State(),
		DelayTimer: v.timers.Delay(),
		SoundTimer: v.timers.Sound(),
		RNG:        rng,
		Carry:      v.carry,
		Frames:     v.frames,
	}, nil
}

// Restore replaces the machine state with s.
func (v *VM) Restore(s Snapshot) error {
	if s.Version != stateVersion {
		return fmt.Errorf("%w: %d", ErrStateVersion, s.Version)
	}
	if len(s.RNG) > 0 {
		if err := v.pcg.UnmarshalBinary(s.RNG); err != nil {
			return fmt.Errorf("failed to restore rng: %w", err)
		}
	}

	v.cpu.Restore(s.CPU)
	v.mem.Restore(s.Memory)
	v.display.Restore(s.Display)
	v.keypad.Restore(s.Keys)
	v.timers.SetDelay(s.DelayTimer)
	v.timers.SetSound(s.SoundTimer)
	v.carry = s.Carry
	v.frames = s.Frames
	v.render()
	return nil
}

// SaveState writes the machine state to w.
func (v *VM) SaveState(w io.Writer) error {
	s, err := v.Snapshot()
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	return nil
}

// LoadState reads a state written by SaveState and restores it.
func (v *VM) LoadState(r io.Reader) error {
	var s Snapshot
	if err := gob.NewDecoder(r).Decode(&s); err != nil {
		return fmt.Errorf("failed to decode state: %w", err)
	}
	return v.Restore(s)
}

// SaveStateFile writes the machine state to path.
func (v *VM) SaveStateFile(path string) error {
	if path == "" {
		return ErrNoStateFile
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create state file: %w", err)
	}
	if err := v.SaveState(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	slog.Info("Saved state", "path", path, "frame", v.frames)
	return nil
}

// LoadStateFile restores the machine state from path.
func (v *VM) LoadStateFile(path string) error {
	if path == "" {
		return ErrNoStateFile
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open state file: %w", err)
	}
	defer f.Close()

	if err := v.LoadState(f); err != nil {
		return err
	}

	slog.Info("Loaded state", "path", path, "frame", v.frames)
	return nil
}
