package chip8

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/timing"
)

// Run drives the VM against a backend until the backend or the user asks to
// quit, the context is cancelled, or the CPU halts. Each iteration advances
// one frame (or one debugger step), presents it and applies the input the
// backend reported, then waits on the limiter.
//
// The backend must already be initialized. Cleanup is left to the caller.
func (v *VM) Run(ctx context.Context, b backend.Backend, limiter timing.Limiter) error {
	if limiter == nil {
		limiter = timing.NewNoOpLimiter()
	}
	limiter.Reset()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := v.advance(); err != nil {
			return fmt.Errorf("emulation stopped at frame %d: %w", v.frames, err)
		}

		wasPaused := v.Paused()
		events, err := b.Update(v.GetCurrentFrame())
		if err != nil {
			return fmt.Errorf("backend update failed: %w", err)
		}

		for _, evt := range events {
			v.input.Trigger(evt.Action, evt.Type)
		}

		if v.quit {
			slog.Info("Quit requested", "frame", v.frames)
			return nil
		}

		if wasPaused && !v.Paused() {
			limiter.Reset()
		}
		limiter.WaitForNextFrame()
	}
}

// advance moves the machine forward according to the debugger state.
// Single steps drop back to paused once done.
func (v *VM) advance() error {
	switch v.debuggerState {
	case debug.DebuggerRunning:
		return v.RunUntilFrame()
	case debug.DebuggerStepFrame:
		v.setDebuggerState(debug.DebuggerPaused)
		return v.RunUntilFrame()
	case debug.DebuggerStepInstruction:
		v.setDebuggerState(debug.DebuggerPaused)
		err := v.Step()
		if err != nil {
			return err
		}
		slog.Debug("Stepped", "pc", fmt.Sprintf("0x%03X", v.cpu.GetPC()), "opcode", fmt.Sprintf("%04X", v.cpu.GetOpcode()))
		return nil
	}
	return nil
}

// Halted reports whether the CPU has stopped on a fatal fault.
func (v *VM) Halted() bool {
	return v.cpu.State() == cpu.Halted
}
