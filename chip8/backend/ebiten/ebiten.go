//go:build ebiten

package ebiten

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

const defaultScale = 10

var errClosed = errors.New("window closed")

type binding struct {
	key    ebiten.Key
	action action.Action
}

// Backend renders into an ebiten window. ebiten owns its own loop, so the
// game runs on a separate goroutine and exchanges frames and input events
// with Update under a mutex.
type Backend struct {
	config   backend.BackendConfig
	scale    int
	bindings []binding

	mutex   sync.Mutex
	pixels  []byte
	events  []backend.InputEvent
	status  string
	closing bool
	started bool
	done    chan struct{}
	ready   chan struct{}

	screen *ebiten.Image
	frame  *video.FrameBuffer // owned copy, guarded by mutex
}

// New creates a new ebiten backend
func New() *Backend {
	return &Backend{
		pixels: make([]byte, video.Width*video.Height*4),
		frame:  video.NewFrameBuffer(),
		done:   make(chan struct{}),
		ready:  make(chan struct{}, 1),
	}
}

// Init opens the window and starts the ebiten loop.
func (b *Backend) Init(config backend.BackendConfig) error {
	b.config = config
	b.scale = config.Scale
	if b.scale <= 0 {
		b.scale = defaultScale
	}

	keymap := config.KeyMap
	if keymap == nil {
		keymap = input.DefaultKeyMap
	}
	for name, act := range keymap {
		var key ebiten.Key
		if err := key.UnmarshalText([]byte(keyTextName(name))); err != nil {
			slog.Debug("Key not supported by ebiten backend", "key", name)
			continue
		}
		b.bindings = append(b.bindings, binding{key: key, action: act})
	}

	ebiten.SetWindowSize(video.Width*b.scale, video.Height*b.scale)
	ebiten.SetWindowTitle(config.Title)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetTPS(ebiten.DefaultTPS)

	b.started = true
	go func() {
		defer close(b.done)
		if err := ebiten.RunGame(game{b}); err != nil && !errors.Is(err, errClosed) {
			slog.Error("Ebiten error", "error", err)
		}
	}()

	// Wait for first Draw call to ensure ebiten is ready
	select {
	case <-b.ready:
	case <-b.done:
		return fmt.Errorf("failed to start ebiten window")
	}

	slog.Info("Ebiten backend initialized", "scale", b.scale)
	return nil
}

// Update hands the frame to the window and returns the input collected
// since the last call.
func (b *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	copyFrame(b.frame, b.pixels, frame)

	b.status = ""
	if b.config.ShowDebug && b.config.DebugProvider != nil {
		if data := b.config.DebugProvider.ExtractDebugData(); data != nil && data.CPU != nil {
			b.status = fmt.Sprintf("%s PC:%03X I:%03X", data.DebuggerState, data.CPU.PC, data.CPU.I)
		}
	}

	select {
	case <-b.done:
		b.events = append(b.events, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
	default:
	}

	events := b.events
	b.events = nil
	return events, nil
}

// Cleanup stops the ebiten loop.
func (b *Backend) Cleanup() error {
	if !b.started {
		return nil
	}
	b.mutex.Lock()
	b.closing = true
	b.mutex.Unlock()
	<-b.done
	return nil
}

// ebitenUpdate polls the keyboard once per ebiten tick.
func (b *Backend) ebitenUpdate() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.closing {
		return errClosed
	}

	for _, bind := range b.bindings {
		switch {
		case inpututil.IsKeyJustPressed(bind.key):
			if bind.action == action.EmulatorSnapshot {
				debug.TakeSnapshot(b.frame)
				continue
			}
			b.events = append(b.events, backend.InputEvent{Action: bind.action, Type: event.Press})
		case inpututil.IsKeyJustReleased(bind.key):
			if action.GetInfo(bind.action).Category == action.CategoryGameInput {
				b.events = append(b.events, backend.InputEvent{Action: bind.action, Type: event.Release})
			}
		}
	}
	return nil
}

func (b *Backend) draw(screen *ebiten.Image) {
	if b.screen == nil {
		b.screen = ebiten.NewImage(video.Width, video.Height)
	}

	b.mutex.Lock()
	b.screen.WritePixels(b.pixels)
	status := b.status
	b.mutex.Unlock()

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(b.scale), float64(b.scale))
	screen.DrawImage(b.screen, op)

	if status != "" {
		text.Draw(screen, status, basicfont.Face7x13, 4, 14, color.RGBA{R: 0xFF, G: 0xD7, A: 0xFF})
	}

	select {
	case b.ready <- struct{}{}:
	default:
	}
}

func (b *Backend) layout(int, int) (int, int) {
	return video.Width * b.scale, video.Height * b.scale
}

// game adapts the backend to ebiten.Game without clashing with the
// backend.Backend method set.
type game struct{ b *Backend }

func (g game) Update() error              { return g.b.ebitenUpdate() }
func (g game) Draw(screen *ebiten.Image)  { g.b.draw(screen) }
func (g game) Layout(w, h int) (int, int) { return g.b.layout(w, h) }
