//go:build sdl2

package sdl2

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"strings"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/valerio/go-chip8/chip8/audio"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

const (
	defaultScale = 10
	// keep a few frames of audio queued so the device never runs dry
	audioQueueFrames = 3
	bytesPerPixel    = 4
)

// Backend implements the Backend interface using SDL2 bindings
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stub, see build tags (sdl2)
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	running  bool
	config   backend.BackendConfig

	audio    audio.Provider
	audioDev sdl.AudioDeviceID

	events       []backend.InputEvent
	currentFrame *video.FrameBuffer
}

// New creates a new SDL2 backend. When provider is non-nil its samples are
// queued to the default audio device.
func New(provider audio.Provider) *Backend {
	return &Backend{audio: provider}
}

// Init initializes the SDL2 backend
func (s *Backend) Init(config backend.BackendConfig) error {
	s.config = config

	flags := uint32(sdl.INIT_VIDEO | sdl.INIT_EVENTS)
	if s.audio != nil {
		flags |= sdl.INIT_AUDIO
	}
	if err := sdl.Init(flags); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	scale := config.Scale
	if scale <= 0 {
		scale = defaultScale
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(video.Width*scale),
		int32(video.Height*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	s.renderer = renderer

	// RGBA8888 is a packed format, so the 0xRRGGBBAA frame words upload as-is
	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.Width,
		video.Height,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create texture: %w", err)
	}
	s.texture = texture

	if s.audio != nil {
		if err := s.openAudio(); err != nil {
			slog.Warn("Audio disabled", "error", err)
			s.audio = nil
		}
	}

	s.running = true
	slog.Info("SDL2 backend initialized", "scale", scale, "audio", s.audio != nil)
	return nil
}

func (s *Backend) openAudio() error {
	spec := &sdl.AudioSpec{
		Freq:     audio.SampleRate,
		Format:   sdl.AUDIO_S16LSB,
		Channels: 1,
		Samples:  1024,
	}
	dev, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		return err
	}
	s.audioDev = dev
	sdl.PauseAudioDevice(dev, false)
	return nil
}

// Update renders a frame and processes events
func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	if !s.running {
		return nil, nil
	}

	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		s.handleEvent(ev)
	}

	events := s.events
	s.events = nil

	if !s.running {
		return events, nil
	}

	s.currentFrame = frame
	s.renderFrame(frame)
	s.queueAudio()

	return events, nil
}

// Cleanup cleans up SDL2 resources
func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	if s.audioDev != 0 {
		sdl.CloseAudioDevice(s.audioDev)
	}
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()

	return nil
}

func (s *Backend) handleEvent(ev sdl.Event) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		s.running = false
		s.emit(action.EmulatorQuit, event.Press)

	case *sdl.KeyboardEvent:
		act, ok := s.config.Lookup(keyName(e.Keysym.Sym), input.DefaultKeyMap)
		if !ok {
			return
		}
		switch e.Type {
		case sdl.KEYDOWN:
			// Ignore key repeat events
			if e.Repeat != 0 {
				return
			}
			s.handleKeyDown(act)
		case sdl.KEYUP:
			if action.GetInfo(act).Category == action.CategoryGameInput {
				s.emit(act, event.Release)
			}
		}
	}
}

// keyName converts SDL key names to the names used in key maps.
func keyName(key sdl.Keycode) string {
	name := sdl.GetKeyName(key)
	if len(name) == 1 {
		return strings.ToLower(name)
	}
	return name
}

func (s *Backend) handleKeyDown(act action.Action) {
	switch act {
	case action.EmulatorSnapshot:
		debug.TakeSnapshot(s.currentFrame)
		return
	case action.EmulatorQuit:
		s.running = false
	}
	s.emit(act, event.Press)
}

func (s *Backend) emit(act action.Action, typ event.Type) {
	s.events = append(s.events, backend.InputEvent{Action: act, Type: typ})
}

func (s *Backend) renderFrame(frame *video.FrameBuffer) {
	pixels := frame.ToSlice()
	if err := s.texture.Update(nil, unsafe.Pointer(&pixels[0]), video.Width*bytesPerPixel); err != nil {
		slog.Error("Failed to update texture", "error", err)
		return
	}

	s.renderer.SetDrawColor(0, 0, 0, 0xFF)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
}

func (s *Backend) queueAudio() {
	if s.audio == nil {
		return
	}

	const samplesPerFrame = audio.SampleRate / 60
	queued := int(sdl.GetQueuedAudioSize(s.audioDev)) / 2
	missing := samplesPerFrame*audioQueueFrames - queued
	if missing <= 0 {
		return
	}

	samples := s.audio.GetSamples(missing)
	data := make([]byte, len(samples)*2)
	for i, v := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(v))
	}
	if err := sdl.QueueAudio(s.audioDev, data); err != nil {
		slog.Debug("Failed to queue audio", "error", err)
	}
}
