package audio

import (
	"encoding/binary"
	"math"
	"sync/atomic"
)

const (
	// SampleRate is the output rate used by the players.
	SampleRate = 44100
	// ToneFrequency is the pitch of the beep.
	ToneFrequency = 440.0
	// ToneVolume is the peak amplitude of the beep on a [-1, 1] scale.
	ToneVolume = 1.0 / 20

	bytesPerSample = 4
)

// Provider supplies signed 16-bit samples to backends that queue audio
// themselves.
type Provider interface {
	// GetSamples retrieves audio samples for playback
	GetSamples(count int) []int16
}

// ToneGenerator produces a gated sine wave. SetActive may be called from the
// emulator goroutine while the audio goroutine pulls samples.
type ToneGenerator struct {
	step   float64
	phase  float64
	volume float64
	active atomic.Bool
}

var (
	_ Provider = (*ToneGenerator)(nil)
	_ Beeper   = (*ToneGenerator)(nil)
)

// NewToneGenerator creates a generator for the given output rate.
func NewToneGenerator(sampleRate int) *ToneGenerator {
	return &ToneGenerator{
		step:   ToneFrequency / float64(sampleRate),
		volume: ToneVolume,
	}
}

// SetActive opens or closes the tone gate.
func (g *ToneGenerator) SetActive(active bool) {
	g.active.Store(active)
}

func (g *ToneGenerator) Active() bool {
	return g.active.Load()
}

// Close silences the generator. Backends that pull samples themselves use
// the generator directly as their Beeper.
func (g *ToneGenerator) Close() error {
	g.SetActive(false)
	return nil
}

func (g *ToneGenerator) next() float64 {
	if !g.active.Load() {
		return 0
	}
	sample := g.volume * math.Sin(2*math.Pi*g.phase)
	g.phase += g.step
	if g.phase >= 1 {
		g.phase -= 1
	}
	return sample
}

// Fill writes float samples into buf, silence while the gate is closed.
func (g *ToneGenerator) Fill(buf []float32) {
	for i := range buf {
		buf[i] = float32(g.next())
	}
}

func (g *ToneGenerator) GetSamples(count int) []int16 {
	samples := make([]int16, count)
	for i := range samples {
		samples[i] = int16(g.next() * math.MaxInt16)
	}
	return samples
}

// Read implements io.Reader, producing mono float32 little-endian samples.
// It never returns an error so players keep streaming.
func (g *ToneGenerator) Read(p []byte) (int, error) {
	n := len(p) / bytesPerSample
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(p[i*bytesPerSample:], math.Float32bits(float32(g.next())))
	}
	// a partial trailing sample is left for the next call
	return n * bytesPerSample, nil
}
