//go:build oto

package audio

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// OtoBeeper streams the tone generator through an oto player.
type OtoBeeper struct {
	ctx       *oto.Context
	player    *oto.Player
	generator *ToneGenerator
	mutex     sync.Mutex
}

// NewOtoBeeper opens the default audio device and starts streaming. The
// tone stays silent until SetActive(true).
func NewOtoBeeper() (*OtoBeeper, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}
	<-ready

	b := &OtoBeeper{
		ctx:       ctx,
		generator: NewToneGenerator(SampleRate),
	}
	b.player = ctx.NewPlayer(b.generator)
	b.player.Play()

	slog.Info("Audio initialized", "sample_rate", SampleRate, "frequency", ToneFrequency)
	return b, nil
}

func (b *OtoBeeper) SetActive(active bool) {
	b.generator.SetActive(active)
}

func (b *OtoBeeper) Close() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.player == nil {
		return nil
	}
	err := b.player.Close()
	b.player = nil
	return err
}
