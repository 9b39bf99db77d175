package audio

import "errors"

// ErrUnavailable is returned when the binary was built without an audio player.
var ErrUnavailable = errors.New("audio player not available - build with -tags oto to enable")

// Beeper turns the tone on and off following the sound timer.
type Beeper interface {
	SetActive(active bool)
	Close() error
}

// NullBeeper keeps track of the gate without producing sound.
type NullBeeper struct {
	active  bool
	toggles int
}

func NewNullBeeper() *NullBeeper {
	return &NullBeeper{}
}

func (b *NullBeeper) SetActive(active bool) {
	if active != b.active {
		b.toggles++
	}
	b.active = active
}

func (b *NullBeeper) Active() bool { return b.active }
func (b *NullBeeper) Toggles() int { return b.toggles }
func (b *NullBeeper) Close() error { return nil }
