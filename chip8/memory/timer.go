package memory

// Timers holds the delay and sound down-counters. Both decrement once per
// Tick, which the scheduler calls at 60 Hz, and stop at zero.
type Timers struct {
	delay uint8
	sound uint8

	// SoundHandler, when set, is called whenever the tone gate changes.
	SoundHandler func(active bool)
}

// Tick decrements both timers if non-zero.
func (t *Timers) Tick() {
	if t.delay > 0 {
		t.delay--
	}
	if t.sound > 0 {
		t.sound--
		if t.sound == 0 {
			t.notify(false)
		}
	}
}

func (t *Timers) Delay() uint8 { return t.delay }
func (t *Timers) Sound() uint8 { return t.sound }

// SetDelay loads the delay timer.
func (t *Timers) SetDelay(value uint8) {
	t.delay = value
}

// SetSound loads the sound timer and opens or closes the tone gate.
func (t *Timers) SetSound(value uint8) {
	wasActive := t.sound > 0
	t.sound = value
	if active := t.sound > 0; active != wasActive {
		t.notify(active)
	}
}

// SoundActive reports whether the tone should currently be playing.
func (t *Timers) SoundActive() bool {
	return t.sound > 0
}

func (t *Timers) notify(active bool) {
	if t.SoundHandler != nil {
		t.SoundHandler(active)
	}
}
