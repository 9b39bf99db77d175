//go:build !oto

package audio

// OtoBeeper stub for builds without the oto player.
type OtoBeeper struct{}

// NewOtoBeeper returns ErrUnavailable.
func NewOtoBeeper() (*OtoBeeper, error) {
	return nil, ErrUnavailable
}

func (b *OtoBeeper) SetActive(bool) {}
func (b *OtoBeeper) Close() error   { return nil }
