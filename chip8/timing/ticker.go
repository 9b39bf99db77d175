package timing

import "time"

// TickerLimiter paces frames on a time.Ticker running at the timer rate.
// Ticks missed while the VM was busy are dropped rather than queued, so a
// slow frame never makes the following ones run back to back.
type TickerLimiter struct {
	ticker *time.Ticker
}

// NewTickerLimiter starts a ticker at one tick per 60 Hz frame. Call Stop
// when done.
func NewTickerLimiter() *TickerLimiter {
	return &TickerLimiter{ticker: time.NewTicker(FrameDuration())}
}

// WaitForNextFrame blocks until the next tick.
func (t *TickerLimiter) WaitForNextFrame() {
	<-t.ticker.C
}

// Reset restarts the period and discards a tick left over from a pause.
func (t *TickerLimiter) Reset() {
	t.ticker.Reset(FrameDuration())
	select {
	case <-t.ticker.C:
	default:
	}
}

// Stop releases the ticker.
func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
