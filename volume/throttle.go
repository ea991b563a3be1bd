package volume

import (
	"context"

	"golang.org/x/time/rate"
)

// throttle paces bulk transfers to a byte rate. A nil throttle never waits.
type throttle struct {
	limiter *rate.Limiter
}

func newThrottle(bytesPerSecond, largestTransfer int) *throttle {
	if bytesPerSecond <= 0 {
		return nil
	}

	return &throttle{limiter: rate.NewLimiter(rate.Limit(bytesPerSecond), max(bytesPerSecond, largestTransfer))}
}

func (t *throttle) wait(n int) error {
	if t == nil || n == 0 {
		return nil
	}

	return t.limiter.WaitN(context.Background(), n)
}
