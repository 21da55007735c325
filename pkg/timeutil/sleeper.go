package timeutil

import "time"

// Sleeper abstracts time.Sleep so callers (e.g. a rate limiter pacing
// fetches) can be tested without real wall-clock delays.
type Sleeper interface {
	Sleep(d time.Duration)
}

type RealSleeper struct{}

func NewRealSleeper() RealSleeper {
	return RealSleeper{}
}

func (RealSleeper) Sleep(d time.Duration) {
	time.Sleep(d)
}
