package pipeline

import "github.com/jonboulle/clockwork"

// clock is the package time source for build-run timestamps. Tests and the
// fixture generator freeze it via SetClock for reproducible output.
var clock = clockwork.NewRealClock()

// SetClock swaps the pipeline time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
