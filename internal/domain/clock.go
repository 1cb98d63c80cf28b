package domain

import "github.com/jonboulle/clockwork"

// DateLayout is the ISO calendar date format used for report dates.
const DateLayout = "2006-01-02"

// clock decides which calendar day a run reports and drives the scheduler's
// ticks. SetClock replaces it.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source for report dates and scheduling. Pass nil to
// reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Clock returns the current time source.
func Clock() clockwork.Clock {
	return clock
}

// Today returns the current UTC calendar date as YYYY-MM-DD.
func Today() string {
	return clock.Now().UTC().Format(DateLayout)
}
