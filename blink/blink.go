// Package blink maps a distance reading to an indicator blink period.
package blink

import "time"

// steps is ordered by upper bound; the first step whose bound is not
// exceeded wins.
var steps = []struct {
	upTo  uint16
	delay time.Duration
}{
	{2, 50 * time.Millisecond},
	{4, 100 * time.Millisecond},
	{8, 200 * time.Millisecond},
	{16, 400 * time.Millisecond},
	{32, 700 * time.Millisecond},
}

// Far is the delay for anything beyond the last step.
const Far = time.Second

// Delay returns how long to wait between LED toggles for a distance in cm.
// Closer objects blink faster.
func Delay(cm uint16) time.Duration {
	for _, s := range steps {
		if cm <= s.upTo {
			return s.delay
		}
	}
	return Far
}
