// Package gpiotest provides a fake clock and recording pins for driver tests.
package gpiotest

import (
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Clock is a manual clock. Sleep advances it instantly; every Now call also
// advances it by Tick, which models the cost of a poll.
type Clock struct {
	t    time.Time
	Tick time.Duration
}

func NewClock() *Clock {
	return &Clock{t: epoch}
}

func (c *Clock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(c.Tick)
	return now
}

func (c *Clock) Sleep(d time.Duration) {
	c.t = c.t.Add(d)
}

// Elapsed is the time passed since the clock was created.
func (c *Clock) Elapsed() time.Duration {
	return c.t.Sub(epoch)
}

// Event is one level change on a recorded pin.
type Event struct {
	Pin  string
	High bool
	At   time.Duration
}

// Recorder collects level changes from all pins it hands out, in order.
type Recorder struct {
	Clock  *Clock
	Events []Event
}

func NewRecorder(c *Clock) *Recorder {
	return &Recorder{Clock: c}
}

// Pin returns a named output that logs to r.
func (r *Recorder) Pin(name string) *Pin {
	return &Pin{name: name, r: r}
}

// Pin is a fake output line.
type Pin struct {
	name  string
	r     *Recorder
	level bool
}

func (p *Pin) High()        { p.set(true) }
func (p *Pin) Low()         { p.set(false) }
func (p *Pin) Toggle()      { p.set(!p.level) }
func (p *Pin) IsHigh() bool { return p.level }

func (p *Pin) set(level bool) {
	p.level = level
	if p.r != nil {
		p.r.Events = append(p.r.Events, Event{Pin: p.name, High: level, At: p.r.Clock.Elapsed()})
	}
}

// Pulse is an input that reads high between Rise and Fall on its clock.
// A zero Fall means the line never falls once risen; Never keeps it low.
type Pulse struct {
	Clock      *Clock
	Rise, Fall time.Duration
	Never      bool
}

func (p *Pulse) IsHigh() bool {
	if p.Never {
		return false
	}
	e := p.Clock.Elapsed()
	if e < p.Rise {
		return false
	}
	return p.Fall == 0 || e < p.Fall
}

// Sampled returns the data-line level at each rising edge of clk, which is
// what a shift-register receiver latches.
func Sampled(events []Event, clk, data string) []bool {
	var level, clkLevel bool
	var bits []bool
	for _, e := range events {
		switch e.Pin {
		case data:
			level = e.High
		case clk:
			if e.High && !clkLevel {
				bits = append(bits, level)
			}
			clkLevel = e.High
		}
	}
	return bits
}

// Bytes packs sampled bits into bytes, least significant bit first.
func Bytes(bits []bool) []byte {
	out := make([]byte, 0, len(bits)/8)
	for i := 0; i+8 <= len(bits); i += 8 {
		var b byte
		for j := 0; j < 8; j++ {
			if bits[i+j] {
				b |= 1 << j
			}
		}
		out = append(out, b)
	}
	return out
}
