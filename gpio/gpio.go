// Package gpio describes the pin and timing capabilities the drivers need,
// and adapts go-rpio pins to them.
package gpio

import (
	"fmt"
	"time"

	"github.com/stianeikeland/go-rpio/v4"
)

// Output is a digital output line. rpio.Pin satisfies it.
type Output interface {
	High()
	Low()
}

// Input is a digital input line.
type Input interface {
	IsHigh() bool
}

// Toggler flips an output line. rpio.Pin satisfies it.
type Toggler interface {
	Toggle()
}

// Clock is the timing primitive every protocol routine is written against.
// Sleep must wait at least d.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// RPIOInput reads an rpio pin as an Input.
type RPIOInput rpio.Pin

// IsHigh reports whether the pin currently reads high.
func (p RPIOInput) IsHigh() bool {
	return rpio.Pin(p).Read() == rpio.High
}

// spinThreshold is the longest delay SystemClock busy-waits for. The kernel
// scheduler cannot honour sleeps this short with any accuracy.
const spinThreshold = 100 * time.Microsecond

// SystemClock is the wall clock. Short delays spin, longer ones sleep.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Sleep(d time.Duration) {
	if d > spinThreshold {
		time.Sleep(d)
		return
	}
	start := time.Now()
	for time.Since(start) < d {
	}
}

// Open maps the GPIO registers. It must be called before any rpio pin is used.
func Open() error {
	if err := rpio.Open(); err != nil {
		return fmt.Errorf("failed to open rpio: %w", err)
	}
	return nil
}

// Close unmaps the GPIO registers.
func Close() error {
	return rpio.Close()
}

// OutputPin configures BCM pin n as an output driven low.
func OutputPin(n int) rpio.Pin {
	p := rpio.Pin(n)
	p.Output()
	p.Low()
	return p
}

// InputPin configures BCM pin n as a pulled-down input.
func InputPin(n int) RPIOInput {
	p := rpio.Pin(n)
	p.Input()
	p.PullDown()
	return RPIOInput(p)
}
