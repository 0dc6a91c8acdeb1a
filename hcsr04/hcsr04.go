// Package hcsr04 reads distance from an HC-SR04 style ultrasonic ranger.
//
// Both waits on the echo line are bounded, so a dead or stuck sensor yields
// a degenerate reading instead of stalling the caller.
package hcsr04

import (
	"math"
	"time"

	"github.com/rpi-rangefinder/gpio"
)

const (
	// TriggerPulse is how long the trigger line is held high to start a ping.
	TriggerPulse = 10 * time.Microsecond
	// EchoStartTimeout bounds the wait for the echo line to rise.
	EchoStartTimeout = time.Millisecond
	// MaxEchoWidth bounds the measured echo pulse.
	MaxEchoWidth = 30 * time.Millisecond
	// PollInterval is the delay between echo line reads.
	PollInterval = time.Microsecond

	// microsPerCentimeter is the round trip time of sound over 1cm:
	// 2cm / 0.0343cm/µs ≈ 58µs.
	microsPerCentimeter = 58
)

// Sensor is an ultrasonic ranger on a trigger and an echo line.
type Sensor struct {
	trigger gpio.Output
	echo    gpio.Input
	clock   gpio.Clock
}

// New returns a Sensor. The trigger line is driven low.
func New(trigger gpio.Output, echo gpio.Input, clock gpio.Clock) *Sensor {
	trigger.Low()
	return &Sensor{trigger: trigger, echo: echo, clock: clock}
}

// Measure pings once and returns the distance in centimetres.
// It returns 0 when no echo starts.
func (s *Sensor) Measure() uint16 {
	return Centimeters(s.Echo())
}

// Echo pings once and returns the width of the echo pulse, at most
// MaxEchoWidth. If the echo never starts within EchoStartTimeout the
// result is zero.
func (s *Sensor) Echo() time.Duration {
	s.trigger.High()
	s.clock.Sleep(TriggerPulse)
	s.trigger.Low()

	deadline := s.clock.Now().Add(EchoStartTimeout)
	for !s.echo.IsHigh() {
		if !s.clock.Now().Before(deadline) {
			return 0
		}
		s.clock.Sleep(PollInterval)
	}

	rise := s.clock.Now()
	for s.echo.IsHigh() {
		if s.clock.Now().Sub(rise) >= MaxEchoWidth {
			return MaxEchoWidth
		}
		s.clock.Sleep(PollInterval)
	}
	return min(s.clock.Now().Sub(rise), MaxEchoWidth)
}

// Centimeters converts an echo width to a distance, truncating to whole
// centimetres. Widths beyond the uint16 range saturate.
func Centimeters(echo time.Duration) uint16 {
	if echo <= 0 {
		return 0
	}
	cm := echo.Microseconds() / microsPerCentimeter
	if cm > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(cm)
}
