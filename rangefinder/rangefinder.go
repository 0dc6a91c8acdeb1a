// Package rangefinder runs the measure, display, blink control loop.
package rangefinder

import (
	"context"
	"log"
	"time"

	"github.com/rpi-rangefinder/blink"
	"github.com/rpi-rangefinder/gpio"
)

// Sensor yields one distance reading in centimetres per call.
type Sensor interface {
	Measure() uint16
}

// Display shows a distance reading.
type Display interface {
	Render(distance uint16)
}

// Loop wires a sensor to a display and indicator LEDs. Each step senses,
// then renders, then toggles, always from the same reading.
type Loop struct {
	Sensor  Sensor
	Display Display
	LEDs    []gpio.Toggler

	// Logger, if set, receives one line per step.
	Logger *log.Logger
}

// Step runs one iteration and returns the reading and the delay to wait
// before the next one.
func (l *Loop) Step() (cm uint16, delay time.Duration) {
	cm = l.Sensor.Measure()
	l.Display.Render(cm)
	for _, led := range l.LEDs {
		led.Toggle()
	}
	delay = blink.Delay(cm)
	if l.Logger != nil {
		l.Logger.Printf("distance=%dcm blink=%v", cm, delay)
	}
	return cm, delay
}

// Run steps until ctx is done and returns ctx.Err(). LEDs that can be
// driven are left off.
func (l *Loop) Run(ctx context.Context) error {
	defer l.ledsOff()

	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			_, delay := l.Step()
			timer.Reset(delay)
		}
	}
}

func (l *Loop) ledsOff() {
	for _, led := range l.LEDs {
		if out, ok := led.(gpio.Output); ok {
			out.Low()
		}
	}
}
