// config/validate.go
package config

import (
	"fmt"
)

// MaxPin is the highest BCM GPIO on the 40-pin header.
const MaxPin = 27

// Validate checks configuration correctness.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	owner := make(map[int]string)

	check := func(name string, pin int) error {
		if pin < 0 || pin > MaxPin {
			return fmt.Errorf("pin %s: %d out of range 0-%d", name, pin, MaxPin)
		}
		if prev, ok := owner[pin]; ok {
			return fmt.Errorf("pin %s: %d already used by %s", name, pin, prev)
		}
		owner[pin] = name
		return nil
	}

	p := cfg.Pins
	for _, np := range []struct {
		name string
		pin  int
	}{
		{"trigger", p.Trigger},
		{"echo", p.Echo},
		{"clk", p.Clk},
		{"dio", p.Dio},
		{"stb", p.Stb},
	} {
		if err := check(np.name, np.pin); err != nil {
			return err
		}
	}
	for i, led := range p.LEDs {
		if err := check(fmt.Sprintf("leds[%d]", i), led); err != nil {
			return err
		}
	}

	if cfg.Display.Brightness > 7 {
		return fmt.Errorf("display brightness %d out of range 0-7", cfg.Display.Brightness)
	}
	return nil
}
