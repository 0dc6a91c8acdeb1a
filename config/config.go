// config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Pins    PinsConfig    `yaml:"pins"`
	Display DisplayConfig `yaml:"display"`
}

// ---- PINS (BCM numbering) ----

type PinsConfig struct {
	Trigger int   `yaml:"trigger"`
	Echo    int   `yaml:"echo"`
	Clk     int   `yaml:"clk"`
	Dio     int   `yaml:"dio"`
	Stb     int   `yaml:"stb"`
	LEDs    []int `yaml:"leds"`
}

// ---- DISPLAY ----

type DisplayConfig struct {
	Brightness uint8 `yaml:"brightness"`
}

// Default is the wiring used when no config file is given.
func Default() *Config {
	return &Config{
		Pins: PinsConfig{
			Trigger: 17,
			Echo:    27,
			Clk:     23,
			Dio:     24,
			Stb:     25,
			LEDs:    []int{5, 6},
		},
		Display: DisplayConfig{
			Brightness: 7,
		},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file
// keep their default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
