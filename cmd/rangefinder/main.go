package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tm1638 "github.com/rpi-rangefinder"
	"github.com/rpi-rangefinder/config"
	"github.com/rpi-rangefinder/gpio"
	"github.com/rpi-rangefinder/hcsr04"
	"github.com/rpi-rangefinder/rangefinder"
)

func main() {
	cfgPath := flag.String("config", "", "YAML config file (defaults to built-in BCM pin map)")
	verbose := flag.Bool("v", false, "log every reading")
	flag.Parse()

	// --- Configuration ---
	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			log.Fatalf("config load failed: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	log.Println("Opening GPIO...")
	if err := gpio.Open(); err != nil {
		log.Fatalf("Failed to open GPIO: %v. Ensure you are running with necessary permissions (e.g., sudo).", err)
	}
	defer gpio.Close()

	clock := gpio.SystemClock{}
	p := cfg.Pins

	sensor := hcsr04.New(gpio.OutputPin(p.Trigger), gpio.InputPin(p.Echo), clock)

	display := tm1638.New(gpio.OutputPin(p.Clk), gpio.OutputPin(p.Dio), gpio.OutputPin(p.Stb), clock)
	display.SetBrightness(cfg.Display.Brightness)
	display.DisplayText("----")
	// Defer Close so the display is switched off on exit
	defer func() {
		log.Println("Closing TM1638 display...")
		if err := display.Close(); err != nil {
			log.Printf("Error closing display: %v", err)
		}
	}()

	leds := make([]gpio.Toggler, 0, len(p.LEDs))
	for _, n := range p.LEDs {
		leds = append(leds, gpio.OutputPin(n))
	}

	loop := &rangefinder.Loop{
		Sensor:  sensor,
		Display: display,
		LEDs:    leds,
	}
	if *verbose {
		loop.Logger = log.New(os.Stderr, "rangefinder: ", log.LstdFlags|log.Lmicroseconds)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Give the placeholder a moment on screen before the first reading.
	time.Sleep(500 * time.Millisecond)

	log.Printf("Running (trigger=%d echo=%d clk=%d dio=%d stb=%d leds=%v)",
		p.Trigger, p.Echo, p.Clk, p.Dio, p.Stb, p.LEDs)
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Loop stopped: %v", err)
	}
	log.Println("Rangefinder stopped.")
}
