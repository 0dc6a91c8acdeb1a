// Package tm1638 drives a 4-digit common-cathode seven-segment readout on a
// TM1638 controller over its 3-wire strobe/clock/data bus.
package tm1638

import (
	"sync"
	"time"

	"github.com/rpi-rangefinder/gpio"
)

// TM1638 commands
const (
	cmdDataAutoAddr    byte = 0x40 // Data command: write display registers, auto-increment address
	cmdDisplayCtrlBase byte = 0x80 // Display control: | 0x08 to switch on, | 0-7 for brightness
	cmdDisplayOn       byte = 0x08
	cmdAddrBase        byte = 0xC0 // Address command: start at register 0

	MaxBrightness byte = 7
	NumDigits     int  = 4
	MaxValue           = 9999
)

// Bus timings from the TM1638 datasheet. These are minimums.
const (
	strobeSettle = 10 * time.Microsecond
	dataSetup    = 2 * time.Microsecond
	clockHigh    = 5 * time.Microsecond
	clockLow     = 5 * time.Microsecond
)

// Blank marks a digit position that shows nothing.
const Blank byte = 0xFF

// Digits is a right-aligned decimal rendering, most significant first.
type Digits [NumDigits]byte

// digitToSegment maps 0-9 to segment patterns.
// Bit order: DP.G.F.E.D.C.B.A (MSB to LSB: bit7=DP, bit6=G, ..., bit0=A)
var digitToSegment = [10]byte{
	0x3f, 0x06, 0x5b, 0x4f, 0x66,
	0x6d, 0x7d, 0x07, 0x7f, 0x6f,
}

// charToSegment covers the characters DisplayText understands.
var charToSegment = map[rune]byte{
	'a': 0x77, 'b': 0x7c, 'c': 0x39, 'd': 0x5e,
	'e': 0x79, 'f': 0x71, 'h': 0x76, 'i': 0x04,
	'j': 0x1e, 'l': 0x38, 'n': 0x54, 'o': 0x5c,
	'p': 0x73, 'r': 0x50, 't': 0x78, 'u': 0x3e,
	'y': 0x6e,
	' ': 0x00,
	'-': 0x40,
	'_': 0x08,
}

// Segment returns the pattern for a digit value. Blank, and anything
// outside 0-9, is all segments off.
func Segment(digit byte) byte {
	if int(digit) >= len(digitToSegment) {
		return 0x00
	}
	return digitToSegment[digit]
}

// Split renders n into four digits, clamped to [0, MaxValue], with leading
// zeros blanked. Zero shows a single 0 in the ones position.
func Split(n int) Digits {
	n = max(0, min(n, MaxValue))
	d := Digits{
		byte(n / 1000),
		byte(n / 100 % 10),
		byte(n / 10 % 10),
		byte(n % 10),
	}
	for i := 0; i < NumDigits-1 && d[i] == 0; i++ {
		d[i] = Blank
	}
	return d
}

// Join is the inverse of Split, reading blanks as zero.
func (d Digits) Join() int {
	n := 0
	for _, v := range d {
		if v == Blank {
			v = 0
		}
		n = n*10 + int(v)
	}
	return n
}

// Segments returns the pattern for each position.
func (d Digits) Segments() [NumDigits]byte {
	var s [NumDigits]byte
	for i, v := range d {
		s[i] = Segment(v)
	}
	return s
}

// TM1638 represents a TM1638 display on three output lines.
// Writes are unacknowledged; a miswired bus shows garbage rather than
// reporting an error.
type TM1638 struct {
	clk gpio.Output
	dio gpio.Output
	stb gpio.Output

	clock gpio.Clock

	mu         sync.Mutex
	brightness byte
}

// New returns a driver at full brightness with the bus idle
// (strobe high, clock low). Nothing is sent until the first write.
func New(clk, dio, stb gpio.Output, clock gpio.Clock) *TM1638 {
	stb.High()
	clk.Low()
	dio.Low()
	return &TM1638{
		clk:        clk,
		dio:        dio,
		stb:        stb,
		clock:      clock,
		brightness: MaxBrightness,
	}
}

// Render shows a distance reading.
func (d *TM1638) Render(distance uint16) {
	d.DisplayDigits(Split(int(distance)))
}

// DisplayDigits shows four digit values; Blank positions are dark.
func (d *TM1638) DisplayDigits(digits Digits) {
	d.DisplaySegments(digits.Segments())
}

// DisplaySegments shows raw segment data (DP.G.F.E.D.C.B.A) on the 4 digits.
func (d *TM1638) DisplaySegments(segments [NumDigits]byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.displayRaw(segments)
}

// DisplayText shows up to 4 characters, left-aligned. A '.' lights the
// decimal point of the preceding character. Unknown characters are blank.
func (d *TM1638) DisplayText(text string) {
	var segments [NumDigits]byte
	pos := 0
	for _, r := range text {
		if r == '.' && pos > 0 {
			segments[pos-1] |= 0x80
			continue
		}
		if pos == NumDigits {
			break
		}
		switch {
		case r >= '0' && r <= '9':
			segments[pos] = digitToSegment[r-'0']
		case r >= 'A' && r <= 'Z':
			segments[pos] = charToSegment[r-'A'+'a']
		default:
			segments[pos] = charToSegment[r]
		}
		pos++
	}
	d.DisplaySegments(segments)
}

// Clear blanks all digits.
func (d *TM1638) Clear() {
	d.DisplaySegments([NumDigits]byte{})
}

// SetBrightness sets the display brightness and switches it on.
// Level should be 0 (dimmest) to 7 (brightest).
func (d *TM1638) SetBrightness(level byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if level > MaxBrightness {
		level = MaxBrightness
	}
	d.brightness = level
	d.sendCommand(cmdDisplayCtrlBase | cmdDisplayOn | d.brightness)
}

// Close switches the display off. The registers keep their contents.
func (d *TM1638) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sendCommand(cmdDisplayCtrlBase | d.brightness)
	return nil
}

// displayRaw writes the four digit registers and switches the display on.
// Assumes lock is held.
func (d *TM1638) displayRaw(segments [NumDigits]byte) {
	d.strobe(false)
	d.writeByte(cmdDataAutoAddr)

	// A strobe edge ends the command phase.
	d.strobe(true)
	d.strobe(false)
	d.writeByte(cmdAddrBase)

	// Each digit position spans two registers; the odd one drives the
	// module's LEDs and is left off.
	for i, s := range segments {
		d.writeByte(s)
		if i < NumDigits-1 {
			d.writeByte(0x00)
		}
	}
	d.strobe(true)

	d.sendCommand(cmdDisplayCtrlBase | cmdDisplayOn | d.brightness)
}

// sendCommand frames a single command byte with the strobe.
func (d *TM1638) sendCommand(cmd byte) {
	d.strobe(false)
	d.writeByte(cmd)
	d.strobe(true)
}

func (d *TM1638) strobe(high bool) {
	if high {
		d.stb.High()
	} else {
		d.stb.Low()
	}
	d.clock.Sleep(strobeSettle)
}

// writeByte shifts one byte out, LSB first. The TM1638 samples data on the
// rising clock edge.
func (d *TM1638) writeByte(data byte) {
	for i := 0; i < 8; i++ {
		if data&0x01 == 0x01 {
			d.dio.High()
		} else {
			d.dio.Low()
		}
		d.clock.Sleep(dataSetup)

		d.clk.High()
		d.clock.Sleep(clockHigh)
		d.clk.Low()
		d.clock.Sleep(clockLow)

		data >>= 1
	}
}
