package tm1638

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/rpi-rangefinder/gpio/gpiotest"
)

const b = Blank

func newDisplay() (*TM1638, *gpiotest.Recorder) {
	rec := gpiotest.NewRecorder(gpiotest.NewClock())
	d := New(rec.Pin("clk"), rec.Pin("dio"), rec.Pin("stb"), rec.Clock)
	rec.Events = nil
	return d, rec
}

// frames groups the bytes clocked in between each strobe fall and rise.
func frames(events []gpiotest.Event) [][]byte {
	var out [][]byte
	var cur []gpiotest.Event
	for _, e := range events {
		if e.Pin != "stb" {
			cur = append(cur, e)
			continue
		}
		if e.High {
			out = append(out, gpiotest.Bytes(gpiotest.Sampled(cur, "clk", "dio")))
		}
		cur = nil
	}
	return out
}

func TestSplit(t *testing.T) {
	tests := []struct {
		n    int
		want Digits
	}{
		{0, Digits{b, b, b, 0}},
		{7, Digits{b, b, b, 7}},
		{42, Digits{b, b, 4, 2}},
		{100, Digits{b, 1, 0, 0}},
		{123, Digits{b, 1, 2, 3}},
		{1005, Digits{1, 0, 0, 5}},
		{9999, Digits{9, 9, 9, 9}},
		{12345, Digits{9, 9, 9, 9}},
		{-3, Digits{b, b, b, 0}},
	}
	c := qt.New(t)
	for _, tt := range tests {
		c.Check(Split(tt.n), qt.Equals, tt.want, qt.Commentf("n=%d", tt.n))
	}
}

func TestSplitJoinRoundTrip(t *testing.T) {
	c := qt.New(t)
	for n := 0; n <= MaxValue; n++ {
		c.Assert(Split(n).Join(), qt.Equals, n)
	}
}

func TestSegments(t *testing.T) {
	c := qt.New(t)
	c.Assert(Split(0).Segments(), qt.Equals, [NumDigits]byte{0, 0, 0, 0x3f})
	c.Assert(Split(8).Segments(), qt.Equals, [NumDigits]byte{0, 0, 0, 0x7f})
	c.Assert(Segment(Blank), qt.Equals, byte(0))
	c.Assert(Segment(1), qt.Equals, byte(0x06))
}

func TestWriteByteLSBFirst(t *testing.T) {
	c := qt.New(t)
	d, rec := newDisplay()
	d.writeByte(0b0000_0101)
	c.Assert(gpiotest.Sampled(rec.Events, "clk", "dio"), qt.DeepEquals,
		[]bool{true, false, true, false, false, false, false, false})
}

func TestRenderTransaction(t *testing.T) {
	c := qt.New(t)
	d, rec := newDisplay()
	d.Render(42)
	c.Assert(frames(rec.Events), qt.DeepEquals, [][]byte{
		{0x40},
		{0xC0, 0x00, 0x00, 0x00, 0x00, 0x66, 0x00, 0x5b},
		{0x8F},
	})
}

func TestRenderZero(t *testing.T) {
	c := qt.New(t)
	d, rec := newDisplay()
	d.Render(0)
	got := frames(rec.Events)
	c.Assert(got, qt.HasLen, 3)
	c.Assert(got[1], qt.DeepEquals, []byte{0xC0, 0, 0, 0, 0, 0, 0, 0x3f})
}

func TestBusTimings(t *testing.T) {
	c := qt.New(t)
	d, rec := newDisplay()
	d.Render(8888)

	var lastData, lastClk, lastStb time.Duration
	clkHigh, strobed := false, false
	for _, e := range rec.Events {
		switch e.Pin {
		case "dio":
			c.Assert(e.At-lastClk >= clockLow, qt.IsTrue, qt.Commentf("data change at %v", e.At))
			lastData = e.At
		case "clk":
			if e.High {
				c.Assert(e.At-lastData >= dataSetup, qt.IsTrue, qt.Commentf("clock rise at %v", e.At))
			} else {
				c.Assert(clkHigh, qt.IsTrue)
				c.Assert(e.At-lastClk >= clockHigh, qt.IsTrue, qt.Commentf("clock fall at %v", e.At))
			}
			clkHigh = e.High
			lastClk = e.At
		case "stb":
			c.Assert(clkHigh, qt.IsFalse)
			if strobed {
				c.Assert(e.At-lastStb >= strobeSettle, qt.IsTrue, qt.Commentf("strobe at %v", e.At))
			}
			lastStb, strobed = e.At, true
		}
	}
	last := rec.Events[len(rec.Events)-1]
	c.Assert(last.Pin, qt.Equals, "stb")
	c.Assert(last.High, qt.IsTrue)
}

func TestSetBrightness(t *testing.T) {
	c := qt.New(t)
	d, rec := newDisplay()
	d.SetBrightness(2)
	d.SetBrightness(12)
	d.Clear()
	c.Assert(frames(rec.Events), qt.DeepEquals, [][]byte{
		{0x8A},
		{0x8F},
		{0x40},
		{0xC0, 0, 0, 0, 0, 0, 0, 0},
		{0x8F},
	})
}

func TestCloseSwitchesOff(t *testing.T) {
	c := qt.New(t)
	d, rec := newDisplay()
	d.SetBrightness(3)
	rec.Events = nil
	c.Assert(d.Close(), qt.IsNil)
	c.Assert(frames(rec.Events), qt.DeepEquals, [][]byte{{0x83}})
}

func TestDisplayText(t *testing.T) {
	tests := []struct {
		text string
		want []byte
	}{
		{"----", []byte{0x40, 0, 0x40, 0, 0x40, 0, 0x40}},
		{"Hi", []byte{0x76, 0, 0x04, 0, 0, 0, 0}},
		{"1.5", []byte{0x86, 0, 0x6d, 0, 0, 0, 0}},
		{"Err?x", []byte{0x79, 0, 0x50, 0, 0x50, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			c := qt.New(t)
			d, rec := newDisplay()
			d.DisplayText(tt.text)
			got := frames(rec.Events)
			c.Assert(got, qt.HasLen, 3)
			c.Assert(got[1][1:], qt.DeepEquals, tt.want)
		})
	}
}
