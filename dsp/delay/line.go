// Package delay provides the circular delay line underlying every
// delay-based unit in this module.
package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-reverb/dsp/interp"
)

// Extra slots beyond the requested capacity so worst-case fractional reads
// (4-point kernels at the nominal position) never touch the write cursor.
const safetyMargin = 4

// Line is a circular delay line with a single write cursor.
//
// Read positions are expressed as non-negative offsets behind the cursor and
// wrap modulo the buffer length, so transient parameter overshoot reads stale
// history instead of failing.
type Line struct {
	buffer   []float64
	writePos int
	nominal  float64
	mode     interp.Mode
}

// Option configures a Line at construction time.
type Option func(*Line)

// WithMode selects the fractional-read interpolation kernel.
// Linear is the default; Hermite suits modulated read positions.
func WithMode(mode interp.Mode) Option {
	return func(d *Line) {
		d.mode = mode
	}
}

// New returns a delay line of fixed size in samples.
func New(size int, opts ...Option) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}

	d := &Line{buffer: make([]float64, size)}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d, nil
}

// NewDuration returns a delay line sized to hold at least maxDelaySeconds of
// audio at sampleRate, plus a small margin for fractional reads.
func NewDuration(sampleRate, maxDelaySeconds float64, opts ...Option) (*Line, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("delay sample rate must be > 0: %f", sampleRate)
	}
	if maxDelaySeconds <= 0 || math.IsNaN(maxDelaySeconds) || math.IsInf(maxDelaySeconds, 0) {
		return nil, fmt.Errorf("delay max time must be > 0: %f", maxDelaySeconds)
	}

	size := int(math.Ceil(maxDelaySeconds*sampleRate)) + safetyMargin
	return New(size, opts...)
}

// Len returns the internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Write stores one sample at the write cursor and advances it.
// The oldest sample at that position is overwritten.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples behind the write cursor.
// Out-of-range delays wrap modulo the buffer length.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	readPos := (d.writePos - delay) % size
	if readPos < 0 {
		readPos += size
	}
	return d.buffer[readPos]
}

// ReadFractional reads a fractional delay in samples behind the write cursor
// using the line's interpolation kernel. Out-of-range positions wrap modulo
// the buffer length.
func (d *Line) ReadFractional(delay float64) float64 {
	size := float64(len(d.buffer))
	delay = math.Mod(delay, size)
	if delay < 0 {
		delay += size
	}

	p := int(math.Floor(delay))
	t := delay - float64(p)

	if d.mode == interp.Hermite {
		xm1 := d.Read(p - 1)
		x0 := d.Read(p)
		x1 := d.Read(p + 1)
		x2 := d.Read(p + 2)
		return interp.Hermite4(t, xm1, x0, x1, x2)
	}

	return interp.Linear2(t, d.Read(p), d.Read(p+1))
}

// SetDelay retunes the nominal read position in samples, immediately.
// Clients modulating this audibly are expected to smooth upstream.
func (d *Line) SetDelay(samples float64) {
	d.nominal = samples
}

// Delay returns the nominal read position in samples.
func (d *Line) Delay() float64 {
	return d.nominal
}

// ReadNominal reads at the nominal position set via SetDelay.
func (d *Line) ReadNominal() float64 {
	return d.ReadFractional(d.nominal)
}

// Reset clears line state. The nominal read position is preserved.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}
