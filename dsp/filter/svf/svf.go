// Package svf provides the state-variable low-pass filter and the one-pole
// damping filter used in reverberation paths.
package svf

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-reverb/dsp/core"
)

const (
	minQ = 0.1
	maxQ = 10.0

	// Staged values are compared against the last applied values with this
	// tolerance; Update is a no-op when nothing moved.
	updateEpsilon = 1e-9

	// Cutoff ratio ceiling keeps tan() away from its pole at Nyquist.
	maxCutoffRatio = 0.499
)

// SVF is a topology-preserving-transform state-variable filter (Simper).
//
// Setters stage target values; Update applies them, recomputing the
// trigonometric coefficients only when a staged value changed since the
// previous Update. Filter state persists across process calls.
type SVF struct {
	sampleRate float64

	// Staged control targets.
	frequency       float64
	q               float64
	bandStopControl float64

	// Last applied targets. Seeded out of range so the first Update fires.
	prevFrequency       float64
	prevQ               float64
	prevBandStopControl float64

	// Applied coefficients.
	a1, a2, a3 float64
	k          float64
	bandStop   float64

	// Integrator state.
	ic1eq, ic2eq float64
}

// New returns a low-pass SVF for the given sample rate.
func New(sampleRate float64) (*SVF, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("svf sample rate must be > 0: %f", sampleRate)
	}

	f := &SVF{
		sampleRate:          sampleRate,
		frequency:           1000,
		q:                   0.707,
		prevFrequency:       -1,
		prevQ:               -1,
		prevBandStopControl: -1,
	}
	f.Update()
	return f, nil
}

// SetFrequency stages a new cutoff frequency in Hz, clamped to (0, Nyquist).
func (f *SVF) SetFrequency(hz float64) {
	f.frequency = core.Clamp(hz, 0, 0.5*f.sampleRate)
}

// SetQ stages a new resonance, clamped to [0.1, 10].
func (f *SVF) SetQ(q float64) {
	f.q = core.Clamp(q, minQ, maxQ)
}

// SetBandStopControl stages the notch blend amount, clamped to [0, 1].
// 0 is a pure low-pass; 1 adds the full high-pass branch, yielding a notch.
func (f *SVF) SetBandStopControl(c float64) {
	f.bandStopControl = core.Clamp(c, 0, 1)
}

// Update applies staged targets. Recomputation is skipped when no target
// changed since the previous Update, avoiding redundant trigonometric work
// every block. Must be called after setters and before the next process call.
func (f *SVF) Update() {
	if core.NearlyEqual(f.frequency, f.prevFrequency, updateEpsilon) &&
		core.NearlyEqual(f.q, f.prevQ, updateEpsilon) &&
		core.NearlyEqual(f.bandStopControl, f.prevBandStopControl, updateEpsilon) {
		return
	}

	ratio := core.Clamp(f.frequency/f.sampleRate, 0, maxCutoffRatio)
	g := math.Tan(math.Pi * ratio)
	f.k = 1 / f.q
	f.a1 = 1 / (1 + g*(g+f.k))
	f.a2 = g * f.a1
	f.a3 = g * f.a2
	f.bandStop = f.bandStopControl

	f.prevFrequency = f.frequency
	f.prevQ = f.q
	f.prevBandStopControl = f.bandStopControl
}

// ProcessSample filters one sample with the current coefficients.
func (f *SVF) ProcessSample(x float64) float64 {
	v3 := x - f.ic2eq
	v1 := f.a1*f.ic1eq + f.a2*v3
	v2 := f.ic2eq + f.a2*f.ic1eq + f.a3*v3
	f.ic1eq = core.FlushDenormals(2*v1 - f.ic1eq)
	f.ic2eq = core.FlushDenormals(2*v2 - f.ic2eq)

	low := v2
	if f.bandStop == 0 {
		return low
	}
	high := x - f.k*v1 - v2
	return low + f.bandStop*high
}

// ProcessBlockTo filters src into dst. Both slices must have the same length.
// Zero-alloc.
func (f *SVF) ProcessBlockTo(dst, src []float64) {
	if len(src) == 0 {
		return
	}
	_ = dst[len(src)-1] // bounds check hint
	for i, x := range src {
		dst[i] = f.ProcessSample(x)
	}
}

// Reset clears the integrator state; coefficients are kept.
func (f *SVF) Reset() {
	f.ic1eq = 0
	f.ic2eq = 0
}

// SampleRate returns the sample rate in Hz.
func (f *SVF) SampleRate() float64 { return f.sampleRate }

// Frequency returns the staged cutoff frequency in Hz.
func (f *SVF) Frequency() float64 { return f.frequency }

// Q returns the staged resonance.
func (f *SVF) Q() float64 { return f.q }

// BandStopControl returns the staged notch blend amount.
func (f *SVF) BandStopControl() float64 { return f.bandStopControl }
