package svf

import "github.com/cwbudde/algo-reverb/dsp/core"

// OnePole is a one-pole low-pass filter used for frequency-dependent loss in
// feedback tails.
//
//	y += a * (x - y)
//
// a = 1 passes the input through; a = 0 holds the previous output.
type OnePole struct {
	coefficient float64
	state       float64
}

// NewOnePole returns a one-pole low-pass with the given smoothing
// coefficient, clamped to [0, 1].
func NewOnePole(a float64) *OnePole {
	return &OnePole{coefficient: core.Clamp(a, 0, 1)}
}

// SetCoefficient sets the smoothing coefficient, clamped to [0, 1].
func (f *OnePole) SetCoefficient(a float64) {
	f.coefficient = core.Clamp(a, 0, 1)
}

// Coefficient returns the smoothing coefficient.
func (f *OnePole) Coefficient() float64 {
	return f.coefficient
}

// ProcessSample filters one sample.
func (f *OnePole) ProcessSample(x float64) float64 {
	f.state += f.coefficient * (x - f.state)
	f.state = core.FlushDenormals(f.state)
	return f.state
}

// Reset clears filter state.
func (f *OnePole) Reset() {
	f.state = 0
}
