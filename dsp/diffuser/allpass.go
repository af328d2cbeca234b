// Package diffuser provides the all-pass diffuser used to smear transients
// without altering tonal balance.
package diffuser

import (
	"fmt"

	"github.com/cwbudde/algo-reverb/dsp/delay"
)

// AllPass is a Schroeder all-pass diffuser built on a delay line.
//
// It uses the single-multiply structure
//
//	w   = x - g*delayed
//	out = g*w + delayed
//
// which has unit magnitude response at all frequencies for |g| < 1. No
// stability check is performed here; the caller keeps g in a safe range.
type AllPass struct {
	line        *delay.Line
	coefficient float64
}

// New returns a diffuser with the given delay length in samples and
// feedback/feedforward coefficient g.
func New(delaySamples int, g float64) (*AllPass, error) {
	if delaySamples <= 0 {
		return nil, fmt.Errorf("diffuser delay must be > 0: %d", delaySamples)
	}

	line, err := delay.New(delaySamples + 4)
	if err != nil {
		return nil, err
	}
	line.SetDelay(float64(delaySamples))

	return &AllPass{line: line, coefficient: g}, nil
}

// SetCoefficient stores a new diffusion coefficient g.
func (a *AllPass) SetCoefficient(g float64) {
	a.coefficient = g
}

// Coefficient returns the diffusion coefficient.
func (a *AllPass) Coefficient() float64 {
	return a.coefficient
}

// SetDelay retunes the delay length in samples, immediately. Audible
// modulation is expected to be smoothed upstream.
func (a *AllPass) SetDelay(samples float64) {
	a.line.SetDelay(samples)
}

// Delay returns the delay length in samples.
func (a *AllPass) Delay() float64 {
	return a.line.Delay()
}

// ProcessSample diffuses one sample.
func (a *AllPass) ProcessSample(x float64) float64 {
	delayed := a.line.ReadNominal()
	w := x - a.coefficient*delayed
	a.line.Write(w)
	return a.coefficient*w + delayed
}

// Reset clears the internal delay line.
func (a *AllPass) Reset() {
	a.line.Reset()
}
