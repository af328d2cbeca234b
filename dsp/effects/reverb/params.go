package reverb

import "github.com/cwbudde/algo-reverb/dsp/core"

// Control-parameter bounds. Block-rate inputs are untrusted automation data;
// everything is clamped here before use, never rejected.
const (
	minPreDelayMS = 0.05
	maxPreDelayMS = 1000.0

	// Diffusion and decay gains stay strictly below 1 so the feedback loop's
	// spectral radius stays below 1 for all parameter combinations.
	maxLoopGain = 0.9999

	maxExcursionDepth  = 16.0
	maxExcursionRateHz = 16.0
)

// Params is the per-block control snapshot for the reverberation engine.
// The host updates its copy at block rate; Execute reads it once per block
// and uses it consistently for the whole block.
type Params struct {
	// PreDelayMS is the gap between the dry sound and the onset of the
	// reverberant tail, in milliseconds.
	PreDelayMS float64

	// PreFilterBandwidth in [0, 1] sets the input low-pass resonance.
	PreFilterBandwidth float64

	// LowPassCutoffHz is the input low-pass cutoff frequency.
	LowPassCutoffHz float64

	// InputDiffusion1 and InputDiffusion2 in [0, 1) are the coefficients of
	// the first/second pair of input diffusers.
	InputDiffusion1 float64
	InputDiffusion2 float64

	// DecayRate in [0, 1) is the per-traversal tail attenuation.
	DecayRate float64

	// DecayDiffusion1 and DecayDiffusion2 in [0, 1) are the coefficients of
	// the tail diffusers.
	DecayDiffusion1 float64
	DecayDiffusion2 float64

	// Damping in [0, 1] sets frequency-dependent loss in the tail.
	Damping float64

	// ExcursionRateHz and ExcursionDepth control the slow modulation of the
	// feedback-delay read positions. Depth 0 disables modulation.
	ExcursionRateHz float64
	ExcursionDepth  float64

	// FeedbackDelayLeft/Right and FinalDelayLeft/Right override the tail
	// delay lengths in samples. Zero or negative selects the topology
	// default scaled to the engine sample rate.
	FeedbackDelayLeft  float64
	FeedbackDelayRight float64
	FinalDelayLeft     float64
	FinalDelayRight    float64

	// WetLevel and DryLevel in [0, 1] set the output mix.
	WetLevel float64
	DryLevel float64
}

// DefaultParams returns a medium plate: 50 ms pre-delay, moderate diffusion,
// half-second-scale decay.
func DefaultParams() Params {
	return Params{
		PreDelayMS:         50,
		PreFilterBandwidth: 0.7,
		LowPassCutoffHz:    16000,
		InputDiffusion1:    0.75,
		InputDiffusion2:    0.625,
		DecayRate:          0.5,
		DecayDiffusion1:    0.7,
		DecayDiffusion2:    0.5,
		Damping:            0.005,
		ExcursionRateHz:    0.5,
		ExcursionDepth:     0,
		WetLevel:           0.65,
		DryLevel:           0.35,
	}
}

// clamped returns a copy with every field forced into its documented range.
func (p Params) clamped(nyquist float64) Params {
	p.PreDelayMS = core.Clamp(p.PreDelayMS, minPreDelayMS, maxPreDelayMS)
	p.PreFilterBandwidth = core.Clamp(p.PreFilterBandwidth, 0, 1)
	p.LowPassCutoffHz = core.Clamp(p.LowPassCutoffHz, 0, nyquist)
	p.InputDiffusion1 = core.Clamp(p.InputDiffusion1, 0, maxLoopGain)
	p.InputDiffusion2 = core.Clamp(p.InputDiffusion2, 0, maxLoopGain)
	p.DecayRate = core.Clamp(p.DecayRate, 0, maxLoopGain)
	p.DecayDiffusion1 = core.Clamp(p.DecayDiffusion1, 0, maxLoopGain)
	p.DecayDiffusion2 = core.Clamp(p.DecayDiffusion2, 0, maxLoopGain)
	p.Damping = core.Clamp(p.Damping, 0, 1)
	p.ExcursionRateHz = core.Clamp(p.ExcursionRateHz, 0, maxExcursionRateHz)
	p.ExcursionDepth = core.Clamp(p.ExcursionDepth, 0, maxExcursionDepth)
	p.WetLevel = core.Clamp(p.WetLevel, 0, 1)
	p.DryLevel = core.Clamp(p.DryLevel, 0, 1)
	return p
}
