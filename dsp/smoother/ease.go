// Package smoother provides exponential parameter easing for click-free
// control changes.
package smoother

import "math"

const (
	defaultFactor    = 0.01
	defaultThreshold = 1e-6
)

// Ease ramps a scalar toward a target with an exponential curve, one step per
// sample. Within the snap threshold the value lands exactly on the target,
// after which further steps are no-ops.
//
// This mirrors the control-rate smoothing audio hosts apply to delay lengths
// and similar audibly-modulated parameters.
type Ease struct {
	current   float64
	target    float64
	factor    float64
	threshold float64
	done      bool
}

// Option configures an Ease at construction time.
type Option func(*Ease)

// WithEaseFactor sets the per-step fraction of the remaining distance in
// (0, 1]. Smaller is slower. Values outside the range are ignored.
func WithEaseFactor(factor float64) Option {
	return func(e *Ease) {
		if factor > 0 && factor <= 1 {
			e.factor = factor
		}
	}
}

// WithSnapThreshold sets the distance below which the ramp snaps exactly to
// the target. Non-positive values are ignored.
func WithSnapThreshold(threshold float64) Option {
	return func(e *Ease) {
		if threshold > 0 {
			e.threshold = threshold
		}
	}
}

// New returns an ease seated at initial with no ramp in progress.
func New(initial float64, opts ...Option) *Ease {
	e := &Ease{
		current:   initial,
		target:    initial,
		factor:    defaultFactor,
		threshold: defaultThreshold,
		done:      true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Init re-seats both current value and target, ending any active ramp.
func (e *Ease) Init(value float64) {
	e.current = value
	e.target = value
	e.done = true
}

// SetValue begins ramping toward target. Targets within the snap threshold of
// the current value are applied immediately.
func (e *Ease) SetValue(target float64) {
	e.target = target
	if math.Abs(target-e.current) <= e.threshold {
		e.current = target
		e.done = true
		return
	}
	e.done = false
}

// GetNextValue advances the ramp one step and returns the new current value.
// Must be called exactly once per sample consuming the ramp. After the ramp
// completes it returns the target unchanged.
func (e *Ease) GetNextValue() float64 {
	if e.done {
		return e.current
	}

	e.current += e.factor * (e.target - e.current)
	if math.Abs(e.target-e.current) <= e.threshold {
		e.current = e.target
		e.done = true
	}
	return e.current
}

// PeekCurrentValue returns the current value without advancing the ramp.
// Use this for multiple reads against the same sample's ramp state.
func (e *Ease) PeekCurrentValue() float64 {
	return e.current
}

// IsDone reports whether the current value has reached the target.
func (e *Ease) IsDone() bool {
	return e.done
}
