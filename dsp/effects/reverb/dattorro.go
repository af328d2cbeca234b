package reverb

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-reverb/dsp/core"
	"github.com/cwbudde/algo-reverb/dsp/delay"
	"github.com/cwbudde/algo-reverb/dsp/diffuser"
	"github.com/cwbudde/algo-reverb/dsp/filter/svf"
	"github.com/cwbudde/algo-reverb/dsp/interp"
	"github.com/cwbudde/algo-reverb/dsp/smoother"
)

const paramEpsilon = 1e-6

// tail is one feedback-tail channel: decay diffuser, modulated feedback
// delay, decay diffuser, post delay, plus the recirculation carry.
type tail struct {
	diffuser1 *diffuser.AllPass
	feedback  *delay.Line
	diffuser2 *diffuser.AllPass
	post      *delay.Line

	// length smooths the feedback-delay read position in samples.
	length *smoother.Ease

	defaultFeedback float64
	defaultPost     float64
	postPos         float64
	carry           float64
}

// Dattorro is a mono plate reverberator: input low-pass and diffusion chain
// feeding two cross-coupled feedback-tail channels, mixed dry/wet.
//
// One engine instance owns all delay and filter state; instances are
// independent and the per-sample path never allocates. Execute must not be
// called concurrently for the same instance.
type Dattorro struct {
	sampleRate float64
	scale      float64
	topology   Topology
	params     Params

	mainLine       *delay.Line
	preDelay       *smoother.Ease
	preFilter      *svf.SVF
	inputDiffusers []*diffuser.AllPass
	damping        *svf.OnePole
	tails          []*tail

	phasor          float64
	phasorIncrement float64

	prevPreDelayMS float64

	filtered []float64
}

// Option configures a Dattorro at construction time.
type Option func(*Dattorro)

// WithTopology replaces the default plate topology.
func WithTopology(t Topology) Option {
	return func(r *Dattorro) {
		r.topology = t
	}
}

// New constructs a reverberator for the given sample rate, sized from the
// initial parameter snapshot. Construction is the only point that can fail;
// block processing never returns errors.
func New(sampleRate float64, params Params, opts ...Option) (*Dattorro, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("reverb sample rate must be > 0: %f", sampleRate)
	}

	r := &Dattorro{
		sampleRate: sampleRate,
		topology:   DefaultTopology(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	if err := r.topology.validate(); err != nil {
		return nil, err
	}

	r.params = params.clamped(0.5 * sampleRate)
	if err := r.reconfigure(); err != nil {
		return nil, err
	}
	return r, nil
}

// reconfigure sizes every delay line and filter for the current sample rate
// and parameter snapshot. Called at construction and on sample-rate changes;
// all state is cleared.
func (r *Dattorro) reconfigure() error {
	r.scale = r.sampleRate / r.topology.ReferenceRate
	p := r.params

	mainSize := int(math.Ceil(core.MSToSamples(maxPreDelayMS, r.sampleRate))) +
		r.scaled(r.topology.TapOffset) + 4
	mainLine, err := delay.New(mainSize)
	if err != nil {
		return err
	}
	r.mainLine = mainLine

	r.preDelay = smoother.New(core.MSToSamples(p.PreDelayMS, r.sampleRate))
	r.prevPreDelayMS = p.PreDelayMS

	r.preFilter, err = svf.New(r.sampleRate)
	if err != nil {
		return err
	}
	r.preFilter.SetFrequency(p.LowPassCutoffHz)
	r.preFilter.SetQ(p.PreFilterBandwidth)
	r.preFilter.Update()

	r.inputDiffusers = make([]*diffuser.AllPass, len(r.topology.InputDiffuserDelays))
	for i, d := range r.topology.InputDiffuserDelays {
		g := p.InputDiffusion1
		if i >= (len(r.inputDiffusers)+1)/2 {
			g = p.InputDiffusion2
		}
		r.inputDiffusers[i], err = diffuser.New(r.scaled(d), g)
		if err != nil {
			return err
		}
	}

	r.damping = svf.NewOnePole(1 - p.Damping)

	r.tails = make([]*tail, len(r.topology.Tails))
	for i, tt := range r.topology.Tails {
		t := &tail{
			defaultFeedback: float64(tt.FeedbackDelay) * r.scale,
			defaultPost:     float64(tt.PostDelay) * r.scale,
		}

		t.diffuser1, err = diffuser.New(r.scaled(tt.DecayDiffuser1), p.DecayDiffusion1)
		if err != nil {
			return err
		}
		t.diffuser2, err = diffuser.New(r.scaled(tt.DecayDiffuser2), p.DecayDiffusion2)
		if err != nil {
			return err
		}

		// Sized for the worst-case excursion on top of the nominal length.
		fbSize := int(math.Ceil(t.defaultFeedback+maxExcursionDepth*r.scale)) + 8
		t.feedback, err = delay.New(fbSize, delay.WithMode(interp.Hermite))
		if err != nil {
			return err
		}

		t.post, err = delay.New(int(math.Ceil(t.defaultPost)) + 4)
		if err != nil {
			return err
		}

		t.length = smoother.New(tailDelayTarget(r.tailOverride(p, i, true), t.defaultFeedback))
		t.postPos = tailDelayTarget(r.tailOverride(p, i, false), t.defaultPost)

		r.tails[i] = t
	}

	r.phasor = 0
	r.phasorIncrement = 0
	return nil
}

// scaled converts a topology length at the reference rate to samples at the
// engine sample rate, never below one sample.
func (r *Dattorro) scaled(refSamples int) int {
	n := int(math.Round(float64(refSamples) * r.scale))
	if n < 1 {
		n = 1
	}
	return n
}

// tailOverride picks the per-channel delay override from the snapshot.
func (r *Dattorro) tailOverride(p Params, channel int, feedback bool) float64 {
	if feedback {
		if channel == 0 {
			return p.FeedbackDelayLeft
		}
		return p.FeedbackDelayRight
	}
	if channel == 0 {
		return p.FinalDelayLeft
	}
	return p.FinalDelayRight
}

// tailDelayTarget resolves an override against the topology default.
func tailDelayTarget(override, fallback float64) float64 {
	if override > 0 {
		return override
	}
	return fallback
}

// Execute processes one block: in is read-only, out is fully overwritten.
// Both buffers must have the same length for the lifetime of the instance.
// The parameter snapshot is read once and used consistently for the whole
// block.
func (r *Dattorro) Execute(in, out []float64, params Params) {
	n := len(in)
	if len(out) < n {
		n = len(out)
	}
	if n == 0 {
		return
	}

	p := params.clamped(0.5 * r.sampleRate)
	r.params = p

	if !core.NearlyEqual(p.PreDelayMS, r.prevPreDelayMS, paramEpsilon) {
		r.preDelay.SetValue(core.MSToSamples(p.PreDelayMS, r.sampleRate))
		r.prevPreDelayMS = p.PreDelayMS
	}

	// Coefficient recomputation is skipped inside Update when nothing moved.
	r.preFilter.SetFrequency(p.LowPassCutoffHz)
	r.preFilter.SetQ(p.PreFilterBandwidth)
	r.preFilter.Update()

	r.filtered = core.EnsureLen(r.filtered, n)
	r.preFilter.ProcessBlockTo(r.filtered, in[:n])

	half := (len(r.inputDiffusers) + 1) / 2
	for i, ap := range r.inputDiffusers {
		if i < half {
			ap.SetCoefficient(p.InputDiffusion1)
		} else {
			ap.SetCoefficient(p.InputDiffusion2)
		}
	}

	for i, t := range r.tails {
		t.diffuser1.SetCoefficient(p.DecayDiffusion1)
		t.diffuser2.SetCoefficient(p.DecayDiffusion2)
		t.length.SetValue(tailDelayTarget(r.tailOverride(p, i, true), t.defaultFeedback))
		t.postPos = tailDelayTarget(r.tailOverride(p, i, false), t.defaultPost)
	}

	r.damping.SetCoefficient(1 - p.Damping)
	r.phasorIncrement = p.ExcursionRateHz / r.sampleRate
	depth := p.ExcursionDepth * r.scale
	tapOffset := float64(r.topology.TapOffset) * r.scale

	for i := 0; i < n; i++ {
		if !r.preDelay.IsDone() {
			r.preDelay.GetNextValue()
		}
		for _, t := range r.tails {
			if !t.length.IsDone() {
				t.length.GetNextValue()
			}
		}

		pos := r.preDelay.PeekCurrentValue()
		delayed := r.mainLine.ReadFractional(pos) + r.mainLine.ReadFractional(pos+tapOffset)

		processed := r.filtered[i]
		for _, ap := range r.inputDiffusers {
			processed = ap.ProcessSample(processed)
		}

		var tailSum float64
		var finalLeft, finalRight float64
		for ci, t := range r.tails {
			sum := processed + t.carry
			v := t.diffuser1.ProcessSample(sum)

			fbPos := t.length.PeekCurrentValue()
			if depth > 0 {
				phase := r.phasor
				if ci == 1 {
					// Quadrature offset keeps the two channels' excursions
					// decorrelated.
					phase += 0.25
				}
				fbPos += depth * math.Sin(2*math.Pi*phase)
			}
			fbTap := t.feedback.ReadFractional(fbPos)

			damped := r.damping.ProcessSample(fbTap * (1 - p.Damping))
			w := t.diffuser2.ProcessSample(damped * p.DecayRate)

			final := t.post.ReadFractional(t.postPos) * p.DecayRate

			t.feedback.Write(v)
			t.post.Write(w)

			tailSum += fbTap + final
			if ci == 0 {
				finalLeft = final
			} else {
				finalRight = final
			}
		}

		// Cross-coupled recirculation: each channel feeds the other.
		r.tails[0].carry = core.FlushDenormals(finalRight)
		r.tails[1].carry = core.FlushDenormals(finalLeft)

		if depth > 0 {
			r.phasor += r.phasorIncrement
			if r.phasor >= 1 {
				r.phasor -= 1
			}
		}

		r.mainLine.Write(processed)
		out[i] = delayed + tailSum
	}

	// out = wet*tail + dry*original.
	vecmath.ScaleBlock(out[:n], out[:n], p.WetLevel)
	vecmath.ScaleBlock(r.filtered, in[:n], p.DryLevel)
	vecmath.AddBlockInPlace(out[:n], r.filtered)
}

// Reset clears every delay line, filter and smoother; the configuration is
// kept.
func (r *Dattorro) Reset() {
	r.mainLine.Reset()
	r.preFilter.Reset()
	r.damping.Reset()
	for _, ap := range r.inputDiffusers {
		ap.Reset()
	}
	for _, t := range r.tails {
		t.diffuser1.Reset()
		t.diffuser2.Reset()
		t.feedback.Reset()
		t.post.Reset()
		t.carry = 0
		t.length.Init(t.length.PeekCurrentValue())
	}
	r.preDelay.Init(r.preDelay.PeekCurrentValue())
	r.phasor = 0
}

// SetSampleRate updates the sample rate, resizing every delay line. All
// audio state is cleared.
func (r *Dattorro) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("reverb sample rate must be > 0: %f", sampleRate)
	}

	r.sampleRate = sampleRate
	r.params = r.params.clamped(0.5 * sampleRate)
	return r.reconfigure()
}

// SampleRate returns the sample rate in Hz.
func (r *Dattorro) SampleRate() float64 { return r.sampleRate }

// Params returns the most recently applied (clamped) parameter snapshot.
func (r *Dattorro) Params() Params { return r.params }

// Topology returns the engine's delay-network descriptor.
func (r *Dattorro) Topology() Topology { return r.topology }
