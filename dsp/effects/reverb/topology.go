package reverb

import "fmt"

// Topology describes the fixed delay network of a Dattorro-style plate:
// the ordered input-diffuser delays and the per-channel tail delays. All
// lengths are in samples at ReferenceRate and are rescaled to the engine
// sample rate at construction.
//
// A single parameterized topology replaces the near-duplicate engine
// variants seen in the wild (with/without stereo feedback, differing tap
// offsets); variants become data, not code.
type Topology struct {
	// ReferenceRate is the sample rate the delay lengths are expressed at.
	ReferenceRate float64

	// InputDiffuserDelays are the cascade delays of the input diffusion
	// chain, in order.
	InputDiffuserDelays []int

	// Tails lists the feedback-tail channels. The canonical plate has two,
	// cross-coupled.
	Tails []TailTopology

	// TapOffset is the distance in samples between the two main-line taps.
	TapOffset int
}

// TailTopology holds the delay lengths of one feedback-tail channel.
type TailTopology struct {
	DecayDiffuser1 int
	FeedbackDelay  int
	DecayDiffuser2 int
	PostDelay      int
}

// DefaultTopology returns the canonical plate: Dattorro's delay lengths at
// his 29761 Hz reference rate, two cross-coupled tail channels, and a
// 100-sample second tap.
func DefaultTopology() Topology {
	return Topology{
		ReferenceRate:       29761,
		InputDiffuserDelays: []int{142, 379, 107, 277},
		Tails: []TailTopology{
			{DecayDiffuser1: 672, FeedbackDelay: 4453, DecayDiffuser2: 1800, PostDelay: 3720},
			{DecayDiffuser1: 908, FeedbackDelay: 4217, DecayDiffuser2: 2656, PostDelay: 3163},
		},
		TapOffset: 100,
	}
}

func (t Topology) validate() error {
	if t.ReferenceRate <= 0 {
		return fmt.Errorf("reverb topology reference rate must be > 0: %f", t.ReferenceRate)
	}

	if len(t.InputDiffuserDelays) == 0 {
		return fmt.Errorf("reverb topology needs at least one input diffuser")
	}
	for i, d := range t.InputDiffuserDelays {
		if d <= 0 {
			return fmt.Errorf("reverb topology input diffuser %d delay must be > 0: %d", i, d)
		}
	}

	if len(t.Tails) != 2 {
		return fmt.Errorf("reverb topology needs exactly two tail channels: %d", len(t.Tails))
	}
	for i, tail := range t.Tails {
		if tail.DecayDiffuser1 <= 0 || tail.FeedbackDelay <= 0 ||
			tail.DecayDiffuser2 <= 0 || tail.PostDelay <= 0 {
			return fmt.Errorf("reverb topology tail %d delays must be > 0: %+v", i, tail)
		}
	}

	if t.TapOffset < 0 {
		return fmt.Errorf("reverb topology tap offset must be >= 0: %d", t.TapOffset)
	}

	return nil
}
