package svf

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-reverb/internal/testutil"
)

func TestNewValidation(t *testing.T) {
	for _, rate := range []float64{0, -48000, math.NaN(), math.Inf(1)} {
		if _, err := New(rate); err == nil {
			t.Errorf("expected error for sample rate %v", rate)
		}
	}
}

func TestSetterClamping(t *testing.T) {
	f, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}

	f.SetFrequency(1e9)
	if got := f.Frequency(); got != 24000 {
		t.Fatalf("frequency not clamped to Nyquist: %v", got)
	}

	f.SetFrequency(-10)
	if got := f.Frequency(); got != 0 {
		t.Fatalf("negative frequency not clamped: %v", got)
	}

	f.SetQ(100)
	if got := f.Q(); got != maxQ {
		t.Fatalf("Q not clamped: %v", got)
	}

	f.SetBandStopControl(2)
	if got := f.BandStopControl(); got != 1 {
		t.Fatalf("band-stop control not clamped: %v", got)
	}
}

func TestUpdateIsLazy(t *testing.T) {
	f, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}

	f.SetFrequency(2000)
	f.Update()
	a1 := f.a1

	// Same staged values: Update must not touch coefficients.
	f.a1 = math.NaN() // sentinel
	f.SetFrequency(2000)
	f.Update()
	if !math.IsNaN(f.a1) {
		t.Fatal("Update recomputed coefficients without a parameter change")
	}

	// A real change recomputes.
	f.SetFrequency(3000)
	f.Update()
	if math.IsNaN(f.a1) || f.a1 == a1 {
		t.Fatalf("Update did not recompute after change: a1 = %v", f.a1)
	}
}

func TestLowPassDCUnityGain(t *testing.T) {
	f, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}

	f.SetFrequency(500)
	f.Update()

	var y float64
	for i := 0; i < 48000; i++ {
		y = f.ProcessSample(1)
	}
	if math.Abs(y-1) > 1e-6 {
		t.Fatalf("DC gain = %v, want 1", y)
	}
}

func TestLowPassAttenuatesHighFrequency(t *testing.T) {
	const sampleRate = 48000

	f, err := New(sampleRate)
	if err != nil {
		t.Fatal(err)
	}

	f.SetFrequency(500)
	f.SetQ(0.707)
	f.Update()

	in := testutil.DeterministicSine(10000, sampleRate, 1.0, 4800)
	var peak float64
	for i, x := range in {
		y := f.ProcessSample(x)
		// Skip the transient.
		if i > 1000 && math.Abs(y) > peak {
			peak = math.Abs(y)
		}
	}

	if peak > 0.05 {
		t.Fatalf("10 kHz leaked through a 500 Hz low-pass: peak = %v", peak)
	}
}

func TestProcessBlockToMatchesPerSample(t *testing.T) {
	a, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range []*SVF{a, b} {
		f.SetFrequency(1200)
		f.Update()
	}

	in := testutil.DeterministicNoise(3, 1.0, 256)
	blockOut := make([]float64, len(in))
	a.ProcessBlockTo(blockOut, in)

	for i, x := range in {
		want := b.ProcessSample(x)
		if blockOut[i] != want {
			t.Fatalf("sample %d: block %v != per-sample %v", i, blockOut[i], want)
		}
	}
}

func TestBandStopBlend(t *testing.T) {
	f, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}

	f.SetFrequency(1000)
	f.SetBandStopControl(1)
	f.Update()

	// With the full high-pass branch added, DC still passes (notch response).
	var y float64
	for i := 0; i < 48000; i++ {
		y = f.ProcessSample(1)
	}
	if math.Abs(y-1) > 1e-6 {
		t.Fatalf("notch DC gain = %v, want 1", y)
	}
}

func TestReset(t *testing.T) {
	f, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}

	f.ProcessSample(1)
	f.Reset()
	if f.ic1eq != 0 || f.ic2eq != 0 {
		t.Fatal("reset left integrator state behind")
	}
}

func BenchmarkProcessBlockTo(b *testing.B) {
	f, _ := New(48000)
	f.SetFrequency(2000)
	f.Update()
	in := testutil.DeterministicNoise(1, 1.0, 1024)
	out := make([]float64, len(in))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		f.ProcessBlockTo(out, in)
	}
}
