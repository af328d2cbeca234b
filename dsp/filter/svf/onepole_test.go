package svf

import (
	"math"
	"testing"
)

func TestOnePoleClampsCoefficient(t *testing.T) {
	f := NewOnePole(2)
	if f.Coefficient() != 1 {
		t.Fatalf("coefficient = %v, want 1", f.Coefficient())
	}

	f.SetCoefficient(-0.5)
	if f.Coefficient() != 0 {
		t.Fatalf("coefficient = %v, want 0", f.Coefficient())
	}
}

func TestOnePolePassThrough(t *testing.T) {
	f := NewOnePole(1)
	for _, x := range []float64{1, -0.5, 0.25} {
		if got := f.ProcessSample(x); got != x {
			t.Fatalf("a=1: got %v, want %v", got, x)
		}
	}
}

func TestOnePoleConvergesToDC(t *testing.T) {
	f := NewOnePole(0.1)

	var y float64
	for i := 0; i < 1000; i++ {
		y = f.ProcessSample(1)
	}
	if math.Abs(y-1) > 1e-9 {
		t.Fatalf("converged to %v, want 1", y)
	}
}

func TestOnePoleMonotoneStep(t *testing.T) {
	f := NewOnePole(0.2)

	prev := 0.0
	for i := 0; i < 100; i++ {
		y := f.ProcessSample(1)
		if y <= prev {
			t.Fatalf("step response not monotone at %d: %v <= %v", i, y, prev)
		}
		if y > 1 {
			t.Fatalf("step response overshot at %d: %v", i, y)
		}
		prev = y
	}
}

func TestOnePoleFlushesDenormals(t *testing.T) {
	f := NewOnePole(0.5)
	f.ProcessSample(1e-29)

	// Decay toward zero must land on exact zero, not a denormal.
	var y float64
	for i := 0; i < 200; i++ {
		y = f.ProcessSample(0)
	}
	if y != 0 {
		t.Fatalf("state did not flush to zero: %v", y)
	}
}

func TestOnePoleReset(t *testing.T) {
	f := NewOnePole(0.5)
	f.ProcessSample(1)
	f.Reset()
	if got := f.ProcessSample(0); got != 0 {
		t.Fatalf("state survived reset: %v", got)
	}
}
