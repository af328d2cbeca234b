package smoother

import (
	"math"
	"testing"
)

func TestNewIsDone(t *testing.T) {
	e := New(5)
	if !e.IsDone() {
		t.Fatal("fresh ease not done")
	}
	if e.PeekCurrentValue() != 5 {
		t.Fatalf("current = %v, want 5", e.PeekCurrentValue())
	}
	if e.GetNextValue() != 5 {
		t.Fatal("GetNextValue moved a finished ease")
	}
}

func TestStrictConvergence(t *testing.T) {
	e := New(0)
	e.SetValue(10)

	if e.IsDone() {
		t.Fatal("ramp reported done immediately")
	}

	prevDist := math.Abs(10 - e.PeekCurrentValue())
	steps := 0
	for !e.IsDone() {
		v := e.GetNextValue()
		dist := math.Abs(10 - v)
		if !e.IsDone() && dist >= prevDist {
			t.Fatalf("step %d: distance %v did not shrink from %v", steps, dist, prevDist)
		}
		prevDist = dist
		steps++
		if steps > 1_000_000 {
			t.Fatal("ramp never completed")
		}
	}

	// Terminal state is the exact target.
	if got := e.PeekCurrentValue(); got != 10 {
		t.Fatalf("terminal value = %v, want exactly 10", got)
	}
	if got := e.GetNextValue(); got != 10 {
		t.Fatalf("post-done GetNextValue = %v, want 10", got)
	}
}

func TestDownwardRamp(t *testing.T) {
	e := New(100)
	e.SetValue(-50)

	prev := e.PeekCurrentValue()
	for !e.IsDone() {
		v := e.GetNextValue()
		if v >= prev {
			t.Fatalf("downward ramp not monotone: %v >= %v", v, prev)
		}
		prev = v
	}
	if e.PeekCurrentValue() != -50 {
		t.Fatalf("terminal value = %v, want -50", e.PeekCurrentValue())
	}
}

func TestSetValueWithinThresholdSnaps(t *testing.T) {
	e := New(1)
	e.SetValue(1 + 1e-9)
	if !e.IsDone() {
		t.Fatal("tiny target change should snap immediately")
	}
	if e.PeekCurrentValue() != 1+1e-9 {
		t.Fatalf("current = %v, want snapped target", e.PeekCurrentValue())
	}
}

func TestPeekDoesNotAdvance(t *testing.T) {
	e := New(0)
	e.SetValue(10)
	e.GetNextValue()

	a := e.PeekCurrentValue()
	b := e.PeekCurrentValue()
	if a != b {
		t.Fatalf("peek advanced the ramp: %v != %v", a, b)
	}
}

func TestInitEndsRamp(t *testing.T) {
	e := New(0)
	e.SetValue(10)
	e.GetNextValue()
	e.Init(3)

	if !e.IsDone() {
		t.Fatal("Init left a ramp active")
	}
	if e.PeekCurrentValue() != 3 || e.GetNextValue() != 3 {
		t.Fatal("Init did not re-seat value")
	}
}

func TestWithEaseFactor(t *testing.T) {
	slow := New(0, WithEaseFactor(0.001))
	fast := New(0, WithEaseFactor(0.5))
	slow.SetValue(1)
	fast.SetValue(1)

	for i := 0; i < 10; i++ {
		slow.GetNextValue()
		fast.GetNextValue()
	}
	if slow.PeekCurrentValue() >= fast.PeekCurrentValue() {
		t.Fatalf("smaller factor ramped faster: slow=%v fast=%v",
			slow.PeekCurrentValue(), fast.PeekCurrentValue())
	}
}

func TestInvalidOptionsIgnored(t *testing.T) {
	e := New(0, WithEaseFactor(0), WithEaseFactor(2), WithSnapThreshold(-1))
	if e.factor != defaultFactor {
		t.Fatalf("factor = %v, want default %v", e.factor, defaultFactor)
	}
	if e.threshold != defaultThreshold {
		t.Fatalf("threshold = %v, want default %v", e.threshold, defaultThreshold)
	}
}
