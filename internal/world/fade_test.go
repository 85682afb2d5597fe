package world

import (
	"math"
	"testing"
)

func TestFadeOpacity(t *testing.T) {
	const start, end = 100.0, 150.0
	cases := []struct {
		d, want float64
	}{
		{0, 1},
		{start, 1},
		{125, 0.5},
		{140, 0.2},
		{end, 0},
		{400, 0},
	}
	for _, c := range cases {
		if got := FadeOpacity(c.d, start, end); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("FadeOpacity(%v) = %v, want %v", c.d, got, c.want)
		}
	}
}

func TestFadeOpacityLinear(t *testing.T) {
	const start, end = 100.0, 150.0
	prev := 1.0
	for d := start; d <= end; d += 0.5 {
		o := FadeOpacity(d, start, end)
		if o > prev {
			t.Fatalf("opacity increased at %v: %v > %v", d, o, prev)
		}
		if want := (end - d) / (end - start); math.Abs(o-want) > 1e-9 {
			t.Fatalf("opacity at %v = %v, want %v", d, o, want)
		}
		prev = o
	}
}

func TestFadeVisible(t *testing.T) {
	if FadeVisible(0.05, 0.05) {
		t.Errorf("opacity at epsilon should be hidden")
	}
	if !FadeVisible(0.051, 0.05) {
		t.Errorf("opacity above epsilon should be visible")
	}
	if FadeVisible(0, 0.05) {
		t.Errorf("zero opacity should be hidden")
	}
}
