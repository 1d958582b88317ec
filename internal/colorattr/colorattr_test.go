package colorattr

import (
	"errors"
	"math"
	"testing"
)

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		h, s, v float64
	}{
		{name: "red", r: 255, h: 0, s: 100, v: 100},
		{name: "green", g: 255, h: 120, s: 100, v: 100},
		{name: "blue", b: 255, h: 240, s: 100, v: 100},
		{name: "white", r: 255, g: 255, b: 255, h: 0, s: 0, v: 100},
		{name: "black", h: 0, s: 0, v: 0},
		{name: "magenta", r: 255, b: 255, h: 300, s: 100, v: 100},
		{name: "yellow", r: 255, g: 255, h: 60, s: 100, v: 100},
		{name: "cyan", g: 255, b: 255, h: 180, s: 100, v: 100},
		{name: "dark red half", r: 128, g: 64, b: 64, h: 0, s: 50, v: 128.0 / 255 * 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, v := RGBToHSV(tt.r, tt.g, tt.b)
			if !near(h, tt.h) || !near(s, tt.s) || !near(v, tt.v) {
				t.Fatalf("RGBToHSV(%d,%d,%d) = (%v,%v,%v), want (%v,%v,%v)",
					tt.r, tt.g, tt.b, h, s, v, tt.h, tt.s, tt.v)
			}
		})
	}
}

func TestRGBToHSVRange(t *testing.T) {
	for r := 0; r < 256; r += 15 {
		for g := 0; g < 256; g += 15 {
			for b := 0; b < 256; b += 15 {
				h, s, v := RGBToHSV(uint8(r), uint8(g), uint8(b))
				if h < 0 || h >= 360 || s < 0 || s > 100 || v < 0 || v > 100 {
					t.Fatalf("out of range for (%d,%d,%d): %v %v %v", r, g, b, h, s, v)
				}
			}
		}
	}
}

func TestNormalized(t *testing.T) {
	tests := []struct {
		attr    Attribute
		r, g, b uint8
		want    float64
	}{
		{Red, 51, 0, 0, 0.2},
		{Green, 0, 255, 0, 1},
		{Blue, 0, 0, 0, 0},
		{Hue, 0, 255, 0, 120.0 / 360},
		{Saturation, 255, 255, 255, 0},
		{Value, 255, 0, 0, 1},
	}
	for _, tt := range tests {
		got := tt.attr.Normalized(tt.r, tt.g, tt.b)
		if !near(got, tt.want) {
			t.Fatalf("%s.Normalized(%d,%d,%d) = %v, want %v", tt.attr, tt.r, tt.g, tt.b, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	for i, n := range names {
		a, err := Parse("  " + n + " ")
		if err != nil {
			t.Fatalf("parse %q: %v", n, err)
		}
		if a != Attribute(i) || a.String() != n {
			t.Fatalf("parse %q = %v", n, a)
		}
	}
	if a, err := Parse("HUE"); err != nil || a != Hue {
		t.Fatalf("parse HUE = %v, %v", a, err)
	}
	if _, err := Parse("alpha"); !errors.Is(err, ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
