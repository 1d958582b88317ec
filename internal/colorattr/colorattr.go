package colorattr

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknown is returned by Parse for names outside the six attributes.
var ErrUnknown = errors.New("unknown attribute")

// Attribute is a per-pixel scalar derived from RGB: a raw channel or an HSV component.
type Attribute int

const (
	Red Attribute = iota
	Green
	Blue
	Hue
	Saturation
	Value
)

var names = [...]string{"red", "green", "blue", "hue", "saturation", "value"}

func (a Attribute) String() string {
	if a < 0 || int(a) >= len(names) {
		return fmt.Sprintf("Attribute(%d)", int(a))
	}
	return names[a]
}

// Parse maps a settings value such as "Saturation" to its Attribute.
func Parse(s string) (Attribute, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return Attribute(i), nil
		}
	}
	return 0, fmt.Errorf("colorattr: %q: %w", s, ErrUnknown)
}

// RGBToHSV converts 8-bit RGB to hue in [0,360), saturation and value in [0,100].
func RGBToHSV(r, g, b uint8) (h, s, v float64) {
	rf := float64(r) / 255
	gf := float64(g) / 255
	bf := float64(b) / 255

	hi := max(rf, gf, bf)
	lo := min(rf, gf, bf)
	delta := hi - lo

	switch {
	case hi == lo:
		h = 0
	case hi == rf:
		h = math.Mod(60*((gf-bf)/delta)+360, 360)
	case hi == gf:
		h = math.Mod(60*((bf-rf)/delta)+120, 360)
	default:
		h = math.Mod(60*((rf-gf)/delta)+240, 360)
	}

	if hi != 0 {
		s = delta / hi * 100
	}
	return h, s, hi * 100
}

// Raw returns the attribute in its natural unit: 0-255 for channels,
// degrees for hue, percent for saturation and value.
func (a Attribute) Raw(r, g, b uint8) float64 {
	switch a {
	case Red:
		return float64(r)
	case Green:
		return float64(g)
	case Blue:
		return float64(b)
	}
	h, s, v := RGBToHSV(r, g, b)
	switch a {
	case Hue:
		return h
	case Saturation:
		return s
	default:
		return v
	}
}

// Scale is the divisor that maps Raw onto [0,1].
func (a Attribute) Scale() float64 {
	switch a {
	case Red, Green, Blue:
		return 255
	case Hue:
		return 360
	default:
		return 100
	}
}

// Normalized returns Raw scaled onto [0,1], so all six attributes can be
// compared against the same contrast band.
func (a Attribute) Normalized(r, g, b uint8) float64 {
	return a.Raw(r, g, b) / a.Scale()
}
