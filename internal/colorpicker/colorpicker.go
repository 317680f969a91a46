// Package colorpicker converts between the colors a sketch style
// color picker emits and the canonical colorrange.Color.
//
// A picker reports red, green and blue in [0,255] and alpha in
// [0,1]. The canonical color carries alpha in [0,255]; ToColor and
// FromColor are the only places the factor of 255 is applied.
package colorpicker

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/spectriclabs/sigmap-service/internal/colorrange"
)

// PickerColor is the rgb value of a picker change event.
type PickerColor struct {
	R uint8   `json:"r"`
	G uint8   `json:"g"`
	B uint8   `json:"b"`
	A float64 `json:"a"`
}

// Defaults are the start, mid and end anchors a fresh control
// panel shows.
var Defaults = [3]PickerColor{
	{R: 0, G: 112, B: 19, A: 1},
	{R: 255, G: 255, B: 255, A: 0.2},
	{R: 241, G: 112, B: 19, A: 1},
}

// ToColor converts p to the canonical color, rescaling alpha.
func (p PickerColor) ToColor() colorrange.Color {
	return colorrange.Color{
		R: float64(p.R),
		G: float64(p.G),
		B: float64(p.B),
		A: clamp01(p.A) * 255,
	}
}

// FromColor converts a canonical color back into picker units.
// Channels are rounded and clamped to [0,255].
func FromColor(c colorrange.Color) PickerColor {
	return PickerColor{
		R: byte255(c.R),
		G: byte255(c.G),
		B: byte255(c.B),
		A: float64(byte255(c.A)) / 255,
	}
}

// CSS renders p as a CSS rgba() value for the picker preview swatch.
func (p PickerColor) CSS() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", p.R, p.G, p.B, strconv.FormatFloat(p.A, 'f', -1, 64))
}

// Validate reports an alpha outside [0,1].
func (p PickerColor) Validate() error {
	if math.IsNaN(p.A) || p.A < 0 || p.A > 1 {
		return fmt.Errorf("picker alpha %v outside [0,1]", p.A)
	}
	return nil
}

// ParseAnchor parses an anchor color given as "#rrggbb",
// "#rrggbbaa" or "r,g,b,a" with a in [0,1].
func ParseAnchor(s string) (PickerColor, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}

	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return PickerColor{}, fmt.Errorf("anchor %q: want #rrggbb, #rrggbbaa or r,g,b,a", s)
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(strings.TrimSpace(parts[i]), 10, 8)
		if err != nil {
			return PickerColor{}, fmt.Errorf("anchor %q: channel %d: %w", s, i, err)
		}
		rgb[i] = uint8(v)
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
	if err != nil {
		return PickerColor{}, fmt.Errorf("anchor %q: alpha: %w", s, err)
	}
	p := PickerColor{R: rgb[0], G: rgb[1], B: rgb[2], A: a}
	if err := p.Validate(); err != nil {
		return PickerColor{}, fmt.Errorf("anchor %q: %w", s, err)
	}
	return p, nil
}

func parseHex(s string) (PickerColor, error) {
	alpha := 1.0
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return PickerColor{}, fmt.Errorf("anchor %q: alpha: %w", s, err)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return PickerColor{}, fmt.Errorf("anchor %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return PickerColor{R: r, G: g, B: b, A: alpha}, nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func byte255(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}
