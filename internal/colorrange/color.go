package colorrange

import "fmt"

// NumChannels is the channel count of a Color in positional form.
const NumChannels = 4

// Color is an RGBA value. All four channels, alpha included, are
// in [0,255]. Picker colors with alpha in [0,1] are converted at the
// UI boundary, never here.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// White is the reference color of the diverging strategy.
var White = Color{R: 255, G: 255, B: 255, A: 255}

// Range is an ordered color range. Index 0 colors the minimum
// bucket and the last index colors the maximum bucket.
type Range []Color

// Channels returns c in positional R,G,B,A form.
func (c Color) Channels() []float64 {
	return []float64{c.R, c.G, c.B, c.A}
}

// FromChannels builds a Color from a positional R,G,B,A slice.
func FromChannels(ch []float64) (Color, error) {
	if len(ch) != NumChannels {
		return Color{}, fmt.Errorf("color needs %d channels, got %d", NumChannels, len(ch))
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// Tuple returns c as a fixed size array, the shape a layer's
// colorRange parameter expects.
func (c Color) Tuple() [4]float64 {
	return [4]float64{c.R, c.G, c.B, c.A}
}

// Tuples converts r for a layer's colorRange parameter.
func (r Range) Tuples() [][4]float64 {
	out := make([][4]float64, len(r))
	for i, c := range r {
		out[i] = c.Tuple()
	}
	return out
}

// Reverse returns a reversed copy of r.
func (r Range) Reverse() Range {
	out := make(Range, len(r))
	for i, c := range r {
		out[len(r)-1-i] = c
	}
	return out
}
