package colorrange

import (
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Strategy turns a set of anchors into a color range.
type Strategy interface {
	Name() string
	Build(anchors []Color, count int) (Range, error)
}

const (
	DirectName    = "direct"
	DivergingName = "diverging"
	HCLName       = "hcl"
)

// Direct blends the anchors straight into each other: two anchors
// give a Pair, three give InterpolateThreeAnchor.
type Direct struct{}

func (Direct) Name() string { return DirectName }

func (d Direct) Build(anchors []Color, count int) (Range, error) {
	switch len(anchors) {
	case 2:
		return Pair(anchors[0], anchors[1], count)
	case 3:
		return InterpolateThreeAnchor(anchors[0], anchors[1], anchors[2], count)
	}
	return nil, &AnchorCountError{Strategy: d.Name(), Got: len(anchors)}
}

// Diverging runs the first and last anchor toward Reference, giving
// a gradient that is lightest in the middle. A middle anchor is
// ignored; Reference takes its place. The zero Reference means White.
type Diverging struct {
	Reference *Color
}

func (Diverging) Name() string { return DivergingName }

func (d Diverging) Build(anchors []Color, count int) (Range, error) {
	if len(anchors) != 2 && len(anchors) != 3 {
		return nil, &AnchorCountError{Strategy: d.Name(), Got: len(anchors)}
	}
	ref := White
	if d.Reference != nil {
		ref = *d.Reference
	}
	return InterpolateDiverging(anchors[0], anchors[len(anchors)-1], ref, count)
}

// HCL blends neighbouring anchors in the HCL color space, which
// keeps perceived lightness steadier than RGB. Alpha stays linear.
type HCL struct{}

func (HCL) Name() string { return HCLName }

func (h HCL) Build(anchors []Color, count int) (Range, error) {
	switch len(anchors) {
	case 2:
		return hclPair(anchors[0], anchors[1], count)
	case 3:
		half, err := halfCount(count)
		if err != nil {
			return nil, err
		}
		first, err := hclPair(anchors[0], anchors[1], half)
		if err != nil {
			return nil, err
		}
		second, err := hclPair(anchors[1], anchors[2], half)
		if err != nil {
			return nil, err
		}
		return append(first, second...), nil
	}
	return nil, &AnchorCountError{Strategy: h.Name(), Got: len(anchors)}
}

func hclPair(start, end Color, count int) (Range, error) {
	// Pair validates count and yields the linear alpha ramp.
	linear, err := Pair(start, end, count)
	if err != nil {
		return nil, err
	}
	a, b := toColorful(start), toColorful(end)
	out := make(Range, count)
	for i := range out {
		t := float64(i) / float64(count-1)
		c := a.BlendHcl(b, t).Clamped()
		out[i] = Color{R: c.R * 255, G: c.G * 255, B: c.B * 255, A: linear[i].A}
	}
	out[0], out[count-1] = start, end
	return out, nil
}

func toColorful(c Color) colorful.Color {
	return colorful.Color{R: c.R / 255, G: c.G / 255, B: c.B / 255}
}

var strategies = map[string]Strategy{
	DirectName:    Direct{},
	DivergingName: Diverging{},
	HCLName:       HCL{},
}

// Lookup returns the named strategy. The empty name means Direct.
func Lookup(name string) (Strategy, error) {
	if name == "" {
		return Direct{}, nil
	}
	s, ok := strategies[name]
	if !ok {
		return nil, &UnknownStrategyError{Name: name}
	}
	return s, nil
}

// Names lists the registered strategies in sorted order.
func Names() []string {
	names := make([]string, 0, len(strategies))
	for n := range strategies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
