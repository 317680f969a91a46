package points

import "fmt"

// Set names.
const (
	Many = "many"
	Few  = "few"
)

// Sets describes the two generated data sets: many points for the
// grid heatmap and a few for the icon layer.
type Sets struct {
	Seed   uint64 `mapstructure:"seed"`
	Many   int    `mapstructure:"many"`
	Few    int    `mapstructure:"few"`
	Bounds Bounds `mapstructure:"bounds"`
}

// DefaultSets matches the demo data: 50000 grid points and 100 icons.
var DefaultSets = Sets{Seed: 1, Many: 50000, Few: 100, Bounds: DefaultBounds}

// Get generates the named set. The few set uses a different seed so
// icons do not sit on the first grid points.
func (s Sets) Get(name string) ([]Point, error) {
	switch name {
	case Many:
		return Generate(s.Seed, s.Many, s.Bounds), nil
	case Few:
		return Generate(s.Seed+1, s.Few, s.Bounds), nil
	}
	return nil, fmt.Errorf("unknown point set %q: want %q or %q", name, Many, Few)
}
