// Package points generates the synthetic point data the map layers
// display.
package points

import (
	"encoding/json"
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Point is a weighted lon/lat position. It encodes as the
// [lon, lat, weight] triple map layers read positions from.
type Point struct {
	Lon    float64
	Lat    float64
	Weight float64
}

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{p.Lon, p.Lat, p.Weight})
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var v [3]float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	p.Lon, p.Lat, p.Weight = v[0], v[1], v[2]
	return nil
}

// Label is the tooltip text of an icon at p.
func Label(p Point) string {
	return fmt.Sprintf("%.2f, %.2f", p.Lon, p.Lat)
}

// Bounds is the square lon/lat area points are drawn from.
type Bounds struct {
	MinLon float64 `json:"minLon" mapstructure:"min_lon"`
	MinLat float64 `json:"minLat" mapstructure:"min_lat"`
	Span   float64 `json:"span" mapstructure:"span"`
}

// DefaultBounds covers central Bangkok.
var DefaultBounds = Bounds{MinLon: 100.50, MinLat: 13.70, Span: 0.1}

// Contains reports whether p lies inside b.
func (b Bounds) Contains(p Point) bool {
	return p.Lon >= b.MinLon && p.Lon <= b.MinLon+b.Span &&
		p.Lat >= b.MinLat && p.Lat <= b.MinLat+b.Span
}

// Generate draws count uniformly distributed points of weight 1
// inside b. The same seed always yields the same points.
func Generate(seed uint64, count int, b Bounds) []Point {
	src := rand.NewSource(seed)
	lon := distuv.Uniform{Min: b.MinLon, Max: b.MinLon + b.Span, Src: src}
	lat := distuv.Uniform{Min: b.MinLat, Max: b.MinLat + b.Span, Src: src}

	pts := make([]Point, count)
	for i := range pts {
		pts[i] = Point{Lon: lon.Rand(), Lat: lat.Rand(), Weight: 1}
	}
	return pts
}
