// Package grid aggregates points into square cells and assigns each
// cell a bucket of a color range, the way a grid heatmap layer
// colors its cells.
package grid

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/spectriclabs/sigmap-service/internal/points"
)

// metersPerDegree is the length of one degree of latitude.
const metersPerDegree = 111319.49

// Cell is one grid cell. Position is the south west corner.
type Cell struct {
	Row      int        `json:"row"`
	Col      int        `json:"col"`
	Position [2]float64 `json:"position"`
	Count    float64    `json:"count"`
	Bucket   int        `json:"bucket"`
}

// Aggregate sums point weights into cells of cellSize meters. Cell
// extents in degrees are taken at the mean latitude of pts. Cells
// are returned ordered by row then column.
func Aggregate(pts []points.Point, cellSize float64) ([]Cell, error) {
	if cellSize <= 0 {
		return nil, errors.New("cell size must be positive")
	}
	if len(pts) == 0 {
		return nil, nil
	}

	lons := make([]float64, len(pts))
	lats := make([]float64, len(pts))
	for i, p := range pts {
		lons[i], lats[i] = p.Lon, p.Lat
	}
	minLon, minLat := floats.Min(lons), floats.Min(lats)
	meanLat := floats.Sum(lats) / float64(len(lats))

	latStep := cellSize / metersPerDegree
	lonStep := cellSize / (metersPerDegree * math.Cos(meanLat*math.Pi/180))

	type key struct{ row, col int }
	counts := make(map[key]float64)
	for _, p := range pts {
		k := key{
			row: int(math.Floor((p.Lat - minLat) / latStep)),
			col: int(math.Floor((p.Lon - minLon) / lonStep)),
		}
		counts[k] += p.Weight
	}

	cells := make([]Cell, 0, len(counts))
	for k, c := range counts {
		cells = append(cells, Cell{
			Row:      k.row,
			Col:      k.col,
			Position: [2]float64{minLon + float64(k.col)*lonStep, minLat + float64(k.row)*latStep},
			Count:    c,
		})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
	return cells, nil
}

// Assign sets each cell's Bucket to an index in [0,n) by quantizing
// its count between the smallest and largest count. If all counts
// are equal every cell gets bucket 0.
func Assign(cells []Cell, n int) error {
	if n < 1 {
		return errors.New("bucket count must be positive")
	}
	if len(cells) == 0 {
		return nil
	}
	counts := make([]float64, len(cells))
	for i, c := range cells {
		counts[i] = c.Count
	}
	lo, hi := floats.Min(counts), floats.Max(counts)
	for i := range cells {
		cells[i].Bucket = bucket(cells[i].Count, lo, hi, n)
	}
	return nil
}

func bucket(v, lo, hi float64, n int) int {
	if hi == lo {
		return 0
	}
	b := int(math.Floor((v - lo) / (hi - lo) * float64(n)))
	if b >= n {
		b = n - 1
	}
	return b
}
