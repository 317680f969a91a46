// Package image renders color ranges as PNG legend swatches.
package image

import (
	"errors"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/spectriclabs/sigmap-service/internal/colorrange"
)

// MaxSize bounds either side of a legend in pixels.
const MaxSize = 4096

// WriteLegend draws r as equal width horizontal bands, minimum
// bucket on the left, and encodes the result as PNG.
func WriteLegend(w io.Writer, r colorrange.Range, width, height int) error {
	if len(r) == 0 {
		return errors.New("empty color range")
	}
	if width < len(r) || height < 1 || width > MaxSize || height > MaxSize {
		return errors.New("legend size out of range")
	}

	dc := gg.NewContext(width, height)
	band := float64(width) / float64(len(r))
	for i, c := range r {
		x0 := math.Round(float64(i) * band)
		x1 := math.Round(float64(i+1) * band)
		dc.SetRGBA255(channel(c.R), channel(c.G), channel(c.B), channel(c.A))
		dc.DrawRectangle(x0, 0, x1-x0, float64(height))
		dc.Fill()
	}
	return dc.EncodePNG(w)
}

func channel(v float64) int {
	return int(math.Round(math.Max(0, math.Min(255, v))))
}
