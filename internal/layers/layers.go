// Package layers builds the layer descriptors a deck.gl style map
// client renders: a grid heatmap over the many point set and an
// icon layer over the few point set.
package layers

import (
	"github.com/spectriclabs/sigmap-service/internal/colorrange"
	"github.com/spectriclabs/sigmap-service/internal/points"
	"github.com/spectriclabs/sigmap-service/internal/viewstate"
)

// Layer is implemented by every descriptor.
type Layer interface {
	LayerID() string
}

type GridLayer struct {
	Type          string         `json:"type"`
	ID            string         `json:"id"`
	Visible       bool           `json:"visible"`
	Pickable      bool           `json:"pickable"`
	AutoHighlight bool           `json:"autoHighlight"`
	CellSize      int            `json:"cellSize"`
	Extruded      bool           `json:"extruded"`
	ColorRange    [][4]float64   `json:"colorRange"`
	Data          []points.Point `json:"data"`
}

type IconLayer struct {
	Type          string         `json:"type"`
	ID            string         `json:"id"`
	Visible       bool           `json:"visible"`
	Pickable      bool           `json:"pickable"`
	AutoHighlight bool           `json:"autoHighlight"`
	IconAtlas     string         `json:"iconAtlas"`
	IconMapping   string         `json:"iconMapping"`
	Icon          string         `json:"icon"`
	Size          float64        `json:"size"`
	Data          []points.Point `json:"data"`
}

func (GridLayer) LayerID() string { return "grid" }
func (IconLayer) LayerID() string { return "icon" }

// Options carries everything besides the panel state that the
// descriptors depend on.
type Options struct {
	Strategy    colorrange.Strategy
	NumColors   int
	Many        []points.Point
	Few         []points.Point
	IconAtlas   string
	IconMapping string
}

// Build returns the grid and icon descriptors for s. The color range
// is rebuilt from the state's anchors on every call; an invalid
// count surfaces as the builder's error.
func Build(s viewstate.State, opts Options) ([]Layer, error) {
	colors, err := opts.Strategy.Build(s.Anchors(), opts.NumColors)
	if err != nil {
		return nil, err
	}

	grid := GridLayer{
		Type:          "GridLayer",
		ID:            "grid",
		Visible:       s.VisibleGrid,
		Pickable:      true,
		AutoHighlight: true,
		CellSize:      s.GridCellSize,
		Extruded:      false,
		ColorRange:    colors.Tuples(),
		Data:          opts.Many,
	}
	icon := IconLayer{
		Type:          "IconLayer",
		ID:            "icon",
		Visible:       s.VisibleIcons,
		Pickable:      true,
		AutoHighlight: true,
		IconAtlas:     opts.IconAtlas,
		IconMapping:   opts.IconMapping,
		Icon:          "marker-1",
		Size:          50,
		Data:          opts.Few,
	}
	return []Layer{grid, icon}, nil
}
