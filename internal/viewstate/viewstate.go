// Package viewstate holds the control panel state of the map as an
// immutable value. State changes only through Reduce, a pure
// function of the previous state and an event.
package viewstate

import (
	"fmt"

	"github.com/spectriclabs/sigmap-service/internal/colorpicker"
	"github.com/spectriclabs/sigmap-service/internal/colorrange"
)

// NumPickers is the number of anchor color pickers on the panel.
const NumPickers = 3

// Picker is one anchor color picker and whether its popover is open.
type Picker struct {
	Color colorpicker.PickerColor `json:"color"`
	Open  bool                    `json:"open"`
}

// State is the control panel state.
type State struct {
	VisibleGrid  bool               `json:"visibleGrid"`
	VisibleIcons bool               `json:"visibleIcons"`
	GridCellSize int                `json:"gridCellSize"`
	Pickers      [NumPickers]Picker `json:"pickers"`
	TooltipText  string             `json:"tooltipText"`
}

// CellSizes picks the grid cell size from the map zoom. Below
// ZoomThreshold the coarse size is used.
type CellSizes struct {
	ZoomThreshold float64 `json:"zoomThreshold" mapstructure:"zoom_threshold"`
	Fine          int     `json:"fine" mapstructure:"fine"`
	Coarse        int     `json:"coarse" mapstructure:"coarse"`
}

// DefaultCellSizes switches from 250m to 500m cells below zoom 11.
var DefaultCellSizes = CellSizes{ZoomThreshold: 11, Fine: 250, Coarse: 500}

// ForZoom returns the cell size for zoom.
func (cs CellSizes) ForZoom(zoom float64) int {
	if zoom < cs.ZoomThreshold {
		return cs.Coarse
	}
	return cs.Fine
}

// Initial returns the state of a freshly opened panel.
func Initial(cs CellSizes) State {
	s := State{
		VisibleGrid:  true,
		VisibleIcons: true,
		GridCellSize: cs.Fine,
	}
	for i := range s.Pickers {
		s.Pickers[i].Color = colorpicker.Defaults[i]
	}
	return s
}

// Anchors returns the picker colors as canonical anchors, start first.
func (s State) Anchors() []colorrange.Color {
	anchors := make([]colorrange.Color, NumPickers)
	for i, p := range s.Pickers {
		anchors[i] = p.Color.ToColor()
	}
	return anchors
}

// Swatches returns the CSS preview value of each picker.
func (s State) Swatches() [NumPickers]string {
	var out [NumPickers]string
	for i, p := range s.Pickers {
		out[i] = p.Color.CSS()
	}
	return out
}

// Reducer applies events using cell sizes for zoom changes.
type Reducer struct {
	CellSizes CellSizes
}

// Reduce returns the state that follows s after e. s is never
// modified.
func (r Reducer) Reduce(s State, e Event) (State, error) {
	switch ev := e.(type) {
	case ToggleGrid:
		s.VisibleGrid = ev.Checked
	case ToggleIcons:
		s.VisibleIcons = ev.Checked
	case TogglePicker:
		if err := checkIndex(ev.Index); err != nil {
			return s, err
		}
		s.Pickers[ev.Index].Open = !s.Pickers[ev.Index].Open
	case ClosePickers:
		for i := range s.Pickers {
			s.Pickers[i].Open = false
		}
	case ChangeColor:
		if err := checkIndex(ev.Index); err != nil {
			return s, err
		}
		if err := ev.Color.Validate(); err != nil {
			return s, err
		}
		s.Pickers[ev.Index].Color = ev.Color
	case ViewStateChanged:
		s.GridCellSize = r.CellSizes.ForZoom(ev.Zoom)
	case Hover:
		s.TooltipText = ev.Text
	default:
		return s, fmt.Errorf("unhandled event %T", e)
	}
	return s, nil
}

func checkIndex(i int) error {
	if i < 0 || i >= NumPickers {
		return fmt.Errorf("picker index %d out of range [0,%d)", i, NumPickers)
	}
	return nil
}
