package layers

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectriclabs/sigmap-service/internal/colorrange"
	"github.com/spectriclabs/sigmap-service/internal/points"
	"github.com/spectriclabs/sigmap-service/internal/viewstate"
)

func TestBuild(t *testing.T) {
	s := viewstate.Initial(viewstate.DefaultCellSizes)
	s.VisibleIcons = false
	few := []points.Point{{Lon: 100.55, Lat: 13.75, Weight: 1}}

	out, err := Build(s, Options{
		Strategy:    colorrange.Direct{},
		NumColors:   6,
		Few:         few,
		IconAtlas:   "/api/assets/icons/location-icon-atlas.png",
		IconMapping: "/api/assets/icons/location-icon-mapping.json",
	})
	require.NoError(t, err)
	require.Len(t, out, 2)

	grid, ok := out[0].(GridLayer)
	require.True(t, ok)
	assert.Equal(t, "grid", grid.LayerID())
	assert.True(t, grid.Visible)
	assert.Equal(t, 250, grid.CellSize)
	require.Len(t, grid.ColorRange, 6)
	assert.Equal(t, [4]float64{0, 112, 19, 255}, grid.ColorRange[0])
	assert.Equal(t, [4]float64{255, 255, 255, 51}, grid.ColorRange[2])
	assert.Equal(t, [4]float64{241, 112, 19, 255}, grid.ColorRange[5])

	icon, ok := out[1].(IconLayer)
	require.True(t, ok)
	assert.False(t, icon.Visible)
	assert.Equal(t, "marker-1", icon.Icon)
	assert.Equal(t, few, icon.Data)

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"colorRange":[[0,112,19,255]`)
}

func TestBuildInvalidCount(t *testing.T) {
	s := viewstate.Initial(viewstate.DefaultCellSizes)
	_, err := Build(s, Options{Strategy: colorrange.Direct{}, NumColors: 7})
	var countErr *colorrange.InvalidCountError
	assert.True(t, errors.As(err, &countErr))
}
