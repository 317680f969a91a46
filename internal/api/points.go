package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/spectriclabs/sigmap-service/internal/grid"
	"github.com/spectriclabs/sigmap-service/internal/points"
)

// GridResponse is the body of GET /api/grid.
type GridResponse struct {
	CellSize int         `json:"cellSize"`
	Num      int         `json:"num"`
	MaxCount float64     `json:"maxCount"`
	Cells    []grid.Cell `json:"cells"`
}

// GetPoints handles GET /api/points/:set. With labels=true it
// returns the tooltip label of each point instead.
func (a *API) GetPoints(c echo.Context) error {
	set := c.Param("set")
	many, few := a.pointSets()
	var pts []points.Point
	switch set {
	case points.Many:
		pts = many
	case points.Few:
		pts = few
	default:
		return a.badRequest(c, fmt.Errorf("unknown point set %q", set))
	}

	data, err := a.cached(c, func() ([]byte, error) {
		if c.QueryParam("labels") == "true" {
			labels := make([]string, len(pts))
			for i, p := range pts {
				labels[i] = points.Label(p)
			}
			return json.Marshal(labels)
		}
		return json.Marshal(pts)
	})
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, data)
}

// GetGrid handles GET /api/grid. The cell size comes from cellSize,
// or from zoom through the configured cell sizes; each cell gets its
// bucket among num colors.
func (a *API) GetGrid(c echo.Context) error {
	cellSize := a.Cfg.CellSizes.Fine
	if s := c.QueryParam("zoom"); s != "" {
		zoom, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return a.badRequest(c, fmt.Errorf("zoom must be a number; given %q", s))
		}
		cellSize = a.Cfg.CellSizes.ForZoom(zoom)
	}
	if s := c.QueryParam("cellSize"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			return a.badRequest(c, fmt.Errorf("cellSize must be a positive integer; given %q", s))
		}
		cellSize = v
	}
	num := a.Cfg.NumColors
	if s := c.QueryParam("num"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return a.badRequest(c, fmt.Errorf("num must be a positive integer; given %q", s))
		}
		if err := a.checkNumColors(v); err != nil {
			return a.badRequest(c, err)
		}
		num = v
	}

	many, _ := a.pointSets()
	data, err := a.cached(c, func() ([]byte, error) {
		cells, err := grid.Aggregate(many, float64(cellSize))
		if err != nil {
			return nil, err
		}
		if err := grid.Assign(cells, num); err != nil {
			return nil, err
		}
		resp := GridResponse{CellSize: cellSize, Num: num, Cells: cells}
		for _, cell := range cells {
			if cell.Count > resp.MaxCount {
				resp.MaxCount = cell.Count
			}
		}
		return json.Marshal(resp)
	})
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, data)
}
