package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/spectriclabs/sigmap-service/internal/colorrange"
	"github.com/spectriclabs/sigmap-service/internal/layers"
	"github.com/spectriclabs/sigmap-service/internal/viewstate"
)

// StateResponse carries a panel state and its picker swatches.
type StateResponse struct {
	State    viewstate.State              `json:"state"`
	Swatches [viewstate.NumPickers]string `json:"swatches"`
	MapView  *viewstate.MapView           `json:"mapView,omitempty"`
}

// ReduceRequest is the body of POST /api/state.
type ReduceRequest struct {
	State viewstate.State `json:"state"`
	Event json.RawMessage `json:"event"`
}

// GetInitialState handles GET /api/state.
func (a *API) GetInitialState(c echo.Context) error {
	s := viewstate.Initial(a.Cfg.CellSizes)
	view := a.Cfg.MapView
	return c.JSON(http.StatusOK, StateResponse{
		State:    s,
		Swatches: s.Swatches(),
		MapView:  &view,
	})
}

// ReduceState handles POST /api/state: it applies one event to the
// posted state and returns the next state.
func (a *API) ReduceState(c echo.Context) error {
	var req ReduceRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if len(req.Event) == 0 {
		return a.badRequest(c, errors.New("event missing"))
	}
	event, err := viewstate.DecodeEvent(req.Event)
	if err != nil {
		return a.badRequest(c, err)
	}
	next, err := a.Reducer.Reduce(req.State, event)
	if err != nil {
		return a.badRequest(c, err)
	}
	a.Logger.Debug("Reduced state", zap.String("event", string(req.Event)))
	return c.JSON(http.StatusOK, StateResponse{State: next, Swatches: next.Swatches()})
}

// BuildLayers handles POST /api/layers: the posted state becomes the
// grid and icon layer descriptors.
func (a *API) BuildLayers(c echo.Context) error {
	var s viewstate.State
	if err := c.Bind(&s); err != nil {
		return err
	}
	name := c.QueryParam("strategy")
	if name == "" {
		name = a.Cfg.Strategy
	}
	strategy, err := colorrange.Lookup(name)
	if err != nil {
		return a.badRequest(c, err)
	}

	many, few := a.pointSets()
	out, err := layers.Build(s, layers.Options{
		Strategy:    strategy,
		NumColors:   a.Cfg.NumColors,
		Many:        many,
		Few:         few,
		IconAtlas:   a.assetURL(a.Cfg.IconAtlas),
		IconMapping: a.assetURL(a.Cfg.IconMapping),
	})
	if err != nil {
		if isBuildError(err) {
			return a.badRequest(c, err)
		}
		return err
	}
	return c.JSON(http.StatusOK, out)
}
