package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/spectriclabs/sigmap-service/internal/colorpicker"
	"github.com/spectriclabs/sigmap-service/internal/colorrange"
	"github.com/spectriclabs/sigmap-service/internal/image"
)

// ColorRangeResponse is the body of GET /api/colorrange.
type ColorRangeResponse struct {
	Strategy   string             `json:"strategy"`
	Num        int                `json:"num"`
	Anchors    []colorrange.Color `json:"anchors"`
	ColorRange [][4]float64       `json:"colorRange"`
}

// rangeRequest holds the parsed query of a color range request.
type rangeRequest struct {
	Strategy colorrange.Strategy
	Num      int
	Anchors  []colorrange.Color
}

// parseRangeRequest reads start, mid, end, num and strategy from the
// query. With no anchors given the panel defaults are used; with
// start or end given and mid omitted the range has two anchors.
func (a *API) parseRangeRequest(c echo.Context) (rangeRequest, error) {
	req := rangeRequest{Num: a.Cfg.NumColors}

	name := c.QueryParam("strategy")
	if name == "" {
		name = a.Cfg.Strategy
	}
	strategy, err := colorrange.Lookup(name)
	if err != nil {
		return req, err
	}
	req.Strategy = strategy

	if s := c.QueryParam("num"); s != "" {
		req.Num, err = strconv.Atoi(s)
		if err != nil {
			return req, fmt.Errorf("num must be an integer; given %q", s)
		}
		if err := a.checkNumColors(req.Num); err != nil {
			return req, err
		}
	}

	start, mid, end := c.QueryParam("start"), c.QueryParam("mid"), c.QueryParam("end")
	if start == "" && mid == "" && end == "" {
		for _, p := range colorpicker.Defaults {
			req.Anchors = append(req.Anchors, p.ToColor())
		}
		return req, nil
	}

	names := []string{"start", "mid", "end"}
	values := []string{start, mid, end}
	for i, v := range values {
		if v == "" {
			if names[i] == "mid" {
				continue
			}
			v = defaultAnchor(i)
		}
		p, err := colorpicker.ParseAnchor(v)
		if err != nil {
			return req, fmt.Errorf("%s: %w", names[i], err)
		}
		req.Anchors = append(req.Anchors, p.ToColor())
	}
	return req, nil
}

// checkNumColors bounds the colors one request may ask for.
func (a *API) checkNumColors(n int) error {
	if n > a.Cfg.MaxColors {
		return fmt.Errorf("num must be at most %d; given %d", a.Cfg.MaxColors, n)
	}
	return nil
}

func defaultAnchor(i int) string {
	p := colorpicker.Defaults[i]
	return fmt.Sprintf("%d,%d,%d,%v", p.R, p.G, p.B, p.A)
}

// GetColorRange handles GET /api/colorrange.
func (a *API) GetColorRange(c echo.Context) error {
	req, err := a.parseRangeRequest(c)
	if err != nil {
		return a.badRequest(c, err)
	}
	r, err := req.Strategy.Build(req.Anchors, req.Num)
	if err != nil {
		if isBuildError(err) {
			return a.badRequest(c, err)
		}
		return err
	}
	return c.JSON(http.StatusOK, ColorRangeResponse{
		Strategy:   req.Strategy.Name(),
		Num:        req.Num,
		Anchors:    req.Anchors,
		ColorRange: r.Tuples(),
	})
}

// GetColorRangeLegend handles GET /api/colorrange.png, drawing the
// same range GetColorRange returns.
func (a *API) GetColorRangeLegend(c echo.Context) error {
	req, err := a.parseRangeRequest(c)
	if err != nil {
		return a.badRequest(c, err)
	}
	width, height := 240, 24
	if s := c.QueryParam("width"); s != "" {
		if width, err = strconv.Atoi(s); err != nil {
			return a.badRequest(c, fmt.Errorf("width must be an integer; given %q", s))
		}
	}
	if s := c.QueryParam("height"); s != "" {
		if height, err = strconv.Atoi(s); err != nil {
			return a.badRequest(c, fmt.Errorf("height must be an integer; given %q", s))
		}
	}

	r, err := req.Strategy.Build(req.Anchors, req.Num)
	if err != nil {
		if isBuildError(err) {
			return a.badRequest(c, err)
		}
		return err
	}
	var buf bytes.Buffer
	if err := image.WriteLegend(&buf, r, width, height); err != nil {
		return a.badRequest(c, err)
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// GetStrategies handles GET /api/strategies.
func (a *API) GetStrategies(c echo.Context) error {
	return c.JSON(http.StatusOK, colorrange.Names())
}
