package api_test

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spectriclabs/sigmap-service/internal/api"
	"github.com/spectriclabs/sigmap-service/internal/cache"
	"github.com/spectriclabs/sigmap-service/internal/colorrange"
	"github.com/spectriclabs/sigmap-service/internal/config"
	"github.com/spectriclabs/sigmap-service/internal/points"
	"github.com/spectriclabs/sigmap-service/internal/viewstate"
)

const mappingJSON = `{"marker-1":{"x":0,"y":0,"width":128,"height":128,"anchorY":128,"mask":true}}`

func newTestAPI(t *testing.T) *api.API {
	dir, err := ioutil.TempDir("", "sigmap-api")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "location-icon-mapping.json"), []byte(mappingJSON), 0644))

	cfg := &config.Config{
		UseCache:     false,
		NumColors:    6,
		MaxColors:    64,
		Strategy:     colorrange.DirectName,
		IconLocation: "icons",
		IconAtlas:    "location-icon-atlas.png",
		IconMapping:  "location-icon-mapping.json",
		CellSizes:    viewstate.DefaultCellSizes,
		MapView:      viewstate.DefaultMapView,
		Points:       points.Sets{Seed: 1, Many: 200, Few: 5, Bounds: points.DefaultBounds},
		LocationDetails: []config.Location{
			{LocationName: "icons", LocationType: "localFile", Path: dir},
		},
	}
	return api.NewSigmapAPI(cfg, zap.NewNop())
}

func request(method, target string, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestGetColorRange(t *testing.T) {
	a := newTestAPI(t)

	c, rec := request(http.MethodGet, "/api/colorrange?start=0,0,0,1&end=100,100,100,1&num=3", "")
	if assert.NoError(t, a.GetColorRange(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		var resp api.ColorRangeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, colorrange.DirectName, resp.Strategy)
		assert.Equal(t, 3, resp.Num)
		assert.Equal(t, [][4]float64{
			{0, 0, 0, 255},
			{50, 50, 50, 255},
			{100, 100, 100, 255},
		}, resp.ColorRange)
	}

	// no anchors means the panel defaults and the configured count
	c, rec = request(http.MethodGet, "/api/colorrange", "")
	if assert.NoError(t, a.GetColorRange(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		var resp api.ColorRangeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Anchors, 3)
		assert.Len(t, resp.ColorRange, 6)
		assert.Equal(t, [4]float64{0, 112, 19, 255}, resp.ColorRange[0])
		assert.Equal(t, [4]float64{241, 112, 19, 255}, resp.ColorRange[5])
	}
}

func TestGetColorRangeRejects(t *testing.T) {
	a := newTestAPI(t)

	tests := []struct {
		name   string
		target string
	}{
		{"count too small", "/api/colorrange?start=0,0,0,1&end=1,1,1,1&num=1"},
		{"odd three anchor count", "/api/colorrange?num=5"},
		{"bad count", "/api/colorrange?num=many"},
		{"bad anchor", "/api/colorrange?start=nope"},
		{"unknown strategy", "/api/colorrange?strategy=rainbow"},
		{"too many colors", "/api/colorrange?start=0,0,0,1&end=1,1,1,1&num=3000000"},
		{"just over the maximum", "/api/colorrange?start=0,0,0,1&end=1,1,1,1&num=65"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := request(http.MethodGet, tt.target, "")
			if assert.NoError(t, a.GetColorRange(c)) {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.NotEmpty(t, rec.Body.String())
			}
		})
	}
}

func TestGetColorRangeLegend(t *testing.T) {
	a := newTestAPI(t)

	c, rec := request(http.MethodGet, "/api/colorrange.png?width=60&height=10", "")
	if assert.NoError(t, a.GetColorRangeLegend(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
		img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, 60, img.Bounds().Dx())
		assert.Equal(t, 10, img.Bounds().Dy())
	}

	c, rec = request(http.MethodGet, "/api/colorrange.png?start=0,0,0,1&end=1,1,1,1&num=64&width=64", "")
	if assert.NoError(t, a.GetColorRangeLegend(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	c, rec = request(http.MethodGet, "/api/colorrange.png?start=0,0,0,1&end=1,1,1,1&num=3000000&width=4096", "")
	if assert.NoError(t, a.GetColorRangeLegend(c)) {
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}

	c, rec = request(http.MethodGet, "/api/colorrange.png?width=0", "")
	if assert.NoError(t, a.GetColorRangeLegend(c)) {
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestGetStrategies(t *testing.T) {
	a := newTestAPI(t)
	c, rec := request(http.MethodGet, "/api/strategies", "")
	if assert.NoError(t, a.GetStrategies(c)) {
		var names []string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &names))
		assert.Equal(t, colorrange.Names(), names)
	}
}

func TestState(t *testing.T) {
	a := newTestAPI(t)

	c, rec := request(http.MethodGet, "/api/state", "")
	require.NoError(t, a.GetInitialState(c))
	var initial api.StateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &initial))
	assert.True(t, initial.State.VisibleGrid)
	assert.Equal(t, "rgba(0, 112, 19, 1)", initial.Swatches[0])
	require.NotNil(t, initial.MapView)
	assert.Equal(t, viewstate.DefaultMapView, *initial.MapView)

	stateJSON, err := json.Marshal(initial.State)
	require.NoError(t, err)

	body := `{"state":` + string(stateJSON) + `,"event":{"type":"toggleGrid","checked":false}}`
	c, rec = request(http.MethodPost, "/api/state", body)
	if assert.NoError(t, a.ReduceState(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		var next api.StateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &next))
		assert.False(t, next.State.VisibleGrid)
		assert.True(t, next.State.VisibleIcons)
		assert.Nil(t, next.MapView)
	}

	body = `{"state":` + string(stateJSON) + `,"event":{"type":"changeColor","index":1,"color":{"r":10,"g":20,"b":30,"a":0.5}}}`
	c, rec = request(http.MethodPost, "/api/state", body)
	if assert.NoError(t, a.ReduceState(c)) {
		var next api.StateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &next))
		assert.Equal(t, "rgba(10, 20, 30, 0.5)", next.Swatches[1])
	}

	for _, body := range []string{
		`{"state":` + string(stateJSON) + `}`,
		`{"state":` + string(stateJSON) + `,"event":{"type":"explode"}}`,
		`{"state":` + string(stateJSON) + `,"event":{"type":"togglePicker","index":7}}`,
	} {
		c, rec = request(http.MethodPost, "/api/state", body)
		if assert.NoError(t, a.ReduceState(c)) {
			assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		}
	}
}

func TestBuildLayers(t *testing.T) {
	a := newTestAPI(t)
	stateJSON, err := json.Marshal(viewstate.Initial(viewstate.DefaultCellSizes))
	require.NoError(t, err)

	c, rec := request(http.MethodPost, "/api/layers", string(stateJSON))
	if assert.NoError(t, a.BuildLayers(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		var out []map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		require.Len(t, out, 2)
		assert.Equal(t, "GridLayer", out[0]["type"])
		assert.Len(t, out[0]["colorRange"], 6)
		assert.Len(t, out[0]["data"], 200)
		assert.Equal(t, "IconLayer", out[1]["type"])
		assert.Equal(t, "/api/assets/icons/location-icon-mapping.json", out[1]["iconMapping"])
		assert.Len(t, out[1]["data"], 5)
	}

	c, rec = request(http.MethodPost, "/api/layers?strategy=rainbow", string(stateJSON))
	if assert.NoError(t, a.BuildLayers(c)) {
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestGetPoints(t *testing.T) {
	a := newTestAPI(t)

	c, rec := request(http.MethodGet, "/api/points/few", "")
	c.SetParamNames("set")
	c.SetParamValues("few")
	if assert.NoError(t, a.GetPoints(c)) {
		var pts []points.Point
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pts))
		assert.Len(t, pts, 5)
		for _, p := range pts {
			assert.True(t, points.DefaultBounds.Contains(p))
		}
	}

	c, rec = request(http.MethodGet, "/api/points/few?labels=true", "")
	c.SetParamNames("set")
	c.SetParamValues("few")
	if assert.NoError(t, a.GetPoints(c)) {
		var labels []string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &labels))
		assert.Len(t, labels, 5)
		assert.Contains(t, labels[0], ", ")
	}

	c, rec = request(http.MethodGet, "/api/points/some", "")
	c.SetParamNames("set")
	c.SetParamValues("some")
	if assert.NoError(t, a.GetPoints(c)) {
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestGetGrid(t *testing.T) {
	a := newTestAPI(t)

	c, rec := request(http.MethodGet, "/api/grid?cellSize=2000&num=4", "")
	if assert.NoError(t, a.GetGrid(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		var resp api.GridResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 2000, resp.CellSize)
		assert.Equal(t, 4, resp.Num)
		total := 0.0
		for _, cell := range resp.Cells {
			total += cell.Count
			assert.True(t, cell.Bucket >= 0 && cell.Bucket < 4)
			assert.LessOrEqual(t, cell.Count, resp.MaxCount)
		}
		assert.Equal(t, 200.0, total)
	}

	c, rec = request(http.MethodGet, "/api/grid?zoom=12", "")
	if assert.NoError(t, a.GetGrid(c)) {
		var resp api.GridResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, viewstate.DefaultCellSizes.Fine, resp.CellSize)
	}

	for _, target := range []string{"/api/grid?zoom=far", "/api/grid?cellSize=-1", "/api/grid?num=0", "/api/grid?num=1000"} {
		c, rec = request(http.MethodGet, target, "")
		if assert.NoError(t, a.GetGrid(c)) {
			assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		}
	}
}

func TestAssets(t *testing.T) {
	a := newTestAPI(t)

	c, rec := request(http.MethodGet, "/api/assets", "")
	if assert.NoError(t, a.GetAssetLocations(c)) {
		assert.Equal(t, `[{"location_name":"icons","location_type":"localFile"}]`, strings.TrimSpace(rec.Body.String()))
	}

	c, rec = request(http.MethodGet, "/api/assets/icons/location-icon-mapping.json", "")
	c.SetParamNames("location", "*")
	c.SetParamValues("icons", "location-icon-mapping.json")
	if assert.NoError(t, a.GetAsset(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, echo.MIMEApplicationJSON, rec.Header().Get(echo.HeaderContentType))
		assert.Equal(t, mappingJSON, rec.Body.String())
	}

	c, rec = request(http.MethodGet, "/api/assets/icons/missing.png", "")
	c.SetParamNames("location", "*")
	c.SetParamValues("icons", "missing.png")
	if assert.NoError(t, a.GetAsset(c)) {
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	c, rec = request(http.MethodGet, "/api/icons", "")
	if assert.NoError(t, a.GetIconMapping(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, mappingJSON, rec.Body.String())
	}
}

func TestCachedResponsesDoNotCollide(t *testing.T) {
	a := newTestAPI(t)
	a.Cfg.UseCache = true
	a.Cache.Location = a.Cfg.LocationDetails[0].Path
	require.NoError(t, a.Cache.Setup())

	get := func(target string) api.GridResponse {
		c, rec := request(http.MethodGet, target, "")
		require.NoError(t, a.GetGrid(c))
		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.GridResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp
	}
	cached := func(target string) bool {
		_, err := a.Cache.GetDataFromCache(cache.UrlToCacheFileName(target), cache.ResponseDir)
		return err == nil
	}

	assert.Equal(t, viewstate.DefaultCellSizes.Coarse, get("/api/grid?zoom=10.5").CellSize)
	require.Eventually(t, func() bool { return cached("/api/grid?zoom=10.5") }, 5*time.Second, 10*time.Millisecond)

	assert.False(t, cached("/api/grid?zoom=105"))
	assert.Equal(t, viewstate.DefaultCellSizes.Fine, get("/api/grid?zoom=105").CellSize)
	require.Eventually(t, func() bool { return cached("/api/grid?zoom=105") }, 5*time.Second, 10*time.Millisecond)

	// both answers are served from the cache now
	assert.Equal(t, viewstate.DefaultCellSizes.Coarse, get("/api/grid?zoom=10.5").CellSize)
	assert.Equal(t, viewstate.DefaultCellSizes.Fine, get("/api/grid?zoom=105").CellSize)
}
