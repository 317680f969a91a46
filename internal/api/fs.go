package api

import (
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/spectriclabs/sigmap-service/internal/assets"
)

// LocationInfo is the public part of a configured location.
type LocationInfo struct {
	LocationName string `json:"location_name"`
	LocationType string `json:"location_type"`
}

// GetAssetLocations handles GET /api/assets. Credentials and paths
// stay on the server.
func (a *API) GetAssetLocations(c echo.Context) error {
	out := make([]LocationInfo, len(a.Cfg.LocationDetails))
	for i, l := range a.Cfg.LocationDetails {
		out[i] = LocationInfo{LocationName: l.LocationName, LocationType: l.LocationType}
	}
	return c.JSON(http.StatusOK, out)
}

// GetAsset handles GET /api/assets/:location/* and streams the file.
func (a *API) GetAsset(c echo.Context) error {
	filePath := c.Param("*")
	locationName := c.Param("location")

	reader, err := a.Assets.Open(c.Request().Context(), locationName, filePath)
	if errors.Is(err, assets.ErrNotFound) {
		return c.String(http.StatusNotFound, err.Error())
	}
	if err != nil {
		a.Logger.Error(
			"Error opening asset",
			zap.String("location", locationName),
			zap.String("path", filePath),
			zap.Error(err),
		)
		return c.String(http.StatusBadRequest, err.Error())
	}
	defer assets.Close(reader)

	return c.Stream(http.StatusOK, contentType(filePath), reader)
}

func contentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return "image/png"
	case ".json":
		return echo.MIMEApplicationJSON
	}
	return echo.MIMEOctetStream
}

// assetURL is the client URL of an asset on the icon location.
func (a *API) assetURL(name string) string {
	return path.Join("/api/assets", a.Cfg.IconLocation, name)
}

// GetIconMapping handles GET /api/icons: the decoded icon mapping,
// validated before the client sees it.
func (a *API) GetIconMapping(c echo.Context) error {
	mapping, err := a.Assets.LoadIconMapping(c.Request().Context(), a.Cfg.IconLocation, a.Cfg.IconMapping)
	if errors.Is(err, assets.ErrNotFound) {
		return c.String(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapping)
}
