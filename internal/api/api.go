package api

import (
	"errors"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/spectriclabs/sigmap-service/internal/assets"
	"github.com/spectriclabs/sigmap-service/internal/cache"
	"github.com/spectriclabs/sigmap-service/internal/colorrange"
	"github.com/spectriclabs/sigmap-service/internal/config"
	"github.com/spectriclabs/sigmap-service/internal/points"
	"github.com/spectriclabs/sigmap-service/internal/viewstate"
)

type API struct {
	Cfg     *config.Config
	Cache   *cache.Cache
	Logger  *zap.Logger
	Assets  *assets.DataSource
	Reducer viewstate.Reducer

	setsOnce sync.Once
	many     []points.Point
	few      []points.Point
}

func NewSigmapAPI(cfg *config.Config, logger *zap.Logger) *API {
	c := &cache.Cache{Location: cfg.CacheLocation}
	return &API{
		Cfg:     cfg,
		Cache:   c,
		Logger:  logger,
		Assets:  &assets.DataSource{Cfg: cfg, Cache: c, Logger: logger},
		Reducer: viewstate.Reducer{CellSizes: cfg.CellSizes},
	}
}

// pointSets generates both point sets on first use. They depend
// only on configuration, so every request shares them.
func (a *API) pointSets() (many, few []points.Point) {
	a.setsOnce.Do(func() {
		var err error
		if a.many, err = a.Cfg.Points.Get(points.Many); err != nil {
			a.Logger.Error("Error generating point set", zap.String("set", points.Many), zap.Error(err))
		}
		if a.few, err = a.Cfg.Points.Get(points.Few); err != nil {
			a.Logger.Error("Error generating point set", zap.String("set", points.Few), zap.Error(err))
		}
		a.Logger.Info(
			"Generated point sets",
			zap.Int("many", len(a.many)),
			zap.Int("few", len(a.few)),
			zap.Uint64("seed", a.Cfg.Points.Seed),
		)
	})
	return a.many, a.few
}

// cached returns the cached response for the request URL, or
// computes, caches and returns it.
func (a *API) cached(c echo.Context, compute func() ([]byte, error)) ([]byte, error) {
	cacheFileName := cache.UrlToCacheFileName(c.Request().URL.String())
	if a.Cfg.UseCache {
		if data, err := a.Cache.GetDataFromCache(cacheFileName, cache.ResponseDir); err == nil {
			a.Logger.Debug("Request in cache - returning data from cache", zap.String("cache_file", cacheFileName))
			return data, nil
		}
	}

	data, err := compute()
	if err != nil {
		return nil, err
	}
	if a.Cfg.UseCache {
		go func() {
			if err := a.Cache.PutItemInCache(cacheFileName, cache.ResponseDir, data); err != nil {
				a.Logger.Warn("Error writing response to cache", zap.Error(err))
			}
		}()
	}
	return data, nil
}

// badRequest answers client faults with their message, the way every
// handler here reports invalid input.
func (a *API) badRequest(c echo.Context, err error) error {
	a.Logger.Info(
		"Rejected request",
		zap.String("uri", c.Request().RequestURI),
		zap.Error(err),
	)
	return c.String(http.StatusBadRequest, err.Error())
}

// isBuildError reports errors caused by the anchors or count a
// client asked for.
func isBuildError(err error) bool {
	var countErr *colorrange.InvalidCountError
	var channelErr *colorrange.ChannelMismatchError
	var anchorErr *colorrange.AnchorCountError
	var strategyErr *colorrange.UnknownStrategyError
	return errors.As(err, &countErr) ||
		errors.As(err, &channelErr) ||
		errors.As(err, &anchorErr) ||
		errors.As(err, &strategyErr)
}
