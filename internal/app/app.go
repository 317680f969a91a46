package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.elastic.co/apm/module/apmhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spectriclabs/sigmap-service/internal/api"
	"github.com/spectriclabs/sigmap-service/internal/cache"
	"github.com/spectriclabs/sigmap-service/internal/colorpicker"
	"github.com/spectriclabs/sigmap-service/internal/colorrange"
	"github.com/spectriclabs/sigmap-service/internal/config"
	"github.com/spectriclabs/sigmap-service/internal/points"
	"github.com/spectriclabs/sigmap-service/internal/viewstate"
	"github.com/spectriclabs/sigmap-service/ui"
)

func Run() {
	fs := NewFlagSet()
	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Fatalf("Couldn't parse flags: %v", err)
	}
	debug, _ := fs.GetBool("debug")

	logger := SetupLogger(debug)
	defer logger.Sync()

	cfg, err := LoadConfig(fs)
	if err != nil {
		logger.Fatal("Error loading configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.UseCache {
		SetupCache(ctx, logger, cfg)
	}

	// Setup API
	sigmapapi := api.NewSigmapAPI(cfg, logger)

	// Setup HTTP server
	e := SetupServer(sigmapapi)

	// Run server
	address := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	go func() {
		logger.Info("Starting server", zap.String("address", address))
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			logger.Error("Server stopped", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	logger.Info("Shutting down the server")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Error shutting down", zap.Error(err))
	}
}

// Default returns the configuration used for anything neither a flag
// nor the config file sets.
func Default() *config.Config {
	return &config.Config{
		Host:                 "0.0.0.0",
		Port:                 5055,
		ConfigFile:           "./sigmapConfig.json",
		UseCache:             true,
		CacheLocation:        "./sigmapcache/",
		CachePollingInterval: 60,
		CacheMaxBytes:        100000000,
		Metrics:              true,
		NumColors:            6,
		MaxColors:            256,
		Strategy:             colorrange.DirectName,
		IconLocation:         "icons",
		IconAtlas:            "location-icon-atlas.png",
		IconMapping:          "location-icon-mapping.json",
		CellSizes:            viewstate.DefaultCellSizes,
		MapView:              viewstate.DefaultMapView,
		Points:               points.DefaultSets,
	}
}

// NewFlagSet declares the command line flags. Defaults come from
// Default so the flag help shows the effective values.
func NewFlagSet() *pflag.FlagSet {
	d := Default()
	fs := pflag.NewFlagSet("sigmap", pflag.ContinueOnError)
	fs.StringP("host", "i", d.Host, "Host where the server will run")
	fs.IntP("port", "p", d.Port, "Port where the server will run")
	fs.BoolP("debug", "d", false, "Whether or not to enable debug logging")
	fs.StringP("config", "c", d.ConfigFile, "Location of the config file (JSON or YAML)")
	fs.BoolP("use-cache", "u", d.UseCache, "Use the response cache. Can be disabled for certain cases like testing.")
	fs.StringP("cache-location", "C", d.CacheLocation, "Where the cache will be stored")
	fs.IntP("cache-polling-interval", "P", d.CachePollingInterval, "How often to check the cache (in seconds)")
	fs.Int64P("cache-max-bytes", "m", d.CacheMaxBytes, "How large to allow the cache to be")
	fs.Bool("metrics", d.Metrics, "Expose Prometheus metrics on /metrics")
	fs.Bool("tracing", d.Tracing, "Trace requests with the Elastic APM agent")
	fs.IntP("num-colors", "n", d.NumColors, "Default number of colors in a color range")
	fs.Int("max-colors", d.MaxColors, "Largest number of colors a request may ask for")
	fs.StringP("strategy", "s", d.Strategy, "Default color range strategy ("+strings.Join(colorrange.Names(), ", ")+")")
	fs.String("icon-location", d.IconLocation, "Configured location holding the icon atlas and mapping")
	return fs
}

// LoadConfig overlays the config file named by the parsed flag set on
// the defaults. Flags given explicitly win over the file.
func LoadConfig(fs *pflag.FlagSet) (*config.Config, error) {
	v := viper.New()
	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil {
			bindErr = err
		}
	})
	if bindErr != nil {
		return nil, bindErr
	}

	cfgFile := v.GetString("config")
	if _, err := os.Stat(cfgFile); err == nil {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", cfgFile, err)
		}
	} else if fs.Changed("config") {
		return nil, fmt.Errorf("config file %s: %w", cfgFile, err)
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that would fail every request or crash
// a background goroutine once the server runs.
func Validate(cfg *config.Config) error {
	strategy, err := colorrange.Lookup(cfg.Strategy)
	if err != nil {
		return err
	}
	if cfg.MaxColors < 2 {
		return fmt.Errorf("max_colors must be at least 2; given %d", cfg.MaxColors)
	}
	if cfg.NumColors > cfg.MaxColors {
		return fmt.Errorf("num_colors %d exceeds max_colors %d", cfg.NumColors, cfg.MaxColors)
	}
	// The panel always starts with three anchors.
	anchors := make([]colorrange.Color, len(colorpicker.Defaults))
	for i, p := range colorpicker.Defaults {
		anchors[i] = p.ToColor()
	}
	if _, err := strategy.Build(anchors, cfg.NumColors); err != nil {
		return fmt.Errorf("num_colors: %w", err)
	}

	if cfg.UseCache {
		if cfg.CachePollingInterval <= 0 {
			return fmt.Errorf("cache_polling_interval must be positive; given %d", cfg.CachePollingInterval)
		}
		if cfg.CacheMaxBytes <= 0 {
			return fmt.Errorf("cache_max_bytes must be positive; given %d", cfg.CacheMaxBytes)
		}
	}
	if cfg.Points.Many < 0 || cfg.Points.Few < 0 {
		return fmt.Errorf("points.many and points.few must not be negative; given %d and %d", cfg.Points.Many, cfg.Points.Few)
	}
	if cfg.Points.Bounds.Span <= 0 {
		return fmt.Errorf("points.bounds.span must be positive; given %v", cfg.Points.Bounds.Span)
	}
	if cfg.CellSizes.Fine <= 0 || cfg.CellSizes.Coarse <= 0 {
		return fmt.Errorf("cell_sizes.fine and cell_sizes.coarse must be positive; given %d and %d", cfg.CellSizes.Fine, cfg.CellSizes.Coarse)
	}
	return nil
}

// SetupLogger sets up the zap.Logger structured logger.
func SetupLogger(debug bool) *zap.Logger {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	logger, logErr := zap.Config{
		Encoding:    "json",
		Level:       zap.NewAtomicLevelAt(level),
		OutputPaths: []string{"stdout"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:  "message",
			LevelKey:    "level",
			EncodeLevel: zapcore.CapitalLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.ISO8601TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}.Build()
	if logErr != nil {
		log.Fatalf("Couldn't setup logger: %v", logErr)
	}

	return logger
}

func SetupServer(a *api.API) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Debug = a.Cfg.Debug

	// Setup Middleware
	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	if a.Cfg.Tracing {
		e.Use(echo.WrapMiddleware(func(h http.Handler) http.Handler {
			return apmhttp.Wrap(h)
		}))
	}

	// Color range routes
	e.GET("/api/strategies", a.GetStrategies)
	e.GET("/api/colorrange", a.GetColorRange)
	e.GET("/api/colorrange.png", a.GetColorRangeLegend)

	// Panel state and layer routes
	e.GET("/api/state", a.GetInitialState)
	e.POST("/api/state", a.ReduceState)
	e.POST("/api/layers", a.BuildLayers)

	// Data routes
	e.GET("/api/points/:set", a.GetPoints)
	e.GET("/api/grid", a.GetGrid)

	// Asset routes
	e.GET("/api/icons", a.GetIconMapping)
	e.GET("/api/assets", a.GetAssetLocations)
	e.GET("/api/assets/:location/*", a.GetAsset)

	// Control panel page
	e.GET("/ui", func(c echo.Context) error {
		index, err := ui.LoadUI()
		if err != nil {
			return err
		}
		return c.HTMLBlob(http.StatusOK, index)
	})
	webappFS := http.FileServer(ui.GetFileSystem())
	e.GET("/ui/*", echo.WrapHandler(http.StripPrefix("/ui/", webappFS)))

	// Add Prometheus as middleware for metrics gathering
	if a.Cfg.Metrics {
		p := prometheus.NewPrometheus("sigmap", nil)
		p.Use(e)
	}

	return e
}

// SetupCache will setup a cache directory and kick off cache
// checking goroutines that stop with ctx.
func SetupCache(ctx context.Context, logger *zap.Logger, cfg *config.Config) {
	c := &cache.Cache{Location: cfg.CacheLocation}
	if err := c.Setup(); err != nil {
		logger.Error("Error creating cache directories", zap.String("cache_location", cfg.CacheLocation), zap.Error(err))
		return
	}

	for _, dir := range []string{cache.ResponseDir, cache.MinioDir} {
		go cache.CheckCache(
			ctx,
			logger,
			filepath.Join(cfg.CacheLocation, dir),
			cfg.CachePollingInterval,
			cfg.CacheMaxBytes,
		)
	}
}
