package config

import (
	"github.com/spectriclabs/sigmap-service/internal/points"
	"github.com/spectriclabs/sigmap-service/internal/viewstate"
)

type Config struct {
	Host                 string              `json:"host,omitempty" mapstructure:"host"`
	Port                 int                 `json:"port,omitempty" mapstructure:"port"`
	Debug                bool                `json:"debug,omitempty" mapstructure:"debug"`
	ConfigFile           string              `json:"config_file,omitempty" mapstructure:"config"`
	UseCache             bool                `json:"use_cache,omitempty" mapstructure:"use_cache"`
	CacheLocation        string              `json:"cache_location,omitempty" mapstructure:"cache_location"`
	CachePollingInterval int                 `json:"cache_polling_interval,omitempty" mapstructure:"cache_polling_interval"`
	CacheMaxBytes        int64               `json:"cache_max_bytes,omitempty" mapstructure:"cache_max_bytes"`
	Metrics              bool                `json:"metrics,omitempty" mapstructure:"metrics"`
	Tracing              bool                `json:"tracing,omitempty" mapstructure:"tracing"`
	NumColors            int                 `json:"num_colors,omitempty" mapstructure:"num_colors"`
	MaxColors            int                 `json:"max_colors,omitempty" mapstructure:"max_colors"`
	Strategy             string              `json:"strategy,omitempty" mapstructure:"strategy"`
	IconLocation         string              `json:"icon_location,omitempty" mapstructure:"icon_location"`
	IconAtlas            string              `json:"icon_atlas,omitempty" mapstructure:"icon_atlas"`
	IconMapping          string              `json:"icon_mapping,omitempty" mapstructure:"icon_mapping"`
	CellSizes            viewstate.CellSizes `json:"cell_sizes,omitempty" mapstructure:"cell_sizes"`
	MapView              viewstate.MapView   `json:"map_view,omitempty" mapstructure:"map_view"`
	Points               points.Sets         `json:"points,omitempty" mapstructure:"points"`
	LocationDetails      []Location          `json:"location_details,omitempty" mapstructure:"location_details"`
}

type Location struct {
	LocationName   string `json:"location_name" mapstructure:"location_name"`
	LocationType   string `json:"location_type" mapstructure:"location_type"`
	Path           string `json:"path,omitempty" mapstructure:"path"`
	MinioBucket    string `json:"minio_bucket,omitempty" mapstructure:"minio_bucket"`
	Location       string `json:"location,omitempty" mapstructure:"location"`
	MinioAccessKey string `json:"minio_access_key,omitempty" mapstructure:"minio_access_key"`
	MinioSecretKey string `json:"minio_secret_key,omitempty" mapstructure:"minio_secret_key"`
	MinioSecure    bool   `json:"minio_secure,omitempty" mapstructure:"minio_secure"`
}

// FindLocation returns the configured location named name.
func (c *Config) FindLocation(name string) (Location, bool) {
	for _, l := range c.LocationDetails {
		if l.LocationName == name {
			return l, true
		}
	}
	return Location{}, false
}
