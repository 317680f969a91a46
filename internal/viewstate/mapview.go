package viewstate

// MapView is the initial camera handed to the map client.
type MapView struct {
	Longitude float64 `json:"longitude" mapstructure:"longitude"`
	Latitude  float64 `json:"latitude" mapstructure:"latitude"`
	Zoom      float64 `json:"zoom" mapstructure:"zoom"`
	MinZoom   float64 `json:"minZoom" mapstructure:"min_zoom"`
	MaxZoom   float64 `json:"maxZoom" mapstructure:"max_zoom"`
	Pitch     float64 `json:"pitch" mapstructure:"pitch"`
	Bearing   float64 `json:"bearing" mapstructure:"bearing"`
}

// DefaultMapView centers on Bangkok.
var DefaultMapView = MapView{
	Longitude: 100.55,
	Latitude:  13.75,
	Zoom:      11,
	MinZoom:   9,
	MaxZoom:   20,
}
