package weather

// Icon is one symbol from the closed set of weather categories.
type Icon string

const (
	IconThunderstorm Icon = "⛈️"
	IconRain         Icon = "🌧️"
	IconSnow         Icon = "❄️"
	IconMist         Icon = "🌫️"
	IconClear        Icon = "☀️"
	IconClouds       Icon = "☁️"
)

// Source tells whether a snapshot came from the provider or is the fallback.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Default coordinates (Seoul City Hall) used when the caller omits them.
const (
	DefaultLatitude  = 37.5665
	DefaultLongitude = 126.9780
)

// Coordinates is a point on the map in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lng"`
}

// Valid reports whether c is a point on the globe. NaN and ±Inf are not.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// DefaultCoordinates returns the fixed reference location.
func DefaultCoordinates() Coordinates {
	return Coordinates{Lat: DefaultLatitude, Lon: DefaultLongitude}
}

// Query identifies the place to look up. Coordinates win over City;
// with neither set the default coordinates are used.
type Query struct {
	Coordinates *Coordinates
	City        string
	Country     string
}

// Snapshot is the normalized current-weather view returned to clients.
type Snapshot struct {
	Temperature float64 `json:"temp"` // Celsius, one decimal
	Condition   string  `json:"condition"`
	Icon        Icon    `json:"icon"`
}

// FallbackSnapshot is returned whenever the upstream provider cannot be used.
func FallbackSnapshot() Snapshot {
	return Snapshot{
		Temperature: 18.0,
		Condition:   "맑음",
		Icon:        IconClear,
	}
}
