package domain

import "time"

// WeatherObservation holds current and near-term conditions for a coordinate.
// Rainfall fields are accumulations in millimeters; ForecastRain24h is the
// predicted accumulation over the next 24 hours.
type WeatherObservation struct {
	Temperature     float64 `json:"temperature"`       // °C
	Humidity        float64 `json:"humidity"`          // %
	Pressure        float64 `json:"pressure"`          // hPa
	WindSpeed       float64 `json:"wind_speed"`        // km/h
	Rainfall24h     float64 `json:"rainfall_24h"`      // mm
	Rainfall72h     float64 `json:"rainfall_72h"`      // mm
	ForecastRain24h float64 `json:"forecast_rain_24h"` // mm
}

// SeismicSummary aggregates earthquake activity within a fixed radius and
// lookback window. Magnitudes are zero when no events were recorded.
type SeismicSummary struct {
	Count        int     `json:"count"`
	MaxMagnitude float64 `json:"max_magnitude"`
	AvgMagnitude float64 `json:"avg_magnitude"`
}

// TerrainProfile describes the terrain at a coordinate. TerrainVariation is
// the elevation spread (max minus min) across a small probe radius around
// the point, in meters.
type TerrainProfile struct {
	Elevation        float64 `json:"elevation"`         // m above sea level
	SlopeDegrees     float64 `json:"slope_degrees"`     // °
	TerrainVariation float64 `json:"terrain_variation"` // m
}

// Incident is a recorded historical landslide event.
type Incident struct {
	Location   Coordinate `json:"location"`
	OccurredAt time.Time  `json:"occurred_at"`
	Severity   string     `json:"severity"`
	Notes      string     `json:"notes,omitempty"`
}

// RawSignalBundle is the union of raw readings gathered for one coordinate
// at one instant. Nil pointer fields mark sources that could not be queried.
// The bundle is built fresh per prediction request and never persisted.
type RawSignalBundle struct {
	Weather   *WeatherObservation
	Seismic   *SeismicSummary
	Terrain   *TerrainProfile
	Incidents []Incident
}
