package risk

import (
	"fmt"

	"github.com/slopewatch/landslide-risk/internal/domain"
)

// environmentalConfidence is reported whenever live weather data was
// available. It does not scale with how many sub-factors were computable;
// seismic or terrain gaps are skipped inside the additive scheme without
// lowering it.
const environmentalConfidence = 0.85

// Engine-substituted fallback for a failed environmental branch.
const (
	environmentalFallbackScore      = 0.5
	environmentalFallbackConfidence = 0.3
)

// significantMagnitude is the magnitude floor below which seismic events do
// not contribute to the environmental score.
const significantMagnitude = 4.0

// EnvironmentalScore converts raw weather, seismic, and terrain readings
// into a single bounded risk contribution using an additive point system.
// Each triggered condition is named in Factors. Weather is the backbone of
// the calculation: a bundle without it fails fast with ErrSourceUnavailable
// and the engine substitutes the neutral fallback. Missing seismic or
// terrain readings only skip their own factors.
func EnvironmentalScore(bundle domain.RawSignalBundle) (domain.SourceScore, error) {
	w := bundle.Weather
	if w == nil {
		return domain.SourceScore{}, fmt.Errorf("%w: weather data missing", domain.ErrSourceUnavailable)
	}

	var score float64
	var factors []string

	add := func(points float64, format string, args ...any) {
		score += points
		factors = append(factors, fmt.Sprintf(format, args...))
	}

	// Recent rainfall, banded; below the lowest band the contribution
	// scales proportionally toward it.
	switch {
	case w.Rainfall24h > 50:
		add(0.30, "extreme rainfall in last 24h (%.1f mm)", w.Rainfall24h)
	case w.Rainfall24h > 20:
		add(0.15, "heavy rainfall in last 24h (%.1f mm)", w.Rainfall24h)
	case w.Rainfall24h > 10:
		add(0.08, "moderate rainfall in last 24h (%.1f mm)", w.Rainfall24h)
	case w.Rainfall24h > 0:
		score += w.Rainfall24h / 10 * 0.08
	}

	switch {
	case w.ForecastRain24h > 100:
		add(0.20, "extreme rainfall forecast next 24h (%.1f mm)", w.ForecastRain24h)
	case w.ForecastRain24h > 50:
		add(0.10, "heavy rainfall forecast next 24h (%.1f mm)", w.ForecastRain24h)
	}

	switch {
	case w.Humidity > 85:
		add(0.10, "very high humidity (%.0f%%)", w.Humidity)
	case w.Humidity > 75:
		add(0.05, "high humidity (%.0f%%)", w.Humidity)
	}

	var seismicTrigger bool
	if s := bundle.Seismic; s != nil && s.MaxMagnitude > significantMagnitude {
		seismicTrigger = true
		switch {
		case s.MaxMagnitude > 6.0:
			add(0.25, "major earthquake nearby (M%.1f)", s.MaxMagnitude)
		case s.MaxMagnitude > 5.0:
			add(0.15, "strong earthquake nearby (M%.1f)", s.MaxMagnitude)
		default:
			add(0.08, "seismic activity nearby (M%.1f)", s.MaxMagnitude)
		}
	}

	var slope float64
	if t := bundle.Terrain; t != nil {
		slope = t.SlopeDegrees
		switch {
		case t.SlopeDegrees > 35:
			add(0.20, "very steep slope (%.1f°)", t.SlopeDegrees)
		case t.SlopeDegrees > 25:
			add(0.12, "steep slope (%.1f°)", t.SlopeDegrees)
		case t.SlopeDegrees > 15:
			add(0.06, "moderate slope (%.1f°)", t.SlopeDegrees)
		}

		if t.Elevation >= 1500 && t.Elevation <= 3000 {
			add(0.05, "landslide-prone elevation band (%.0f m)", t.Elevation)
		}
		if t.TerrainVariation > 100 {
			add(0.05, "high terrain variation (%.0f m)", t.TerrainVariation)
		}
	}

	// Compound conditions: saturated steep ground, and shaking on wet ground.
	if w.Rainfall24h > 30 && slope > 30 {
		add(0.10, "heavy rain on steep slope")
	}
	if seismicTrigger && w.Rainfall24h > 10 {
		add(0.08, "seismic activity with rain-saturated ground")
	}

	if score > 1.0 {
		score = 1.0
	}

	return domain.SourceScore{
		Score:      score,
		Confidence: environmentalConfidence,
		Factors:    factors,
	}, nil
}

// EnvironmentalFallback is the neutral substitute used by the engine when
// the environmental branch fails: middle-of-the-road score, low confidence.
func EnvironmentalFallback() domain.SourceScore {
	return domain.SourceScore{
		Score:      environmentalFallbackScore,
		Confidence: environmentalFallbackConfidence,
	}
}
