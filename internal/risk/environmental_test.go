package risk_test

import (
	"testing"

	"github.com/slopewatch/landslide-risk/internal/domain"
	"github.com/slopewatch/landslide-risk/internal/risk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weatherOnly(w domain.WeatherObservation) domain.RawSignalBundle {
	return domain.RawSignalBundle{Weather: &w}
}

func TestEnvironmentalScore_MissingWeatherFailsFast(t *testing.T) {
	_, err := risk.EnvironmentalScore(domain.RawSignalBundle{
		Seismic: &domain.SeismicSummary{Count: 1, MaxMagnitude: 5.2},
		Terrain: &domain.TerrainProfile{SlopeDegrees: 40},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestEnvironmentalScore_RainfallBands(t *testing.T) {
	tests := []struct {
		name string
		rain float64
		want float64
	}{
		{"dry", 0, 0},
		{"light rain scales proportionally", 5, 0.04},
		{"lowest band boundary", 10, 0.08},
		{"moderate band", 15, 0.08},
		{"heavy band", 35, 0.15},
		{"extreme band", 60, 0.30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := risk.EnvironmentalScore(weatherOnly(domain.WeatherObservation{Rainfall24h: tt.rain}))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, score.Score, 1e-9)
		})
	}
}

func TestEnvironmentalScore_RainfallMonotonic(t *testing.T) {
	// Increasing rainfall_24h with all other factors fixed must never
	// decrease the score.
	prev := -1.0
	for rain := 0.0; rain <= 120; rain += 0.5 {
		score, err := risk.EnvironmentalScore(weatherOnly(domain.WeatherObservation{Rainfall24h: rain}))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, score.Score, prev, "rainfall %v", rain)
		prev = score.Score
	}
}

func TestEnvironmentalScore_SeismicBands(t *testing.T) {
	tests := []struct {
		name string
		mag  float64
		want float64
	}{
		{"below significance threshold", 4.0, 0},
		{"minor event", 4.5, 0.08},
		{"strong event", 5.5, 0.15},
		{"major event", 6.8, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle := weatherOnly(domain.WeatherObservation{})
			bundle.Seismic = &domain.SeismicSummary{Count: 3, MaxMagnitude: tt.mag}
			score, err := risk.EnvironmentalScore(bundle)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, score.Score, 1e-9)
		})
	}
}

func TestEnvironmentalScore_SlopeAndElevation(t *testing.T) {
	bundle := weatherOnly(domain.WeatherObservation{})
	bundle.Terrain = &domain.TerrainProfile{SlopeDegrees: 38, Elevation: 2000, TerrainVariation: 150}

	score, err := risk.EnvironmentalScore(bundle)
	require.NoError(t, err)

	// 0.20 slope + 0.05 elevation band + 0.05 terrain variation.
	assert.InDelta(t, 0.30, score.Score, 1e-9)
	assert.Len(t, score.Factors, 3)
}

func TestEnvironmentalScore_CompoundBonuses(t *testing.T) {
	bundle := weatherOnly(domain.WeatherObservation{Rainfall24h: 60})
	bundle.Terrain = &domain.TerrainProfile{SlopeDegrees: 40}
	bundle.Seismic = &domain.SeismicSummary{Count: 1, MaxMagnitude: 4.5}

	score, err := risk.EnvironmentalScore(bundle)
	require.NoError(t, err)

	// 0.30 rain + 0.20 slope + 0.08 seismic + 0.10 rain-on-slope
	// + 0.08 seismic-on-wet-ground.
	assert.InDelta(t, 0.76, score.Score, 1e-9)
	assert.Contains(t, score.Factors, "heavy rain on steep slope")
	assert.Contains(t, score.Factors, "seismic activity with rain-saturated ground")
}

func TestEnvironmentalScore_ScenarioA(t *testing.T) {
	// rainfall 60 mm + slope 40° and nothing else: 0.30 + 0.20 + 0.10
	// compound bonus.
	bundle := weatherOnly(domain.WeatherObservation{Rainfall24h: 60, Humidity: 50})
	bundle.Terrain = &domain.TerrainProfile{SlopeDegrees: 40, Elevation: 400}

	score, err := risk.EnvironmentalScore(bundle)
	require.NoError(t, err)
	assert.InDelta(t, 0.60, score.Score, 1e-9)
	assert.GreaterOrEqual(t, score.Score, 0.60)
}

func TestEnvironmentalScore_CappedAtOne(t *testing.T) {
	bundle := weatherOnly(domain.WeatherObservation{
		Rainfall24h:     120,
		Rainfall72h:     300,
		ForecastRain24h: 150,
		Humidity:        95,
	})
	bundle.Seismic = &domain.SeismicSummary{Count: 5, MaxMagnitude: 7.1}
	bundle.Terrain = &domain.TerrainProfile{SlopeDegrees: 45, Elevation: 2200, TerrainVariation: 400}

	score, err := risk.EnvironmentalScore(bundle)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score.Score)
}

func TestEnvironmentalScore_FixedConfidence(t *testing.T) {
	// Confidence stays 0.85 even when seismic and terrain are missing;
	// only the engine-level fallback lowers it.
	score, err := risk.EnvironmentalScore(weatherOnly(domain.WeatherObservation{Rainfall24h: 25}))
	require.NoError(t, err)
	assert.Equal(t, 0.85, score.Confidence)
}

func TestEnvironmentalFallback(t *testing.T) {
	fb := risk.EnvironmentalFallback()
	assert.Equal(t, 0.5, fb.Score)
	assert.Equal(t, 0.3, fb.Confidence)
}
