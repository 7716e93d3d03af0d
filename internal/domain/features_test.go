package domain_test

import (
	"testing"

	"github.com/slopewatch/landslide-risk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFeatureVector_FullBundle(t *testing.T) {
	coord := domain.Coordinate{Latitude: 30.7333, Longitude: 76.7794}
	bundle := domain.RawSignalBundle{
		Weather: &domain.WeatherObservation{
			Temperature: 25.5,
			Humidity:    70,
			Pressure:    1008,
			WindSpeed:   12,
			Rainfall24h: 15.2,
			Rainfall72h: 44.8,
		},
		Seismic: &domain.SeismicSummary{Count: 2, MaxMagnitude: 4.6, AvgMagnitude: 4.3},
		Terrain: &domain.TerrainProfile{Elevation: 500, SlopeDegrees: 22, TerrainVariation: 60},
	}

	fv, defaulted := domain.BuildFeatureVector(coord, bundle)

	// Every schema field must be present, always.
	for _, name := range domain.FeatureNames {
		_, ok := fv[name]
		require.True(t, ok, "missing feature %q", name)
	}

	assert.Equal(t, 30.7333, fv["latitude"])
	assert.Equal(t, 15.2, fv["rainfall_24h"])
	assert.Equal(t, 22.0, fv["slope"])
	assert.Equal(t, 2.0, fv["earthquake_count"])
	assert.Equal(t, 4.6, fv["max_earthquake_magnitude"])

	// All provider-backed fields were supplied; only the permanent static
	// fields were defaulted, and those are not reported.
	assert.Empty(t, defaulted)

	// Static fields still carry their documented defaults.
	assert.Equal(t, 35.0, fv["soil_moisture"])
	assert.Equal(t, 0.45, fv["ndvi"])
}

func TestBuildFeatureVector_MissingSources(t *testing.T) {
	coord := domain.Coordinate{Latitude: 10, Longitude: 20}

	fv, defaulted := domain.BuildFeatureVector(coord, domain.RawSignalBundle{})

	for _, name := range domain.FeatureNames {
		_, ok := fv[name]
		require.True(t, ok, "missing feature %q", name)
	}

	assert.Equal(t, 10.0, fv["latitude"])
	assert.Equal(t, 0.0, fv["rainfall_24h"])
	assert.Equal(t, 1013.25, fv["pressure"])
	assert.Equal(t, 500.0, fv["elevation"])

	// Ten provider-backed fields fell back to defaults.
	assert.ElementsMatch(t, []string{
		"temperature", "humidity", "pressure", "wind_speed",
		"rainfall_24h", "rainfall_72h", "elevation", "slope",
		"earthquake_count", "max_earthquake_magnitude",
	}, defaulted)
}

func TestBuildFeatureVector_PartialBundle(t *testing.T) {
	coord := domain.Coordinate{Latitude: 10, Longitude: 20}
	bundle := domain.RawSignalBundle{
		Weather: &domain.WeatherObservation{Rainfall24h: 60, Humidity: 88},
	}

	fv, defaulted := domain.BuildFeatureVector(coord, bundle)

	assert.Equal(t, 60.0, fv["rainfall_24h"])
	assert.Equal(t, 88.0, fv["humidity"])
	assert.ElementsMatch(t, []string{
		"elevation", "slope", "earthquake_count", "max_earthquake_magnitude",
	}, defaulted)
}
