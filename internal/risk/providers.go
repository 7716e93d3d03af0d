// Package risk contains the fusion engine and the score calculators that
// turn raw signals into a single landslide risk prediction.
package risk

import (
	"context"

	"github.com/slopewatch/landslide-risk/internal/domain"
)

// WeatherProvider supplies current conditions and short-term forecast
// accumulations for a coordinate.
type WeatherProvider interface {
	CurrentConditions(ctx context.Context, c domain.Coordinate) (domain.WeatherObservation, error)
}

// SeismicProvider summarizes earthquake activity within radiusKm of the
// coordinate over the lookback window.
type SeismicProvider interface {
	RecentActivity(ctx context.Context, c domain.Coordinate, radiusKm float64, lookbackDays int) (domain.SeismicSummary, error)
}

// ElevationProvider returns elevation, slope, and local terrain variation
// for a coordinate.
type ElevationProvider interface {
	TerrainProfile(ctx context.Context, c domain.Coordinate) (domain.TerrainProfile, error)
}

// IncidentRepository looks up recorded landslide incidents near a coordinate
// over all recorded history.
type IncidentRepository interface {
	FindNearby(ctx context.Context, c domain.Coordinate, radiusKm float64) ([]domain.Incident, error)
}

// ClassifierScore is the trained model's output for one feature vector.
type ClassifierScore struct {
	Probability float64
	Confidence  float64
	RiskLevel   string
}

// ClassifierScorer is the trained-model boundary. Implementations live
// behind a network or process boundary with independent failure modes, so
// calls carry an explicit context and must not be assumed in-process.
type ClassifierScorer interface {
	Score(ctx context.Context, c domain.Coordinate, features domain.FeatureVector) (ClassifierScore, error)
}

// ResultSink receives finished fusion results for persistence and
// downstream alerting. Publish failures must not fail the prediction.
type ResultSink interface {
	Publish(ctx context.Context, result domain.FusionResult) error
}
