package risk

import (
	"context"
	"fmt"

	"github.com/slopewatch/landslide-risk/internal/domain"
)

// Historical score buckets by incident count, lower bound inclusive.
// Zero recorded incidents still scores 0.2: absence of recorded history is
// not proof of safety.
const (
	historicalFloorScore         = 0.20
	historicalConfidenceWithData = 0.80
	historicalConfidenceNoData   = 0.50
)

// HistoricalCalculator converts nearby-incident density into a bounded risk
// contribution.
type HistoricalCalculator struct {
	repo     IncidentRepository
	radiusKm float64
}

// NewHistoricalCalculator creates a calculator querying incidents within
// radiusKm of the prediction coordinate.
func NewHistoricalCalculator(repo IncidentRepository, radiusKm float64) *HistoricalCalculator {
	return &HistoricalCalculator{repo: repo, radiusKm: radiusKm}
}

// Score queries incidents near the coordinate and maps the count to a score.
// A repository failure is returned as ErrSourceUnavailable; the engine
// substitutes HistoricalFallback.
func (h *HistoricalCalculator) Score(ctx context.Context, c domain.Coordinate) (domain.SourceScore, error) {
	incidents, err := h.repo.FindNearby(ctx, c, h.radiusKm)
	if err != nil {
		return domain.SourceScore{}, fmt.Errorf("%w: incident lookup: %w", domain.ErrSourceUnavailable, err)
	}

	score := domain.SourceScore{
		Score:         bucketScore(len(incidents)),
		Confidence:    historicalConfidenceNoData,
		IncidentCount: len(incidents),
	}
	if len(incidents) == 0 {
		return score, nil
	}

	score.Confidence = historicalConfidenceWithData
	score.Nearest = nearestIncident(c, incidents)
	return score, nil
}

func bucketScore(count int) float64 {
	switch {
	case count >= 10:
		return 0.90
	case count >= 5:
		return 0.75
	case count >= 3:
		return 0.60
	case count >= 1:
		return 0.40
	default:
		return historicalFloorScore
	}
}

func nearestIncident(c domain.Coordinate, incidents []domain.Incident) *domain.IncidentSummary {
	nearest := incidents[0]
	best := domain.HaversineKm(c, nearest.Location)
	for _, in := range incidents[1:] {
		if d := domain.HaversineKm(c, in.Location); d < best {
			best = d
			nearest = in
		}
	}
	return &domain.IncidentSummary{
		DistanceKm: best,
		OccurredAt: nearest.OccurredAt,
		Severity:   nearest.Severity,
	}
}

// HistoricalFallback is the degraded substitute for a failed repository
// query: the no-history floor with reduced confidence, explicitly flagged
// rather than silently treated as "no history".
func HistoricalFallback() domain.SourceScore {
	return domain.SourceScore{
		Score:      historicalFloorScore,
		Confidence: historicalConfidenceNoData,
	}
}
