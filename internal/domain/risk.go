package domain

import (
	"fmt"
	"math"
	"time"
)

// RiskLevel is the categorical bucket derived from the final probability.
type RiskLevel string

const (
	RiskVeryLow  RiskLevel = "Very Low"
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
	RiskSevere   RiskLevel = "Severe"
)

// LevelScheme maps a probability to a categorical risk level. Two schemes
// existed historically; both are kept as named schemes and one is selected
// per process at startup.
type LevelScheme struct {
	name       string
	thresholds []levelThreshold
	fallback   RiskLevel
}

type levelThreshold struct {
	below float64
	level RiskLevel
}

// FiveLevelScheme is the default scheme: five levels with cutoffs at
// 0.25 / 0.40 / 0.60 / 0.75.
var FiveLevelScheme = LevelScheme{
	name: "five-level",
	thresholds: []levelThreshold{
		{0.25, RiskVeryLow},
		{0.40, RiskLow},
		{0.60, RiskModerate},
		{0.75, RiskHigh},
	},
	fallback: RiskSevere,
}

// FourLevelScheme is the legacy scheme: four levels with cutoffs at
// 0.3 / 0.6 / 0.8.
var FourLevelScheme = LevelScheme{
	name: "four-level",
	thresholds: []levelThreshold{
		{0.30, RiskLow},
		{0.60, RiskModerate},
		{0.80, RiskHigh},
	},
	fallback: RiskSevere,
}

// SchemeByName resolves a configured scheme name.
func SchemeByName(name string) (LevelScheme, error) {
	switch name {
	case "", FiveLevelScheme.name:
		return FiveLevelScheme, nil
	case FourLevelScheme.name:
		return FourLevelScheme, nil
	default:
		return LevelScheme{}, fmt.Errorf("unknown risk level scheme %q", name)
	}
}

// Name returns the scheme's configured name.
func (s LevelScheme) Name() string { return s.name }

// LevelFor maps a probability in [0, 1] to its categorical level.
func (s LevelScheme) LevelFor(probability float64) RiskLevel {
	for _, t := range s.thresholds {
		if probability < t.below {
			return t.level
		}
	}
	return s.fallback
}

// weightTolerance is the allowed deviation from 1.0 after normalization.
const weightTolerance = 1e-3

// WeightPolicy holds the normalized source weights. It is constructed once
// at startup, is immutable afterwards, and is safe to share across requests.
type WeightPolicy struct {
	Environmental float64
	Classifier    float64
	Historical    float64
}

// NewWeightPolicy validates and proportionally renormalizes the configured
// weights so they sum to 1.0. Negative weights or an all-zero configuration
// yield ErrWeightConfiguration.
func NewWeightPolicy(environmental, classifier, historical float64) (WeightPolicy, error) {
	for name, w := range map[string]float64{
		"environmental": environmental,
		"classifier":    classifier,
		"historical":    historical,
	} {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return WeightPolicy{}, fmt.Errorf("%w: %s weight %v must be a non-negative number", ErrWeightConfiguration, name, w)
		}
	}

	sum := environmental + classifier + historical
	if sum <= 0 {
		return WeightPolicy{}, fmt.Errorf("%w: weights sum to zero", ErrWeightConfiguration)
	}

	p := WeightPolicy{
		Environmental: environmental / sum,
		Classifier:    classifier / sum,
		Historical:    historical / sum,
	}
	if math.Abs(p.Environmental+p.Classifier+p.Historical-1.0) > weightTolerance {
		return WeightPolicy{}, fmt.Errorf("%w: normalization failed for sum %v", ErrWeightConfiguration, sum)
	}
	return p, nil
}

// IncidentSummary describes the recorded incident nearest to the queried
// coordinate, for explanatory context in the historical breakdown.
type IncidentSummary struct {
	DistanceKm float64   `json:"distance_km"`
	OccurredAt time.Time `json:"occurred_at"`
	Severity   string    `json:"severity"`
}

// SourceScore is one source's contribution before weighting: a probability
// in [0, 1] plus a confidence in [0, 1]. Factors carries the triggering
// conditions for the environmental source; IncidentCount and Nearest carry
// context for the historical source.
type SourceScore struct {
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`

	Factors       []string         `json:"factors,omitempty"`
	IncidentCount int              `json:"incident_count,omitempty"`
	Nearest       *IncidentSummary `json:"nearest_incident,omitempty"`
}

// SourceContribution is a SourceScore with its weight and weighted share of
// the final probability, embedded in the result breakdown for auditability.
type SourceContribution struct {
	SourceScore
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// Breakdown itemizes each source's score, weight, and contribution.
type Breakdown struct {
	Environmental SourceContribution `json:"environmental"`
	Classifier    SourceContribution `json:"classifier"`
	Historical    SourceContribution `json:"historical"`
}

// FusionResult is the final output of a prediction: the categorical risk
// level, the fused probability, the aggregate confidence, and the full
// per-source breakdown. Created once per request and immutable.
type FusionResult struct {
	Coordinate  Coordinate `json:"coordinate"`
	RiskLevel   RiskLevel  `json:"risk_level"`
	Probability float64    `json:"probability"`
	Confidence  float64    `json:"confidence"`
	Breakdown   Breakdown  `json:"breakdown"`

	// DegradedSources names sources that fell back to neutral values,
	// so a reduced-confidence answer is never silent.
	DegradedSources []string `json:"degraded_sources,omitempty"`

	// DefaultedFeatures names classifier inputs filled from defaults.
	DefaultedFeatures []string `json:"defaulted_features,omitempty"`

	Advisories  []string  `json:"advisories,omitempty"`
	SchemeName  string    `json:"scheme"`
	GeneratedAt time.Time `json:"generated_at"`
}

// NewFusionResult combines the three weighted source scores into the final
// result. The probability is clamped to [0, 1]; confidence is the
// weight-weighted average of the per-source confidences.
func NewFusionResult(c Coordinate, env, ml, hist SourceScore, weights WeightPolicy, scheme LevelScheme) FusionResult {
	probability := clamp01(env.Score*weights.Environmental +
		ml.Score*weights.Classifier +
		hist.Score*weights.Historical)

	confidence := clamp01(env.Confidence*weights.Environmental +
		ml.Confidence*weights.Classifier +
		hist.Confidence*weights.Historical)

	level := scheme.LevelFor(probability)

	return FusionResult{
		Coordinate:  c,
		RiskLevel:   level,
		Probability: probability,
		Confidence:  confidence,
		Breakdown: Breakdown{
			Environmental: contribution(env, weights.Environmental),
			Classifier:    contribution(ml, weights.Classifier),
			Historical:    contribution(hist, weights.Historical),
		},
		Advisories:  AdvisoriesFor(level),
		SchemeName:  scheme.name,
		GeneratedAt: clock.Now().UTC(),
	}
}

func contribution(s SourceScore, weight float64) SourceContribution {
	return SourceContribution{
		SourceScore:  s,
		Weight:       weight,
		Contribution: s.Score * weight,
	}
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
