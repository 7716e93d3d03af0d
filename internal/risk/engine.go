package risk

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/slopewatch/landslide-risk/internal/domain"
	"github.com/slopewatch/landslide-risk/internal/observability"
)

// Source names used in logs, metrics, and the degraded-sources list.
const (
	sourceWeather       = "weather"
	sourceSeismic       = "seismic"
	sourceTerrain       = "terrain"
	sourceEnvironmental = "environmental"
	sourceHistorical    = "historical"
)

// Params wires an Engine. All providers are required; Metrics and Logger
// default to no-op/stdlib equivalents when nil.
type Params struct {
	Weather    WeatherProvider
	Seismic    SeismicProvider
	Elevation  ElevationProvider
	Classifier ClassifierScorer
	Incidents  IncidentRepository

	Weights domain.WeightPolicy
	Scheme  domain.LevelScheme

	// SourceTimeout bounds each signal branch so one slow provider cannot
	// stall a prediction indefinitely.
	SourceTimeout       time.Duration
	IncidentRadiusKm    float64
	SeismicRadiusKm     float64
	SeismicLookbackDays int

	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// Engine orchestrates one prediction: concurrent signal gathering, the three
// scoring branches, and the weighted fusion. It is stateless per request;
// the weight policy and scheme are immutable after construction and safe to
// share across concurrent requests.
type Engine struct {
	weather    WeatherProvider
	seismic    SeismicProvider
	elevation  ElevationProvider
	classifier ClassifierScorer
	historical *HistoricalCalculator

	weights domain.WeightPolicy
	scheme  domain.LevelScheme

	sourceTimeout       time.Duration
	seismicRadiusKm     float64
	seismicLookbackDays int

	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a fusion engine from validated parameters.
func New(p Params) *Engine {
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	if p.Metrics == nil {
		p.Metrics = observability.NewMetricsForTesting()
	}
	if p.SourceTimeout <= 0 {
		p.SourceTimeout = 10 * time.Second
	}
	return &Engine{
		weather:             p.Weather,
		seismic:             p.Seismic,
		elevation:           p.Elevation,
		classifier:          p.Classifier,
		historical:          NewHistoricalCalculator(p.Incidents, p.IncidentRadiusKm),
		weights:             p.Weights,
		scheme:              p.Scheme,
		sourceTimeout:       p.SourceTimeout,
		seismicRadiusKm:     p.SeismicRadiusKm,
		seismicLookbackDays: p.SeismicLookbackDays,
		logger:              p.Logger,
		metrics:             p.Metrics,
	}
}

// Predict computes the fused landslide risk for a coordinate. Environmental
// and historical failures degrade to documented fallbacks; a classifier
// failure is the only fatal condition and surfaces as ErrPredictionFailed.
func (e *Engine) Predict(ctx context.Context, lat, lon float64) (domain.FusionResult, error) {
	coord, err := domain.NewCoordinate(lat, lon)
	if err != nil {
		return domain.FusionResult{}, err
	}
	return e.predict(ctx, coord)
}

func (e *Engine) predict(ctx context.Context, coord domain.Coordinate) (domain.FusionResult, error) {
	start := time.Now()
	e.metrics.PredictionsInFlight.Inc()
	defer e.metrics.PredictionsInFlight.Dec()

	bundle := e.gather(ctx, coord)

	// The three scoring branches settle independently; this is a join, not
	// a race. Only the classifier branch may abort the prediction.
	var (
		wg sync.WaitGroup

		envScore domain.SourceScore
		envErr   error

		mlScore   domain.SourceScore
		defaulted []string
		mlErr     error

		histScore domain.SourceScore
		histErr   error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		envScore, envErr = EnvironmentalScore(bundle)
	}()
	go func() {
		defer wg.Done()
		mlScore, defaulted, mlErr = e.scoreClassifier(ctx, coord, bundle)
	}()
	go func() {
		defer wg.Done()
		branchCtx, cancel := context.WithTimeout(ctx, e.sourceTimeout)
		defer cancel()
		histScore, histErr = e.historical.Score(branchCtx, coord)
	}()
	wg.Wait()

	if mlErr != nil {
		e.metrics.PredictionFailures.Inc()
		return domain.FusionResult{}, fmt.Errorf("%w: %w", domain.ErrPredictionFailed, mlErr)
	}

	var degraded []string
	if envErr != nil {
		e.logger.Warn("environmental scoring degraded", "lat", coord.Latitude, "lon", coord.Longitude, "error", envErr)
		e.metrics.SourceFallbacks.WithLabelValues(sourceEnvironmental).Inc()
		envScore = EnvironmentalFallback()
		degraded = append(degraded, sourceEnvironmental)
	}
	if histErr != nil {
		e.logger.Warn("historical scoring degraded", "lat", coord.Latitude, "lon", coord.Longitude, "error", histErr)
		e.metrics.SourceFailures.WithLabelValues(sourceHistorical).Inc()
		e.metrics.SourceFallbacks.WithLabelValues(sourceHistorical).Inc()
		histScore = HistoricalFallback()
		degraded = append(degraded, sourceHistorical)
	}

	result := domain.NewFusionResult(coord, envScore, mlScore, histScore, e.weights, e.scheme)
	result.DegradedSources = degraded
	result.DefaultedFeatures = defaulted

	e.metrics.PredictionsTotal.WithLabelValues(string(result.RiskLevel)).Inc()
	e.metrics.PredictionDuration.Observe(time.Since(start).Seconds())
	e.logger.Info("prediction complete",
		"lat", coord.Latitude,
		"lon", coord.Longitude,
		"risk_level", result.RiskLevel,
		"probability", result.Probability,
		"confidence", result.Confidence,
		"degraded_sources", degraded,
	)
	return result, nil
}

// gather fetches weather, seismic, and terrain signals concurrently, each
// under its own timeout. A failed fetch leaves its bundle field nil; the
// feature builder fills defaults and the environmental calculator decides
// what it can still compute.
func (e *Engine) gather(ctx context.Context, coord domain.Coordinate) domain.RawSignalBundle {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		bundle domain.RawSignalBundle
	)

	fetch := func(source string, fn func(ctx context.Context) error) {
		defer wg.Done()
		fetchCtx, cancel := context.WithTimeout(ctx, e.sourceTimeout)
		defer cancel()

		start := time.Now()
		err := fn(fetchCtx)
		e.metrics.ProviderDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
		if err != nil {
			e.logger.Warn("signal source failed", "source", source, "lat", coord.Latitude, "lon", coord.Longitude, "error", err)
			e.metrics.SourceFailures.WithLabelValues(source).Inc()
		}
	}

	wg.Add(3)
	go fetch(sourceWeather, func(ctx context.Context) error {
		w, err := e.weather.CurrentConditions(ctx, coord)
		if err != nil {
			return err
		}
		mu.Lock()
		bundle.Weather = &w
		mu.Unlock()
		return nil
	})
	go fetch(sourceSeismic, func(ctx context.Context) error {
		s, err := e.seismic.RecentActivity(ctx, coord, e.seismicRadiusKm, e.seismicLookbackDays)
		if err != nil {
			return err
		}
		mu.Lock()
		bundle.Seismic = &s
		mu.Unlock()
		return nil
	})
	go fetch(sourceTerrain, func(ctx context.Context) error {
		t, err := e.elevation.TerrainProfile(ctx, coord)
		if err != nil {
			return err
		}
		mu.Lock()
		bundle.Terrain = &t
		mu.Unlock()
		return nil
	})
	wg.Wait()

	return bundle
}

// scoreClassifier builds the feature vector and calls the scorer across its
// process boundary. Transport and malformed-response failures are fatal to
// the prediction: the classifier is the one source with no safe neutral
// fallback.
func (e *Engine) scoreClassifier(ctx context.Context, coord domain.Coordinate, bundle domain.RawSignalBundle) (domain.SourceScore, []string, error) {
	features, defaulted := domain.BuildFeatureVector(coord, bundle)

	branchCtx, cancel := context.WithTimeout(ctx, e.sourceTimeout)
	defer cancel()

	start := time.Now()
	score, err := e.classifier.Score(branchCtx, coord, features)
	e.metrics.ClassifierDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return domain.SourceScore{}, nil, err
	}

	return domain.SourceScore{
		Score:      score.Probability,
		Confidence: score.Confidence,
	}, defaulted, nil
}
