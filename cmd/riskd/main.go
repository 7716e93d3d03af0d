package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	httpadapter "github.com/slopewatch/landslide-risk/internal/adapter/http"
	kafkaadapter "github.com/slopewatch/landslide-risk/internal/adapter/kafka"
	"github.com/slopewatch/landslide-risk/internal/adapter/mlservice"
	"github.com/slopewatch/landslide-risk/internal/adapter/openmeteo"
	"github.com/slopewatch/landslide-risk/internal/adapter/opentopo"
	"github.com/slopewatch/landslide-risk/internal/adapter/sqlite"
	"github.com/slopewatch/landslide-risk/internal/adapter/usgs"
	"github.com/slopewatch/landslide-risk/internal/config"
	"github.com/slopewatch/landslide-risk/internal/domain"
	"github.com/slopewatch/landslide-risk/internal/observability"
	"github.com/slopewatch/landslide-risk/internal/risk"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	weights, err := domain.NewWeightPolicy(cfg.EnvironmentalWeight, cfg.ClassifierWeight, cfg.HistoricalWeight)
	if err != nil {
		logger.Error("invalid fusion weights", "error", err)
		os.Exit(1)
	}
	scheme, err := domain.SchemeByName(cfg.RiskLevelScheme)
	if err != nil {
		logger.Error("invalid risk level scheme", "error", err)
		os.Exit(1)
	}

	incidents, err := sqlite.NewRepository(cfg.IncidentDBPath)
	if err != nil {
		logger.Error("failed to open incident database", "error", err, "path", cfg.IncidentDBPath)
		os.Exit(1)
	}

	classifier := mlservice.NewClient(cfg.ClassifierURL, cfg.ClassifierTimeout)

	elevation := opentopo.NewCachedProvider(
		opentopo.NewClient(cfg.ElevationBaseURL, cfg.SourceTimeout),
		cfg.ElevationCacheSize,
	)

	engine := risk.New(risk.Params{
		Weather:    openmeteo.NewClient(cfg.WeatherBaseURL, cfg.SourceTimeout),
		Seismic:    usgs.NewClient(cfg.SeismicBaseURL, cfg.SourceTimeout),
		Elevation:  elevation,
		Classifier: classifier,
		Incidents:  incidents,

		Weights: weights,
		Scheme:  scheme,

		SourceTimeout:       cfg.SourceTimeout,
		IncidentRadiusKm:    cfg.IncidentRadiusKm,
		SeismicRadiusKm:     cfg.SeismicRadiusKm,
		SeismicLookbackDays: cfg.SeismicLookbackDays,

		Logger:  logger,
		Metrics: metrics,
	})

	// Result sink is feature-flagged via KAFKA_ENABLED.
	var sink risk.ResultSink
	var sinkWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		sinkWriter = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaSinkTopic, logger)
		sink = sinkWriter
		logger.Info("kafka result sink enabled", "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("kafka result sink disabled")
	}

	ready := &readinessCheck{classifier: classifier, incidents: incidents}
	srv := httpadapter.NewServer(cfg.HTTPAddr, engine, sink, ready, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if sinkWriter != nil {
		if err := sinkWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if err := incidents.Close(); err != nil {
		logger.Error("incident database close error", "error", err)
	}

	logger.Info("shutdown complete")
}

// readinessCheck reports ready once the classifier answers its health
// endpoint and the incident database responds.
type readinessCheck struct {
	classifier *mlservice.Client
	incidents  *sqlite.Repository
}

func (r *readinessCheck) CheckReadiness(ctx context.Context) error {
	if err := r.classifier.Health(ctx); err != nil {
		return err
	}
	_, err := r.incidents.Count(ctx)
	return err
}
