// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Fusion weights, renormalized at startup if they do not sum to 1.
	EnvironmentalWeight float64
	ClassifierWeight    float64
	HistoricalWeight    float64
	RiskLevelScheme     string

	// External signal providers. Empty base URLs select the public APIs.
	SourceTimeout       time.Duration
	WeatherBaseURL      string
	SeismicBaseURL      string
	SeismicRadiusKm     float64
	SeismicLookbackDays int
	ElevationBaseURL    string
	ElevationCacheSize  int

	ClassifierURL     string
	ClassifierTimeout time.Duration

	IncidentDBPath   string
	IncidentRadiusKm float64

	// Kafka result sink configuration.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	sourceTimeout, err := parseDuration("SOURCE_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	classifierTimeout, err := parseDuration("CLASSIFIER_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}

	envWeight, err := parseFloat("ENVIRONMENTAL_WEIGHT", 0.50)
	if err != nil {
		return nil, err
	}
	clfWeight, err := parseFloat("CLASSIFIER_WEIGHT", 0.40)
	if err != nil {
		return nil, err
	}
	histWeight, err := parseFloat("HISTORICAL_WEIGHT", 0.10)
	if err != nil {
		return nil, err
	}
	incidentRadius, err := parseFloat("INCIDENT_RADIUS_KM", 50)
	if err != nil {
		return nil, err
	}
	seismicRadius, err := parseFloat("SEISMIC_RADIUS_KM", 100)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		EnvironmentalWeight: envWeight,
		ClassifierWeight:    clfWeight,
		HistoricalWeight:    histWeight,
		RiskLevelScheme:     envOrDefault("RISK_LEVEL_SCHEME", "five-level"),

		SourceTimeout:       sourceTimeout,
		WeatherBaseURL:      os.Getenv("WEATHER_BASE_URL"),
		SeismicBaseURL:      os.Getenv("SEISMIC_BASE_URL"),
		SeismicRadiusKm:     seismicRadius,
		SeismicLookbackDays: parsePositiveInt("SEISMIC_LOOKBACK_DAYS", 30),
		ElevationBaseURL:    os.Getenv("ELEVATION_BASE_URL"),
		ElevationCacheSize:  parsePositiveInt("ELEVATION_CACHE_SIZE", 1000),

		ClassifierURL:     os.Getenv("CLASSIFIER_URL"),
		ClassifierTimeout: classifierTimeout,

		IncidentDBPath:   envOrDefault("INCIDENT_DB_PATH", "incidents.db"),
		IncidentRadiusKm: incidentRadius,

		KafkaEnabled:   os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:   parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "risk-predictions"),
	}

	if cfg.ClassifierURL == "" {
		return nil, errors.New("CLASSIFIER_URL is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SINK_TOPIC is empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return f, nil
}

func parsePositiveInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
