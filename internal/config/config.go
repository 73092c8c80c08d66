package config

import (
	"errors"
	"os"
	"time"
)

// defaultPlanetConfigID is the public WMTS layer configuration used when no
// override is set.
const defaultPlanetConfigID = "0dc5fcdc-69e2-4789-8511-6b0cc7efbff3"

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Catalog and scoring configuration.
	CatalogPath     string
	MediumThreshold float64
	HighThreshold   float64
	MatchEpsilon    float64
	ResultLimit     int

	// Planet imagery tile proxy configuration.
	PlanetAPIKey   string
	PlanetConfigID string
	PlanetTimeout  time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	batchSize, err := parseIntEnv("BATCH_SIZE", 50, 1, 1000)
	if err != nil {
		return nil, err
	}

	flushInterval, err := parseDurationEnv("BATCH_FLUSH_INTERVAL", "500ms")
	if err != nil {
		return nil, err
	}

	mediumThreshold, err := parseFloatEnv("RISK_MEDIUM_THRESHOLD", 34)
	if err != nil {
		return nil, err
	}

	highThreshold, err := parseFloatEnv("RISK_HIGH_THRESHOLD", 67)
	if err != nil {
		return nil, err
	}

	matchEpsilon, err := parseFloatEnv("MATCH_EPSILON", 0.1)
	if err != nil {
		return nil, err
	}

	resultLimit, err := parseIntEnv("RESULT_LIMIT", 10, 1, 100)
	if err != nil {
		return nil, err
	}

	planetTimeout, err := parseDurationEnv("PLANET_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   envOrDefault("KAFKA_SOURCE_TOPIC", "climate-readings"),
		KafkaSinkTopic:     envOrDefault("KAFKA_SINK_TOPIC", "risk-assessments"),
		KafkaGroupID:       envOrDefault("KAFKA_GROUP_ID", "crop-risk-assessor"),
		HTTPAddr:           envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		LogFormat:          envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		CatalogPath:     os.Getenv("CATALOG_PATH"),
		MediumThreshold: mediumThreshold,
		HighThreshold:   highThreshold,
		MatchEpsilon:    matchEpsilon,
		ResultLimit:     resultLimit,

		PlanetAPIKey:   os.Getenv("PLANET_API_KEY"),
		PlanetConfigID: envOrDefault("PLANET_CONFIG_ID", defaultPlanetConfigID),
		PlanetTimeout:  planetTimeout,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.MediumThreshold <= 0 || cfg.HighThreshold <= cfg.MediumThreshold || cfg.HighThreshold > 100 {
		return nil, errors.New("RISK_MEDIUM_THRESHOLD and RISK_HIGH_THRESHOLD must satisfy 0 < medium < high <= 100")
	}
	if cfg.MatchEpsilon <= 0 || cfg.MatchEpsilon >= 1 {
		return nil, errors.New("MATCH_EPSILON must be in (0, 1)")
	}

	return cfg, nil
}
