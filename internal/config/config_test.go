package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "climate-readings", cfg.KafkaSourceTopic)
	assert.Equal(t, "risk-assessments", cfg.KafkaSinkTopic)
	assert.Equal(t, "crop-risk-assessor", cfg.KafkaGroupID)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
	assert.Empty(t, cfg.CatalogPath)
	assert.Equal(t, 34.0, cfg.MediumThreshold)
	assert.Equal(t, 67.0, cfg.HighThreshold)
	assert.Equal(t, 0.1, cfg.MatchEpsilon)
	assert.Equal(t, 10, cfg.ResultLimit)
	assert.Empty(t, cfg.PlanetAPIKey)
	assert.Equal(t, defaultPlanetConfigID, cfg.PlanetConfigID)
	assert.Equal(t, 10*time.Second, cfg.PlanetTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("CATALOG_PATH", "/etc/cropwatch/catalog.yaml")
	t.Setenv("RISK_MEDIUM_THRESHOLD", "40")
	t.Setenv("RISK_HIGH_THRESHOLD", "75")
	t.Setenv("MATCH_EPSILON", "0.2")
	t.Setenv("RESULT_LIMIT", "3")
	t.Setenv("PLANET_API_KEY", "test-key")
	t.Setenv("PLANET_CONFIG_ID", "custom-layer")
	t.Setenv("PLANET_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, time.Second, cfg.BatchFlushInterval)
	assert.Equal(t, "/etc/cropwatch/catalog.yaml", cfg.CatalogPath)
	assert.Equal(t, 40.0, cfg.MediumThreshold)
	assert.Equal(t, 75.0, cfg.HighThreshold)
	assert.Equal(t, 0.2, cfg.MatchEpsilon)
	assert.Equal(t, 3, cfg.ResultLimit)
	assert.Equal(t, "test-key", cfg.PlanetAPIKey)
	assert.Equal(t, "custom-layer", cfg.PlanetConfigID)
	assert.Equal(t, 5*time.Second, cfg.PlanetTimeout)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_BatchSizeTooLarge(t *testing.T) {
	t.Setenv("BATCH_SIZE", "9999")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_InvalidBatchFlushInterval(t *testing.T) {
	t.Setenv("BATCH_FLUSH_INTERVAL", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_FLUSH_INTERVAL")
}

func TestLoad_ThresholdOrdering(t *testing.T) {
	t.Setenv("RISK_MEDIUM_THRESHOLD", "70")
	t.Setenv("RISK_HIGH_THRESHOLD", "40")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RISK_MEDIUM_THRESHOLD")
}

func TestLoad_InvalidEpsilon(t *testing.T) {
	t.Setenv("MATCH_EPSILON", "1.5")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MATCH_EPSILON")
}

func TestLoad_InvalidResultLimit(t *testing.T) {
	t.Setenv("RESULT_LIMIT", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RESULT_LIMIT")
}

func TestLoad_InvalidPlanetTimeout(t *testing.T) {
	t.Setenv("PLANET_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PLANET_TIMEOUT")
}

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, parseBrokers("a:9092, b:9092"))
	assert.Empty(t, parseBrokers(",,"))
}
