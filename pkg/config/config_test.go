package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 10*time.Second, c.Server.ShutdownTimeout)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, "localhost", c.Postgres.Host)
	assert.Equal(t, 5432, c.Postgres.Port)
	assert.Equal(t, "cryptodb", c.Postgres.Database)
	assert.False(t, c.Redis.Enabled)
	assert.Equal(t, 15*time.Minute, c.Redis.TTL)
	assert.False(t, c.Kafka.Enabled)
	assert.Equal(t, "risk.signals", c.Kafka.Topic)
	assert.Equal(t, 200, c.Ingest.CandleLimit)
	assert.Equal(t, 14, c.Ingest.VolatilityWindow)
	assert.Equal(t, "balanced", c.Signals.DefaultProfile)
	assert.NotEmpty(t, c.Ingest.Pairs)
	assert.Contains(t, c.Ingest.Pairs, "binance:BTC/USDT")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, c.Server.Port)
}

func TestLoadYAMLOverrides(t *testing.T) {
	path := writeConfig(t, `
environment: production
server:
  port: 9090
logging:
  level: warn
  format: json
ingest:
  pairs:
    - binance:BTC/USDT
  candle_limit: 500
`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", c.Environment)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "warn", c.Logging.Level)
	assert.Equal(t, "json", c.Logging.Format)
	assert.Equal(t, []string{"binance:BTC/USDT"}, c.Ingest.Pairs)
	assert.Equal(t, 500, c.Ingest.CandleLimit)
	// Untouched sections still pick up defaults.
	assert.Equal(t, "cryptouser", c.Postgres.User)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad log level", "logging:\n  level: verbose\n"},
		{"bad log format", "logging:\n  format: xml\n"},
		{"zero candle limit", "ingest:\n  candle_limit: -5\n"},
		{"kafka enabled without brokers", "kafka:\n  enabled: true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("SYMBOLS", " binance:BTC/USDT , bybit:ETH/USDT ,")
	t.Setenv("SIGNAL_PROFILE", "Aggressive")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_PASSWORD", "s3cret")
	t.Setenv("REDIS_ADDR", "cache.internal:6380")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")
	t.Setenv("CRYPTOPANIC_API_KEY", "abc123")

	c, err := LoadWithEnv("")
	require.NoError(t, err)

	assert.Equal(t, []string{"binance:BTC/USDT", "bybit:ETH/USDT"}, c.Ingest.Pairs)
	assert.Equal(t, "aggressive", c.Signals.DefaultProfile)
	assert.Equal(t, "db.internal", c.Postgres.Host)
	assert.Equal(t, "s3cret", c.Postgres.Password)
	assert.Equal(t, "cache.internal", c.Redis.Host)
	assert.Equal(t, 6380, c.Redis.Port)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, "abc123", c.Ingest.CryptoPanicKey)
}

func TestLoadWithEnvRedisAddrWithoutPort(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache.internal")

	c, err := LoadWithEnv("")
	require.NoError(t, err)
	assert.Equal(t, "cache.internal", c.Redis.Host)
	assert.Equal(t, 6379, c.Redis.Port)
}
