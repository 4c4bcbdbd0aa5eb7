package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/skymike/crypto-risk-dashboard/pkg/util"
)

// defaultPairs is the pair universe used when neither YAML nor SYMBOLS
// provide one.
var defaultPairs = []string{
	"binance:BTC/USDT", "binance:ETH/USDT", "binance:SOL/USDT", "binance:BNB/USDT",
	"binance:XRP/USDT", "binance:DOGE/USDT", "binance:ADA/USDT", "binance:AVAX/USDT",
	"binance:TRX/USDT", "binance:DOT/USDT", "binance:LINK/USDT", "binance:MATIC/USDT",
	"binance:UNI/USDT", "binance:APT/USDT", "binance:ARB/USDT", "binance:ATOM/USDT",
	"binance:OP/USDT", "binance:SEI/USDT", "binance:NEAR/USDT", "binance:INJ/USDT",
	"bybit:BTC/USDT", "bybit:ETH/USDT", "bybit:SOL/USDT", "bybit:XRP/USDT",
	"bybit:DOGE/USDT", "bybit:ADA/USDT", "bybit:LINK/USDT", "bybit:MATIC/USDT",
	"bybit:NEAR/USDT", "bybit:APT/USDT",
}

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error fatal panic"`
		Format string `yaml:"format" default:"console" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`
	Postgres struct {
		Host            string        `yaml:"host" default:"localhost" validate:"required"`
		Port            int           `yaml:"port" default:"5432"`
		Database        string        `yaml:"database" default:"cryptodb" validate:"required"`
		User            string        `yaml:"user" default:"cryptouser"`
		Password        string        `yaml:"password" default:"cryptopass"`
		SSLMode         string        `yaml:"ssl_mode" default:"disable"`
		MaxOpenConns    int           `yaml:"max_open_conns" default:"10"`
		MaxIdleConns    int           `yaml:"max_idle_conns" default:"5"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" default:"30m"`
	} `yaml:"postgres"`
	Redis struct {
		Enabled  bool          `yaml:"enabled"`
		Host     string        `yaml:"host" default:"localhost"`
		Port     int           `yaml:"port" default:"6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		TTL      time.Duration `yaml:"ttl" default:"15m"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"risk.signals"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		Compression  string        `yaml:"compression" default:"gzip"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"kafka"`
	Ingest struct {
		Pairs            []string      `yaml:"pairs" validate:"min=1,dive,required"`
		CandleLimit      int           `yaml:"candle_limit" default:"200" validate:"gt=0"`
		VolatilityWindow int           `yaml:"volatility_window" default:"14" validate:"gt=0"`
		UpstreamTimeout  time.Duration `yaml:"upstream_timeout" default:"15s"`
		CryptoPanicKey   string        `yaml:"cryptopanic_api_key"`
	} `yaml:"ingest"`
	Signals struct {
		DefaultProfile string `yaml:"default_profile" default:"balanced"`
		Persist        bool   `yaml:"persist" default:"true"`
	} `yaml:"signals"`
}

// Load reads and parses a YAML configuration file, applying struct
// defaults before validation.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if len(c.Ingest.Pairs) == 0 {
		c.Ingest.Pairs = defaultPairs
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("SYMBOLS"); v != "" {
		pairs := make([]string, 0)
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				pairs = append(pairs, s)
			}
		}
		if len(pairs) > 0 {
			c.Ingest.Pairs = pairs
		}
	}
	if v := os.Getenv("SIGNAL_PROFILE"); v != "" {
		c.Signals.DefaultProfile = strings.ToLower(v)
	}
	if v := os.Getenv("POSTGRES_HOST"); v != "" {
		c.Postgres.Host = v
	}
	if v := os.Getenv("POSTGRES_DB"); v != "" {
		c.Postgres.Database = v
	}
	if v := os.Getenv("POSTGRES_USER"); v != "" {
		c.Postgres.User = v
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		c.Postgres.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, ok := strings.Cut(v, ":")
		if ok {
			c.Redis.Host = host
			c.Redis.Port = util.ParseIntDefault(port, c.Redis.Port)
		} else {
			c.Redis.Host = v
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("CRYPTOPANIC_API_KEY"); v != "" {
		c.Ingest.CryptoPanicKey = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	return nil
}
