package di

import (
	"fmt"

	"github.com/skymike/crypto-risk-dashboard/internal/adapters"
	"github.com/skymike/crypto-risk-dashboard/internal/domain/repository"
	"github.com/skymike/crypto-risk-dashboard/internal/handler/api"
	internalrepo "github.com/skymike/crypto-risk-dashboard/internal/repository"
	"github.com/skymike/crypto-risk-dashboard/internal/services/ratelimit"
	"github.com/skymike/crypto-risk-dashboard/internal/usecase"
	"github.com/skymike/crypto-risk-dashboard/pkg/cache"
	"github.com/skymike/crypto-risk-dashboard/pkg/config"
	xhttp "github.com/skymike/crypto-risk-dashboard/pkg/http"
	pkgkafka "github.com/skymike/crypto-risk-dashboard/pkg/kafka"
	applogger "github.com/skymike/crypto-risk-dashboard/pkg/logger"
	"github.com/skymike/crypto-risk-dashboard/pkg/metrics"
	pkgpg "github.com/skymike/crypto-risk-dashboard/pkg/postgres"
	"github.com/skymike/crypto-risk-dashboard/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvidePostgresClient creates the Postgres connection pool.
func ProvidePostgresClient(cfg *config.Config) (*pkgpg.Client, error) {
	client, err := pkgpg.NewClient(
		pkgpg.WithHost(cfg.Postgres.Host),
		pkgpg.WithPort(cfg.Postgres.Port),
		pkgpg.WithDatabase(cfg.Postgres.Database),
		pkgpg.WithCredentials(cfg.Postgres.User, cfg.Postgres.Password),
		pkgpg.WithSSLMode(cfg.Postgres.SSLMode),
		pkgpg.WithMaxConnections(cfg.Postgres.MaxOpenConns, cfg.Postgres.MaxIdleConns),
		pkgpg.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
	)
	if err != nil {
		return nil, fmt.Errorf("postgres client: %w", err)
	}
	return client, nil
}

// ProvideStore creates the Postgres-backed market store.
func ProvideStore(client *pkgpg.Client) *internalrepo.PostgresStore {
	return internalrepo.NewPostgresStore(client)
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache creates the Redis cache service, or nil when disabled.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	c, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return c, nil
}

// ProvideVerdictCache wraps the cache service, or nil when caching is off.
func ProvideVerdictCache(cacheSvc cache.Service, cfg *config.Config) *internalrepo.VerdictCache {
	if cacheSvc == nil {
		return nil
	}
	return internalrepo.NewVerdictCache(cacheSvc, cfg.Redis.TTL)
}

// ProvidePublisher creates the Kafka verdict publisher, or a no-op when
// Kafka is disabled.
func ProvidePublisher(cfg *config.Config) (repository.VerdictPublisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NopVerdictPublisher{}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.WriteTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaVerdictPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideSources builds all upstream source adapters sharing one HTTP
// client and one per-venue rate limiter.
func ProvideSources(cfg *config.Config, log *applogger.Logger, m repository.Metrics) usecase.Sources {
	deps := adapters.Deps{
		Log:     log,
		Metrics: m,
		HTTP:    xhttp.NewClient(xhttp.WithTimeout(cfg.Ingest.UpstreamTimeout)),
		Limiter: ratelimit.New(),
	}
	return usecase.Sources{
		Candles:      adapters.NewCandleAdapter(deps, cfg.Ingest.CandleLimit),
		Funding:      adapters.NewFundingAdapter(deps),
		OpenInterest: adapters.NewOpenInterestAdapter(deps),
		Volatility:   adapters.NewVolatilityDeriver(cfg.Ingest.VolatilityWindow),
		Sentiment:    adapters.NewSentimentAdapter(deps, cfg.Ingest.CryptoPanicKey),
		Headlines:    adapters.NewHeadlineAdapter(deps, cfg.Ingest.CryptoPanicKey),
	}
}

// ProvideIngestor creates the ingestion use case.
func ProvideIngestor(cfg *config.Config, sources usecase.Sources, store *internalrepo.PostgresStore, m repository.Metrics, log *applogger.Logger) *usecase.Ingestor {
	return usecase.NewIngestor(cfg.Ingest.Pairs, sources, store, m, log)
}

// ProvideEngine creates the signal evaluation use case.
func ProvideEngine(store *internalrepo.PostgresStore, m repository.Metrics, log *applogger.Logger) *usecase.SignalEngine {
	return usecase.NewSignalEngine(store, m, log)
}

// ProvideHandler creates the API route handler.
func ProvideHandler(log *applogger.Logger, store *internalrepo.PostgresStore, vcache *internalrepo.VerdictCache) xhttp.Handler {
	return api.NewSignalsHandler(log, store, vcache)
}

// ProvideApp creates the API application.
func ProvideApp(cfg *config.Config, log *applogger.Logger, store *internalrepo.PostgresStore, cacheSvc cache.Service, handler xhttp.Handler) *server.App {
	return server.NewApp(cfg, log, store, cacheSvc, handler)
}

// ProvideWorker creates the one-shot pipeline worker.
func ProvideWorker(
	cfg *config.Config,
	log *applogger.Logger,
	store *internalrepo.PostgresStore,
	ingestor *usecase.Ingestor,
	engine *usecase.SignalEngine,
	publisher repository.VerdictPublisher,
	vcache *internalrepo.VerdictCache,
	cacheSvc cache.Service,
) *server.Worker {
	return server.NewWorker(cfg, log, store, ingestor, engine, publisher, vcache, cacheSvc)
}
