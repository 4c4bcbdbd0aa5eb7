package server

import (
	"context"
	"fmt"
	"time"

	domrepo "github.com/skymike/crypto-risk-dashboard/internal/domain/repository"
	"github.com/skymike/crypto-risk-dashboard/internal/repository"
	"github.com/skymike/crypto-risk-dashboard/internal/usecase"
	"github.com/skymike/crypto-risk-dashboard/pkg/cache"
	"github.com/skymike/crypto-risk-dashboard/pkg/config"
	applogger "github.com/skymike/crypto-risk-dashboard/pkg/logger"
)

// cycleLockTTL bounds how long a crashed worker can block the next run.
const cycleLockTTL = 10 * time.Minute

const cycleLockKey = "lock:ingest_cycle"

// Worker runs one ingest-and-evaluate cycle and exits. Scheduling is
// external (cron, systemd timer, CI job).
type Worker struct {
	cfg       *config.Config
	log       *applogger.Logger
	store     *repository.PostgresStore
	ingestor  *usecase.Ingestor
	engine    *usecase.SignalEngine
	publisher domrepo.VerdictPublisher
	vcache    *repository.VerdictCache
	cacheSvc  cache.Service
}

// NewWorker creates the worker with all dependencies. Cache and verdict
// cache may be nil when Redis is disabled.
func NewWorker(
	cfg *config.Config,
	log *applogger.Logger,
	store *repository.PostgresStore,
	ingestor *usecase.Ingestor,
	engine *usecase.SignalEngine,
	publisher domrepo.VerdictPublisher,
	vcache *repository.VerdictCache,
	cacheSvc cache.Service,
) *Worker {
	return &Worker{
		cfg:       cfg,
		log:       log,
		store:     store,
		ingestor:  ingestor,
		engine:    engine,
		publisher: publisher,
		vcache:    vcache,
		cacheSvc:  cacheSvc,
	}
}

// Run executes one full cycle: schema bootstrap, ingest every configured
// pair, evaluate all pairs with candle history, then publish and cache the
// verdicts.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.store.InitSchema(ctx); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	if w.cacheSvc != nil {
		ok, err := w.cacheSvc.TryLock(ctx, cycleLockKey, cycleLockTTL)
		if err != nil {
			w.log.Warn("cycle lock unavailable, proceeding", applogger.Error(err))
		} else if !ok {
			w.log.Info("another cycle is running, skipping")
			return nil
		} else {
			defer func() {
				if err := w.cacheSvc.Unlock(context.Background(), cycleLockKey); err != nil {
					w.log.Warn("cycle unlock failed", applogger.Error(err))
				}
			}()
		}
	}

	stats := w.ingestor.RunCycle(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}

	verdicts, err := w.engine.EvaluateAll(ctx, w.cfg.Signals.DefaultProfile, w.cfg.Signals.Persist)
	if err != nil {
		return fmt.Errorf("evaluate all: %w", err)
	}

	for _, v := range verdicts {
		if w.publisher != nil {
			if err := w.publisher.Publish(ctx, v); err != nil {
				w.log.Warn("verdict publish failed",
					applogger.String("pair", v.Pair), applogger.Error(err))
			}
		}
		if w.vcache != nil {
			if err := w.vcache.Put(ctx, v); err != nil {
				w.log.Warn("verdict cache put failed",
					applogger.String("pair", v.Pair), applogger.Error(err))
			}
		}
	}

	w.log.Info("worker cycle complete",
		applogger.Int("pairs", stats.PairsProcessed),
		applogger.Int("writes_ok", stats.WritesOK),
		applogger.Int("writes_failed", stats.WritesFailed),
		applogger.Int("verdicts", len(verdicts)),
	)
	return nil
}

// Close releases all infrastructure clients.
func (w *Worker) Close() {
	if w.publisher != nil {
		if err := w.publisher.Close(); err != nil {
			w.log.Warn("publisher close error", applogger.Error(err))
		}
	}
	if w.cacheSvc != nil {
		if err := w.cacheSvc.Close(); err != nil {
			w.log.Warn("cache close error", applogger.Error(err))
		}
	}
	if err := w.store.Close(); err != nil {
		w.log.Warn("postgres close error", applogger.Error(err))
	}
}
