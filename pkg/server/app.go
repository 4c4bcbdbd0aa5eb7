package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/skymike/crypto-risk-dashboard/internal/repository"
	"github.com/skymike/crypto-risk-dashboard/pkg/cache"
	"github.com/skymike/crypto-risk-dashboard/pkg/config"
	xhttp "github.com/skymike/crypto-risk-dashboard/pkg/http"
	applogger "github.com/skymike/crypto-risk-dashboard/pkg/logger"
)

// App encapsulates the API server lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	store      *repository.PostgresStore
	cacheSvc   cache.Service
	handler    xhttp.Handler
	httpServer *xhttp.Server
}

// NewApp creates the API application with all dependencies.
func NewApp(
	cfg *config.Config,
	log *applogger.Logger,
	store *repository.PostgresStore,
	cacheSvc cache.Service,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		store:    store,
		cacheSvc: cacheSvc,
		handler:  handler,
	}
}

// Run starts the HTTP server and blocks until interrupted.
func (a *App) Run() error {
	if err := a.store.InitSchema(context.Background()); err != nil {
		return err
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("api server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}
	if a.cacheSvc != nil {
		if err := a.cacheSvc.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn("postgres close error", applogger.Error(err))
	}
	a.log.Info("shutdown complete")
	return nil
}
