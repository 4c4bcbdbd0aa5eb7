package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/skymike/crypto-risk-dashboard/internal/di"
	"github.com/skymike/crypto-risk-dashboard/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s pairs=%d profile=%s", cfg.Environment, len(cfg.Ingest.Pairs), cfg.Signals.DefaultProfile)

	worker, err := di.InitializeWorker(cfg)
	if err != nil {
		log.Fatalf("worker initialization failed: %v", err)
	}

	// One cycle per invocation; interrupts abort between pairs.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = worker.Run(ctx)
	worker.Close()
	if err != nil {
		log.Printf("worker error: %v", err)
		os.Exit(1)
	}
}
