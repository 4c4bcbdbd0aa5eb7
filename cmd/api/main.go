package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/skymike/crypto-risk-dashboard/internal/di"
	"github.com/skymike/crypto-risk-dashboard/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s pairs=%d profile=%s", cfg.Environment, len(cfg.Ingest.Pairs), cfg.Signals.DefaultProfile)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// Run blocks until signal
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
