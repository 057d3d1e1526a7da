package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Nazarious-ucu/weather-lookup/internal/app"
	"github.com/Nazarious-ucu/weather-lookup/internal/config"
	metricsSvc "github.com/Nazarious-ucu/weather-lookup/internal/services/metrics"
	"github.com/Nazarious-ucu/weather-lookup/pkg/logger"
)

// @title Weather Lookup API
// @version 1.0
// @description Current temperature lookups backed by tomorrow.io
// @host localhost:8082
// @BasePath /api/
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Panicf("failed to load configuration: %v", err)
	}

	l, err := logger.NewLogger(cfg.LogsPath, app.ServiceName)
	if err != nil {
		log.Panicf("failed to create logger: %v", err)
	}

	application := app.New(*cfg, l, metricsSvc.NewMetrics(app.ServiceName))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Start(ctx, nil); err != nil {
		l.Error().Err(err).Msg("application failed to run")
		os.Exit(1)
	}
}
