// Command seed wipes the database and loads the demo users and products.
package main

import (
	"context"
	"log"

	"marco-pos/internal/config"
	"marco-pos/internal/database"
	"marco-pos/internal/logger"
	"marco-pos/internal/seed"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.Init(cfg.LogMode, cfg.LogFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := database.Init(cfg.DBDriver, cfg.DBDSN); err != nil {
		zap.L().Fatal("database init failed", zap.Error(err))
	}

	if err := seed.Run(context.Background(), database.DB); err != nil {
		zap.L().Fatal("seed failed", zap.Error(err))
	}
	zap.L().Info("database initialized and seeded")
}
