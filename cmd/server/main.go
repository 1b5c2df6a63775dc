package main

import (
	"fmt"
	"log"

	"marco-pos/internal/config"
	"marco-pos/internal/database"
	"marco-pos/internal/logger"
	"marco-pos/internal/server"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.ValidateServer(); err != nil {
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

	r := server.NewRouter(cfg)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	zap.L().Info("starting server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		zap.L().Fatal("server error", zap.Error(err))
	}
}
