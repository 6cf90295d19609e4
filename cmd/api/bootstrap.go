package main

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"agrifin-backend/internal/config"
	"agrifin-backend/internal/infrastructure/db"
	"agrifin-backend/internal/logging"
)

type runtime struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

// bootstrap loads config, builds the logger and opens the database.
func bootstrap(configPath string) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	gdb, err := db.OpenGorm(cfg.DB.Driver, cfg.DSN(), log)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &runtime{cfg: cfg, log: log, db: gdb}, nil
}

func (r *runtime) Close() {
	if sqlDB, err := r.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = r.log.Sync()
}
