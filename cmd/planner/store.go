package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"vacation-planner/internal/config"
	"vacation-planner/internal/repository"
)

// openStore connects the configured backend. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (repository.Reader, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendSupabase:
		store, err := repository.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseTable, cfg.RequestTimeout, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil

	case config.BackendPostgres, config.BackendSQLite:
		dialector := postgres.Open(cfg.DatabaseURL)
		if cfg.Backend == config.BackendSQLite {
			dialector = sqlite.Open(cfg.DatabaseURL)
		}

		db, err := gorm.Open(dialector, &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get database instance: %w", err)
		}

		store, err := repository.NewGormStore(db, cfg.SupabaseTable, logger)
		if err != nil {
			sqlDB.Close()
			return nil, nil, err
		}
		return store, sqlDB.Close, nil

	case config.BackendSheets:
		service, err := repository.NewSheetsService(ctx, cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSheetsStore(service, cfg.SheetsSpreadsheetID, cfg.SheetsRange, logger), noop, nil
	}

	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}
