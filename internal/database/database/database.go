// Package database opens and supervises the PostgreSQL connection.
package database

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/festy23/workmatch/internal/database/config"
	"github.com/festy23/workmatch/internal/database/pool"
	"github.com/festy23/workmatch/pkg/retry"
)

// Options groups everything needed to open the database.
type Options struct {
	Conn   config.Config
	Pool   pool.Config
	Retry  retry.Config
	Logger *zap.SugaredLogger
}

// OptionsFromEnv builds Options from DB_* environment variables.
func OptionsFromEnv(logger *zap.SugaredLogger) Options {
	return Options{
		Conn:   config.LoadConfigFromEnv(),
		Pool:   config.LoadPoolConfigFromEnv(),
		Retry:  config.LoadRetryConfigFromEnv(),
		Logger: logger,
	}
}

// Open connects to PostgreSQL, retrying transient failures, and applies pool settings.
func Open(ctx context.Context, opts Options) (*gorm.DB, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	dsn := config.BuildDSN(opts.Conn)
	attempt := 0
	db, err := retry.DoWithResult(ctx, opts.Retry, func() (*gorm.DB, error) {
		attempt++
		conn, openErr := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if openErr != nil {
			logger.Warnw("Database connection attempt failed",
				"attempt", attempt,
				"host", opts.Conn.Host,
				"error", config.SanitizeError(openErr, opts.Conn),
			)
		}
		return conn, openErr
	})
	if err != nil {
		return nil, config.SanitizeError(err, opts.Conn)
	}

	if err := pool.SetupConnectionPool(db, opts.Pool); err != nil {
		return nil, fmt.Errorf("failed to setup connection pool: %w", err)
	}

	logger.Infow("Database connected",
		"host", opts.Conn.Host,
		"database", opts.Conn.DBName,
		"max_open_conns", opts.Pool.MaxOpenConns,
	)
	return db, nil
}

// HealthCheck verifies database connection availability.
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close gracefully closes database connection.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

// GetStats returns database connection pool statistics.
func GetStats(db *gorm.DB) (*sql.DBStats, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	stats := sqlDB.Stats()
	return &stats, nil
}
