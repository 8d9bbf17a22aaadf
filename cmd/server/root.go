package main

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/workmatch/internal/config"
	"github.com/festy23/workmatch/internal/database/database"
	"github.com/festy23/workmatch/pkg/logger"
)

const app = "workmatch"

var rootCmd = &cobra.Command{
	Use:           app,
	Short:         "workmatch matches construction workers and teams with company job posts",
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		files, err := cmd.Flags().GetStringSlice("env-file")
		if err != nil {
			return err
		}
		return config.LoadDotEnv(files...)
	},
}

func init() {
	rootCmd.PersistentFlags().StringSlice("env-file", []string{".env"}, ".env files loaded before reading the environment")
	rootCmd.PersistentFlags().String("log-level", "", "override LOG_LEVEL (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "override LOG_FORMAT (json, console)")

	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// runtime is the infrastructure shared by all subcommands.
type runtime struct {
	cfg    config.Config
	logger *zap.SugaredLogger
	db     *gorm.DB
}

// loadConfig reads the environment, applies flag overrides and validates.
func loadConfig() (config.Config, error) {
	cfg := config.LoadFromEnv()
	if level := viper.GetString("log-level"); level != "" {
		cfg.Logger.Level = level
	}
	if format := viper.GetString("log-format"); format != "" {
		cfg.Logger.Format = format
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// bootstrap builds the logger and opens the database.
func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.NewWithConfig(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	db, err := database.Open(ctx, database.OptionsFromEnv(logger.Component(log, "database")))
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &runtime{cfg: cfg, logger: log, db: db}, nil
}

func (r *runtime) node() (*snowflake.Node, error) {
	node, err := snowflake.NewNode(int64(r.cfg.SnowflakeNode))
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %w", err)
	}
	return node, nil
}

func (r *runtime) close() {
	if err := database.Close(r.db); err != nil {
		r.logger.Warnw("Failed to close database", "error", err)
	}
	_ = r.logger.Sync()
}
