package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/festy23/workmatch/internal/config"
	"github.com/festy23/workmatch/internal/database/migrate"
	"github.com/festy23/workmatch/internal/lock"
	"github.com/festy23/workmatch/internal/metrics"
	"github.com/festy23/workmatch/internal/server"
	"github.com/festy23/workmatch/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		migrateFirst, err := cmd.Flags().GetBool("migrate")
		if err != nil {
			return err
		}
		return serve(cmd.Context(), migrateFirst)
	},
}

func init() {
	serveCmd.Flags().Bool("migrate", false, "apply pending migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func serve(parent context.Context, migrateFirst bool) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	if migrateFirst {
		if err := migrate.Migrate(rt.db); err != nil {
			return err
		}
		rt.logger.Infow("Migrations applied", "path", migrate.GetMigrationsPath())
	}

	matching, err := config.NewMatchingConfigHolder(logger.Component(rt.logger, "config"))
	if err != nil {
		return err
	}
	node, err := rt.node()
	if err != nil {
		return err
	}

	m := metrics.New()
	m.RegisterDBStats(rt.db)

	rdb := connectRedis(ctx, rt)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	gin.SetMode(rt.cfg.GinMode)
	a, err := server.New(server.Deps{
		DB:       rt.db,
		Redis:    rdb,
		Node:     node,
		Matching: matching,
		Metrics:  m,
		Logger:   rt.logger,
	})
	if err != nil {
		return err
	}

	rt.logger.Infow("Starting workmatch",
		"address", rt.cfg.Server.GetAddress(),
		"gin_mode", rt.cfg.GinMode,
		"redis", rdb != nil,
		"daily_limit", matching.Get().DailyLimit,
	)
	return a.Run(ctx, rt.cfg.Server)
}

// connectRedis returns nil when redis is disabled or unreachable; batch
// generation then relies on the database uniqueness guard alone.
func connectRedis(ctx context.Context, rt *runtime) redis.UniversalClient {
	if !rt.cfg.Redis.Enabled() {
		return nil
	}
	client, err := lock.NewClient(ctx, rt.cfg.Redis)
	if err != nil {
		rt.logger.Warnw("Redis unavailable, continuing without assignment locks", "addr", rt.cfg.Redis.Addr, "error", err)
		return nil
	}
	return client
}
