package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/festy23/workmatch/internal/config"
	recModel "github.com/festy23/workmatch/internal/recommendation/model"
	"github.com/festy23/workmatch/internal/server"
	"github.com/festy23/workmatch/pkg/logger"
)

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Generate today's recommendation batches",
	Long: "Generate today's recommendation batches for every company with open posts " +
		"and every member with a career. Existing batches are left untouched.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		actor, err := cmd.Flags().GetString("actor")
		if err != nil {
			return err
		}
		types, err := actorTypes(actor)
		if err != nil {
			return err
		}
		return assign(cmd, types)
	},
}

func init() {
	assignCmd.Flags().String("actor", "all", "which batches to generate: company, member or all")
	rootCmd.AddCommand(assignCmd)
}

func actorTypes(actor string) ([]recModel.ActorType, error) {
	switch actor {
	case "company":
		return []recModel.ActorType{recModel.ActorCompany}, nil
	case "member":
		return []recModel.ActorType{recModel.ActorMember}, nil
	case "all":
		return []recModel.ActorType{recModel.ActorCompany, recModel.ActorMember}, nil
	default:
		return nil, fmt.Errorf("invalid --actor %q (must be: company, member, all)", actor)
	}
}

func assign(cmd *cobra.Command, types []recModel.ActorType) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	matching, err := config.NewMatchingConfigHolder(logger.Component(rt.logger, "config"))
	if err != nil {
		return err
	}
	node, err := rt.node()
	if err != nil {
		return err
	}

	rdb := connectRedis(ctx, rt)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	a, err := server.New(server.Deps{
		DB:       rt.db,
		Redis:    rdb,
		Node:     node,
		Matching: matching,
		Logger:   rt.logger,
	})
	if err != nil {
		return err
	}

	return runDaily(ctx, a, types, cmd)
}

func runDaily(ctx context.Context, a *server.App, types []recModel.ActorType, cmd *cobra.Command) error {
	failed := 0
	for _, t := range types {
		summary, err := a.Assigner.RunDaily(ctx, t)
		if err != nil {
			return fmt.Errorf("daily assignment for %s failed: %w", t, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: actors=%d created=%d existing=%d skipped=%d failed=%d\n",
			summary.Day, summary.ActorType, summary.Actors,
			summary.Created, summary.Existing, summary.Skipped, summary.Failed)
		failed += summary.Failed
	}
	if failed > 0 {
		return fmt.Errorf("%d actors failed", failed)
	}
	return nil
}
