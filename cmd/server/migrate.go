package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/festy23/workmatch/internal/database/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

func init() {
	migrateCmd.PersistentFlags().String("dir", migrate.GetMigrationsPath(), "migrations directory")

	for _, direction := range []migrate.Direction{migrate.Up, migrate.Down} {
		c := &cobra.Command{
			Use:   string(direction),
			Short: fmt.Sprintf("Apply migrations %s", direction),
			RunE: func(cmd *cobra.Command, _ []string) error {
				dir, err := cmd.Flags().GetString("dir")
				if err != nil {
					return err
				}
				steps, err := cmd.Flags().GetInt("steps")
				if err != nil {
					return err
				}
				return runMigrations(cmd, dir, direction, steps)
			},
		}
		c.Flags().Int("steps", 0, "number of migrations to apply (0 means all)")
		migrateCmd.AddCommand(c)
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := cmd.Flags().GetString("dir")
			if err != nil {
				return err
			}
			rt, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			version, dirty, err := migrate.Version(rt.db, dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version: %d dirty: %t\n", version, dirty)
			return nil
		},
	})

	rootCmd.AddCommand(migrateCmd)
}

func runMigrations(cmd *cobra.Command, dir string, direction migrate.Direction, steps int) error {
	rt, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	if err := migrate.Run(rt.db, dir, direction, steps); err != nil {
		return err
	}
	rt.logger.Infow("Migrations finished", "direction", direction, "steps", steps, "dir", dir)
	return nil
}
