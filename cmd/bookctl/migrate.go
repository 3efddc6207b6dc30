// AngelaMos | 2026
// migrate.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/config"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDatabase(cmd)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck // process exits next

			return db.MigrateUp()
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations (all of them unless --steps is set)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDatabase(cmd)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck // process exits next

			return db.MigrateDown(steps)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back, 0 for all")
	cmd.AddCommand(down)

	return cmd
}

func openDatabase(cmd *cobra.Command) (*core.Database, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Storage.Driver != config.StorageDriverPostgres {
		return nil, fmt.Errorf("migrations need the postgres driver, got %q", cfg.Storage.Driver)
	}

	return core.NewDatabase(cmd.Context(), cfg.Database)
}
