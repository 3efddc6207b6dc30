// AngelaMos | 2026
// seed.go

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/app"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/auth"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/config"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/seed"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo users, books and reviews into an empty catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger := slog.Default()

			storage, err := app.OpenStorage(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer storage.Close() //nolint:errcheck // process exits next

			rdb, err := core.NewRedis(ctx, cfg.Redis)
			if err != nil {
				return err
			}
			defer rdb.Close() //nolint:errcheck // process exits next

			jwt, err := auth.NewJWTManager(cfg.JWT)
			if err != nil {
				return err
			}

			svcs := app.NewServices(cfg, storage.Stores, jwt, rdb)
			result, err := seed.New(
				svcs.Auth, svcs.Users, svcs.Catalog, svcs.Reviews, logger,
			).Run(ctx)
			if err != nil {
				return err
			}

			if result.Skipped {
				fmt.Fprintln(cmd.OutOrStdout(), "catalog already has books, nothing to do")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"seeded %d users, %d books, %d reviews (password %q)\n",
				result.Users, result.Books, result.Reviews, seed.DemoPassword,
			)
			return nil
		},
	}
}
