// AngelaMos | 2026
// sessions.go

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/app"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/auth"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/config"
)

func newPruneSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune-sessions",
		Short: "Delete session records that expired more than a day ago",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			storage, err := app.OpenStorage(ctx, cfg, slog.Default())
			if err != nil {
				return err
			}
			defer storage.Close() //nolint:errcheck // process exits next

			jwt, err := auth.NewJWTManager(cfg.JWT)
			if err != nil {
				return err
			}

			svcs := app.NewServices(cfg, storage.Stores, jwt, nil)

			deleted, err := svcs.Auth.PruneSessions(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d expired sessions\n", deleted)
			return nil
		},
	}
}
