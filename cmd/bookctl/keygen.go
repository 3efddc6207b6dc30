// AngelaMos | 2026
// keygen.go

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/auth"
)

func newKeygenCmd() *cobra.Command {
	var privatePath, publicPath string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate the ES256 key pair used to sign credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, path := range []string{privatePath, publicPath} {
				if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
					return fmt.Errorf("create key directory: %w", err)
				}
			}
			if err := auth.GenerateKeyPair(privatePath, publicPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", privatePath, publicPath)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&privatePath, "private", "keys/private.pem", "private key output path")
	f.StringVar(&publicPath, "public", "keys/public.pem", "public key output path")

	return cmd
}
