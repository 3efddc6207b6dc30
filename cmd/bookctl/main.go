// AngelaMos | 2026
// main.go

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bookctl",
		Short:         "Operate the book reviews service",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.PersistentFlags().StringVar(
		&configPath, "config", "config.yaml", "path to config file",
	)

	root.AddCommand(
		newMigrateCmd(),
		newSeedCmd(),
		newKeygenCmd(),
		newPruneSessionsCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
