// Package main implements talentctl, the command-line client of the talent
// portal. It reads and mutates portal data through the same store adapters
// the server uses: a local kv store (file or redis) or a remote server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/okian/talentportal/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "talentctl",
	Short:         "Talent portal command-line client",
	Long:          "talentctl shows the profile, career gap analysis and team of the signed-in user, and records kudos and client feedback, against a local store or a remote portal server.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return logger.SetLevelString(logLevel)
	},
}

var logLevel string

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	registerSourceFlags(rootCmd)
}

func main() {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
