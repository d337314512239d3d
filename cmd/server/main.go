// Command server runs the SharePay API.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/sharepay/internal/config"
	"github.com/mmynk/sharepay/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "sharepay",
	Short: "Shared-group expense tracker",
	Long: `SharePay records expenses paid on behalf of a group, splits them
equally between members and tracks who owes whom until debts are settled.
Configuration is read from SHAREPAY_* environment variables.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// loadConfig parses the environment and configures logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel)
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
