package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/n0sat/satbot/cmd/satbotd/commands"
	"github.com/n0sat/satbot/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "satbotd",
	Short: "satbotd - ham-radio status feed ingestion and publication core",
	Long: `satbotd periodically fetches AMSAT satellite reports, the ARRL LoTW
logbook queue, a QO-100 DX-cluster feed, and the DX-World timeline, merges
them into typed stores, and renders each into a PNG artifact that chat
adapters serve by path.

Available commands:
  serve   - Run the scheduler and command façade
  status  - Show worker execution history and store sizes
  config  - Show the resolved configuration`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() != "config" {
			if err := logger.Initialize(false); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")

	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.StatusCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
