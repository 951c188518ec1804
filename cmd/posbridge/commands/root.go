// Package commands implements the CLI commands for posbridge.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/posbridge/internal/config"
	"github.com/jmylchreest/posbridge/internal/logger"
	"github.com/jmylchreest/posbridge/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "posbridge",
	Short: "Move price lists from a till export into a point-of-sale catalog",
	Long: `posbridge reads the price table of an exported back-office page and
turns it into records, then maps those records into a keyed item
catalog for a point-of-sale app.

Examples:
  # Extract the price table to CSV, stripping currency from prices
  posbridge extract -i export.html -o prices.csv --strip-currency

  # Build a catalog keyed by category and item name
  posbridge catalog -i prices.csv -o catalog.yaml \
      --title-field 1 --price-field 4 --prefix-field 0

  # Check what a page contains before extracting
  posbridge inspect https://till.example.com/export`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgFile, _ := cmd.Flags().GetString("config")
		if err := config.Init(viper.GetViper(), cfgFile); err != nil {
			return err
		}
		// Logging settings may come from the config file or environment.
		logger.Init(logger.Options{
			Debug: viper.GetBool("debug"),
			Quiet: viper.GetBool("quiet"),
			JSON:  viper.GetBool("log_json"),
		})
		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.posbridge.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().Bool("log-json", false, "log as JSON")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		logError("%v", err)
	}
	return err
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
