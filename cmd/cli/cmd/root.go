// Package cmd provides the CLI commands for premium.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"premium-calc/internal/config"
	"premium-calc/internal/logging"
	"premium-calc/internal/rates"
)

// Version is overridden at link time.
var Version = "0.1.0"

var (
	cfgFile  string
	ratesDir string
	verbose  bool

	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "premium",
	Short: "Price insurance product baskets over an age range",
	Long: `premium computes yearly and cumulative premiums for a basket of insurance
products from CSV rate tables.

Examples:
  premium products --rates ./rates
  premium calc --sex F --start 16 --end 50 --item A001:1000000 --item R100:50000:2
  premium calc --sex M --start 30 --end 65 --item A001:500000 --year-out year_sum.csv`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", os.Getenv("CONFIG_FILE"), "YAML config file")
	rootCmd.PersistentFlags().StringVar(&ratesDir, "rates", "", "directory of *.csv rate tables (overrides rates_dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(calcCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg = loaded
	if ratesDir != "" {
		cfg.RatesDir = ratesDir
	}

	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	return nil
}

func loadRates() (*rates.Repository, error) {
	repo, err := rates.LoadFromDir(cfg.RatesDir)
	if err != nil {
		return nil, fmt.Errorf("loading rate tables from %s: %w", cfg.RatesDir, err)
	}
	return repo, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "premium version %s\n", Version)
	},
}
