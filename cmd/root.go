// Package cmd defines and implements the CLI commands for the imdbscraper
// executable.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/filberthamijoyo/CinematicAI/internal/config"
	"github.com/filberthamijoyo/CinematicAI/internal/logging"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "imdbscraper",
		Short: "A headless-browser scraper for IMDB movie reviews.",
		Long: `imdbscraper walks an IMDB search listing with a real browser,
expands the infinite-scroll results, and fans out over every movie's
detail page to collect metadata and user reviews into a CSV file.`,
	}

	cobra.OnInitialize(func() {
		config.Init(cfgFile)
		logging.InitLogger(viper.GetBool("logging.development"))
	})

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	cmd.AddCommand(newScrapeCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		logging.L.Fatal("Command execution failed", zap.Error(err))
	}
}
