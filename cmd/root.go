// Package cmd wires the CLI commands to the tracker workflows.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stevendejongnl/harv/internal/config"
	"github.com/stevendejongnl/harv/internal/gitscan"
	"github.com/stevendejongnl/harv/internal/harvest"
	"github.com/stevendejongnl/harv/internal/jira"
	"github.com/stevendejongnl/harv/internal/logger"
	"github.com/stevendejongnl/harv/internal/model"
	"github.com/stevendejongnl/harv/internal/prompt"
	"github.com/stevendejongnl/harv/internal/tracker"
	"github.com/stevendejongnl/harv/internal/usage"
)

var (
	flagVerbose bool
	flagQuiet   bool
	flagDryRun  bool
)

var rootCmd = &cobra.Command{
	Use:   "harv",
	Short: "Track time in Harvest from your git commits and Jira tickets",
	Long: `harv correlates today's git commits with Jira tickets and keeps a
Harvest timer running for the ticket you are working on. Running harv
without a subcommand syncs.`,
	Args:          cobra.NoArgs,
	RunE:          runSync,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, gitscan.ErrNoRepository) {
			_ = rootCmd.Help()
			os.Exit(0)
		}
		if errors.Is(err, prompt.ErrCancelled) {
			fmt.Fprintln(os.Stderr, "Cancelled.")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().BoolVarP(&flagDryRun, "dry-run", "n", false, "Show what would happen without writing to Harvest")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(continueCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(configCmd)
}

func newLogger() *zap.Logger {
	return logger.New(flagVerbose, flagQuiet)
}

func globalFlags() model.Flags {
	return model.Flags{
		DryRun:  flagDryRun,
		Quiet:   flagQuiet,
		Verbose: flagVerbose,
	}
}

// buildTracker loads the config and assembles a Tracker with live
// Harvest and Jira clients.
func buildTracker(ctx context.Context, flags model.Flags, log *zap.Logger) (*tracker.Tracker, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	harvestClient := harvest.NewClient(cfg.Harvest.AccessToken, cfg.Harvest.AccountID, cfg.Harvest.UserAgent, flags.DryRun, log)
	jiraClient := jira.NewClient(ctx, cfg.Jira.BaseURL, cfg.Jira.AccessToken, log)

	cachePath, err := usage.FilePath()
	if err != nil {
		return nil, nil, err
	}
	cache := usage.Load(cachePath, log)

	return tracker.New(cfg, harvestClient, jiraClient, prompt.UI{}, cache, flags, log), cfg, nil
}
