package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/stevendejongnl/harv/internal/gitscan"
	"github.com/stevendejongnl/harv/internal/prompt"
	"github.com/stevendejongnl/harv/internal/tracker"
)

var (
	syncAutoStart bool
	syncAutoStop  bool
	syncRepo      string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Start a timer for the ticket referenced by today's commits",
	Args:  cobra.NoArgs,
	RunE:  runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncAutoStart, "auto-start", false, "Start the timer without prompting")
	syncCmd.Flags().BoolVar(&syncAutoStop, "auto-stop", false, "Stop a conflicting running timer without prompting")
	syncCmd.Flags().StringVar(&syncRepo, "repo", "", "Scan this repository instead of the configured ones")
}

func runSync(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	flags := globalFlags()
	flags.AutoStart = syncAutoStart
	flags.AutoStop = syncAutoStop

	ctx := cmd.Context()
	tr, cfg, err := buildTracker(ctx, flags, log)
	if err != nil {
		return err
	}

	configured := cfg.Git.Repositories
	if syncRepo != "" {
		configured = []string{syncRepo}
	}
	repos, err := gitscan.DiscoverRepositories(configured, log)
	if err != nil {
		return err
	}
	commits, err := gitscan.CommitsFromRepositories(repos, log)
	if err != nil {
		return err
	}

	if err := tr.Sync(ctx, commits); err != nil {
		if errors.Is(err, tracker.ErrNoTickets) {
			prompt.Infof("No tickets found in today's commits.")
			return nil
		}
		return err
	}
	return nil
}
