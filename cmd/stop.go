package cmd

import (
	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the currently running timer",
	Args:  cobra.NoArgs,
	RunE:  runStop,
}

func runStop(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	ctx := cmd.Context()
	tr, _, err := buildTracker(ctx, globalFlags(), log)
	if err != nil {
		return err
	}
	return tr.StopTimer(ctx)
}
