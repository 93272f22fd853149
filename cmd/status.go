package cmd

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running timer and today's entries",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	ctx := cmd.Context()
	tr, _, err := buildTracker(ctx, globalFlags(), log)
	if err != nil {
		return err
	}
	return tr.Status(ctx)
}
