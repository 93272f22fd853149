package cmd

import (
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a time entry interactively",
	Args:  cobra.NoArgs,
	RunE:  runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	ctx := cmd.Context()
	tr, _, err := buildTracker(ctx, globalFlags(), log)
	if err != nil {
		return err
	}
	return tr.Add(ctx)
}
