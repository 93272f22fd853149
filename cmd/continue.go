package cmd

import (
	"github.com/spf13/cobra"
)

var (
	continueDays      int
	continueAutoStart bool
)

var continueCmd = &cobra.Command{
	Use:   "continue",
	Short: "Resume a recent time entry",
	Args:  cobra.NoArgs,
	RunE:  runContinue,
}

func init() {
	continueCmd.Flags().IntVar(&continueDays, "days", 0, "How many days back to look for entries (default from config, else 1)")
	continueCmd.Flags().BoolVar(&continueAutoStart, "auto-start", false, "Stop a conflicting running timer without prompting")
}

func runContinue(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	flags := globalFlags()
	flags.AutoStart = continueAutoStart

	ctx := cmd.Context()
	tr, _, err := buildTracker(ctx, flags, log)
	if err != nil {
		return err
	}
	return tr.Continue(ctx, continueDays)
}
