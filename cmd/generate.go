package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/stevendejongnl/harv/internal/ai"
	"github.com/stevendejongnl/harv/internal/timeparse"
)

var (
	generateProvider    string
	generateAutoApprove bool
	generateTargetHours string
)

var generateCmd = &cobra.Command{
	Use:   "generate [SUMMARY]",
	Short: "Generate time entries from a work summary using AI",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateProvider, "provider", "", "Override the configured AI provider (openai or anthropic)")
	generateCmd.Flags().BoolVar(&generateAutoApprove, "auto-approve", false, "Create all generated entries without review")
	generateCmd.Flags().StringVar(&generateTargetHours, "target-hours", "", "Override the target hours (e.g. 8 or 7:30)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	ctx := cmd.Context()
	tr, cfg, err := buildTracker(ctx, globalFlags(), log)
	if err != nil {
		return err
	}

	providerName := cfg.AI.Provider
	if generateProvider != "" {
		providerName = generateProvider
	}
	provider, err := ai.NewProvider(providerName, cfg.AI.APIKey, cfg.AI.Model, log)
	if err != nil {
		return err
	}

	targetHours := cfg.AI.TargetHours
	if generateTargetHours != "" {
		targetHours, err = timeparse.ParseHours(generateTargetHours)
		if err != nil {
			return err
		}
	}

	var summary string
	if len(args) == 1 {
		summary = strings.TrimSpace(args[0])
	}
	return tr.Generate(ctx, provider, summary, targetHours, generateAutoApprove)
}
