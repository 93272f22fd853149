package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stevendejongnl/harv/internal/config"
	"github.com/stevendejongnl/harv/internal/prompt"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the harv configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write an annotated configuration template",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.CreateTemplate(); err != nil {
			return err
		}
		path, err := config.Path()
		if err != nil {
			return err
		}
		prompt.Successf("Created %s", path)
		prompt.Infof("Fill in your Harvest and Jira credentials, then run 'harv config validate'.")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active configuration with credentials masked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		cfg.Display(os.Stdout)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration for missing or placeholder values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.Load(); err != nil {
			return fmt.Errorf("configuration is invalid: %w", err)
		}
		prompt.Successf("Configuration is valid.")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}
