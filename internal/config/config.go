// Package config loads the harv configuration from
// $HOME/.config/harv/config.toml, with environment variable overrides.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration.
type Config struct {
	Harvest      HarvestConfig      `toml:"harvest"`
	Jira         JiraConfig         `toml:"jira"`
	Git          GitConfig          `toml:"git"`
	Settings     Settings           `toml:"settings"`
	TicketFilter TicketFilterConfig `toml:"ticket_filter"`
	AI           AIConfig           `toml:"ai"`
}

// HarvestConfig holds Harvest API credentials and optional defaults.
type HarvestConfig struct {
	AccessToken string  `toml:"access_token" env:"HARVEST_ACCESS_TOKEN"`
	AccountID   string  `toml:"account_id" env:"HARVEST_ACCOUNT_ID"`
	UserAgent   string  `toml:"user_agent"`
	ProjectID   *uint64 `toml:"project_id"`
	TaskID      *uint64 `toml:"task_id"`
}

// JiraConfig holds Jira API credentials.
type JiraConfig struct {
	AccessToken string `toml:"access_token" env:"JIRA_ACCESS_TOKEN"`
	BaseURL     string `toml:"base_url" env:"JIRA_BASE_URL"`
}

// GitConfig lists the repositories to scan for commits. Empty means the
// current working directory.
type GitConfig struct {
	Repositories []string `toml:"repositories"`
}

// TicketFilterConfig holds ticket prefixes that match the identifier
// pattern but are not Jira tickets (e.g. CWE, CVE).
type TicketFilterConfig struct {
	Denylist []string `toml:"denylist"`
}

// Settings holds behavioral toggles.
type Settings struct {
	AutoStart        bool    `toml:"auto_start"`
	AutoStop         bool    `toml:"auto_stop"`
	AutoSelectSingle *bool   `toml:"auto_select_single"`
	ContinueDays     *uint8  `toml:"continue_days"`
	ContinueMode     *string `toml:"continue_mode" env:"CONTINUE_MODE"`
}

// SelectSingle reports whether a lone ticket is taken without prompting.
// Defaults to true when unset.
func (s Settings) SelectSingle() bool {
	return s.AutoSelectSingle == nil || *s.AutoSelectSingle
}

// AIConfig holds the AI provider settings for entry generation.
type AIConfig struct {
	Enabled     bool    `toml:"enabled" env:"AI_ENABLED"`
	Provider    string  `toml:"provider" env:"AI_PROVIDER" env-default:"openai"`
	APIKey      string  `toml:"api_key" env:"AI_API_KEY"`
	Model       *string `toml:"model" env:"AI_MODEL"`
	TargetHours float64 `toml:"target_hours" env:"AI_TARGET_HOURS" env-default:"8.0"`
}

// Path returns the configuration file location.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "harv", "config.toml"), nil
}

// Load reads the config file, applies environment overrides, and
// validates the result. A one-shot migration from the legacy harjira
// config directory runs first.
func Load() (*Config, error) {
	migrateFromHarjira()

	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads and validates the config at an explicit path.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found at %s; run 'harv config init' to create one", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// migrateFromHarjira recursively copies the legacy ~/.config/harjira
// directory to ~/.config/harv when only the old one exists. Failure is a
// warning, never fatal.
func migrateFromHarjira() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	oldDir := filepath.Join(home, ".config", "harjira")
	newDir := filepath.Join(home, ".config", "harv")

	if _, err := os.Stat(oldDir); err != nil {
		return
	}
	if _, err := os.Stat(newDir); err == nil {
		return
	}

	if err := copyDir(oldDir, newDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to migrate config from %s to %s: %v\n", oldDir, newDir, err)
		return
	}
	fmt.Fprintf(os.Stderr, "Migrated config from %s to %s\n", oldDir, newDir)
}

func copyDir(src, dst string) error {
	if err := os.MkdirAll(dst, 0o700); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// Validate checks the configuration for placeholder or missing values and
// returns remediation-oriented errors.
func (c *Config) Validate() error {
	if c.Harvest.AccessToken == "" || strings.Contains(c.Harvest.AccessToken, "your_harvest") {
		return fmt.Errorf("harvest access token not configured; update your config file")
	}
	if c.Harvest.AccountID == "" || strings.Contains(c.Harvest.AccountID, "your_account") {
		return fmt.Errorf("harvest account ID not configured; update your config file")
	}
	if c.Jira.AccessToken == "" || strings.Contains(c.Jira.AccessToken, "your_jira") {
		return fmt.Errorf("jira access token not configured; update your config file")
	}
	if c.Jira.BaseURL == "" || strings.Contains(c.Jira.BaseURL, "your-company") {
		return fmt.Errorf("jira base URL not configured; update your config file")
	}
	if !strings.HasPrefix(c.Jira.BaseURL, "http") {
		return fmt.Errorf("jira base URL must start with http:// or https://")
	}

	if c.AI.Enabled {
		if c.AI.APIKey == "" || strings.Contains(c.AI.APIKey, "your_") {
			return fmt.Errorf("AI is enabled but no API key is configured; update your config file")
		}
		switch strings.ToLower(c.AI.Provider) {
		case "openai", "anthropic", "claude":
		default:
			return fmt.Errorf("unsupported AI provider %q; supported: openai, anthropic", c.AI.Provider)
		}
		if c.AI.TargetHours <= 0 || c.AI.TargetHours > 24 {
			return fmt.Errorf("ai target_hours must be between 0 and 24")
		}
	}

	if c.Settings.ContinueMode != nil {
		switch *c.Settings.ContinueMode {
		case "restart", "new", "ask":
		default:
			return fmt.Errorf("invalid continue_mode %q; must be 'restart', 'new', or 'ask'", *c.Settings.ContinueMode)
		}
	}
	return nil
}

func mask(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return secret + "***"
	}
	return secret[:8] + "***"
}

// Display writes a human-readable view of the configuration with
// credentials masked.
func (c *Config) Display(w io.Writer) {
	fmt.Fprintln(w, "Harvest Configuration:")
	fmt.Fprintf(w, "  Account ID: %s\n", c.Harvest.AccountID)
	fmt.Fprintf(w, "  Access Token: %s\n", mask(c.Harvest.AccessToken))
	fmt.Fprintf(w, "  User Agent: %s\n", c.Harvest.UserAgent)
	if c.Harvest.ProjectID != nil {
		fmt.Fprintf(w, "  Default Project ID: %d\n", *c.Harvest.ProjectID)
	}
	if c.Harvest.TaskID != nil {
		fmt.Fprintf(w, "  Default Task ID: %d\n", *c.Harvest.TaskID)
	}

	fmt.Fprintln(w, "\nJira Configuration:")
	fmt.Fprintf(w, "  Base URL: %s\n", c.Jira.BaseURL)
	fmt.Fprintf(w, "  Access Token: %s\n", mask(c.Jira.AccessToken))

	fmt.Fprintln(w, "\nGit Configuration:")
	if len(c.Git.Repositories) == 0 {
		fmt.Fprintln(w, "  Repositories: using current working directory")
	} else {
		fmt.Fprintln(w, "  Repositories:")
		for _, repo := range c.Git.Repositories {
			fmt.Fprintf(w, "    - %s\n", repo)
		}
	}

	fmt.Fprintln(w, "\nSettings:")
	fmt.Fprintf(w, "  Auto-start timers: %t\n", c.Settings.AutoStart)
	fmt.Fprintf(w, "  Auto-stop timers: %t\n", c.Settings.AutoStop)
	fmt.Fprintf(w, "  Auto-select single ticket: %t\n", c.Settings.SelectSingle())
	if c.Settings.ContinueMode != nil {
		fmt.Fprintf(w, "  Continue mode: %s\n", *c.Settings.ContinueMode)
	}

	fmt.Fprintln(w, "\nAI Configuration:")
	fmt.Fprintf(w, "  Enabled: %t\n", c.AI.Enabled)
	if c.AI.Enabled {
		fmt.Fprintf(w, "  Provider: %s\n", c.AI.Provider)
		fmt.Fprintf(w, "  API Key: %s\n", mask(c.AI.APIKey))
		if c.AI.Model != nil {
			fmt.Fprintf(w, "  Model: %s\n", *c.AI.Model)
		}
		fmt.Fprintf(w, "  Target hours: %g\n", c.AI.TargetHours)
	}
}
