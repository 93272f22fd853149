package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// configTemplate is the annotated config written by `harv config init`.
const configTemplate = `# Harv Configuration File
# See: https://help.getharvest.com/api-v2/ for Harvest API docs
# See: https://developer.atlassian.com/cloud/jira/platform/rest/v3/ for Jira API docs

[harvest]
# Get your access token from: https://id.getharvest.com/developers
access_token = "your_harvest_access_token_here"
account_id = "your_account_id_here"
user_agent = "harv (your.email@example.com)"

# Optional: Default project and task IDs for time entries
# Get these from: https://api.harvestapp.com/v2/projects
# project_id = 12345678
# task_id = 87654321

[jira]
# Create a Personal Access Token: https://id.atlassian.com/manage-profile/security/api-tokens
access_token = "your_jira_personal_access_token_here"
base_url = "https://your-company.atlassian.net"

[git]
# Leave empty to use current working directory
# Or specify paths to git repositories to monitor
repositories = []
# Example:
# repositories = [
#     "/home/user/projects/backend",
#     "/home/user/projects/frontend"
# ]

[settings]
# Skip prompts and automatically start timers (useful for systemd timer)
auto_start = false

# Skip prompts and automatically stop existing timers
auto_stop = false

# Automatically select ticket if only one is found
auto_select_single = true

# Number of days to look back when continuing work (default: 1 for today only)
# continue_days = 1

# How to continue work on existing entries
# - "restart": Always restart the existing entry (preserves date, resets hours)
# - "new": Always create a new timer for today
# - "ask": Prompt each time (default)
# continue_mode = "ask"

[ticket_filter]
# Ignore specific ticket prefixes that match the pattern but aren't Jira tickets
# Common examples: CWE (Common Weakness Enumeration), CVE (Common Vulnerabilities)
denylist = ["CWE", "CVE"]

[ai]
# Enable AI-powered time entry generation
enabled = false

# AI provider: "openai" or "anthropic"
provider = "openai"

# API key for the AI provider
# OpenAI: Get from https://platform.openai.com/api-keys
# Anthropic: Get from https://console.anthropic.com/settings/keys
api_key = ""

# Optional: Specify model (defaults to provider's best model)
# model = "gpt-4o"  # or "claude-3-5-sonnet-20241022"

# Target hours per day (default: 8.0)
target_hours = 8.0
`

// CreateTemplate writes the annotated template to the config path with
// 0600 permissions. It refuses to overwrite an existing file.
func CreateTemplate() error {
	path, err := Path()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}
	if runtime.GOOS != "windows" {
		if err := os.Chmod(path, 0o600); err != nil {
			return fmt.Errorf("restricting config permissions: %w", err)
		}
	}
	return nil
}
