// Package ai generates proposed time entries from a free-form work
// summary via an LLM provider.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/stevendejongnl/harv/internal/model"
)

// PromptContext is the account state the provider reasons over.
type PromptContext struct {
	AvailableProjects []model.Project
	AvailableTasks    []model.Task
	ExistingEntries   []model.TimeEntry
	TargetHours       float64
	TodayTotalHours   float64
}

// Provider generates time entries from a work summary.
type Provider interface {
	Generate(ctx context.Context, summary string, pc PromptContext) ([]model.ProposedEntry, error)
	Name() string
}

// NewProvider returns the provider for a vendor name. Recognized names
// (case-insensitive): "openai", "anthropic", "claude".
func NewProvider(provider, apiKey string, modelName *string, log *zap.Logger) (Provider, error) {
	switch strings.ToLower(provider) {
	case "openai":
		return newOpenAI(apiKey, modelName, log)
	case "anthropic", "claude":
		return newAnthropic(apiKey, modelName, log)
	default:
		return nil, fmt.Errorf("unsupported AI provider %q; supported: openai, anthropic", provider)
	}
}

// BuildPrompt renders the instruction prompt for a summary and context.
func BuildPrompt(summary string, pc PromptContext) string {
	remaining := pc.TargetHours - pc.TodayTotalHours

	projectsJSON, err := json.MarshalIndent(pc.AvailableProjects, "", "  ")
	if err != nil {
		projectsJSON = []byte("[]")
	}
	tasksJSON, err := json.MarshalIndent(pc.AvailableTasks, "", "  ")
	if err != nil {
		tasksJSON = []byte("[]")
	}

	var existing string
	if len(pc.ExistingEntries) == 0 {
		existing = "No time entries logged yet today."
	} else {
		lines := make([]string, 0, len(pc.ExistingEntries))
		for i := range pc.ExistingEntries {
			e := &pc.ExistingEntries[i]
			lines = append(lines, fmt.Sprintf("- %.2fh: %s", e.HoursOr(0), e.NotesOr("No description")))
		}
		existing = fmt.Sprintf("Already logged today (%.2fh total):\n%s", pc.TodayTotalHours, strings.Join(lines, "\n"))
	}

	return fmt.Sprintf(`You are a time tracking assistant. Your task is to analyze a user's work summary
and generate time entries for Harvest.

USER'S WORK SUMMARY:
%s

CONTEXT:
- Target hours for today: %.2f
- Already logged: %.2f hours
- Remaining to log: %.2f hours

%s

AVAILABLE PROJECTS:
%s

AVAILABLE TASKS:
%s

INSTRUCTIONS:
1. Parse the user's summary and identify distinct work activities
2. Allocate the remaining %.2f hours across these activities
3. For each activity, select the most appropriate project_id and task_id from the lists above
4. Be reasonable with time allocation - don't create dozens of tiny entries
5. Aim for 2-5 entries typically, unless the user explicitly mentions more activities
6. Each entry should have clear, professional notes describing what was done
7. Hours should be in decimal format (e.g., 1.5 for 1 hour 30 minutes)
8. The sum of all entry hours should approximately equal %.2f hours

IMPORTANT MATCHING RULES:
- Match project names based on keywords in the user's summary
- If uncertain about project/task, prefer general/administrative tasks
- If the user mentions specific project names, prioritize those
- Common task name mappings:
  * "Development" for coding/programming work
  * "Meeting" for meetings/calls
  * "Planning" for planning/design work
  * "Bug Fix" for debugging/fixing issues
  * "Code Review" for reviewing PRs
  * "Documentation" for writing docs

OUTPUT FORMAT (JSON):
Return a JSON object with a "time_entries" array. Each entry must have:
- "description": Clear description of the work (string)
- "project_id": Numeric project ID from the available projects (number)
- "task_id": Numeric task ID from the available tasks (number)
- "hours": Time in decimal hours (number)
- "confidence": Your confidence in this allocation from 0.0 to 1.0 (number, optional)

Example output:
{
  "time_entries": [
    {
      "description": "Implemented user authentication feature",
      "project_id": 12345,
      "task_id": 67890,
      "hours": 3.5,
      "confidence": 0.9
    },
    {
      "description": "Team standup meeting and sprint planning",
      "project_id": 12345,
      "task_id": 67891,
      "hours": 1.0,
      "confidence": 1.0
    }
  ]
}

Now generate the time entries based on the user's summary.`,
		summary,
		pc.TargetHours,
		pc.TodayTotalHours,
		remaining,
		existing,
		projectsJSON,
		tasksJSON,
		remaining,
		remaining,
	)
}

type generatedResponse struct {
	TimeEntries []generatedEntry `json:"time_entries"`
}

type generatedEntry struct {
	Description string   `json:"description"`
	ProjectID   uint64   `json:"project_id"`
	TaskID      uint64   `json:"task_id"`
	Hours       float64  `json:"hours"`
	Confidence  *float64 `json:"confidence"`
}

// extractJSON strips a markdown code fence when the model wrapped its
// JSON in one.
func extractJSON(text string) string {
	for _, fence := range []string{"```json", "```"} {
		start := strings.Index(text, fence)
		if start < 0 {
			continue
		}
		start += len(fence)
		end := strings.Index(text[start:], "```")
		if end < 0 {
			break
		}
		return text[start : start+end]
	}
	return text
}

// ParseResponse parses a provider's text response into proposed entries.
// Any invalid entry rejects the whole batch.
func ParseResponse(text string) ([]model.ProposedEntry, error) {
	jsonText := strings.TrimSpace(extractJSON(text))

	var resp generatedResponse
	if err := json.Unmarshal([]byte(jsonText), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w; raw response: %s", err, jsonText)
	}

	entries := make([]model.ProposedEntry, 0, len(resp.TimeEntries))
	for _, e := range resp.TimeEntries {
		if e.Hours <= 0 || e.Hours > 24 {
			return nil, fmt.Errorf("invalid hours value %v; must be between 0 and 24", e.Hours)
		}
		if strings.TrimSpace(e.Description) == "" {
			return nil, fmt.Errorf("AI generated entry with empty description")
		}
		if len(e.Description) > 500 {
			return nil, fmt.Errorf("AI generated entry with description longer than 500 characters")
		}
		entries = append(entries, model.ProposedEntry{
			Description: e.Description,
			ProjectID:   e.ProjectID,
			TaskID:      e.TaskID,
			Hours:       e.Hours,
			Confidence:  e.Confidence,
		})
	}
	return entries, nil
}

type entryKey struct {
	description string
	projectID   uint64
	taskID      uint64
	centiHours  int64
}

// Dedupe drops duplicate proposals, keeping the first occurrence. Two
// proposals are duplicates when description, project, task, and hours
// (at 0.01h granularity) all match.
func Dedupe(entries []model.ProposedEntry) []model.ProposedEntry {
	seen := make(map[entryKey]struct{}, len(entries))
	out := entries[:0]
	for _, e := range entries {
		key := entryKey{
			description: e.Description,
			projectID:   e.ProjectID,
			taskID:      e.TaskID,
			centiHours:  int64(math.Round(e.Hours * 100)),
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}
