package ai_test

import (
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/stevendejongnl/harv/internal/ai"
	"github.com/stevendejongnl/harv/internal/model"
)

func strPtr(s string) *string    { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestBuildPrompt(t *testing.T) {
	notes := "ABC-1 - Fix the widget"
	hours := 2.5
	pc := ai.PromptContext{
		AvailableProjects: []model.Project{{ID: 10, Name: "Alpha"}},
		AvailableTasks:    []model.Task{{ID: 100, Name: "Development"}},
		ExistingEntries:   []model.TimeEntry{{ID: 1, Hours: &hours, Notes: &notes}},
		TargetHours:       8,
		TodayTotalHours:   2.5,
	}

	prompt := ai.BuildPrompt("fixed widgets all day", pc)

	for _, want := range []string{
		"fixed widgets all day",
		"Target hours for today: 8.00",
		"Already logged: 2.50 hours",
		"Remaining to log: 5.50 hours",
		"- 2.50h: ABC-1 - Fix the widget",
		`"name": "Alpha"`,
		`"name": "Development"`,
		`"time_entries"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptNoEntriesYet(t *testing.T) {
	prompt := ai.BuildPrompt("summary", ai.PromptContext{TargetHours: 8})
	if !strings.Contains(prompt, "No time entries logged yet today.") {
		t.Error("prompt missing the empty-day line")
	}
}

func TestBuildPromptNegativeRemaining(t *testing.T) {
	prompt := ai.BuildPrompt("summary", ai.PromptContext{TargetHours: 8, TodayTotalHours: 9.5})
	if !strings.Contains(prompt, "Remaining to log: -1.50 hours") {
		t.Error("remaining hours must be presented unclamped")
	}
}

func TestParseResponse(t *testing.T) {
	raw := `{"time_entries":[{"description":"Fixed widget","project_id":10,"task_id":100,"hours":2.5,"confidence":0.9}]}`
	cases := map[string]string{
		"raw":         raw,
		"json fenced": "Here you go:\n```json\n" + raw + "\n```\nDone.",
		"bare fenced": "```\n" + raw + "\n```",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			entries, err := ai.ParseResponse(text)
			if err != nil {
				t.Fatalf("ParseResponse: %v", err)
			}
			if len(entries) != 1 {
				t.Fatalf("got %d entries", len(entries))
			}
			e := entries[0]
			if e.Description != "Fixed widget" || e.ProjectID != 10 || e.TaskID != 100 || e.Hours != 2.5 {
				t.Errorf("entry = %+v", e)
			}
			if e.Confidence == nil || *e.Confidence != 0.9 {
				t.Errorf("confidence = %v", e.Confidence)
			}
		})
	}
}

func TestParseResponseRejectsBatch(t *testing.T) {
	cases := map[string]string{
		"zero hours":        `{"time_entries":[{"description":"ok","project_id":1,"task_id":2,"hours":1},{"description":"bad","project_id":1,"task_id":2,"hours":0}]}`,
		"too many hours":    `{"time_entries":[{"description":"bad","project_id":1,"task_id":2,"hours":25}]}`,
		"blank description": `{"time_entries":[{"description":"   ","project_id":1,"task_id":2,"hours":1}]}`,
		"not json":          `the model rambled instead`,
		"long description": fmt.Sprintf(`{"time_entries":[{"description":%q,"project_id":1,"task_id":2,"hours":1}]}`,
			strings.Repeat("x", 501)),
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ai.ParseResponse(text); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDedupe(t *testing.T) {
	entries := []model.ProposedEntry{
		{Description: "work", ProjectID: 1, TaskID: 2, Hours: 1.5},
		{Description: "work", ProjectID: 1, TaskID: 2, Hours: 1.5, Confidence: floatPtr(0.5)},
		{Description: "work", ProjectID: 1, TaskID: 2, Hours: 1.51},
		{Description: "other", ProjectID: 1, TaskID: 2, Hours: 1.5},
	}
	got := ai.Dedupe(entries)
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	if got[0].Confidence != nil {
		t.Error("dedupe must keep the first occurrence")
	}
}

func TestNewProvider(t *testing.T) {
	log := zap.NewNop()
	for _, name := range []string{"openai", "OpenAI", "anthropic", "claude", "Claude"} {
		if _, err := ai.NewProvider(name, "key", nil, log); err != nil {
			t.Errorf("NewProvider(%q): %v", name, err)
		}
	}
	if _, err := ai.NewProvider("gemini", "key", nil, log); err == nil {
		t.Error("expected error for unsupported provider")
	}
	if _, err := ai.NewProvider("openai", "", nil, log); err == nil {
		t.Error("expected error for empty API key")
	}
	p, err := ai.NewProvider("openai", "key", strPtr("gpt-4.1"), log)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.Name() != "OpenAI" {
		t.Errorf("Name = %q", p.Name())
	}
}
