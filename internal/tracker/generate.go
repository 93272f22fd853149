package tracker

import (
	"context"
	"fmt"
	"strings"

	"github.com/stevendejongnl/harv/internal/ai"
	"github.com/stevendejongnl/harv/internal/model"
)

// Generate asks the AI provider for time entries covering a work
// summary, lets the user approve them, and creates the approved ones.
func (t *Tracker) Generate(ctx context.Context, provider ai.Provider, summary string, targetHours float64, autoApprove bool) error {
	if !t.cfg.AI.Enabled {
		return fmt.Errorf("AI features are disabled; set enabled = true in the [ai] section of your config")
	}

	if strings.TrimSpace(summary) == "" {
		var err error
		summary, err = t.prompt.Summary()
		if err != nil {
			return err
		}
	}
	if strings.TrimSpace(summary) == "" {
		return fmt.Errorf("work summary cannot be empty")
	}

	if !t.flags.Quiet {
		fmt.Fprintln(t.out, "Fetching Harvest data...")
	}
	projects, err := t.times.ListProjects(ctx)
	if err != nil {
		return err
	}
	existing, err := t.times.TodaysEntries(ctx)
	if err != nil {
		return err
	}
	todayTotal, err := t.times.TotalHoursToday(ctx)
	if err != nil {
		return err
	}
	pairs, err := t.times.ListAllProjectTasks(ctx)
	if err != nil {
		return err
	}
	tasks := make([]model.Task, len(pairs))
	for i, pair := range pairs {
		tasks[i] = pair.Task
	}

	pc := ai.PromptContext{
		AvailableProjects: projects,
		AvailableTasks:    tasks,
		ExistingEntries:   existing,
		TargetHours:       targetHours,
		TodayTotalHours:   todayTotal,
	}

	if !t.flags.Quiet {
		fmt.Fprintf(t.out, "Generating time entries using %s...\n", provider.Name())
	}
	proposals, err := provider.Generate(ctx, summary, pc)
	if err != nil {
		return err
	}
	proposals = ai.Dedupe(proposals)
	if len(proposals) == 0 {
		fmt.Fprintln(t.out, "The AI did not generate any time entries.")
		return nil
	}

	approved := proposals
	if !autoApprove && !t.flags.AutoStart {
		projectNames := make(map[uint64]string, len(projects))
		for _, p := range projects {
			projectNames[p.ID] = p.Name
		}
		taskNames := make(map[uint64]string, len(tasks))
		for _, task := range tasks {
			taskNames[task.ID] = task.Name
		}
		approved, err = t.prompt.ReviewProposals(proposals, projectNames, taskNames)
		if err != nil {
			return err
		}
	}
	if len(approved) == 0 {
		fmt.Fprintln(t.out, "No entries approved.")
		return nil
	}

	// Entries with a project/task pair the AI hallucinated get one
	// retry against the most recent real pair.
	var fallback *model.TimeEntry
	for i := range existing {
		if existing[i].Project != nil && existing[i].Task != nil {
			fallback = &existing[i]
			break
		}
	}

	created, failed := 0, 0
	date := today()
	for _, entry := range approved {
		_, err := t.times.CreateStopped(ctx, &entry.ProjectID, &entry.TaskID, date, entry.Description, entry.Hours)
		if err == nil {
			created++
			if t.flags.Verbose {
				fmt.Fprintf(t.out, "Created: %s (%.2fh)\n", entry.Description, entry.Hours)
			}
			continue
		}

		if strings.Contains(err.Error(), "422 Unprocessable Entity") && fallback != nil {
			fmt.Fprintf(t.out, "Invalid project/task for %q; retrying with the most recent pair...\n", entry.Description)
			_, retryErr := t.times.CreateStopped(ctx, &fallback.Project.ID, &fallback.Task.ID, date, entry.Description, entry.Hours)
			if retryErr == nil {
				created++
				if t.flags.Verbose {
					fmt.Fprintf(t.out, "Created with fallback: %s (%.2fh)\n", entry.Description, entry.Hours)
				}
				continue
			}
			failed++
			fmt.Fprintf(t.out, "Failed to create %q even with fallback: %v\n", entry.Description, retryErr)
			continue
		}

		failed++
		fmt.Fprintf(t.out, "Failed to create %q: %v\n", entry.Description, err)
	}

	if t.flags.Quiet {
		return nil
	}
	if created > 0 {
		fmt.Fprintf(t.out, "\nCreated %d time entries.\n", created)
	}
	if failed > 0 {
		fmt.Fprintf(t.out, "%d entries failed.\n", failed)
	}
	if newTotal, err := t.times.TotalHoursToday(ctx); err == nil {
		fmt.Fprintf(t.out, "Total time today: %.2f hours\n", newTotal)
	}
	return nil
}
