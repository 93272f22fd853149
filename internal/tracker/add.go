package tracker

import (
	"context"
	"fmt"

	"github.com/stevendejongnl/harv/internal/model"
	"github.com/stevendejongnl/harv/internal/usage"
)

// Add interactively creates a manual time entry: kind, date, project,
// task, description, and hours for a stopped entry. Successful creation
// records the project and task in the usage cache unless dry-running.
func (t *Tracker) Add(ctx context.Context) error {
	running, err := t.prompt.Confirm("Start a running timer (instead of logging completed work)?", false)
	if err != nil {
		return err
	}

	date, err := t.prompt.SelectDate()
	if err != nil {
		return err
	}

	projects, err := t.times.ListProjects(ctx)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		return fmt.Errorf("no active projects available")
	}
	usage.SortByUsage(projects, func(p model.Project) string { return p.Name }, func(p model.Project) *usage.Score {
		return t.usage.ProjectScore(p.ID)
	})
	project, err := t.prompt.SelectProject(projects)
	if err != nil {
		return err
	}

	tasks, err := t.times.ListProjectTasks(ctx, project.ID)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return fmt.Errorf("project %s has no tasks assigned", project.Name)
	}
	usage.SortByUsage(tasks, func(task model.Task) string { return task.Name }, func(task model.Task) *usage.Score {
		return t.usage.TaskScore(task.ID)
	})
	task, err := t.prompt.SelectTask(tasks)
	if err != nil {
		return err
	}

	description, err := t.prompt.Description()
	if err != nil {
		return err
	}

	var hours float64
	if !running {
		hours, err = t.prompt.Hours()
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(t.out, "\nAbout to create:")
	fmt.Fprintf(t.out, "  Date:        %s\n", date)
	fmt.Fprintf(t.out, "  Project:     %s\n", project.Name)
	fmt.Fprintf(t.out, "  Task:        %s\n", task.Name)
	fmt.Fprintf(t.out, "  Description: %s\n", description)
	if running {
		fmt.Fprintln(t.out, "  Kind:        running timer")
	} else {
		fmt.Fprintf(t.out, "  Hours:       %.2f\n", hours)
	}
	ok, err := t.prompt.Confirm("Create this entry?", true)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(t.out, "Nothing created.")
		return nil
	}

	if running {
		timer, err := t.times.RunningTimer(ctx)
		if err != nil {
			return err
		}
		if timer != nil {
			if stopped, err := t.stopOther(ctx, timer, false); err != nil || !stopped {
				return err
			}
		}
	}

	var entry model.TimeEntry
	if running {
		entry, err = t.times.CreateRunning(ctx, &project.ID, &task.ID, date, description, nil)
	} else {
		entry, err = t.times.CreateStopped(ctx, &project.ID, &task.ID, date, description, hours)
	}
	if err != nil {
		return fmt.Errorf("creating time entry: %w", err)
	}

	if t.flags.DryRun {
		fmt.Fprintln(t.out, "Dry run: entry not created.")
		return nil
	}

	t.usage.RecordProject(project.ID)
	t.usage.RecordTask(task.ID)
	t.usage.Save()

	fmt.Fprintf(t.out, "Created entry: %s\n", entry.NotesOr(description))
	if total, err := t.times.TotalHoursForDate(ctx, date); err == nil {
		fmt.Fprintf(t.out, "Total for %s: %.2f hours\n", date, total)
	}
	return nil
}
