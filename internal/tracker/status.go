package tracker

import (
	"context"
	"fmt"
)

// Status prints the running timer and today's entries. It never writes
// to the time service.
func (t *Tracker) Status(ctx context.Context) error {
	timer, err := t.times.RunningTimer(ctx)
	if err != nil {
		return err
	}
	if timer == nil {
		fmt.Fprintln(t.out, "No timer running.")
	} else {
		fmt.Fprintf(t.out, "Timer running: %s (%.2fh", timer.NotesOr("no notes"), timer.HoursOr(0))
		if timer.StartedTime != nil {
			fmt.Fprintf(t.out, ", started %s", *timer.StartedTime)
		}
		fmt.Fprintln(t.out, ")")
	}

	entries, err := t.times.TodaysEntries(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(t.out, "No entries logged today.")
		return nil
	}

	var total float64
	fmt.Fprintln(t.out, "\nToday's entries:")
	for i := range entries {
		e := &entries[i]
		marker := " "
		if e.IsRunning {
			marker = "▶"
		}
		project := ""
		if e.Project != nil {
			project = e.Project.Name + " · "
		}
		fmt.Fprintf(t.out, "  %s %.2fh  %s%s\n", marker, e.HoursOr(0), project, e.NotesOr("no notes"))
		total += e.HoursOr(0)
	}
	fmt.Fprintf(t.out, "Total: %.2f hours\n", total)
	return nil
}

// StopTimer stops the running timer, if any.
func (t *Tracker) StopTimer(ctx context.Context) error {
	timer, err := t.times.RunningTimer(ctx)
	if err != nil {
		return err
	}
	if timer == nil {
		fmt.Fprintln(t.out, "No timer running.")
		return nil
	}

	stopped, err := t.times.Stop(ctx, timer.ID)
	if err != nil {
		return fmt.Errorf("stopping timer: %w", err)
	}
	if t.flags.DryRun {
		fmt.Fprintf(t.out, "Dry run: would stop timer %s\n", timer.NotesOr("no notes"))
		return nil
	}
	fmt.Fprintf(t.out, "Stopped timer: %s (%.2fh)\n", timer.NotesOr("no notes"), stopped.HoursOr(timer.HoursOr(0)))
	return nil
}
