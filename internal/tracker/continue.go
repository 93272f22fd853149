package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/stevendejongnl/harv/internal/model"
)

// continueDays resolves the lookback window: the --days flag when
// given, the configured continue_days otherwise, else 1 (today only).
func (t *Tracker) continueDays(flagDays int) int {
	if flagDays > 0 {
		return flagDays
	}
	if t.cfg.Settings.ContinueDays != nil && *t.cfg.Settings.ContinueDays > 0 {
		return int(*t.cfg.Settings.ContinueDays)
	}
	return 1
}

// Continue resumes a recent entry, either by restarting it or by
// cloning it into a new running entry for today.
func (t *Tracker) Continue(ctx context.Context, flagDays int) error {
	days := t.continueDays(flagDays)
	to := time.Now()
	from := to.AddDate(0, 0, -(days - 1))

	entries, err := t.times.ListEntries(ctx, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return err
	}

	// Running entries and entries without a project or task cannot be
	// resumed.
	resumable := entries[:0]
	for _, e := range entries {
		if !e.IsRunning && e.Project != nil && e.Task != nil {
			resumable = append(resumable, e)
		}
	}
	if len(resumable) == 0 {
		fmt.Fprintf(t.out, "No entries to continue in the last %d day(s).\n", days)
		return nil
	}

	selected, err := t.prompt.SelectEntry(resumable)
	if err != nil {
		return err
	}

	timer, err := t.times.RunningTimer(ctx)
	if err != nil {
		return err
	}
	if timer != nil {
		if timer.NotesOr("") == selected.NotesOr("") {
			fmt.Fprintf(t.out, "Already tracking: %s\n", timer.NotesOr("no notes"))
			return nil
		}
		if stopped, err := t.stopOther(ctx, timer, t.flags.AutoStart); err != nil || !stopped {
			return err
		}
	}

	restart, err := t.shouldRestart(selected)
	if err != nil {
		return err
	}

	var entry model.TimeEntry
	if restart {
		entry, err = t.times.Restart(ctx, selected.ID)
	} else {
		entry, err = t.times.CreateRunning(ctx, &selected.Project.ID, &selected.Task.ID, today(), selected.NotesOr(""), nil)
	}
	if err != nil {
		return fmt.Errorf("continuing entry: %w", err)
	}

	if t.flags.DryRun {
		fmt.Fprintf(t.out, "Dry run: would continue %s\n", selected.NotesOr("no notes"))
		return nil
	}
	fmt.Fprintf(t.out, "Continuing: %s\n", entry.NotesOr(selected.NotesOr("no notes")))
	return nil
}

// shouldRestart picks between restarting the original entry and
// cloning it, honoring the configured continue_mode.
func (t *Tracker) shouldRestart(selected model.TimeEntry) (bool, error) {
	mode := "ask"
	if t.cfg.Settings.ContinueMode != nil {
		mode = *t.cfg.Settings.ContinueMode
	}
	switch mode {
	case "restart":
		return true, nil
	case "new":
		return false, nil
	}
	return t.prompt.Confirm(fmt.Sprintf("Restart the original entry from %s (instead of a new entry for today)?", selected.SpentDate), false)
}
