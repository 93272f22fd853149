package tracker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/stevendejongnl/harv/internal/model"
	"github.com/stevendejongnl/harv/internal/ticket"
)

// Sync correlates today's commits with tickets and makes sure a timer
// is running for the selected one. Commits are collected by the caller.
func (t *Tracker) Sync(ctx context.Context, commits []model.Commit) error {
	messages := make([]string, len(commits))
	for i := range commits {
		messages[i] = commits[i].Message
	}
	keys := ticket.Extract(messages, t.cfg.TicketFilter.Denylist)
	if len(keys) == 0 {
		return ErrNoTickets
	}
	t.log.Debug("Extracted ticket keys", zap.Strings("keys", keys))

	tickets := t.issues.Issues(ctx, keys)

	var selected model.Ticket
	if len(tickets) == 1 && (t.cfg.Settings.SelectSingle() || t.flags.AutoStart) {
		selected = tickets[0]
		fmt.Fprintf(t.out, "Found ticket: %s - %s\n", selected.Key, selected.Summary)
	} else {
		var err error
		selected, err = t.prompt.SelectTicket(tickets)
		if err != nil {
			return err
		}
	}

	timer, err := t.times.RunningTimer(ctx)
	if err != nil {
		return err
	}
	if timer != nil {
		if notesReferenceTicket(timer.NotesOr(""), selected.Key) {
			fmt.Fprintf(t.out, "Already tracking %s: %s\n", selected.Key, timer.NotesOr(""))
			return nil
		}
		if stopped, err := t.stopOther(ctx, timer, t.flags.AutoStop || t.cfg.Settings.AutoStop); err != nil || !stopped {
			return err
		}
	}

	notes := fmt.Sprintf("%s - %s", selected.Key, selected.Summary)
	ref := &model.ExternalReference{
		ID:        selected.Key,
		GroupID:   "jira",
		Permalink: t.issues.TicketURL(selected.Key),
	}
	entry, err := t.times.CreateRunning(ctx, t.cfg.Harvest.ProjectID, t.cfg.Harvest.TaskID, today(), notes, ref)
	if err != nil {
		return fmt.Errorf("starting timer for %s: %w", selected.Key, err)
	}

	if t.flags.DryRun {
		fmt.Fprintf(t.out, "Dry run: would start timer for %s\n", notes)
	} else {
		fmt.Fprintf(t.out, "Started timer: %s\n", entry.NotesOr(notes))
	}
	return nil
}

// stopOther settles a running timer that tracks something else. It
// returns false when the user keeps the timer running.
func (t *Tracker) stopOther(ctx context.Context, timer *model.TimeEntry, auto bool) (bool, error) {
	if !auto {
		ok, err := t.prompt.Confirm(fmt.Sprintf("A timer is running (%s). Stop it?", timer.NotesOr("no notes")), true)
		if err != nil {
			return false, err
		}
		if !ok {
			fmt.Fprintln(t.out, "Keeping the current timer running.")
			return false, nil
		}
	}
	if _, err := t.times.Stop(ctx, timer.ID); err != nil {
		return false, fmt.Errorf("stopping running timer: %w", err)
	}
	return true, nil
}
