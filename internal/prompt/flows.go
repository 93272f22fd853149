package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/stevendejongnl/harv/internal/model"
	"github.com/stevendejongnl/harv/internal/timeparse"
)

// UI implements the interactive prompts over the terminal primitives.
type UI struct{}

func ticketLabel(t model.Ticket) string {
	if t.Status != nil {
		return fmt.Sprintf("%s - %s [%s]", t.Key, t.Summary, *t.Status)
	}
	return fmt.Sprintf("%s - %s", t.Key, t.Summary)
}

// SelectTicket prompts for one ticket.
func (UI) SelectTicket(tickets []model.Ticket) (model.Ticket, error) {
	labels := make([]string, len(tickets))
	for i, t := range tickets {
		labels[i] = ticketLabel(t)
	}
	idx, err := Select("Select a ticket to track:", labels)
	if err != nil {
		return model.Ticket{}, err
	}
	return tickets[idx], nil
}

func projectLabel(p model.Project) string {
	if p.Code != nil && *p.Code != "" {
		return fmt.Sprintf("[%s] %s", *p.Code, p.Name)
	}
	return p.Name
}

// SelectProject prompts for one project with fuzzy filtering.
func (UI) SelectProject(projects []model.Project) (model.Project, error) {
	labels := make([]string, len(projects))
	for i, p := range projects {
		labels[i] = projectLabel(p)
	}
	idx, err := FuzzySelect("Select a project:", labels)
	if err != nil {
		return model.Project{}, err
	}
	return projects[idx], nil
}

// SelectTask prompts for one task with fuzzy filtering.
func (UI) SelectTask(tasks []model.Task) (model.Task, error) {
	labels := make([]string, len(tasks))
	for i, t := range tasks {
		labels[i] = t.Name
	}
	idx, err := FuzzySelect("Select a task:", labels)
	if err != nil {
		return model.Task{}, err
	}
	return tasks[idx], nil
}

// SelectEntry prompts for one existing time entry.
func (UI) SelectEntry(entries []model.TimeEntry) (model.TimeEntry, error) {
	labels := make([]string, len(entries))
	for i := range entries {
		e := &entries[i]
		project := "?"
		if e.Project != nil {
			project = e.Project.Name
		}
		labels[i] = fmt.Sprintf("%s · %s · %.2fh · %s", e.SpentDate, project, e.HoursOr(0), e.NotesOr("no notes"))
	}
	idx, err := FuzzySelect("Select an entry to continue:", labels)
	if err != nil {
		return model.TimeEntry{}, err
	}
	return entries[idx], nil
}

const dateFormat = "2006-01-02"

// SelectDate prompts for a date: today, a recent day, or a custom one.
// Custom dates must be YYYY-MM-DD, not in the future, and within the
// last 90 days.
func (UI) SelectDate() (string, error) {
	now := time.Now()
	options := []string{"Today", "Yesterday"}
	for days := 2; days <= 6; days++ {
		d := now.AddDate(0, 0, -days)
		options = append(options, fmt.Sprintf("%s (%d days ago)", d.Format("Mon Jan 2"), days))
	}
	options = append(options, "Custom date...")

	idx, err := Select("Date for this entry:", options)
	if err != nil {
		return "", err
	}
	if idx < len(options)-1 {
		return now.AddDate(0, 0, -idx).Format(dateFormat), nil
	}

	return Input("Enter a date (YYYY-MM-DD):", now.Format(dateFormat), validateDate)
}

func validateDate(s string) error {
	d, err := time.ParseInLocation(dateFormat, strings.TrimSpace(s), time.Local)
	if err != nil {
		return fmt.Errorf("invalid date; use YYYY-MM-DD")
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if d.After(today) {
		return fmt.Errorf("date cannot be in the future")
	}
	if d.Before(today.AddDate(0, 0, -90)) {
		return fmt.Errorf("date cannot be more than 90 days ago")
	}
	return nil
}

func validateDescription(s string) error {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return fmt.Errorf("description cannot be empty")
	}
	if len(trimmed) > 500 {
		return fmt.Errorf("description cannot exceed 500 characters")
	}
	return nil
}

// Description prompts for a non-empty entry description.
func (UI) Description() (string, error) {
	value, err := Input("Description:", "What did you work on?", validateDescription)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// Hours prompts for a duration, accepting decimal hours or H:MM.
func (UI) Hours() (float64, error) {
	value, err := Input("Hours (e.g. 1.5 or 1:30):", "", func(s string) error {
		_, err := timeparse.ParseHours(s)
		return err
	})
	if err != nil {
		return 0, err
	}
	return timeparse.ParseHours(value)
}

// Confirm asks a yes/no question.
func (UI) Confirm(question string, preselect bool) (bool, error) {
	return Confirm(question, preselect)
}

// Summary opens the multi-line editor for a work summary.
func (UI) Summary() (string, error) {
	return Editor("Describe your day:", "Morning standup, then worked on...")
}

func proposalLabel(p model.ProposedEntry, projectNames map[uint64]string, taskNames map[uint64]string) string {
	project, ok := projectNames[p.ProjectID]
	if !ok {
		project = fmt.Sprintf("project %d", p.ProjectID)
	}
	task, ok := taskNames[p.TaskID]
	if !ok {
		task = fmt.Sprintf("task %d", p.TaskID)
	}
	label := fmt.Sprintf("%.2fh · %s / %s · %s", p.Hours, project, task, p.Description)
	if p.Confidence != nil {
		label += fmt.Sprintf(" (%.0f%%)", *p.Confidence*100)
	}
	return label
}

// ReviewProposals lets the user approve a subset of generated entries
// and edit hours or descriptions in place.
func (UI) ReviewProposals(proposals []model.ProposedEntry, projectNames, taskNames map[uint64]string) ([]model.ProposedEntry, error) {
	labels := make([]string, len(proposals))
	for i, p := range proposals {
		labels[i] = proposalLabel(p, projectNames, taskNames)
	}
	selected, err := MultiSelect("Approve the entries to create:", labels)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, nil
	}

	approved := make([]model.ProposedEntry, 0, len(selected))
	for _, idx := range selected {
		approved = append(approved, proposals[idx])
	}

	edit, err := Confirm("Edit any entry before creating?", false)
	if err != nil {
		return nil, err
	}
	for edit {
		labels = labels[:0]
		for _, p := range approved {
			labels = append(labels, proposalLabel(p, projectNames, taskNames))
		}
		idx, err := Select("Which entry?", labels)
		if err != nil {
			return nil, err
		}

		desc, err := Input("Description:", approved[idx].Description, func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("description cannot be empty")
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if trimmed := strings.TrimSpace(desc); trimmed != "" {
			approved[idx].Description = trimmed
		}

		hoursText, err := Input("Hours:", fmt.Sprintf("%g", approved[idx].Hours), func(s string) error {
			_, err := timeparse.ParseHours(s)
			return err
		})
		if err != nil {
			return nil, err
		}
		hours, err := timeparse.ParseHours(hoursText)
		if err != nil {
			return nil, err
		}
		approved[idx].Hours = hours

		edit, err = Confirm("Edit another entry?", false)
		if err != nil {
			return nil, err
		}
	}
	return approved, nil
}
