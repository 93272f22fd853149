// Package tracker implements the command workflows: correlating
// commits with tickets, reconciling the running timer, and creating
// time entries.
package tracker

import (
	"context"
	"errors"
	"io"
	"os"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/stevendejongnl/harv/internal/config"
	"github.com/stevendejongnl/harv/internal/model"
	"github.com/stevendejongnl/harv/internal/usage"
)

// ErrNoTickets means today's commits reference no trackable tickets.
var ErrNoTickets = errors.New("no tickets found in today's commits")

// TimeService is the Harvest surface the workflows need.
type TimeService interface {
	ListEntries(ctx context.Context, from, to string) ([]model.TimeEntry, error)
	TodaysEntries(ctx context.Context) ([]model.TimeEntry, error)
	TotalHoursToday(ctx context.Context) (float64, error)
	TotalHoursForDate(ctx context.Context, date string) (float64, error)
	RunningTimer(ctx context.Context) (*model.TimeEntry, error)
	CreateRunning(ctx context.Context, projectID, taskID *uint64, date, notes string, externalRef *model.ExternalReference) (model.TimeEntry, error)
	CreateStopped(ctx context.Context, projectID, taskID *uint64, date, notes string, hours float64) (model.TimeEntry, error)
	Stop(ctx context.Context, entryID uint64) (model.TimeEntry, error)
	Restart(ctx context.Context, entryID uint64) (model.TimeEntry, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	ListProjectTasks(ctx context.Context, projectID uint64) ([]model.Task, error)
	ListAllProjectTasks(ctx context.Context) ([]model.ProjectTask, error)
}

// IssueService resolves ticket keys against the issue tracker.
type IssueService interface {
	Issues(ctx context.Context, keys []string) []model.Ticket
	TicketURL(key string) string
}

// Prompter is the interactive surface the workflows need.
type Prompter interface {
	SelectTicket(tickets []model.Ticket) (model.Ticket, error)
	SelectProject(projects []model.Project) (model.Project, error)
	SelectTask(tasks []model.Task) (model.Task, error)
	SelectEntry(entries []model.TimeEntry) (model.TimeEntry, error)
	SelectDate() (string, error)
	Description() (string, error)
	Hours() (float64, error)
	Confirm(question string, preselect bool) (bool, error)
	Summary() (string, error)
	ReviewProposals(proposals []model.ProposedEntry, projectNames, taskNames map[uint64]string) ([]model.ProposedEntry, error)
}

// Tracker runs the command workflows over the injected services.
type Tracker struct {
	cfg    *config.Config
	times  TimeService
	issues IssueService
	prompt Prompter
	usage  *usage.Cache
	flags  model.Flags
	log    *zap.Logger
	out    io.Writer
}

// New creates a Tracker. The usage cache may be nil when the workflow
// does not record selections.
func New(cfg *config.Config, times TimeService, issues IssueService, prompt Prompter, cache *usage.Cache, flags model.Flags, log *zap.Logger) *Tracker {
	return &Tracker{
		cfg:    cfg,
		times:  times,
		issues: issues,
		prompt: prompt,
		usage:  cache,
		flags:  flags,
		log:    log,
		out:    os.Stdout,
	}
}

// SetOutput redirects the human-readable output.
func (t *Tracker) SetOutput(w io.Writer) { t.out = w }

func today() string {
	return time.Now().Format("2006-01-02")
}

// notesReferenceTicket reports whether notes mention key as a whole
// ticket identifier. A timer for ABC-123 does not count as tracking
// ABC-12.
func notesReferenceTicket(notes, key string) bool {
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(key) + `\b`)
	return re.MatchString(notes)
}
