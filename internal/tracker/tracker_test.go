package tracker_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/stevendejongnl/harv/internal/ai"
	"github.com/stevendejongnl/harv/internal/config"
	"github.com/stevendejongnl/harv/internal/model"
	"github.com/stevendejongnl/harv/internal/prompt"
	"github.com/stevendejongnl/harv/internal/tracker"
	"github.com/stevendejongnl/harv/internal/usage"
)

func strPtr(s string) *string { return &s }

// fakeTimeService records every mutation so tests can assert on the
// exact writes a workflow performed.
type fakeTimeService struct {
	entries      []model.TimeEntry
	running      *model.TimeEntry
	projects     []model.Project
	projectTasks map[uint64][]model.Task

	createdRunning []createdEntry
	createdStopped []createdEntry
	stopped        []uint64
	restarted      []uint64

	failStopped func(notes string) error
}

type createdEntry struct {
	projectID *uint64
	taskID    *uint64
	date      string
	notes     string
	hours     float64
	ref       *model.ExternalReference
}

func (f *fakeTimeService) ListEntries(ctx context.Context, from, to string) ([]model.TimeEntry, error) {
	return f.entries, nil
}

func (f *fakeTimeService) TodaysEntries(ctx context.Context) ([]model.TimeEntry, error) {
	return f.entries, nil
}

func (f *fakeTimeService) TotalHoursToday(ctx context.Context) (float64, error) {
	var total float64
	for i := range f.entries {
		total += f.entries[i].HoursOr(0)
	}
	return total, nil
}

func (f *fakeTimeService) TotalHoursForDate(ctx context.Context, date string) (float64, error) {
	return f.TotalHoursToday(ctx)
}

func (f *fakeTimeService) RunningTimer(ctx context.Context) (*model.TimeEntry, error) {
	return f.running, nil
}

func (f *fakeTimeService) CreateRunning(ctx context.Context, projectID, taskID *uint64, date, notes string, ref *model.ExternalReference) (model.TimeEntry, error) {
	f.createdRunning = append(f.createdRunning, createdEntry{projectID, taskID, date, notes, 0, ref})
	return model.TimeEntry{ID: 1000, SpentDate: date, Notes: &notes, IsRunning: true}, nil
}

func (f *fakeTimeService) CreateStopped(ctx context.Context, projectID, taskID *uint64, date, notes string, hours float64) (model.TimeEntry, error) {
	if f.failStopped != nil {
		if err := f.failStopped(notes); err != nil {
			return model.TimeEntry{}, err
		}
	}
	f.createdStopped = append(f.createdStopped, createdEntry{projectID, taskID, date, notes, hours, nil})
	return model.TimeEntry{ID: 2000, SpentDate: date, Notes: &notes, Hours: &hours}, nil
}

func (f *fakeTimeService) Stop(ctx context.Context, entryID uint64) (model.TimeEntry, error) {
	f.stopped = append(f.stopped, entryID)
	return model.TimeEntry{ID: entryID}, nil
}

func (f *fakeTimeService) Restart(ctx context.Context, entryID uint64) (model.TimeEntry, error) {
	f.restarted = append(f.restarted, entryID)
	return model.TimeEntry{ID: entryID, IsRunning: true}, nil
}

func (f *fakeTimeService) ListProjects(ctx context.Context) ([]model.Project, error) {
	return f.projects, nil
}

func (f *fakeTimeService) ListProjectTasks(ctx context.Context, projectID uint64) ([]model.Task, error) {
	return f.projectTasks[projectID], nil
}

func (f *fakeTimeService) ListAllProjectTasks(ctx context.Context) ([]model.ProjectTask, error) {
	var pairs []model.ProjectTask
	for _, p := range f.projects {
		for _, task := range f.projectTasks[p.ID] {
			pairs = append(pairs, model.ProjectTask{ProjectID: p.ID, Task: task})
		}
	}
	return pairs, nil
}

func (f *fakeTimeService) writes() int {
	return len(f.createdRunning) + len(f.createdStopped) + len(f.stopped) + len(f.restarted)
}

type fakeIssueService struct {
	summaries map[string]string
}

func (f *fakeIssueService) Issues(ctx context.Context, keys []string) []model.Ticket {
	tickets := make([]model.Ticket, 0, len(keys))
	for _, key := range keys {
		summary, ok := f.summaries[key]
		if !ok {
			summary = "(Failed to fetch: not found)"
		}
		tickets = append(tickets, model.Ticket{Key: key, Summary: summary})
	}
	return tickets
}

func (f *fakeIssueService) TicketURL(key string) string {
	return "https://example.atlassian.net/browse/" + key
}

// fakePrompter returns canned answers and fails the test on any prompt
// it was not prepared for.
type fakePrompter struct {
	t *testing.T

	ticket    *model.Ticket
	entry     *model.TimeEntry
	project   *model.Project
	task      *model.Task
	date      string
	desc      string
	hours     float64
	confirms  []bool
	summary   string
	approvals []model.ProposedEntry
	cancel    bool
}

func (f *fakePrompter) answerConfirm() (bool, error) {
	if f.cancel {
		return false, prompt.ErrCancelled
	}
	if len(f.confirms) == 0 {
		f.t.Fatal("unexpected Confirm prompt")
	}
	answer := f.confirms[0]
	f.confirms = f.confirms[1:]
	return answer, nil
}

func (f *fakePrompter) SelectTicket(tickets []model.Ticket) (model.Ticket, error) {
	if f.ticket == nil {
		f.t.Fatal("unexpected SelectTicket prompt")
	}
	return *f.ticket, nil
}

func (f *fakePrompter) SelectProject(projects []model.Project) (model.Project, error) {
	if f.project == nil {
		f.t.Fatal("unexpected SelectProject prompt")
	}
	return *f.project, nil
}

func (f *fakePrompter) SelectTask(tasks []model.Task) (model.Task, error) {
	if f.task == nil {
		f.t.Fatal("unexpected SelectTask prompt")
	}
	return *f.task, nil
}

func (f *fakePrompter) SelectEntry(entries []model.TimeEntry) (model.TimeEntry, error) {
	if f.entry == nil {
		f.t.Fatal("unexpected SelectEntry prompt")
	}
	for _, e := range entries {
		if e.ID == f.entry.ID {
			return e, nil
		}
	}
	f.t.Fatalf("entry %d not offered; got %+v", f.entry.ID, entries)
	return model.TimeEntry{}, nil
}

func (f *fakePrompter) SelectDate() (string, error)  { return f.date, nil }
func (f *fakePrompter) Description() (string, error) { return f.desc, nil }
func (f *fakePrompter) Hours() (float64, error)      { return f.hours, nil }
func (f *fakePrompter) Summary() (string, error)     { return f.summary, nil }

func (f *fakePrompter) Confirm(question string, preselect bool) (bool, error) {
	return f.answerConfirm()
}

func (f *fakePrompter) ReviewProposals(proposals []model.ProposedEntry, projectNames, taskNames map[uint64]string) ([]model.ProposedEntry, error) {
	if f.approvals == nil {
		return proposals, nil
	}
	return f.approvals, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Harvest: config.HarvestConfig{
			AccessToken: "token",
			AccountID:   "1",
			UserAgent:   "harv (test)",
		},
		Jira: config.JiraConfig{
			AccessToken: "token",
			BaseURL:     "https://example.atlassian.net",
		},
		AI: config.AIConfig{Enabled: true, Provider: "openai", APIKey: "key", TargetHours: 8},
	}
}

func newTracker(t *testing.T, cfg *config.Config, times *fakeTimeService, prompter *fakePrompter, flags model.Flags) (*tracker.Tracker, *bytes.Buffer) {
	t.Helper()
	if prompter != nil {
		prompter.t = t
	}
	issues := &fakeIssueService{summaries: map[string]string{
		"ABC-12":  "Fix the widget",
		"ABC-123": "Another widget",
	}}
	cache := usage.New(filepath.Join(t.TempDir(), "usage.json"), zap.NewNop())
	tr := tracker.New(cfg, times, issues, prompter, cache, flags, zap.NewNop())
	var out bytes.Buffer
	tr.SetOutput(&out)
	return tr, &out
}

func commits(messages ...string) []model.Commit {
	out := make([]model.Commit, len(messages))
	for i, m := range messages {
		out[i] = model.Commit{Message: m, Author: "dev"}
	}
	return out
}

func TestSyncNoTickets(t *testing.T) {
	times := &fakeTimeService{}
	tr, _ := newTracker(t, testConfig(), times, &fakePrompter{}, model.Flags{})

	err := tr.Sync(context.Background(), commits("refactor internals", "update readme"))
	if !errors.Is(err, tracker.ErrNoTickets) {
		t.Fatalf("err = %v, want ErrNoTickets", err)
	}
	if times.writes() != 0 {
		t.Error("no-ticket sync must not write")
	}
}

func TestSyncStartsTimerForSingleTicket(t *testing.T) {
	times := &fakeTimeService{}
	tr, _ := newTracker(t, testConfig(), times, &fakePrompter{}, model.Flags{})

	if err := tr.Sync(context.Background(), commits("ABC-12: fix the widget")); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(times.createdRunning) != 1 {
		t.Fatalf("createdRunning = %+v", times.createdRunning)
	}
	created := times.createdRunning[0]
	if created.notes != "ABC-12 - Fix the widget" {
		t.Errorf("notes = %q", created.notes)
	}
	if created.ref == nil || created.ref.ID != "ABC-12" || created.ref.GroupID != "jira" {
		t.Errorf("external ref = %+v", created.ref)
	}
	if !strings.HasSuffix(created.ref.Permalink, "/browse/ABC-12") {
		t.Errorf("permalink = %q", created.ref.Permalink)
	}
	if created.projectID != nil || created.taskID != nil {
		t.Error("unconfigured project/task must be omitted")
	}
}

func TestSyncIdempotentWhenTimerTracksTicket(t *testing.T) {
	notes := "ABC-12 - Fix the widget"
	times := &fakeTimeService{running: &model.TimeEntry{ID: 5, Notes: &notes, IsRunning: true}}
	tr, out := newTracker(t, testConfig(), times, &fakePrompter{}, model.Flags{})

	if err := tr.Sync(context.Background(), commits("ABC-12: more fixes")); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if times.writes() != 0 {
		t.Errorf("idempotent sync must not write; stopped=%v created=%v", times.stopped, times.createdRunning)
	}
	if !strings.Contains(out.String(), "Already tracking") {
		t.Errorf("output = %q", out.String())
	}
}

func TestSyncDoesNotMatchTicketPrefix(t *testing.T) {
	// A timer for ABC-123 is not a timer for ABC-12.
	notes := "ABC-123 - Another widget"
	times := &fakeTimeService{running: &model.TimeEntry{ID: 5, Notes: &notes, IsRunning: true}}
	cfg := testConfig()
	cfg.Settings.AutoStop = true
	tr, _ := newTracker(t, cfg, times, &fakePrompter{}, model.Flags{})

	if err := tr.Sync(context.Background(), commits("ABC-12: fix the widget")); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(times.stopped) != 1 || times.stopped[0] != 5 {
		t.Errorf("stopped = %v, want [5]", times.stopped)
	}
	if len(times.createdRunning) != 1 || times.createdRunning[0].notes != "ABC-12 - Fix the widget" {
		t.Errorf("createdRunning = %+v", times.createdRunning)
	}
}

func TestSyncRefusalLeavesTimerAlone(t *testing.T) {
	notes := "XYZ-9 - Other work"
	times := &fakeTimeService{running: &model.TimeEntry{ID: 5, Notes: &notes, IsRunning: true}}
	tr, _ := newTracker(t, testConfig(), times, &fakePrompter{confirms: []bool{false}}, model.Flags{})

	if err := tr.Sync(context.Background(), commits("ABC-12: fix")); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if times.writes() != 0 {
		t.Error("refusing to stop must leave all state untouched")
	}
}

func TestSyncPromptCancelPropagates(t *testing.T) {
	notes := "XYZ-9 - Other work"
	times := &fakeTimeService{running: &model.TimeEntry{ID: 5, Notes: &notes, IsRunning: true}}
	tr, _ := newTracker(t, testConfig(), times, &fakePrompter{cancel: true}, model.Flags{})

	err := tr.Sync(context.Background(), commits("ABC-12: fix"))
	if !errors.Is(err, prompt.ErrCancelled) {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
	if times.writes() != 0 {
		t.Error("cancelled sync must not write")
	}
}

func TestSyncPromptsWhenMultipleTickets(t *testing.T) {
	times := &fakeTimeService{}
	chosen := model.Ticket{Key: "ABC-123", Summary: "Another widget"}
	tr, _ := newTracker(t, testConfig(), times, &fakePrompter{ticket: &chosen}, model.Flags{})

	if err := tr.Sync(context.Background(), commits("ABC-12: fix", "ABC-123: other")); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(times.createdRunning) != 1 || times.createdRunning[0].notes != "ABC-123 - Another widget" {
		t.Errorf("createdRunning = %+v", times.createdRunning)
	}
}

func TestContinueFiltersUnresumableEntries(t *testing.T) {
	project := model.Project{ID: 10, Name: "Alpha"}
	task := model.Task{ID: 100, Name: "Dev"}
	times := &fakeTimeService{entries: []model.TimeEntry{
		{ID: 1, Notes: strPtr("running"), IsRunning: true, Project: &project, Task: &task},
		{ID: 2, Notes: strPtr("no project")},
		{ID: 3, Notes: strPtr("resumable"), Project: &project, Task: &task},
	}}
	selected := times.entries[2]
	cfg := testConfig()
	mode := "new"
	cfg.Settings.ContinueMode = &mode
	tr, _ := newTracker(t, cfg, times, &fakePrompter{entry: &selected}, model.Flags{})

	if err := tr.Continue(context.Background(), 0); err != nil {
		t.Fatalf("Continue: %v", err)
	}
	if len(times.createdRunning) != 1 {
		t.Fatalf("createdRunning = %+v", times.createdRunning)
	}
	created := times.createdRunning[0]
	if created.notes != "resumable" || *created.projectID != 10 || *created.taskID != 100 {
		t.Errorf("created = %+v", created)
	}
}

func TestContinueExactNotesMatchIsIdempotent(t *testing.T) {
	project := model.Project{ID: 10, Name: "Alpha"}
	task := model.Task{ID: 100, Name: "Dev"}
	entry := model.TimeEntry{ID: 3, Notes: strPtr("ABC-12 - Fix"), Project: &project, Task: &task}
	times := &fakeTimeService{
		entries: []model.TimeEntry{entry},
		running: &model.TimeEntry{ID: 9, Notes: strPtr("ABC-12 - Fix"), IsRunning: true},
	}
	tr, _ := newTracker(t, testConfig(), times, &fakePrompter{entry: &entry}, model.Flags{})

	if err := tr.Continue(context.Background(), 0); err != nil {
		t.Fatalf("Continue: %v", err)
	}
	if times.writes() != 0 {
		t.Error("matching notes must not write")
	}
}

func TestContinueRestartMode(t *testing.T) {
	project := model.Project{ID: 10, Name: "Alpha"}
	task := model.Task{ID: 100, Name: "Dev"}
	entry := model.TimeEntry{ID: 3, SpentDate: "2026-08-28", Notes: strPtr("yesterday's work"), Project: &project, Task: &task}
	times := &fakeTimeService{entries: []model.TimeEntry{entry}}
	cfg := testConfig()
	mode := "restart"
	cfg.Settings.ContinueMode = &mode
	tr, _ := newTracker(t, cfg, times, &fakePrompter{entry: &entry}, model.Flags{})

	if err := tr.Continue(context.Background(), 2); err != nil {
		t.Fatalf("Continue: %v", err)
	}
	if len(times.restarted) != 1 || times.restarted[0] != 3 {
		t.Errorf("restarted = %v, want [3]", times.restarted)
	}
	if len(times.createdRunning) != 0 {
		t.Errorf("restart mode must not clone; created = %+v", times.createdRunning)
	}
}

func TestContinueAutoStartStopsRunningTimer(t *testing.T) {
	project := model.Project{ID: 10, Name: "Alpha"}
	task := model.Task{ID: 100, Name: "Dev"}
	entry := model.TimeEntry{ID: 3, Notes: strPtr("resume me"), Project: &project, Task: &task}
	times := &fakeTimeService{
		entries: []model.TimeEntry{entry},
		running: &model.TimeEntry{ID: 9, Notes: strPtr("something else"), IsRunning: true},
	}
	cfg := testConfig()
	mode := "new"
	cfg.Settings.ContinueMode = &mode
	tr, _ := newTracker(t, cfg, times, &fakePrompter{entry: &entry}, model.Flags{AutoStart: true})

	if err := tr.Continue(context.Background(), 0); err != nil {
		t.Fatalf("Continue: %v", err)
	}
	if len(times.stopped) != 1 || times.stopped[0] != 9 {
		t.Errorf("stopped = %v, want [9]", times.stopped)
	}
	if len(times.createdRunning) != 1 {
		t.Errorf("createdRunning = %+v", times.createdRunning)
	}
}

func TestContinueNothingResumable(t *testing.T) {
	times := &fakeTimeService{entries: []model.TimeEntry{{ID: 2, Notes: strPtr("no project")}}}
	tr, out := newTracker(t, testConfig(), times, &fakePrompter{}, model.Flags{})

	if err := tr.Continue(context.Background(), 0); err != nil {
		t.Fatalf("Continue: %v", err)
	}
	if !strings.Contains(out.String(), "No entries to continue") {
		t.Errorf("output = %q", out.String())
	}
}

func TestStatusMakesNoWrites(t *testing.T) {
	hours := 1.5
	times := &fakeTimeService{entries: []model.TimeEntry{{ID: 1, Hours: &hours, Notes: strPtr("work")}}}
	tr, out := newTracker(t, testConfig(), times, &fakePrompter{}, model.Flags{})

	if err := tr.Status(context.Background()); err != nil {
		t.Fatalf("Status: %v", err)
	}
	if times.writes() != 0 {
		t.Error("status must not write")
	}
	if !strings.Contains(out.String(), "Total: 1.50 hours") {
		t.Errorf("output = %q", out.String())
	}
}

func TestStopTimer(t *testing.T) {
	t.Run("running", func(t *testing.T) {
		times := &fakeTimeService{running: &model.TimeEntry{ID: 7, Notes: strPtr("work")}}
		tr, _ := newTracker(t, testConfig(), times, &fakePrompter{}, model.Flags{})
		if err := tr.StopTimer(context.Background()); err != nil {
			t.Fatalf("StopTimer: %v", err)
		}
		if len(times.stopped) != 1 || times.stopped[0] != 7 {
			t.Errorf("stopped = %v", times.stopped)
		}
	})

	t.Run("nothing running", func(t *testing.T) {
		times := &fakeTimeService{}
		tr, out := newTracker(t, testConfig(), times, &fakePrompter{}, model.Flags{})
		if err := tr.StopTimer(context.Background()); err != nil {
			t.Fatalf("StopTimer: %v", err)
		}
		if !strings.Contains(out.String(), "No timer running") {
			t.Errorf("output = %q", out.String())
		}
	})
}

type fakeProvider struct {
	proposals []model.ProposedEntry
}

func (p *fakeProvider) Generate(ctx context.Context, summary string, pc ai.PromptContext) ([]model.ProposedEntry, error) {
	return p.proposals, nil
}

func (p *fakeProvider) Name() string { return "fake" }

func TestGenerateDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.AI.Enabled = false
	tr, _ := newTracker(t, cfg, &fakeTimeService{}, &fakePrompter{}, model.Flags{})

	err := tr.Generate(context.Background(), &fakeProvider{}, "summary", 8, true)
	if err == nil || !strings.Contains(err.Error(), "disabled") {
		t.Fatalf("err = %v", err)
	}
}

func TestGenerateCreatesApprovedEntries(t *testing.T) {
	times := &fakeTimeService{
		projects:     []model.Project{{ID: 10, Name: "Alpha"}},
		projectTasks: map[uint64][]model.Task{10: {{ID: 100, Name: "Dev"}}},
	}
	provider := &fakeProvider{proposals: []model.ProposedEntry{
		{Description: "Fixed widget", ProjectID: 10, TaskID: 100, Hours: 3},
		{Description: "Fixed widget", ProjectID: 10, TaskID: 100, Hours: 3},
		{Description: "Standup", ProjectID: 10, TaskID: 100, Hours: 0.5},
	}}
	tr, _ := newTracker(t, testConfig(), times, &fakePrompter{}, model.Flags{})

	if err := tr.Generate(context.Background(), provider, "my day", 8, true); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(times.createdStopped) != 2 {
		t.Fatalf("createdStopped = %+v, want duplicates dropped", times.createdStopped)
	}
	if times.createdStopped[0].notes != "Fixed widget" || times.createdStopped[1].notes != "Standup" {
		t.Errorf("createdStopped = %+v", times.createdStopped)
	}
}

func TestGenerate422FallbackRetry(t *testing.T) {
	project := model.Project{ID: 10, Name: "Alpha"}
	task := model.Task{ID: 100, Name: "Dev"}
	hours := 1.0
	times := &fakeTimeService{
		projects:     []model.Project{project},
		projectTasks: map[uint64][]model.Task{10: {task}},
		entries:      []model.TimeEntry{{ID: 1, Hours: &hours, Project: &project, Task: &task}},
	}
	calls := 0
	times.failStopped = func(notes string) error {
		calls++
		if calls == 1 {
			return fmt.Errorf("harvest API error 422 Unprocessable Entity: invalid task")
		}
		return nil
	}
	provider := &fakeProvider{proposals: []model.ProposedEntry{
		{Description: "Hallucinated", ProjectID: 999, TaskID: 888, Hours: 2},
	}}
	tr, out := newTracker(t, testConfig(), times, &fakePrompter{}, model.Flags{})

	if err := tr.Generate(context.Background(), provider, "my day", 8, true); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(times.createdStopped) != 1 {
		t.Fatalf("createdStopped = %+v", times.createdStopped)
	}
	retried := times.createdStopped[0]
	if *retried.projectID != 10 || *retried.taskID != 100 {
		t.Errorf("retry must use the fallback pair; got %+v", retried)
	}
	if !strings.Contains(out.String(), "retrying") {
		t.Errorf("output = %q", out.String())
	}
}

func TestGenerate422WithoutFallbackFails(t *testing.T) {
	times := &fakeTimeService{
		projects:     []model.Project{{ID: 10, Name: "Alpha"}},
		projectTasks: map[uint64][]model.Task{10: {{ID: 100, Name: "Dev"}}},
	}
	times.failStopped = func(notes string) error {
		return fmt.Errorf("harvest API error 422 Unprocessable Entity: invalid task")
	}
	provider := &fakeProvider{proposals: []model.ProposedEntry{
		{Description: "Hallucinated", ProjectID: 999, TaskID: 888, Hours: 2},
	}}
	tr, out := newTracker(t, testConfig(), times, &fakePrompter{}, model.Flags{})

	if err := tr.Generate(context.Background(), provider, "my day", 8, true); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(times.createdStopped) != 0 {
		t.Errorf("createdStopped = %+v", times.createdStopped)
	}
	if !strings.Contains(out.String(), "Failed to create") {
		t.Errorf("output = %q", out.String())
	}
}

func TestGenerateEmptyApprovalCreatesNothing(t *testing.T) {
	times := &fakeTimeService{
		projects:     []model.Project{{ID: 10, Name: "Alpha"}},
		projectTasks: map[uint64][]model.Task{10: {{ID: 100, Name: "Dev"}}},
	}
	provider := &fakeProvider{proposals: []model.ProposedEntry{
		{Description: "Fixed widget", ProjectID: 10, TaskID: 100, Hours: 3},
	}}
	prompter := &fakePrompter{approvals: []model.ProposedEntry{}}
	tr, out := newTracker(t, testConfig(), times, prompter, model.Flags{})

	if err := tr.Generate(context.Background(), provider, "my day", 8, false); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if times.writes() != 0 {
		t.Error("empty approval must not write")
	}
	if !strings.Contains(out.String(), "No entries approved") {
		t.Errorf("output = %q", out.String())
	}
}

func TestAddRecordsUsage(t *testing.T) {
	project := model.Project{ID: 10, Name: "Alpha"}
	task := model.Task{ID: 100, Name: "Dev"}
	times := &fakeTimeService{
		projects:     []model.Project{project},
		projectTasks: map[uint64][]model.Task{10: {task}},
	}
	prompter := &fakePrompter{
		project:  &project,
		task:     &task,
		date:     "2026-08-29",
		desc:     "Manual work",
		hours:    2,
		confirms: []bool{false, true}, // stopped entry, then create
	}
	issues := &fakeIssueService{}
	cachePath := filepath.Join(t.TempDir(), "usage.json")
	cache := usage.New(cachePath, zap.NewNop())
	prompter.t = t
	tr := tracker.New(testConfig(), times, issues, prompter, cache, model.Flags{}, zap.NewNop())
	var out bytes.Buffer
	tr.SetOutput(&out)

	if err := tr.Add(context.Background()); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(times.createdStopped) != 1 {
		t.Fatalf("createdStopped = %+v", times.createdStopped)
	}
	created := times.createdStopped[0]
	if created.date != "2026-08-29" || created.hours != 2 || created.notes != "Manual work" {
		t.Errorf("created = %+v", created)
	}

	reloaded := usage.Load(cachePath, zap.NewNop())
	if reloaded.ProjectScore(10) == nil {
		t.Error("project usage was not persisted")
	}
	if reloaded.TaskScore(100) == nil {
		t.Error("task usage was not persisted")
	}
}

func TestAddDryRunSkipsUsage(t *testing.T) {
	project := model.Project{ID: 10, Name: "Alpha"}
	task := model.Task{ID: 100, Name: "Dev"}
	times := &fakeTimeService{
		projects:     []model.Project{project},
		projectTasks: map[uint64][]model.Task{10: {task}},
	}
	prompter := &fakePrompter{
		project:  &project,
		task:     &task,
		date:     "2026-08-29",
		desc:     "Manual work",
		hours:    2,
		confirms: []bool{false, true},
	}
	issues := &fakeIssueService{}
	cachePath := filepath.Join(t.TempDir(), "usage.json")
	cache := usage.New(cachePath, zap.NewNop())
	prompter.t = t
	tr := tracker.New(testConfig(), times, issues, prompter, cache, model.Flags{DryRun: true}, zap.NewNop())
	var out bytes.Buffer
	tr.SetOutput(&out)

	if err := tr.Add(context.Background()); err != nil {
		t.Fatalf("Add: %v", err)
	}
	reloaded := usage.Load(cachePath, zap.NewNop())
	if reloaded.ProjectScore(10) != nil {
		t.Error("dry run must not persist usage")
	}
}

func TestAddRefusedConfirmation(t *testing.T) {
	project := model.Project{ID: 10, Name: "Alpha"}
	task := model.Task{ID: 100, Name: "Dev"}
	times := &fakeTimeService{
		projects:     []model.Project{project},
		projectTasks: map[uint64][]model.Task{10: {task}},
	}
	prompter := &fakePrompter{
		project:  &project,
		task:     &task,
		date:     "2026-08-29",
		desc:     "Manual work",
		hours:    2,
		confirms: []bool{false, false}, // stopped entry, then refuse
	}
	tr, out := newTracker(t, testConfig(), times, prompter, model.Flags{})

	if err := tr.Add(context.Background()); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if times.writes() != 0 {
		t.Error("refused confirmation must not write")
	}
	if !strings.Contains(out.String(), "Nothing created") {
		t.Errorf("output = %q", out.String())
	}
}
