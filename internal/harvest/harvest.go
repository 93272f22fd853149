// Package harvest is a Harvest v2 API client covering time entries,
// projects, and task assignments.
package harvest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/stevendejongnl/harv/internal/model"
)

const defaultBaseURL = "https://api.harvestapp.com"

// apiError is a non-2xx Harvest response. The message carries the status
// line and the echoed body.
type apiError struct {
	StatusCode int
	Body       string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("harvest API error %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// headerTransport adds the account and user-agent headers Harvest
// requires on every request.
type headerTransport struct {
	base      http.RoundTripper
	accountID string
	userAgent string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Harvest-Account-Id", t.accountID)
	req.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(req)
}

// Client is an authenticated Harvest API client. With dryRun set, every
// mutating operation skips the HTTP call and returns a surrogate entry
// with id 0 reflecting what would have been sent.
type Client struct {
	httpClient *http.Client
	baseURL    string
	dryRun     bool
	log        *zap.Logger
}

// NewClient creates a Harvest client. The bearer token is injected per
// request; accountID and userAgent become the Harvest-Account-Id and
// User-Agent headers.
func NewClient(accessToken, accountID, userAgent string, dryRun bool, log *zap.Logger) *Client {
	transport := &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}),
		Base: &headerTransport{
			base:      http.DefaultTransport,
			accountID: accountID,
			userAgent: userAgent,
		},
	}
	return &Client{
		httpClient: &http.Client{Transport: transport},
		baseURL:    defaultBaseURL,
		dryRun:     dryRun,
		log:        log,
	}
}

// SetBaseURL points the client at an alternate API root.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	url := c.baseURL + path
	c.log.Debug(method + " " + url)

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("harvest request failed: %w", err)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("reading harvest response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &apiError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding harvest response: %w", err)
		}
	}
	return nil
}

func isForbidden(err error) bool {
	var apiErr *apiError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden
}

type timeEntriesResponse struct {
	TimeEntries []model.TimeEntry `json:"time_entries"`
}

// ListEntries returns the time entries between two dates, inclusive.
// Dates are YYYY-MM-DD.
func (c *Client) ListEntries(ctx context.Context, from, to string) ([]model.TimeEntry, error) {
	path := "/v2/time_entries?from=" + url.QueryEscape(from) + "&to=" + url.QueryEscape(to)
	var resp timeEntriesResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("listing time entries: %w", err)
	}
	return resp.TimeEntries, nil
}

// TodaysEntries returns today's time entries.
func (c *Client) TodaysEntries(ctx context.Context) ([]model.TimeEntry, error) {
	today := time.Now().Format("2006-01-02")
	return c.ListEntries(ctx, today, today)
}

// TotalHoursForDate sums the logged hours on a date.
func (c *Client) TotalHoursForDate(ctx context.Context, date string) (float64, error) {
	entries, err := c.ListEntries(ctx, date, date)
	if err != nil {
		return 0, err
	}
	var total float64
	for i := range entries {
		total += entries[i].HoursOr(0)
	}
	return total, nil
}

// TotalHoursToday sums the hours logged today.
func (c *Client) TotalHoursToday(ctx context.Context) (float64, error) {
	return c.TotalHoursForDate(ctx, time.Now().Format("2006-01-02"))
}

// RunningTimer returns the currently running time entry, or nil when no
// timer is running.
func (c *Client) RunningTimer(ctx context.Context) (*model.TimeEntry, error) {
	var resp timeEntriesResponse
	if err := c.do(ctx, http.MethodGet, "/v2/time_entries?is_running=true", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching running timer: %w", err)
	}
	if len(resp.TimeEntries) == 0 {
		return nil, nil
	}
	return &resp.TimeEntries[0], nil
}

type createEntryRequest struct {
	ProjectID         *uint64                  `json:"project_id,omitempty"`
	TaskID            *uint64                  `json:"task_id,omitempty"`
	SpentDate         string                   `json:"spent_date"`
	Notes             string                   `json:"notes"`
	Hours             *float64                 `json:"hours,omitempty"`
	ExternalReference *model.ExternalReference `json:"external_reference,omitempty"`
}

func surrogateEntry(req createEntryRequest, running bool) model.TimeEntry {
	notes := req.Notes
	entry := model.TimeEntry{
		SpentDate: req.SpentDate,
		Notes:     &notes,
		Hours:     req.Hours,
		IsRunning: running,
	}
	if req.ProjectID != nil {
		entry.Project = &model.Project{ID: *req.ProjectID}
	}
	if req.TaskID != nil {
		entry.Task = &model.Task{ID: *req.TaskID}
	}
	return entry
}

// CreateRunning starts a new running time entry on the given date. A nil
// projectID or taskID is omitted from the request so Harvest applies the
// user's defaults. externalRef is optional.
func (c *Client) CreateRunning(ctx context.Context, projectID, taskID *uint64, date, notes string, externalRef *model.ExternalReference) (model.TimeEntry, error) {
	req := createEntryRequest{
		ProjectID:         projectID,
		TaskID:            taskID,
		SpentDate:         date,
		Notes:             notes,
		ExternalReference: externalRef,
	}
	if c.dryRun {
		c.log.Info("Dry run: would start timer", zap.String("notes", notes), zap.String("date", date))
		return surrogateEntry(req, true), nil
	}

	var entry model.TimeEntry
	if err := c.do(ctx, http.MethodPost, "/v2/time_entries", req, &entry); err != nil {
		return model.TimeEntry{}, fmt.Errorf("creating time entry: %w", err)
	}
	return entry, nil
}

// CreateStopped creates a completed time entry with explicit hours.
func (c *Client) CreateStopped(ctx context.Context, projectID, taskID *uint64, date, notes string, hours float64) (model.TimeEntry, error) {
	req := createEntryRequest{
		ProjectID: projectID,
		TaskID:    taskID,
		SpentDate: date,
		Notes:     notes,
		Hours:     &hours,
	}
	if c.dryRun {
		c.log.Info("Dry run: would create entry", zap.String("notes", notes), zap.Float64("hours", hours))
		return surrogateEntry(req, false), nil
	}

	var entry model.TimeEntry
	if err := c.do(ctx, http.MethodPost, "/v2/time_entries", req, &entry); err != nil {
		return model.TimeEntry{}, fmt.Errorf("creating time entry: %w", err)
	}
	return entry, nil
}

// Stop stops a running time entry.
func (c *Client) Stop(ctx context.Context, entryID uint64) (model.TimeEntry, error) {
	if c.dryRun {
		c.log.Info("Dry run: would stop timer", zap.Uint64("entry_id", entryID))
		return model.TimeEntry{IsRunning: false}, nil
	}

	var entry model.TimeEntry
	path := fmt.Sprintf("/v2/time_entries/%d/stop", entryID)
	if err := c.do(ctx, http.MethodPatch, path, nil, &entry); err != nil {
		return model.TimeEntry{}, fmt.Errorf("stopping time entry %d: %w", entryID, err)
	}
	return entry, nil
}

// Restart restarts a stopped time entry on its original date.
func (c *Client) Restart(ctx context.Context, entryID uint64) (model.TimeEntry, error) {
	if c.dryRun {
		c.log.Info("Dry run: would restart timer", zap.Uint64("entry_id", entryID))
		return model.TimeEntry{IsRunning: true}, nil
	}

	var entry model.TimeEntry
	path := fmt.Sprintf("/v2/time_entries/%d/restart", entryID)
	if err := c.do(ctx, http.MethodPatch, path, nil, &entry); err != nil {
		return model.TimeEntry{}, fmt.Errorf("restarting time entry %d: %w", entryID, err)
	}
	return entry, nil
}

type projectsResponse struct {
	Projects []model.Project `json:"projects"`
}

type taskAssignment struct {
	IsActive bool       `json:"is_active"`
	Task     model.Task `json:"task"`
}

type taskAssignmentsResponse struct {
	TaskAssignments []taskAssignment `json:"task_assignments"`
}

type projectAssignment struct {
	IsActive        bool             `json:"is_active"`
	Project         model.Project    `json:"project"`
	TaskAssignments []taskAssignment `json:"task_assignments"`
}

type projectAssignmentsResponse struct {
	ProjectAssignments []projectAssignment `json:"project_assignments"`
}

// projectAssignments is the fallback source for user-scoped credentials
// that cannot read the account-wide project endpoints.
func (c *Client) projectAssignments(ctx context.Context) ([]projectAssignment, error) {
	var resp projectAssignmentsResponse
	if err := c.do(ctx, http.MethodGet, "/v2/users/me/project_assignments", nil, &resp); err != nil {
		return nil, fmt.Errorf("listing project assignments: %w", err)
	}
	active := resp.ProjectAssignments[:0]
	for _, pa := range resp.ProjectAssignments {
		if pa.IsActive {
			active = append(active, pa)
		}
	}
	return active, nil
}

// ListProjects returns the active projects.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var resp projectsResponse
	err := c.do(ctx, http.MethodGet, "/v2/projects?is_active=true", nil, &resp)
	if err == nil {
		return resp.Projects, nil
	}
	if !isForbidden(err) {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	c.log.Debug("Project listing forbidden, falling back to project assignments")
	assignments, err := c.projectAssignments(ctx)
	if err != nil {
		return nil, err
	}
	projects := make([]model.Project, 0, len(assignments))
	for _, pa := range assignments {
		projects = append(projects, pa.Project)
	}
	return projects, nil
}

// ListProjectTasks returns the active tasks assigned to a project.
func (c *Client) ListProjectTasks(ctx context.Context, projectID uint64) ([]model.Task, error) {
	var resp taskAssignmentsResponse
	path := fmt.Sprintf("/v2/projects/%d/task_assignments", projectID)
	err := c.do(ctx, http.MethodGet, path, nil, &resp)
	if err == nil {
		tasks := make([]model.Task, 0, len(resp.TaskAssignments))
		for _, ta := range resp.TaskAssignments {
			if ta.IsActive {
				tasks = append(tasks, ta.Task)
			}
		}
		return tasks, nil
	}
	if !isForbidden(err) {
		return nil, fmt.Errorf("listing tasks for project %d: %w", projectID, err)
	}

	c.log.Debug("Task listing forbidden, falling back to project assignments")
	assignments, err := c.projectAssignments(ctx)
	if err != nil {
		return nil, err
	}
	var tasks []model.Task
	for _, pa := range assignments {
		if pa.Project.ID != projectID {
			continue
		}
		for _, ta := range pa.TaskAssignments {
			if ta.IsActive {
				tasks = append(tasks, ta.Task)
			}
		}
	}
	return tasks, nil
}

// ListAllProjectTasks returns every active (project, task) assignment
// the credential can see.
func (c *Client) ListAllProjectTasks(ctx context.Context) ([]model.ProjectTask, error) {
	var projResp projectsResponse
	err := c.do(ctx, http.MethodGet, "/v2/projects?is_active=true", nil, &projResp)
	if err != nil {
		if !isForbidden(err) {
			return nil, fmt.Errorf("listing projects: %w", err)
		}

		c.log.Debug("Project listing forbidden, falling back to project assignments")
		assignments, err := c.projectAssignments(ctx)
		if err != nil {
			return nil, err
		}
		var pairs []model.ProjectTask
		for _, pa := range assignments {
			for _, ta := range pa.TaskAssignments {
				if ta.IsActive {
					pairs = append(pairs, model.ProjectTask{ProjectID: pa.Project.ID, Task: ta.Task})
				}
			}
		}
		return pairs, nil
	}

	var pairs []model.ProjectTask
	for _, project := range projResp.Projects {
		tasks, err := c.ListProjectTasks(ctx, project.ID)
		if err != nil {
			return nil, err
		}
		for _, task := range tasks {
			pairs = append(pairs, model.ProjectTask{ProjectID: project.ID, Task: task})
		}
	}
	return pairs, nil
}
