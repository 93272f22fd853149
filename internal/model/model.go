package model

// Commit is a single git commit found by the repository scanner.
type Commit struct {
	Message   string
	Author    string
	Timestamp int64
}

// Ticket represents a Jira issue.
type Ticket struct {
	Key     string
	Summary string
	Status  *string
}

// Project is a Harvest project.
type Project struct {
	ID   uint64  `json:"id"`
	Name string  `json:"name"`
	Code *string `json:"code,omitempty"`
}

// Task is a Harvest task.
type Task struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ProjectTask pairs a task with the project it is assigned to.
type ProjectTask struct {
	ProjectID uint64
	Task      Task
}

// TimeEntry is a Harvest time entry. At most one entry per account has
// IsRunning set at any time.
type TimeEntry struct {
	ID          uint64   `json:"id"`
	SpentDate   string   `json:"spent_date"`
	Hours       *float64 `json:"hours"`
	Notes       *string  `json:"notes"`
	IsRunning   bool     `json:"is_running"`
	Project     *Project `json:"project"`
	Task        *Task    `json:"task"`
	StartedTime *string  `json:"started_time"`
}

// NotesOr returns the entry's notes, or fallback when unset.
func (e *TimeEntry) NotesOr(fallback string) string {
	if e.Notes != nil {
		return *e.Notes
	}
	return fallback
}

// HoursOr returns the entry's hours, or fallback when unset.
func (e *TimeEntry) HoursOr(fallback float64) float64 {
	if e.Hours != nil {
		return *e.Hours
	}
	return fallback
}

// ExternalReference cross-links a time entry to a Jira ticket.
type ExternalReference struct {
	ID        string `json:"id"`
	GroupID   string `json:"group_id"`
	Permalink string `json:"permalink"`
}

// ProposedEntry is a time entry proposed by an AI provider, validated
// before it reaches the user.
type ProposedEntry struct {
	Description string
	ProjectID   uint64
	TaskID      uint64
	Hours       float64
	Confidence  *float64
}

// Flags carries the execution flags threaded through every operation
// that touches Harvest.
type Flags struct {
	DryRun    bool
	AutoStart bool
	AutoStop  bool
	Quiet     bool
	Verbose   bool
}
