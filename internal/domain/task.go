package domain

import "time"

// TaskStatus enumerates lifecycle states for tasks.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// Task is the unit of work inside a project. Parent and assignee are
// referenced by ID; lookups go through the repositories on demand.
type Task struct {
	ID              int64
	Title           string
	Description     string
	Status          TaskStatus
	Deadline        *time.Time
	ExpiredNotified bool
	ProjectID       int64
	AssigneeID      *int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Overdue reports whether the task's deadline has passed at the given time.
func (t *Task) Overdue(now time.Time) bool {
	return t.Deadline != nil && !t.Deadline.After(now)
}
