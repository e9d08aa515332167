package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChangeKind enumerates mutation kinds carried by change events.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
	ChangeExpired ChangeKind = "expired"
)

// ChangeEvent is one notification about a successful mutation or a
// deadline expiry. It is owned by the publisher only long enough to hand
// off to subscribers; there is no replay.
type ChangeEvent struct {
	ID         string      `json:"id"`
	Topic      string      `json:"topic"`
	Kind       ChangeKind  `json:"kind"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// NewChangeEvent stamps a fresh event for the topic.
func NewChangeEvent(topic string, kind ChangeKind, payload interface{}) ChangeEvent {
	return ChangeEvent{
		ID:         uuid.NewString(),
		Topic:      topic,
		Kind:       kind,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Topic names. Topics are live fan-out addresses, created implicitly on
// first subscribe.
const (
	TopicProjects = "projects"
	TopicTasks    = "tasks"
)

// ProjectTasksTopic is the per-project task feed.
func ProjectTasksTopic(projectID int64) string {
	return fmt.Sprintf("projects/%d/tasks", projectID)
}

// TaskPayload is the wire payload for task change events.
type TaskPayload struct {
	TaskID    int64      `json:"task_id"`
	ProjectID int64      `json:"project_id"`
	Title     string     `json:"title,omitempty"`
	Status    string     `json:"status,omitempty"`
	Deadline  *time.Time `json:"deadline,omitempty"`
}

// ProjectPayload is the wire payload for project change events.
type ProjectPayload struct {
	ProjectID int64  `json:"project_id"`
	Name      string `json:"name,omitempty"`
}
