package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/events"
	"github.com/spec-kit/task-tracker/internal/repository"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

// TaskInput carries the mutable fields of a task.
type TaskInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	Deadline    *time.Time
	AssigneeID  *int64
}

// TaskService manages tasks and emits change events after each
// successful mutation, before control returns to the handler.
type TaskService struct {
	tasks     repository.TaskRepository
	projects  repository.ProjectRepository
	publisher events.Publisher
}

// NewTaskService builds the service.
func NewTaskService(tasks repository.TaskRepository, projects repository.ProjectRepository, publisher events.Publisher) *TaskService {
	return &TaskService{tasks: tasks, projects: projects, publisher: publisher}
}

// ListByProject returns all tasks of a project, visible to any
// authenticated caller.
func (s *TaskService) ListByProject(ctx context.Context, projectID int64) ([]domain.Task, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("project")
		}
		return nil, err
	}
	return s.tasks.ListByProject(ctx, projectID)
}

// Get returns one task.
func (s *TaskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task")
		}
		return nil, err
	}
	return task, nil
}

// Create persists a task in a project. The creation is announced on the
// project's topic and on the aggregate tasks topic.
func (s *TaskService) Create(ctx context.Context, projectID int64, input TaskInput) (*domain.Task, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("project")
		}
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.TaskStatusTodo
	}
	task := &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Deadline:    input.Deadline,
		ProjectID:   projectID,
		AssigneeID:  input.AssigneeID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	payload := taskPayload(task)
	topic := events.ProjectTasksTopic(projectID)
	s.publisher.Publish(topic, events.NewChangeEvent(topic, events.ChangeCreated, payload))
	s.publisher.Publish(events.TopicTasks, events.NewChangeEvent(events.TopicTasks, events.ChangeCreated, payload))
	return task, nil
}

// Update rewrites the mutable fields of a task and announces the change
// on the project's topic.
func (s *TaskService) Update(ctx context.Context, id int64, input TaskInput) (*domain.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Title = input.Title
	task.Description = input.Description
	if input.Status != "" {
		task.Status = input.Status
	}
	task.Deadline = input.Deadline
	task.AssigneeID = input.AssigneeID

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	topic := events.ProjectTasksTopic(task.ProjectID)
	s.publisher.Publish(topic, events.NewChangeEvent(topic, events.ChangeUpdated, taskPayload(task)))
	return task, nil
}

// Delete removes a task and announces the deletion on the project's
// topic.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	task, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("task")
		}
		return err
	}

	topic := events.ProjectTasksTopic(task.ProjectID)
	s.publisher.Publish(topic, events.NewChangeEvent(topic, events.ChangeDeleted,
		events.TaskPayload{TaskID: id, ProjectID: task.ProjectID}))
	return nil
}

func taskPayload(task *domain.Task) events.TaskPayload {
	return events.TaskPayload{
		TaskID:    task.ID,
		ProjectID: task.ProjectID,
		Title:     task.Title,
		Status:    string(task.Status),
		Deadline:  task.Deadline,
	}
}
