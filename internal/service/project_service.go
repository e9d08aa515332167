package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/events"
	"github.com/spec-kit/task-tracker/internal/repository"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

// ProjectService manages projects. All authenticated users see all
// projects; per-role row filtering is deliberately not applied.
type ProjectService struct {
	projects  repository.ProjectRepository
	publisher events.Publisher
}

// NewProjectService builds the service.
func NewProjectService(projects repository.ProjectRepository, publisher events.Publisher) *ProjectService {
	return &ProjectService{projects: projects, publisher: publisher}
}

// List returns all projects.
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.projects.List(ctx)
}

// Get returns one project.
func (s *ProjectService) Get(ctx context.Context, id int64) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("project")
		}
		return nil, err
	}
	return project, nil
}

// Create persists a project and publishes the change before returning.
func (s *ProjectService) Create(ctx context.Context, name, description string) (*domain.Project, error) {
	project := &domain.Project{Name: name, Description: description}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}

	s.publisher.Publish(events.TopicProjects, events.NewChangeEvent(
		events.TopicProjects, events.ChangeCreated,
		events.ProjectPayload{ProjectID: project.ID, Name: project.Name}))
	return project, nil
}

// Delete removes a project; its tasks cascade away with it.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("project")
		}
		return err
	}

	s.publisher.Publish(events.TopicProjects, events.NewChangeEvent(
		events.TopicProjects, events.ChangeDeleted,
		events.ProjectPayload{ProjectID: id}))
	return nil
}
