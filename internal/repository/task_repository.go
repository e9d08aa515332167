package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/task-tracker/internal/domain"
)

// TaskRepository defines persistence access for tasks, including the
// sweeper's overdue scan and the one-shot expiry flag.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]domain.Task, error)
	FindOverdueUnflagged(ctx context.Context, now time.Time) ([]domain.Task, error)
	MarkExpiredNotified(ctx context.Context, id int64) (bool, error)
}

type taskRepository struct {
	db DB
}

// NewTaskRepository returns a Postgres-backed implementation.
func NewTaskRepository(db DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, title, description, status, deadline, expired_notified, project_id, assignee_id, created_at, updated_at`

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	const query = `
        INSERT INTO tasks (title, description, status, deadline, project_id, assignee_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.Deadline,
		task.ProjectID,
		task.AssigneeID,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	const query = `
        UPDATE tasks SET title=$1, description=$2, status=$3, deadline=$4, assignee_id=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.db.Exec(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.Deadline,
		task.AssigneeID,
		task.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE id=$1`

	row := r.db.QueryRow(ctx, query, id)
	task, err := scanTask(row)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) ListByProject(ctx context.Context, projectID int64) ([]domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE project_id=$1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) FindOverdueUnflagged(ctx context.Context, now time.Time) ([]domain.Task, error) {
	const query = `
        SELECT ` + taskColumns + `
        FROM tasks
        WHERE deadline IS NOT NULL AND deadline < $1 AND expired_notified = FALSE
        ORDER BY id`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// MarkExpiredNotified flips the expiry flag as one conditional update.
// The boolean reports whether this call performed the transition; a
// concurrent sweep that lost the race observes false and must not
// publish.
func (r *taskRepository) MarkExpiredNotified(ctx context.Context, id int64) (bool, error) {
	const query = `
        UPDATE tasks SET expired_notified = TRUE, updated_at = NOW()
        WHERE id=$1 AND expired_notified = FALSE`

	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Deadline,
		&task.ExpiredNotified,
		&task.ProjectID,
		&task.AssigneeID,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &task, nil
}
