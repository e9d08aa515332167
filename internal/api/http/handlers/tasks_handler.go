package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-tracker/internal/api/dto"
	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/service"
)

// TasksHandler exposes task CRUD, nested under projects for listing and
// creation.
type TasksHandler struct {
	tasks *service.TaskService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(taskService *service.TaskService) *TasksHandler {
	return &TasksHandler{tasks: taskService}
}

// ListByProject handles GET /projects/:projectId/tasks.
func (h *TasksHandler) ListByProject(c *fiber.Ctx) error {
	projectID, err := parseID(c, "projectId")
	if err != nil {
		return err
	}

	tasks, err := h.tasks.ListByProject(c.UserContext(), projectID)
	if err != nil {
		return err
	}

	out := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, dto.NewTaskResponse(&tasks[i]))
	}
	return c.JSON(out)
}

// Create handles POST /projects/:projectId/tasks.
func (h *TasksHandler) Create(c *fiber.Ctx) error {
	projectID, err := parseID(c, "projectId")
	if err != nil {
		return err
	}

	req, err := parseTaskRequest(c)
	if err != nil {
		return err
	}

	task, err := h.tasks.Create(c.UserContext(), projectID, taskInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewTaskResponse(task))
}

// Get handles GET /tasks/:id.
func (h *TasksHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	task, err := h.tasks.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTaskResponse(task))
}

// Update handles PUT /tasks/:id.
func (h *TasksHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	req, err := parseTaskRequest(c)
	if err != nil {
		return err
	}

	task, err := h.tasks.Update(c.UserContext(), id, taskInput(req))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTaskResponse(task))
}

// Delete handles DELETE /tasks/:id.
func (h *TasksHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.tasks.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseTaskRequest(c *fiber.Ctx) (dto.TaskWriteRequest, error) {
	var req dto.TaskWriteRequest
	if err := c.BodyParser(&req); err != nil {
		return req, fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Title == "" {
		return req, fiber.NewError(http.StatusBadRequest, "title required")
	}
	if req.Status != "" {
		switch domain.TaskStatus(req.Status) {
		case domain.TaskStatusTodo, domain.TaskStatusInProgress, domain.TaskStatusDone:
		default:
			return req, fiber.NewError(http.StatusBadRequest, "unknown status")
		}
	}
	return req, nil
}

func taskInput(req dto.TaskWriteRequest) service.TaskInput {
	return service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		Deadline:    req.Deadline,
		AssigneeID:  req.AssigneeID,
	}
}
