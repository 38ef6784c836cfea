package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-service/internal/api/dto"
	"github.com/spec-kit/task-service/internal/auth"
	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/service"
	apperrors "github.com/spec-kit/task-service/pkg/util"
)

// TasksHandler manages task endpoints.
type TasksHandler struct {
	service *service.TaskService
}

// NewTasksHandler constructs the handler.
func NewTasksHandler(taskService *service.TaskService) *TasksHandler {
	return &TasksHandler{service: taskService}
}

// Create handles POST /tasks. The router gates this behind the ADMIN role.
func (h *TasksHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return apperrors.NewValidationError("title and description required", nil)
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return err
	}

	input := service.TaskCreateInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		AssigneeID:  req.AssignedTo,
	}
	if req.Status != nil {
		status, err := domain.ParseTaskStatus(*req.Status)
		if err != nil {
			return apperrors.NewValidationError("invalid task status", nil)
		}
		input.Status = &status
	}

	task, err := h.service.Create(c.UserContext(), principal.User.ID, input)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, dto.FromTask(task))
}

// List handles GET /tasks with an optional ?status= filter.
func (h *TasksHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	var statusFilter *domain.TaskStatus
	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseTaskStatus(raw)
		if err != nil {
			return apperrors.NewValidationError("invalid task status", nil)
		}
		statusFilter = &status
	}

	tasks, err := h.service.List(c.UserContext(), principal.User.ID, statusFilter)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.FromTasks(tasks))
}

// Get handles GET /tasks/:id.
func (h *TasksHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	task, err := h.service.Get(c.UserContext(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.FromTask(task))
}

// Update handles PATCH /tasks/:id. Fields outside the actor's role
// allow-list are ignored by the service, not rejected.
func (h *TasksHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TaskUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssignedTo,
	}
	if req.DueDate != nil {
		dueDate, err := parseDueDate(*req.DueDate)
		if err != nil {
			return err
		}
		input.DueDate = &dueDate
	}
	if req.Status != nil {
		status, err := domain.ParseTaskStatus(*req.Status)
		if err != nil {
			return apperrors.NewValidationError("invalid task status", nil)
		}
		input.Status = &status
	}

	task, err := h.service.Update(c.UserContext(), principal.User.ID, principal.User.Role, c.Params("id"), input)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.FromTask(task))
}

// Toggle handles POST /tasks/:id/toggle, advancing the status cycle.
func (h *TasksHandler) Toggle(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	task, err := h.service.Toggle(c.UserContext(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.FromTask(task))
}

// Delete handles DELETE /tasks/:id. The router gates this behind ADMIN.
func (h *TasksHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	task, err := h.service.Remove(c.UserContext(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.FromTask(task))
}

func parseDueDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, apperrors.NewValidationError("dueDate required", nil)
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, apperrors.NewValidationError("invalid dueDate", nil)
}
