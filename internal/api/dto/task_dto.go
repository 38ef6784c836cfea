package dto

import (
	"time"

	"github.com/spec-kit/task-service/internal/domain"
)

// CreateTaskRequest payload.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     string  `json:"dueDate"`
	Status      *string `json:"status"`
	AssignedTo  *string `json:"assignedTo"`
}

// UpdateTaskRequest payload. Pointer fields distinguish absent from empty:
// only fields present in the request take part in the update.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	Status      *string `json:"status"`
	AssignedTo  *string `json:"assignedTo"`
}

// TaskResponse is the outward task shape with joined projections.
type TaskResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	DueDate     time.Time          `json:"dueDate"`
	Status      domain.TaskStatus  `json:"status"`
	UserID      string             `json:"userId"`
	CreatedBy   *domain.UserRef    `json:"createdBy"`
	AssignedTo  *domain.UserRef    `json:"assignedTo"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// FromTask maps a domain task to its response shape.
func FromTask(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Status:      task.Status,
		UserID:      task.OwnerID,
		CreatedBy:   task.Creator,
		AssignedTo:  task.Assignee,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// FromTasks maps a slice of domain tasks.
func FromTasks(tasks []domain.Task) []TaskResponse {
	result := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		result = append(result, FromTask(&tasks[i]))
	}
	return result
}
