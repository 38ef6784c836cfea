package domain

import (
	"fmt"
	"time"
)

// TaskStatus enumerates lifecycle states for tasks.
type TaskStatus string

const (
	TaskStatusTodo  TaskStatus = "TODO"
	TaskStatusDoing TaskStatus = "DOING"
	TaskStatusDone  TaskStatus = "DONE"
)

// Next returns the following status in the TODO -> DOING -> DONE -> TODO
// cycle. This is the only transition path the toggle operation takes.
func (s TaskStatus) Next() TaskStatus {
	switch s {
	case TaskStatusTodo:
		return TaskStatusDoing
	case TaskStatusDoing:
		return TaskStatusDone
	default:
		return TaskStatusTodo
	}
}

// Valid reports whether the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusDoing, TaskStatusDone:
		return true
	}
	return false
}

// ParseTaskStatus validates a raw status string.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	status := TaskStatus(raw)
	if !status.Valid() {
		return "", fmt.Errorf("unknown task status %q", raw)
	}
	return status, nil
}

// Task is the aggregate for work items. OwnerID scopes visibility: a task
// is only readable and mutable by its owner. CreatorID equals OwnerID at
// creation time.
type Task struct {
	ID          string
	Title       string
	Description string
	DueDate     time.Time
	Status      TaskStatus
	OwnerID     string
	CreatorID   string
	AssigneeID  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined projections, populated on reads.
	Creator  *UserRef
	Assignee *UserRef
}
