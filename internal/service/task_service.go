package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/events"
	"github.com/spec-kit/task-service/internal/repository"
	apperrors "github.com/spec-kit/task-service/pkg/util"
)

const taskAccessDeniedMsg = "You do not have access to this task"

// taskField identifies an updatable task attribute.
type taskField string

const (
	fieldTitle       taskField = "title"
	fieldDescription taskField = "description"
	fieldDueDate     taskField = "dueDate"
	fieldAssignee    taskField = "assignedTo"
	fieldStatus      taskField = "status"
)

// fieldPolicy is the per-role update allow-list. Ownership decides whether
// a task can be touched at all; the role decides which fields. Fields
// outside the actor's allow-list are dropped from the update set without
// raising an error.
var fieldPolicy = map[domain.Role]map[taskField]bool{
	domain.RoleAdmin: {
		fieldTitle:       true,
		fieldDescription: true,
		fieldDueDate:     true,
		fieldAssignee:    true,
		fieldStatus:      true,
	},
	domain.RoleUser: {
		fieldStatus: true,
	},
}

// TaskService is the authorization and lifecycle engine for tasks.
type TaskService struct {
	tasks      repository.TaskRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// TaskDependencies bundles requirements for the task service.
type TaskDependencies struct {
	TaskRepo   repository.TaskRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewTaskService constructs the service.
func NewTaskService(deps TaskDependencies) *TaskService {
	return &TaskService{
		tasks:      deps.TaskRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// TaskCreateInput describes the task creation payload.
type TaskCreateInput struct {
	Title       string
	Description string
	DueDate     time.Time
	Status      *domain.TaskStatus
	AssigneeID  *string
}

// TaskUpdateInput carries partial update fields. Nil means the field was
// absent from the request and stays untouched. An empty AssigneeID clears
// the assignment.
type TaskUpdateInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Status      *domain.TaskStatus
	AssigneeID  *string
}

// Create persists a task owned and created by the actor. The ADMIN role
// requirement is enforced at the route boundary before this method runs.
func (s *TaskService) Create(ctx context.Context, actorID string, input TaskCreateInput) (*domain.Task, error) {
	assigneeID, err := s.resolveAssignee(ctx, input.AssigneeID)
	if err != nil {
		return nil, err
	}

	status := domain.TaskStatusTodo
	if input.Status != nil {
		status = *input.Status
	}

	task := &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Status:      status,
		OwnerID:     actorID,
		CreatorID:   actorID,
		AssigneeID:  assigneeID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventTaskCreated,
		ActorID: actorID,
		Payload: events.TaskCreatedPayload{
			TaskID:     task.ID,
			Title:      task.Title,
			Status:     task.Status,
			AssigneeID: task.AssigneeID,
		},
	})
	return s.tasks.GetByID(ctx, task.ID)
}

// List returns the actor's tasks, newest first, optionally filtered by
// status. Tasks owned by anyone else are never returned.
func (s *TaskService) List(ctx context.Context, actorID string, status *domain.TaskStatus) ([]domain.Task, error) {
	return s.tasks.ListByOwner(ctx, repository.TaskFilter{OwnerID: actorID, Status: status})
}

// Get fetches a single task. A missing task is NotFound; an existing task
// owned by someone else is Forbidden. The distinction is deliberate and
// relied upon by clients.
func (s *TaskService) Get(ctx context.Context, actorID, taskID string) (*domain.Task, error) {
	return s.authorize(ctx, actorID, taskID)
}

// Update applies a partial update gated by the actor's role allow-list.
// Ownership is checked before any field filtering.
func (s *TaskService) Update(ctx context.Context, actorID string, actorRole domain.Role, taskID string, input TaskUpdateInput) (*domain.Task, error) {
	task, err := s.authorize(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}

	allowed := fieldPolicy[actorRole]
	oldStatus := task.Status
	oldAssignee := task.AssigneeID
	assigneeTouched := false

	if input.Title != nil && allowed[fieldTitle] {
		task.Title = *input.Title
	}
	if input.Description != nil && allowed[fieldDescription] {
		task.Description = *input.Description
	}
	if input.DueDate != nil && allowed[fieldDueDate] {
		task.DueDate = *input.DueDate
	}
	if input.AssigneeID != nil && allowed[fieldAssignee] {
		assigneeID, err := s.resolveAssignee(ctx, input.AssigneeID)
		if err != nil {
			return nil, err
		}
		task.AssigneeID = assigneeID
		assigneeTouched = true
	}
	if input.Status != nil && allowed[fieldStatus] {
		task.Status = *input.Status
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	if task.Status != oldStatus {
		s.publish(ctx, events.Event{
			Type:    events.EventTaskStatusChanged,
			ActorID: actorID,
			Payload: events.TaskStatusChangedPayload{TaskID: task.ID, OldStatus: oldStatus, NewStatus: task.Status},
		})
	}
	if assigneeTouched && !sameAssignee(oldAssignee, task.AssigneeID) {
		s.publish(ctx, events.Event{
			Type:    events.EventTaskAssigned,
			ActorID: actorID,
			Payload: events.TaskAssignedPayload{TaskID: task.ID, AssigneeID: task.AssigneeID},
		})
	}
	return s.tasks.GetByID(ctx, task.ID)
}

// Toggle advances the status one step along the TODO -> DOING -> DONE ->
// TODO cycle. Available to any role on owned tasks.
func (s *TaskService) Toggle(ctx context.Context, actorID, taskID string) (*domain.Task, error) {
	task, err := s.authorize(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}

	oldStatus := task.Status
	task.Status = task.Status.Next()
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventTaskStatusChanged,
		ActorID: actorID,
		Payload: events.TaskStatusChangedPayload{TaskID: task.ID, OldStatus: oldStatus, NewStatus: task.Status},
	})
	return s.tasks.GetByID(ctx, task.ID)
}

// Remove deletes an owned task and returns its prior representation. The
// NotFound/Forbidden semantics match Get exactly.
func (s *TaskService) Remove(ctx context.Context, actorID, taskID string) (*domain.Task, error) {
	task, err := s.authorize(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventTaskDeleted,
		ActorID: actorID,
		Payload: events.TaskDeletedPayload{TaskID: task.ID, Title: task.Title},
	})
	return task, nil
}

// authorize loads a task and enforces the ownership scope. Existence is
// surfaced before ownership: callers see NotFound for missing ids and
// Forbidden for foreign ones.
func (s *TaskService) authorize(ctx context.Context, actorID, taskID string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("Task", nil)
		}
		return nil, err
	}
	if task.OwnerID != actorID {
		return nil, apperrors.NewForbidden(taskAccessDeniedMsg)
	}
	return task, nil
}

// resolveAssignee validates a requested assignee. Empty input clears the
// assignment; a non-empty id must reference an existing user.
func (s *TaskService) resolveAssignee(ctx context.Context, requested *string) (*string, error) {
	if requested == nil || *requested == "" {
		return nil, nil
	}
	if _, err := s.users.GetByID(ctx, *requested); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewValidationError("Assigned user not found", nil)
		}
		return nil, err
	}
	id := *requested
	return &id, nil
}

func sameAssignee(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *TaskService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
