package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/repository"
)

type taskFixture struct {
	svc   *TaskService
	users *repository.MemoryUserRepository
	tasks *repository.MemoryTaskRepository

	admin domain.User
	user  domain.User
	other domain.User
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	users := repository.NewMemoryUserRepository()
	tasks := repository.NewMemoryTaskRepository(users)
	ctx := context.Background()

	admin := domain.User{Email: "admin@x.com", PasswordHash: "h", Role: domain.RoleAdmin}
	user := domain.User{Email: "user@x.com", PasswordHash: "h", Role: domain.RoleUser}
	other := domain.User{Email: "other@x.com", PasswordHash: "h", Role: domain.RoleUser}
	for _, u := range []*domain.User{&admin, &user, &other} {
		if err := users.Create(ctx, u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	return &taskFixture{
		svc:   NewTaskService(TaskDependencies{TaskRepo: tasks, UserRepo: users}),
		users: users,
		tasks: tasks,
		admin: admin,
		user:  user,
		other: other,
	}
}

func (f *taskFixture) createTask(t *testing.T, ownerID string) *domain.Task {
	t.Helper()
	task, err := f.svc.Create(context.Background(), ownerID, TaskCreateInput{
		Title:       "T",
		Description: "D",
		DueDate:     time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return task
}

func strPtr(s string) *string { return &s }

func TestCreateDefaultsOwnerCreatorAndStatus(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, f.admin.ID)

	if task.OwnerID != f.admin.ID || task.CreatorID != f.admin.ID {
		t.Errorf("owner=%s creator=%s, want both %s", task.OwnerID, task.CreatorID, f.admin.ID)
	}
	if task.Status != domain.TaskStatusTodo {
		t.Errorf("status = %s, want TODO", task.Status)
	}
	if task.Creator == nil || task.Creator.ID != f.admin.ID {
		t.Error("creator projection missing")
	}
	if task.Assignee != nil {
		t.Error("assignee should be nil")
	}
}

func TestCreateWithUnknownAssigneeFailsWithoutWrite(t *testing.T) {
	f := newTaskFixture(t)

	_, err := f.svc.Create(context.Background(), f.admin.ID, TaskCreateInput{
		Title:       "T",
		Description: "D",
		DueDate:     time.Now(),
		AssigneeID:  strPtr("no-such-user"),
	})
	de := domainErr(t, err)
	if de.HTTPStatus != 400 {
		t.Errorf("status = %d, want 400", de.HTTPStatus)
	}
	if de.Message != "Assigned user not found" {
		t.Errorf("message = %q", de.Message)
	}

	list, err := f.svc.List(context.Background(), f.admin.ID, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("failed create persisted %d tasks", len(list))
	}
}

func TestGetDistinguishesNotFoundFromForbidden(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, f.admin.ID)
	ctx := context.Background()

	_, err := f.svc.Get(ctx, f.admin.ID, "no-such-task")
	if de := domainErr(t, err); de.HTTPStatus != 404 {
		t.Errorf("missing task status = %d, want 404", de.HTTPStatus)
	}

	_, err = f.svc.Get(ctx, f.other.ID, task.ID)
	de := domainErr(t, err)
	if de.HTTPStatus != 403 {
		t.Errorf("foreign task status = %d, want 403", de.HTTPStatus)
	}
	if de.Message != "You do not have access to this task" {
		t.Errorf("message = %q", de.Message)
	}
}

func TestForeignTaskIsForbiddenAcrossOperations(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, f.admin.ID)
	ctx := context.Background()

	ops := map[string]func() error{
		"get": func() error {
			_, err := f.svc.Get(ctx, f.other.ID, task.ID)
			return err
		},
		"update": func() error {
			status := domain.TaskStatusDone
			_, err := f.svc.Update(ctx, f.other.ID, domain.RoleAdmin, task.ID, TaskUpdateInput{Status: &status})
			return err
		},
		"toggle": func() error {
			_, err := f.svc.Toggle(ctx, f.other.ID, task.ID)
			return err
		},
		"remove": func() error {
			_, err := f.svc.Remove(ctx, f.other.ID, task.ID)
			return err
		},
	}
	for name, op := range ops {
		if de := domainErr(t, op()); de.HTTPStatus != 403 {
			t.Errorf("%s: status = %d, want 403", name, de.HTTPStatus)
		}
	}
}

func TestListScopesToOwnerAndFiltersStatus(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	first := f.createTask(t, f.admin.ID)
	second := f.createTask(t, f.admin.ID)
	f.createTask(t, f.user.ID)

	doing := domain.TaskStatusDoing
	if _, err := f.svc.Update(ctx, f.admin.ID, domain.RoleAdmin, second.ID, TaskUpdateInput{Status: &doing}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	all, err := f.svc.List(ctx, f.admin.ID, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin sees %d tasks, want 2", len(all))
	}
	for _, task := range all {
		if task.OwnerID != f.admin.ID {
			t.Errorf("task %s owned by %s leaked into listing", task.ID, task.OwnerID)
		}
	}

	filtered, err := f.svc.List(ctx, f.admin.ID, &doing)
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != second.ID {
		t.Errorf("status filter returned wrong tasks: %+v", filtered)
	}
	_ = first
}

func TestListOrdersNewestFirst(t *testing.T) {
	f := newTaskFixture(t)

	f.createTask(t, f.admin.ID)
	time.Sleep(2 * time.Millisecond)
	second := f.createTask(t, f.admin.ID)

	all, err := f.svc.List(context.Background(), f.admin.ID, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID {
		t.Error("listing is not newest-created-first")
	}
}

func TestUserRoleUpdateOnlyAppliesStatus(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, f.user.ID)
	ctx := context.Background()

	doing := domain.TaskStatusDoing
	due := time.Now().Add(48 * time.Hour)
	updated, err := f.svc.Update(ctx, f.user.ID, domain.RoleUser, task.ID, TaskUpdateInput{
		Title:       strPtr("hijacked"),
		Description: strPtr("hijacked"),
		DueDate:     &due,
		AssigneeID:  strPtr(f.other.ID),
		Status:      &doing,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Status != domain.TaskStatusDoing {
		t.Errorf("status = %s, want DOING", updated.Status)
	}
	if updated.Title != "T" || updated.Description != "D" {
		t.Error("USER role mutated admin-only fields")
	}
	if updated.AssigneeID != nil {
		t.Error("USER role assigned the task")
	}
}

func TestAdminUpdateAppliesAllFields(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, f.admin.ID)
	ctx := context.Background()

	done := domain.TaskStatusDone
	due := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	updated, err := f.svc.Update(ctx, f.admin.ID, domain.RoleAdmin, task.ID, TaskUpdateInput{
		Title:       strPtr("new title"),
		Description: strPtr("new description"),
		DueDate:     &due,
		AssigneeID:  strPtr(f.user.ID),
		Status:      &done,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Title != "new title" || updated.Description != "new description" {
		t.Error("admin fields not applied")
	}
	if !updated.DueDate.Equal(due) {
		t.Errorf("dueDate = %v, want %v", updated.DueDate, due)
	}
	if updated.Status != done {
		t.Errorf("status = %s, want DONE", updated.Status)
	}
	if updated.Assignee == nil || updated.Assignee.ID != f.user.ID {
		t.Error("assignee projection missing after update")
	}
}

func TestAdminUpdatePartialLeavesOmittedFieldsUntouched(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, f.admin.ID)

	updated, err := f.svc.Update(context.Background(), f.admin.ID, domain.RoleAdmin, task.ID, TaskUpdateInput{
		Title: strPtr("only title"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "only title" {
		t.Error("title not applied")
	}
	if updated.Description != "D" || updated.Status != domain.TaskStatusTodo {
		t.Error("omitted fields were modified")
	}
}

func TestAdminUpdateClearsAssigneeWithEmptyValue(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task, err := f.svc.Create(ctx, f.admin.ID, TaskCreateInput{
		Title:       "T",
		Description: "D",
		DueDate:     time.Now(),
		AssigneeID:  strPtr(f.user.ID),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Assignee == nil {
		t.Fatal("assignee not set at creation")
	}

	updated, err := f.svc.Update(ctx, f.admin.ID, domain.RoleAdmin, task.ID, TaskUpdateInput{
		AssigneeID: strPtr(""),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.AssigneeID != nil || updated.Assignee != nil {
		t.Error("empty assignedTo did not clear the assignment")
	}
}

func TestAdminUpdateRejectsUnknownAssignee(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, f.admin.ID)

	_, err := f.svc.Update(context.Background(), f.admin.ID, domain.RoleAdmin, task.ID, TaskUpdateInput{
		AssigneeID: strPtr("no-such-user"),
	})
	de := domainErr(t, err)
	if de.HTTPStatus != 400 || de.Message != "Assigned user not found" {
		t.Errorf("got %d %q", de.HTTPStatus, de.Message)
	}
}

func TestToggleWalksTheStatusCycle(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, f.user.ID)
	ctx := context.Background()

	want := []domain.TaskStatus{domain.TaskStatusDoing, domain.TaskStatusDone, domain.TaskStatusTodo}
	for i, expected := range want {
		toggled, err := f.svc.Toggle(ctx, f.user.ID, task.ID)
		if err != nil {
			t.Fatalf("Toggle %d: %v", i+1, err)
		}
		if toggled.Status != expected {
			t.Fatalf("toggle %d: status = %s, want %s", i+1, toggled.Status, expected)
		}
	}
}

func TestRemoveReturnsPriorRepresentationAndDeletes(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, f.admin.ID)
	ctx := context.Background()

	removed, err := f.svc.Remove(ctx, f.admin.ID, task.ID)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed.ID != task.ID || removed.Title != "T" {
		t.Error("removed task lost its prior representation")
	}

	_, err = f.svc.Get(ctx, f.admin.ID, task.ID)
	if de := domainErr(t, err); de.HTTPStatus != 404 {
		t.Errorf("deleted task status = %d, want 404", de.HTTPStatus)
	}
}
