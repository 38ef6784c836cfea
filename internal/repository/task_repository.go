package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/task-service/internal/domain"
)

// TaskFilter captures task listing parameters. OwnerID is mandatory: the
// owner scope is the sole data-isolation boundary in the system.
type TaskFilter struct {
	OwnerID string
	Status  *domain.TaskStatus
}

// TaskRepository encapsulates task persistence. Reads return tasks with
// creator and assignee projections joined.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByOwner(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Delete(ctx context.Context, id string) error
}

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository instantiates the Postgres-backed repository.
func NewTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `
        t.id, t.title, t.description, t.due_date, t.status,
        t.owner_user_id, t.created_by_user_id, t.assigned_to_user_id,
        t.created_at, t.updated_at,
        c.id, c.email, c.first_name, c.last_name,
        a.id, a.email, a.first_name, a.last_name`

const taskJoins = `
        FROM tasks t
        JOIN users c ON c.id = t.created_by_user_id
        LEFT JOIN users a ON a.id = t.assigned_to_user_id`

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	const query = `
        INSERT INTO tasks (title, description, due_date, status, owner_user_id, created_by_user_id, assigned_to_user_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.DueDate,
		task.Status,
		task.OwnerID,
		task.CreatorID,
		task.AssigneeID,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	const query = `
        UPDATE tasks SET title=$1, description=$2, due_date=$3, status=$4, assigned_to_user_id=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		task.Title,
		task.Description,
		task.DueDate,
		task.Status,
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

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT` + taskColumns + taskJoins + ` WHERE t.id=$1`

	row := r.pool.QueryRow(ctx, query, id)
	task, err := scanTask(row)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) ListByOwner(ctx context.Context, filter TaskFilter) ([]domain.Task, error) {
	query := `SELECT` + taskColumns + taskJoins + ` WHERE t.owner_user_id=$1`
	args := []any{filter.OwnerID}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += ` AND t.status=$2`
	}
	query += ` ORDER BY t.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *task)
	}
	return result, rows.Err()
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		task    domain.Task
		creator domain.UserRef

		assigneeID        *string
		assigneeEmail     *string
		assigneeFirstName *string
		assigneeLastName  *string
	)

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.Status,
		&task.OwnerID,
		&task.CreatorID,
		&task.AssigneeID,
		&task.CreatedAt,
		&task.UpdatedAt,
		&creator.ID,
		&creator.Email,
		&creator.FirstName,
		&creator.LastName,
		&assigneeID,
		&assigneeEmail,
		&assigneeFirstName,
		&assigneeLastName,
	); err != nil {
		return nil, err
	}

	task.Creator = &creator
	if assigneeID != nil {
		task.Assignee = &domain.UserRef{
			ID:        *assigneeID,
			Email:     derefString(assigneeEmail),
			FirstName: assigneeFirstName,
			LastName:  assigneeLastName,
		}
	}
	return &task, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
