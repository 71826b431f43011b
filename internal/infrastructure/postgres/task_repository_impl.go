package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/domain/repository"
)

const taskColumns = `id::text, user_id::text, title, description, priority::text, end_date, created_at, updated_at`

// sortColumns is the only source of ORDER BY identifiers.
var sortColumns = map[entity.SortField]string{
	entity.SortByEndDate:   "end_date",
	entity.SortByPriority:  "priority",
	entity.SortByCreatedAt: "created_at",
}

type TaskRepository struct {
	db DB
}

func NewTaskRepository(db DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO tasks (user_id, title, description, priority, end_date)
		VALUES ($1, $2, $3, $4::task_priority, $5)
		RETURNING id::text, created_at, updated_at
	`, t.UserID, t.Title, t.Description, string(t.Priority), t.EndDate)

	return row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// GetByID treats a malformed id like a missing one.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	return scanTask(row)
}

// Update writes only the fields present in the patch and returns the stored row.
func (r *TaskRepository) Update(ctx context.Context, id string, patch entity.TaskPatch) (*entity.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}

	sets := make([]string, 0, 5)
	args := make([]any, 0, 5)
	set := func(expr string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf(expr, len(args)))
	}
	if patch.Title != nil {
		set("title = $%d", *patch.Title)
	}
	if patch.Description != nil {
		set("description = $%d", *patch.Description)
	}
	if patch.Priority != nil {
		set("priority = $%d::task_priority", string(*patch.Priority))
	}
	if patch.EndDate != nil {
		set("end_date = $%d", *patch.EndDate)
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), taskColumns)
	return scanTask(r.db.QueryRow(ctx, query, args...))
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return repository.ErrNotFound
	}
	res, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) List(ctx context.Context, q entity.TaskListQuery) ([]entity.Task, int64, error) {
	conditions := []string{"user_id = $1"}
	args := []any{q.UserID}
	if q.Priority != nil {
		args = append(args, string(*q.Priority))
		conditions = append(conditions, fmt.Sprintf("priority = $%d::task_priority", len(args)))
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = sortColumns[entity.SortByCreatedAt]
	}
	dir := "DESC"
	if q.SortOrder == entity.SortAsc {
		dir = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM tasks%s ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d`,
		taskColumns, where, col, dir, dir, len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tasks := make([]entity.Task, 0, q.Limit)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func scanTask(row scanner) (*entity.Task, error) {
	t := &entity.Task{}
	var priority string
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &priority,
		&t.EndDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	t.Priority = entity.Priority(priority)
	return t, nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
