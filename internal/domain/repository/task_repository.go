package repository

import (
	"context"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

// TaskRepository persists tasks. Every mutation touches exactly one row.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	// Update writes the patched fields of task id and returns the stored row.
	Update(ctx context.Context, id string, patch entity.TaskPatch) (*entity.Task, error)
	Delete(ctx context.Context, id string) error
	// List returns one page of the owner's tasks and the total matching count.
	List(ctx context.Context, q entity.TaskListQuery) ([]entity.Task, int64, error)
}
