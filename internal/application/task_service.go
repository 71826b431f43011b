package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/domain/event"
	repo "github.com/oksasatya/go-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

const (
	DefaultSearchSize = 10
	MaxSearchSize     = 50
)

// TaskService scopes every task operation to the calling user.
// Index and Events are optional side channels; their failures are logged only.
type TaskService struct {
	Repo   repo.TaskRepository
	Index  TaskIndex
	Events EventPublisher
	Logger *logrus.Logger
}

func NewTaskService(repo repo.TaskRepository, index TaskIndex, events EventPublisher, logger *logrus.Logger) *TaskService {
	return &TaskService{Repo: repo, Index: index, Events: events, Logger: logger}
}

type CreateTaskInput struct {
	Title       string
	Description *string
	Priority    entity.Priority // empty means MEDIUM
	EndDate     time.Time
}

func (s *TaskService) CreateTask(ctx context.Context, userID string, in CreateTaskInput) (*entity.Task, error) {
	t := &entity.Task{
		UserID:   userID,
		Title:    in.Title,
		Priority: in.Priority,
		EndDate:  in.EndDate,
	}
	if t.Priority == "" {
		t.Priority = entity.PriorityMedium
	}
	if in.Description != nil && *in.Description != "" {
		d := *in.Description
		t.Description = &d
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, err
	}
	metricTasksCreated.Add(1)

	s.index(ctx, *t)
	s.publish(ctx, event.NewTaskEvent(event.TaskCreated, *t))
	return t, nil
}

// GetTaskByID checks existence before ownership: a missing id is ErrTaskNotFound
// for everyone, an existing foreign id is ErrForbidden.
func (s *TaskService) GetTaskByID(ctx context.Context, taskID, userID string) (*entity.Task, error) {
	t, err := s.Repo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if t.UserID != userID {
		return nil, ErrForbidden
	}
	return t, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, taskID, userID string, patch entity.TaskPatch) (*entity.Task, error) {
	current, err := s.GetTaskByID(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return current, nil
	}

	updated, err := s.Repo.Update(ctx, taskID, patch)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// deleted between the ownership check and the write
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	metricTasksUpdated.Add(1)

	s.index(ctx, *updated)
	s.publish(ctx, event.NewTaskEvent(event.TaskUpdated, *updated))
	return updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, taskID, userID string) (string, error) {
	if _, err := s.GetTaskByID(ctx, taskID, userID); err != nil {
		return "", err
	}
	if err := s.Repo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrTaskNotFound
		}
		return "", err
	}
	metricTasksDeleted.Add(1)

	if s.Index != nil {
		if err := s.Index.Remove(ctx, taskID); err != nil {
			helpers.LogWarn(s.Logger, "task index remove failed", err, logrus.Fields{"task_id": taskID})
		}
	}
	s.publish(ctx, event.NewTaskDeleted(userID, taskID))
	return "Task deleted successfully", nil
}

// GetTasks lists one page of the user's tasks. Page and limit are expected to be
// normalized by the caller.
func (s *TaskService) GetTasks(ctx context.Context, q entity.TaskListQuery) (*entity.TaskPage, error) {
	q.SortBy = entity.ParseSortField(string(q.SortBy))
	q.SortOrder = entity.ParseSortOrder(string(q.SortOrder))

	tasks, total, err := s.Repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []entity.Task{}
	}
	return &entity.TaskPage{
		Tasks:      tasks,
		Pagination: entity.NewPagination(q.Page, q.Limit, total),
	}, nil
}

// ParsePriorityFilter turns the raw "priority" query value into a list filter.
// Empty, "ALL" and unknown values mean no filter.
func ParsePriorityFilter(raw string) *entity.Priority {
	p := entity.Priority(strings.ToUpper(strings.TrimSpace(raw)))
	if raw == "" || string(p) == entity.PriorityAll || !p.Valid() {
		return nil
	}
	return &p
}

// SearchTasks runs a full-text query restricted to the user's own tasks.
func (s *TaskService) SearchTasks(ctx context.Context, userID, query string, size int) ([]entity.Task, error) {
	if size <= 0 || size > MaxSearchSize {
		size = DefaultSearchSize
	}
	if s.Index == nil || strings.TrimSpace(query) == "" {
		return []entity.Task{}, nil
	}
	found, err := s.Index.Search(ctx, userID, query, size)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Task, 0, len(found))
	for _, t := range found {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *TaskService) index(ctx context.Context, t entity.Task) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, t); err != nil {
		helpers.LogWarn(s.Logger, "task index failed", err, logrus.Fields{"task_id": t.ID})
	}
}

func (s *TaskService) publish(ctx context.Context, evt event.Event) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishJSON(ctx, evt.Type, evt); err != nil {
		helpers.LogWarn(s.Logger, "publish event failed", err, logrus.Fields{"type": evt.Type, "task_id": evt.TaskID})
	}
}
