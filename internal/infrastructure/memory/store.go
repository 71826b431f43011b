// Package memory holds map-backed repositories used as a substitute store in
// tests and local tooling. They honour the same contracts as the postgres ones.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/domain/repository"
)

type UserRepository struct {
	mu     sync.RWMutex
	byID   map[string]entity.User
	Reads  int
	Writes int
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: map[string]entity.User{}}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Writes++
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	r.byID[u.ID] = *u
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Reads++
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Reads++
	for _, u := range r.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

// Count returns the number of stored users.
func (r *UserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

type TaskRepository struct {
	mu    sync.RWMutex
	byID  map[string]entity.Task
	clock func() time.Time
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{byID: map[string]entity.Task{}, clock: time.Now}
}

// WithClock makes created_at deterministic in tests.
func (r *TaskRepository) WithClock(now func() time.Time) *TaskRepository {
	r.clock = now
	return r
}

func (r *TaskRepository) Create(_ context.Context, t *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.clock().UTC()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now
	r.byID[t.ID] = cloneTask(*t)
	return nil
}

func (r *TaskRepository) GetByID(_ context.Context, id string) (*entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t = cloneTask(t)
	return &t, nil
}

func (r *TaskRepository) Update(_ context.Context, id string, patch entity.TaskPatch) (*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	patch.Apply(&t)
	t.UpdatedAt = r.clock().UTC()
	r.byID[id] = t
	out := cloneTask(t)
	return &out, nil
}

func (r *TaskRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *TaskRepository) List(_ context.Context, q entity.TaskListQuery) ([]entity.Task, int64, error) {
	r.mu.RLock()
	matched := make([]entity.Task, 0)
	for _, t := range r.byID {
		if t.UserID != q.UserID {
			continue
		}
		if q.Priority != nil && t.Priority != *q.Priority {
			continue
		}
		matched = append(matched, cloneTask(t))
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		c := compareTasks(matched[i], matched[j], q.SortBy)
		if c == 0 {
			c = compareStrings(matched[i].ID, matched[j].ID)
		}
		if q.SortOrder == entity.SortAsc {
			return c < 0
		}
		return c > 0
	})

	total := int64(len(matched))
	start := q.Offset()
	if start >= len(matched) {
		return []entity.Task{}, total, nil
	}
	end := start + q.Limit
	if q.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

var priorityRank = map[entity.Priority]int{
	entity.PriorityLow:    0,
	entity.PriorityMedium: 1,
	entity.PriorityHigh:   2,
}

func compareTasks(a, b entity.Task, by entity.SortField) int {
	switch by {
	case entity.SortByEndDate:
		return a.EndDate.Compare(b.EndDate)
	case entity.SortByPriority:
		return priorityRank[a.Priority] - priorityRank[b.Priority]
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cloneTask(t entity.Task) entity.Task {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	return t
}

var (
	_ repository.UserRepository = (*UserRepository)(nil)
	_ repository.TaskRepository = (*TaskRepository)(nil)
)
