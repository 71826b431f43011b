package event

import (
	"time"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

const (
	UserRegistered = "user.registered"
	TaskCreated    = "task.created"
	TaskUpdated    = "task.updated"
	TaskDeleted    = "task.deleted"
)

// Event is the JSON message put on the events queue.
type Event struct {
	Type       string             `json:"type"`
	OccurredAt time.Time          `json:"occurred_at"`
	UserID     string             `json:"user_id"`
	User       *entity.PublicUser `json:"user,omitempty"`
	Task       *entity.Task       `json:"task,omitempty"`
	TaskID     string             `json:"task_id,omitempty"`
}

func NewUserRegistered(u entity.PublicUser) Event {
	return Event{Type: UserRegistered, OccurredAt: time.Now().UTC(), UserID: u.ID, User: &u}
}

func NewTaskEvent(typ string, t entity.Task) Event {
	return Event{Type: typ, OccurredAt: time.Now().UTC(), UserID: t.UserID, Task: &t, TaskID: t.ID}
}

func NewTaskDeleted(userID, taskID string) Event {
	return Event{Type: TaskDeleted, OccurredAt: time.Now().UTC(), UserID: userID, TaskID: taskID}
}
