package application

import (
	"context"
	"time"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

// TokenIssuer mints session tokens. Implemented by helpers.JWTManager.
type TokenIssuer interface {
	Issue(userID string) (string, time.Time, error)
}

// EventPublisher ships domain events. Implemented by helpers.RabbitPublisher.
type EventPublisher interface {
	PublishJSON(ctx context.Context, msgType string, body any) error
}

// UserCache holds public user projections keyed by id.
type UserCache interface {
	Get(ctx context.Context, id string) (*entity.PublicUser, error)
	Set(ctx context.Context, u entity.PublicUser) error
}

// TaskIndex is the full-text index over tasks. Search must only return tasks owned by userID.
type TaskIndex interface {
	Index(ctx context.Context, t entity.Task) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, userID, query string, size int) ([]entity.Task, error)
}

// Session is a freshly issued token and its expiry.
type Session struct {
	Token     string
	ExpiresAt time.Time
}
