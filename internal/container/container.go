// Package container holds the constructed infrastructure shared by the router
// modules and commands. Optional backends stay nil when not configured.
package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/config"
	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-task-manager/internal/infrastructure/cache"
	pginfra "github.com/oksasatya/go-task-manager/internal/infrastructure/postgres"
	"github.com/oksasatya/go-task-manager/internal/infrastructure/search"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	PGPool *pgxpool.Pool
	Redis  *redis.Client
	ES     *elasticsearch.Client
	Rabbit *helpers.RabbitPublisher

	JWT       *helpers.JWTManager
	Transport helpers.SessionTransport

	// Users and Tasks default to the postgres repositories over PGPool.
	Users repository.UserRepository
	Tasks repository.TaskRepository
}

// New builds the token manager and session transport from cfg. Stores and
// optional backends are attached by the caller.
func New(cfg *config.Config, logger *logrus.Logger) *Container {
	return &Container{
		Config:    cfg,
		Logger:    logger,
		JWT:       helpers.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
		Transport: NewTransport(cfg),
	}
}

// NewTransport picks the session transport once for issuance and extraction.
func NewTransport(cfg *config.Config) helpers.SessionTransport {
	if cfg.AuthTransport == config.TransportHeader {
		return helpers.BearerTransport{}
	}
	return helpers.NewCookieTransport(cfg.CookieName, cfg.CookieDomain, cfg.CookieSecure, cfg.IsProduction())
}

func (c *Container) UserRepository() repository.UserRepository {
	if c.Users == nil {
		c.Users = pginfra.NewUserRepository(c.PGPool)
	}
	return c.Users
}

func (c *Container) TaskRepository() repository.TaskRepository {
	if c.Tasks == nil {
		c.Tasks = pginfra.NewTaskRepository(c.PGPool)
	}
	return c.Tasks
}

// The accessors below return untyped nil interfaces when a backend is absent,
// so services can test them against nil.

func (c *Container) UserCache() application.UserCache {
	if c.Redis == nil {
		return nil
	}
	return cache.NewUserCache(c.Redis, c.Config.UserCacheTTL)
}

func (c *Container) TaskIndex() application.TaskIndex {
	if c.ES == nil {
		return nil
	}
	return search.NewTaskIndex(c.ES, c.Config.ESTasksIndex)
}

func (c *Container) Events() application.EventPublisher {
	if c.Rabbit == nil {
		return nil
	}
	return c.Rabbit
}

func (c *Container) AuthService() *application.AuthService {
	return application.NewAuthService(c.UserRepository(), c.JWT, c.UserCache(), c.Events(), c.Logger)
}

func (c *Container) TaskService() *application.TaskService {
	return application.NewTaskService(c.TaskRepository(), c.TaskIndex(), c.Events(), c.Logger)
}
