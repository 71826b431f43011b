package router

import (
	"github.com/oksasatya/go-task-manager/internal/container"
	handlers "github.com/oksasatya/go-task-manager/internal/interface/http"
	"github.com/oksasatya/go-task-manager/internal/router/modules"
)

// InitModules builds handlers from the container and registers every module.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	authHandler := handlers.NewAuthHandler(c.AuthService(), c.Transport, c.Logger)
	taskHandler := handlers.NewTaskHandler(c.TaskService(), c.Logger)

	r.Add(modules.NewHealthModule())
	r.Add(modules.NewAuthModule(authHandler, c.Transport, c.JWT))
	r.Add(modules.NewTaskModule(taskHandler, c.Transport, c.JWT))
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
