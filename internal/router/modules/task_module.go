package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-task-manager/internal/interface/http"
	"github.com/oksasatya/go-task-manager/internal/interface/middleware"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

// TaskModule serves /api/tasks; every route requires a session.
type TaskModule struct {
	Handler   *handlers.TaskHandler
	Transport helpers.SessionTransport
	Tokens    middleware.TokenVerifier
}

func NewTaskModule(h *handlers.TaskHandler, transport helpers.SessionTransport, tokens middleware.TokenVerifier) *TaskModule {
	return &TaskModule{Handler: h, Transport: transport, Tokens: tokens}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks")
	tasks.Use(middleware.Auth(m.Transport, m.Tokens))
	{
		tasks.GET("", m.Handler.List)
		tasks.GET("/search", m.Handler.Search)
		tasks.POST("", m.Handler.Create)
		tasks.PUT("/:id", m.Handler.Update)
		tasks.DELETE("/:id", m.Handler.Delete)
	}
}
