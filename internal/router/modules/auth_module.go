package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-task-manager/internal/interface/http"
	"github.com/oksasatya/go-task-manager/internal/interface/middleware"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

// AuthModule routes:
// Public: POST /api/register, POST /api/login
// Protected: POST /api/logout, GET /api/me
type AuthModule struct {
	Handler   *handlers.AuthHandler
	Transport helpers.SessionTransport
	Tokens    middleware.TokenVerifier
}

func NewAuthModule(h *handlers.AuthHandler, transport helpers.SessionTransport, tokens middleware.TokenVerifier) *AuthModule {
	return &AuthModule{Handler: h, Transport: transport, Tokens: tokens}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/register", m.Handler.Register)
	rg.POST("/login", m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Transport, m.Tokens))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/me", m.Handler.Me)
	}
}
