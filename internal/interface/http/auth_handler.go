package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/response"
)

type AuthHandler struct {
	Svc       *application.AuthService
	Transport helpers.SessionTransport
	Logger    *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, transport helpers.SessionTransport, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Transport: transport, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,notblank,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// sessionResponse carries the token only when the transport returns it in the body.
type sessionResponse struct {
	User  entity.PublicUser `json:"user"`
	Token string            `json:"token,omitempty"`
}

func (h *AuthHandler) session(c *gin.Context, u entity.PublicUser, sess application.Session) sessionResponse {
	h.Transport.Attach(c, sess.Token, sess.ExpiresAt)
	out := sessionResponse{User: u}
	if h.Transport.InBody() {
		out.Token = sess.Token
	}
	return out
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, err)
		return
	}
	u, sess, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, h.session(c, u, sess), "User registered successfully", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, err)
		return
	}
	u, sess, err := h.Svc.Login(c.Request.Context(), application.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, h.session(c, u, sess), "Login successful", nil)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.Transport.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "Logout successful", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	uid, ok := identity(c)
	if !ok {
		return
	}
	u, err := h.Svc.GetUserByID(c.Request.Context(), uid)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u}, "Current user", nil)
}
