package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/interface/middleware"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/response"
	"github.com/oksasatya/go-task-manager/pkg/validation"
)

const msgInternal = "Internal server error"

// statusOf maps service errors to HTTP status codes. Zero means unknown.
func statusOf(err error) int {
	switch {
	case errors.Is(err, application.ErrEmailAlreadyExists):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, application.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, application.ErrUserNotFound), errors.Is(err, application.ErrTaskNotFound):
		return http.StatusNotFound
	}
	return 0
}

// writeError answers with the service error's own message when it is known.
// Anything else is logged and hidden behind a generic 500.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	if status := statusOf(err); status != 0 {
		response.Fail(c, status, err.Error(), nil)
		return
	}
	fields := logrus.Fields{
		"request_id": c.GetString("request_id"),
		"method":     c.Request.Method,
		"route":      c.FullPath(),
	}
	if id, ok := middleware.IdentityFrom(c); ok {
		fields["user_id"] = id.UserID
	}
	helpers.LogError(logger, "request failed", err, fields)
	response.Fail(c, http.StatusInternalServerError, msgInternal, nil)
}

func writeValidation(c *gin.Context, err error) {
	response.Fail(c, http.StatusBadRequest, "Validation failed", validation.ToDetails(err))
}

// identity is only missing if a route forgot the Auth middleware.
func identity(c *gin.Context) (string, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "Access denied. No token provided.", nil)
		return "", false
	}
	return id.UserID, true
}
