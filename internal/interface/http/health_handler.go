package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-task-manager/pkg/response"
)

type healthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func Health(c *gin.Context) {
	response.Success(c, http.StatusOK, healthStatus{Status: "OK", Message: "Server is running"}, "Server is running", nil)
}

// NotFound answers unknown routes with the JSON envelope.
func NotFound(c *gin.Context) {
	response.Fail(c, http.StatusNotFound, "Route not found", nil)
}
