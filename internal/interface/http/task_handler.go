package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/response"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

type TaskHandler struct {
	Svc    *application.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *application.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

type createTaskRequest struct {
	Title       string  `json:"title" binding:"required,notblank,max=200"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Priority    string  `json:"priority" binding:"omitempty,priority"`
	EndDate     string  `json:"endDate" binding:"required,isodate"`
}

// updateTaskRequest keeps absent fields nil so they stay untouched.
type updateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,notblank,max=200"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Priority    *string `json:"priority" binding:"omitempty,priority"`
	EndDate     *string `json:"endDate" binding:"omitempty,isodate"`
}

func (r updateTaskRequest) patch() entity.TaskPatch {
	var p entity.TaskPatch
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		p.Title = &t
	}
	if r.Description != nil {
		d := strings.TrimSpace(*r.Description)
		p.Description = &d
	}
	if r.Priority != nil {
		pr := entity.Priority(*r.Priority)
		p.Priority = &pr
	}
	if r.EndDate != nil {
		// already checked by the isodate tag
		if end, err := helpers.ParseDate(*r.EndDate); err == nil {
			p.EndDate = &end
		}
	}
	return p
}

// positiveOr returns def for missing, non-numeric or non-positive values.
func positiveOr(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func (h *TaskHandler) List(c *gin.Context) {
	uid, ok := identity(c)
	if !ok {
		return
	}
	limit := positiveOr(c.Query("limit"), defaultLimit)
	if limit > maxLimit {
		limit = maxLimit
	}
	page, err := h.Svc.GetTasks(c.Request.Context(), entity.TaskListQuery{
		UserID:    uid,
		Page:      positiveOr(c.Query("page"), defaultPage),
		Limit:     limit,
		SortBy:    entity.SortField(c.Query("sortBy")),
		SortOrder: entity.SortOrder(c.Query("sortOrder")),
		Priority:  application.ParsePriorityFilter(c.Query("priority")),
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, page, "Tasks retrieved successfully", nil)
}

func (h *TaskHandler) Create(c *gin.Context) {
	uid, ok := identity(c)
	if !ok {
		return
	}
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, err)
		return
	}
	end, err := helpers.ParseDate(req.EndDate)
	if err != nil {
		writeValidation(c, err)
		return
	}
	in := application.CreateTaskInput{
		Title:    strings.TrimSpace(req.Title),
		Priority: entity.Priority(req.Priority),
		EndDate:  end,
	}
	if req.Description != nil {
		d := strings.TrimSpace(*req.Description)
		in.Description = &d
	}
	task, err := h.Svc.CreateTask(c.Request.Context(), uid, in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"task": task}, "Task created successfully", nil)
}

func (h *TaskHandler) Update(c *gin.Context) {
	uid, ok := identity(c)
	if !ok {
		return
	}
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, err)
		return
	}
	task, err := h.Svc.UpdateTask(c.Request.Context(), c.Param("id"), uid, req.patch())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"task": task}, "Task updated successfully", nil)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	uid, ok := identity(c)
	if !ok {
		return
	}
	msg, err := h.Svc.DeleteTask(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": msg}, msg, nil)
}

// Search runs an owner-scoped full-text query over title and description.
func (h *TaskHandler) Search(c *gin.Context) {
	uid, ok := identity(c)
	if !ok {
		return
	}
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Fail(c, http.StatusBadRequest, "Validation failed", map[string]string{"q": "is required"})
		return
	}
	size := positiveOr(c.Query("size"), application.DefaultSearchSize)
	tasks, err := h.Svc.SearchTasks(c.Request.Context(), uid, q, size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tasks": tasks}, "Search results", nil)
}
