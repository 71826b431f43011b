package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-task-manager/config"
	"github.com/oksasatya/go-task-manager/internal/container"
	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/infrastructure/memory"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	os.Exit(m.Run())
}

type envelope struct {
	Status    int               `json:"status"`
	RequestID string            `json:"request_id"`
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Data      json.RawMessage   `json:"data"`
	Error     map[string]string `json:"error"`
}

type sessionData struct {
	User  entity.PublicUser `json:"user"`
	Token string            `json:"token"`
}

type taskData struct {
	Task entity.Task `json:"task"`
}

type testAPI struct {
	t      *testing.T
	engine *gin.Engine
}

func newAPI(t *testing.T, transport string, opts ...func(*config.Config)) *testAPI {
	t.Helper()
	cfg := &config.Config{
		Env:                "test",
		JWTSecret:          "test-secret",
		TokenTTL:           helpers.DefaultTokenTTL,
		AuthTransport:      transport,
		CookieName:         "token",
		CORSAllowedOrigins: "http://localhost:5173",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	c := container.New(cfg, helpers.NewNopLogger())
	c.Users = memory.NewUserRepository()
	c.Tasks = memory.NewTaskRepository()
	return &testAPI{t: t, engine: NewEngine(c)}
}

func (a *testAPI) do(method, path string, body any, auth func(*http.Request)) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != nil {
		auth(req)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func bearer(token string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func withCookie(c *http.Cookie) func(*http.Request) {
	return func(r *http.Request) { r.AddCookie(c) }
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func (a *testAPI) register(name, email string) string {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/api/register", map[string]string{"name": name, "email": email, "password": "secret1"}, nil)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[sessionData](a.t, env.Data).Token
}

func TestTaskLifecycle_HeaderTransport(t *testing.T) {
	api := newAPI(t, config.TransportHeader)

	w, env := api.do(http.MethodPost, "/api/register", map[string]string{"name": "Ann", "email": "a@x.com", "password": "secret1"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	reg := decode[sessionData](t, env.Data)
	assert.Equal(t, "a@x.com", reg.User.Email)
	assert.NotEmpty(t, reg.Token)
	assert.NotContains(t, string(env.Data), "password")
	assert.Empty(t, w.Result().Cookies())

	w, env = api.do(http.MethodPost, "/api/login", map[string]string{"email": "a@x.com", "password": "secret1"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Login successful", env.Message)
	token := decode[sessionData](t, env.Data).Token
	require.NotEmpty(t, token)

	w, env = api.do(http.MethodPost, "/api/tasks", map[string]string{"title": "T", "endDate": "2025-01-01"}, bearer(token))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[taskData](t, env.Data).Task
	assert.Equal(t, entity.PriorityMedium, created.Priority)
	assert.Equal(t, reg.User.ID, created.UserID)
	assert.Nil(t, created.Description)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), created.EndDate.UTC())

	w, env = api.do(http.MethodGet, "/api/tasks", nil, bearer(token))
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[entity.TaskPage](t, env.Data)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, int64(1), page.Pagination.TotalCount)
	assert.Equal(t, 1, page.Pagination.TotalPages)
	assert.Equal(t, 10, page.Pagination.Limit)

	w, env = api.do(http.MethodPut, "/api/tasks/"+created.ID, map[string]string{"priority": "HIGH"}, bearer(token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[taskData](t, env.Data).Task
	assert.Equal(t, entity.PriorityHigh, updated.Priority)
	assert.Equal(t, "T", updated.Title)
	assert.True(t, created.EndDate.Equal(updated.EndDate))

	w, env = api.do(http.MethodDelete, "/api/tasks/"+created.ID, nil, bearer(token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Task deleted successfully", env.Message)

	w, env = api.do(http.MethodPut, "/api/tasks/"+created.ID, map[string]string{"title": "again"}, bearer(token))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Task not found", env.Message)
}

func TestCookieTransport_LoginMeLogout(t *testing.T) {
	api := newAPI(t, config.TransportCookie)
	api.register("Ann", "a@x.com")

	w, env := api.do(http.MethodPost, "/api/login", map[string]string{"email": "a@x.com", "password": "secret1"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[sessionData](t, env.Data).Token, "cookie mode keeps the token out of the body")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	session := cookies[0]
	assert.Equal(t, "token", session.Name)
	assert.True(t, session.HttpOnly)

	w, env = api.do(http.MethodGet, "/api/me", nil, withCookie(session))
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[struct {
		User entity.PublicUser `json:"user"`
	}](t, env.Data)
	assert.Equal(t, "Ann", me.User.Name)

	w, _ = api.do(http.MethodGet, "/api/me", nil, bearer(session.Value))
	assert.Equal(t, http.StatusUnauthorized, w.Code, "header is ignored in cookie mode")

	w, env = api.do(http.MethodPost, "/api/logout", nil, withCookie(session))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logout successful", env.Message)
	cleared := w.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Empty(t, cleared[0].Value)
}

func TestAuthErrors(t *testing.T) {
	api := newAPI(t, config.TransportHeader)
	api.register("Ann", "a@x.com")

	w, env := api.do(http.MethodGet, "/api/tasks", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Access denied. No token provided.", env.Message)

	w, env = api.do(http.MethodGet, "/api/tasks", nil, bearer("forged"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Invalid or expired token.", env.Message)

	w, env = api.do(http.MethodPost, "/api/register", map[string]string{"name": "Dup", "email": "a@x.com", "password": "secret1"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User with this email already exists", env.Message)

	w, wrongPwd := api.do(http.MethodPost, "/api/login", map[string]string{"email": "a@x.com", "password": "nope"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, unknown := api.do(http.MethodPost, "/api/login", map[string]string{"email": "b@x.com", "password": "secret1"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, wrongPwd.Message, unknown.Message)
}

func TestRegisterValidation(t *testing.T) {
	api := newAPI(t, config.TransportHeader)

	w, env := api.do(http.MethodPost, "/api/register", map[string]string{"name": "", "email": "nope", "password": "123"}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "name")
	assert.Equal(t, "must be a valid email", env.Error["email"])
	assert.Equal(t, "must be at least 6 characters long", env.Error["password"])
}

func TestTaskValidation(t *testing.T) {
	api := newAPI(t, config.TransportHeader)
	token := api.register("Ann", "a@x.com")

	w, env := api.do(http.MethodPost, "/api/tasks", map[string]string{"title": "  ", "priority": "URGENT", "endDate": "someday"}, bearer(token))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "cannot be empty", env.Error["title"])
	assert.Equal(t, "must be LOW, MEDIUM, or HIGH", env.Error["priority"])
	assert.Equal(t, "must be a valid date", env.Error["endDate"])

	w, env = api.do(http.MethodPost, "/api/tasks", map[string]string{"title": "T"}, bearer(token))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "is required", env.Error["endDate"])
}

func TestTaskOwnership(t *testing.T) {
	api := newAPI(t, config.TransportHeader)
	alice := api.register("Alice", "alice@x.com")
	bob := api.register("Bob", "bob@x.com")

	_, env := api.do(http.MethodPost, "/api/tasks", map[string]string{"title": "secret", "endDate": "2025-06-01"}, bearer(alice))
	task := decode[taskData](t, env.Data).Task

	w, env := api.do(http.MethodPut, "/api/tasks/"+task.ID, map[string]string{"title": "mine now"}, bearer(bob))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You do not have permission to access this task", env.Message)

	w, _ = api.do(http.MethodDelete, "/api/tasks/"+task.ID, nil, bearer(bob))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = api.do(http.MethodDelete, "/api/tasks/not-a-real-id", nil, bearer(bob))
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, env = api.do(http.MethodGet, "/api/tasks", nil, bearer(bob))
	assert.Empty(t, decode[entity.TaskPage](t, env.Data).Tasks)
}

func TestListQueryNormalisation(t *testing.T) {
	api := newAPI(t, config.TransportHeader)
	token := api.register("Ann", "a@x.com")
	for _, p := range []string{"LOW", "HIGH", "MEDIUM"} {
		w, _ := api.do(http.MethodPost, "/api/tasks", map[string]string{"title": p, "priority": p, "endDate": "2025-01-01"}, bearer(token))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	_, env := api.do(http.MethodGet, "/api/tasks?page=abc&limit=-5&sortBy=bogus&sortOrder=sideways", nil, bearer(token))
	page := decode[entity.TaskPage](t, env.Data)
	assert.Equal(t, 1, page.Pagination.CurrentPage)
	assert.Equal(t, 10, page.Pagination.Limit)
	assert.Len(t, page.Tasks, 3)

	_, env = api.do(http.MethodGet, "/api/tasks?sortBy=priority&sortOrder=asc", nil, bearer(token))
	page = decode[entity.TaskPage](t, env.Data)
	require.Len(t, page.Tasks, 3)
	assert.Equal(t, entity.PriorityLow, page.Tasks[0].Priority)
	assert.Equal(t, entity.PriorityHigh, page.Tasks[2].Priority)

	_, env = api.do(http.MethodGet, "/api/tasks?priority=HIGH", nil, bearer(token))
	page = decode[entity.TaskPage](t, env.Data)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, "HIGH", page.Tasks[0].Title)

	_, env = api.do(http.MethodGet, "/api/tasks?priority=ALL&limit=2&page=2", nil, bearer(token))
	page = decode[entity.TaskPage](t, env.Data)
	assert.Len(t, page.Tasks, 1)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.False(t, page.Pagination.HasNextPage)
	assert.True(t, page.Pagination.HasPreviousPage)
}

func TestSearchWithoutIndexIsEmpty(t *testing.T) {
	api := newAPI(t, config.TransportHeader)
	token := api.register("Ann", "a@x.com")

	w, _ := api.do(http.MethodGet, "/api/tasks/search", nil, bearer(token))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := api.do(http.MethodGet, "/api/tasks/search?q=milk", nil, bearer(token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tasks":[]}`, string(env.Data))
}

func TestHealthAndNotFound(t *testing.T) {
	api := newAPI(t, config.TransportCookie)

	for _, path := range []string{"/health", "/api/health"} {
		w, env := api.do(http.MethodGet, path, nil, nil)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `{"status":"OK","message":"Server is running"}`, string(env.Data))
		assert.NotEmpty(t, env.RequestID)
	}

	w, env := api.do(http.MethodGet, "/api/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", env.Message)
}

func TestCORSPreflight(t *testing.T) {
	api := newAPI(t, config.TransportCookie)

	req := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	api.engine.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestDebugVars(t *testing.T) {
	off := newAPI(t, config.TransportHeader)
	w, _ := off.do(http.MethodGet, "/api/debug/vars", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	on := newAPI(t, config.TransportHeader, func(c *config.Config) { c.DebugMetricsEnabled = true })
	req := httptest.NewRequest(http.MethodGet, "/api/debug/vars", nil)
	rec := httptest.NewRecorder()
	on.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tasks_created")
	assert.Contains(t, rec.Body.String(), "auth_logins")
}
