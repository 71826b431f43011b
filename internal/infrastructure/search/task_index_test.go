package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

type recorded struct {
	Method string
	Path   string
	Body   []byte
}

type fakeES struct {
	mu       sync.Mutex
	requests []recorded
	status   int
	reply    string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recorded{Method: r.Method, Path: r.URL.Path, Body: body})
	status, reply := f.status, f.reply
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if reply == "" {
		reply = `{}`
	}
	_, _ = io.WriteString(w, reply)
}

func (f *fakeES) last() recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newIndex(t *testing.T, f *fakeES) *TaskIndex {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewTaskIndex(es, "tasks")
}

func TestTaskIndex_Index(t *testing.T) {
	f := &fakeES{status: http.StatusCreated}
	x := newIndex(t, f)
	desc := "buy milk"
	task := entity.Task{
		ID: "t1", UserID: "u1", Title: "Shop", Description: &desc, Priority: entity.PriorityHigh,
		EndDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, x.Index(context.Background(), task))

	req := f.last()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/tasks/_doc/t1", req.Path)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &doc))
	assert.Equal(t, "u1", doc["user_id"])
	assert.Equal(t, "HIGH", doc["priority"])
	assert.Equal(t, "2025-01-01T00:00:00Z", doc["end_date"])
}

func TestTaskIndex_RemoveIgnoresMissing(t *testing.T) {
	f := &fakeES{status: http.StatusNotFound, reply: `{"result":"not_found"}`}
	x := newIndex(t, f)

	require.NoError(t, x.Remove(context.Background(), "t1"))
	assert.Equal(t, http.MethodDelete, f.last().Method)
}

func TestTaskIndex_SearchScopesToOwner(t *testing.T) {
	f := &fakeES{reply: `{"hits":{"hits":[{"_id":"t1","_source":{"id":"t1","user_id":"u1","title":"Shop","priority":"LOW","end_date":"2025-01-01T00:00:00Z"}}]}}`}
	x := newIndex(t, f)

	got, err := x.Search(context.Background(), "u1", "shop", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].ID)
	assert.Equal(t, entity.PriorityLow, got[0].Priority)
	assert.Equal(t, 2025, got[0].EndDate.Year())

	req := f.last()
	assert.Equal(t, "/tasks/_search", req.Path)
	var body struct {
		Size  int `json:"size"`
		Query struct {
			Bool struct {
				Filter []map[string]map[string]string `json:"filter"`
			} `json:"bool"`
		} `json:"query"`
	}
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, 5, body.Size)
	require.Len(t, body.Query.Bool.Filter, 1)
	assert.Equal(t, "u1", body.Query.Bool.Filter[0]["term"]["user_id"])
}

func TestTaskIndex_SearchError(t *testing.T) {
	f := &fakeES{status: http.StatusInternalServerError}
	x := newIndex(t, f)

	_, err := x.Search(context.Background(), "u1", "shop", 5)
	assert.Error(t, err)
}

func TestTaskIndex_EnsureIndexCreatesWhenMissing(t *testing.T) {
	f := &fakeES{status: http.StatusNotFound}
	x := newIndex(t, f)

	// the fake answers 404 to the create call as well
	assert.Error(t, x.EnsureIndex(context.Background()))
	assert.Equal(t, http.MethodPut, f.last().Method)
	assert.Equal(t, "/tasks", f.last().Path)
}
