package internal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow-labs/taskflow/internal/analytics"
	"github.com/taskflow-labs/taskflow/internal/config"
	"github.com/taskflow-labs/taskflow/internal/demo"
	"github.com/taskflow-labs/taskflow/internal/event"
	"github.com/taskflow-labs/taskflow/internal/eventbus"
	"github.com/taskflow-labs/taskflow/internal/seed"
	"github.com/taskflow-labs/taskflow/internal/task"
	taskrepo "github.com/taskflow-labs/taskflow/internal/task/repositoryimpl"
	"github.com/taskflow-labs/taskflow/internal/userstory"
	storyrepo "github.com/taskflow-labs/taskflow/internal/userstory/repositoryimpl"
	"github.com/taskflow-labs/taskflow/pkg/envelope"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	bus := eventbus.New()
	tasks := taskrepo.NewMemoryRepository()
	stories := storyrepo.NewMemoryRepository()
	seed.Apply(seed.Defaults(), tasks, stories)

	srv := NewServer(
		&config.Env{},
		demo.NewServer(),
		task.NewServer(tasks, bus),
		userstory.NewServer(stories, bus),
		event.NewServer(bus),
		analytics.NewServer(tasks, bus),
	)
	return srv.Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)
	rec := doJSON(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var env envelope.Envelope[demo.HealthStatus]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "healthy", env.Data.Status)
	assert.NotEmpty(t, env.Data.Timestamp)
	assert.Equal(t, envelope.Version, env.Data.Version)
	assert.NotEmpty(t, env.Timestamp)
}

func TestRoot(t *testing.T) {
	h := newTestHandler(t)
	rec := doJSON(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var env envelope.Envelope[map[string]any]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Contains(t, env.Data, "endpoints")
}

func TestErrorDemonstrations(t *testing.T) {
	tests := []struct {
		path       string
		wantStatus int
		wantWire   string
	}{
		{"/error/400", http.StatusBadRequest, "BAD_REQUEST"},
		{"/error/404", http.StatusNotFound, "NOT_FOUND"},
		{"/error/500", http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodGet, tt.path, "")
			require.Equal(t, tt.wantStatus, rec.Code)

			var env envelope.ErrorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantWire, env.Error)
			assert.NotEmpty(t, env.Timestamp)
			assert.NotEmpty(t, env.Version)
		})
	}
}

func TestDirectResponseIsUnwrapped(t *testing.T) {
	h := newTestHandler(t)
	rec := doJSON(t, h, http.MethodGet, "/response-patterns/direct", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.NotContains(t, m, "success")
	assert.NotContains(t, m, "timestamp")
	assert.Contains(t, m, "example")
}

func TestUnknownPathYieldsEnvelope(t *testing.T) {
	h := newTestHandler(t)
	rec := doJSON(t, h, http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var env envelope.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "NOT_FOUND", env.Error)
}

// TestTaskLifecycle drives the whole CRUD surface through the assembled
// router: create, read back, patch, delete, and observe the 404.
func TestTaskLifecycle(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/tasks", `{"title":"X","description":"Y","user_story":"As a tester"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created envelope.Envelope[*task.Task]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "task_003", created.Data.ID)
	assert.Equal(t, task.StatusPending, created.Data.Status)

	rec = doJSON(t, h, http.MethodGet, "/tasks/task_003", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got envelope.Envelope[*task.Task]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "X", got.Data.Title)
	assert.Equal(t, "Y", got.Data.Description)
	assert.Equal(t, "As a tester", got.Data.UserStory)

	rec = doJSON(t, h, http.MethodPut, "/tasks/task_003", `{"status":"in_progress"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var patched envelope.Envelope[*task.Task]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &patched))
	assert.Equal(t, "in_progress", patched.Data.Status)
	assert.Equal(t, "X", patched.Data.Title)

	rec = doJSON(t, h, http.MethodDelete, "/tasks/task_003", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/tasks/task_003", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	var env envelope.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "TASK_NOT_FOUND", env.Error)
}

func TestBatchRouteWins(t *testing.T) {
	// /tasks/batch must hit the batch handler, not GET/PUT /tasks/{id}.
	h := newTestHandler(t)
	rec := doJSON(t, h, http.MethodPost, "/tasks/batch", `{"task_id":"task_001","new_status":"completed"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var env envelope.Envelope[analytics.BatchResult]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, 1, env.Data.SuccessfulUpdates)
}
