package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"projectboard/contracts/api"
	"projectboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRepo[R, C, U any] struct {
	listFn   func(ctx context.Context) ([]R, error)
	getFn    func(ctx context.Context, id int) (R, error)
	createFn func(ctx context.Context, req C) (R, error)
	updateFn func(ctx context.Context, id int, req U) (R, error)
	deleteFn func(ctx context.Context, id int) error

	createCalls int
}

func (f *fakeRepo[R, C, U]) List(ctx context.Context) ([]R, error) {
	return f.listFn(ctx)
}

func (f *fakeRepo[R, C, U]) GetByID(ctx context.Context, id int) (R, error) {
	return f.getFn(ctx, id)
}

func (f *fakeRepo[R, C, U]) Create(ctx context.Context, req C) (R, error) {
	f.createCalls++
	return f.createFn(ctx, req)
}

func (f *fakeRepo[R, C, U]) Update(ctx context.Context, id int, req U) (R, error) {
	return f.updateFn(ctx, id, req)
}

func (f *fakeRepo[R, C, U]) Delete(ctx context.Context, id int) error {
	return f.deleteFn(ctx, id)
}

type taskRepo = fakeRepo[api.Task, api.CreateTaskRequest, api.UpdateTaskRequest]

type projectRepo = fakeRepo[api.Project, api.CreateProjectRequest, api.UpdateProjectRequest]

type recordedEvent struct {
	routingKey string
	payload    any
}

type fakePublisher struct {
	events []recordedEvent
	err    error
}

func (p *fakePublisher) Publish(routingKey string, payload any) error {
	p.events = append(p.events, recordedEvent{routingKey: routingKey, payload: payload})
	return p.err
}

func newTaskRouter(repo *taskRepo, publisher EventPublisher) *gin.Engine {
	h := NewTaskHandler(repo, publisher, zap.NewNop())
	r := gin.New()
	r.GET("/api/tasks", h.List)
	r.GET("/api/tasks/:id", h.GetByID)
	r.POST("/api/tasks", h.Create)
	r.PUT("/api/tasks/:id", h.Update)
	r.DELETE("/api/tasks/:id", h.Delete)
	return r
}

func newProjectRouter(repo *projectRepo) *gin.Engine {
	h := NewProjectHandler(repo, nil, zap.NewNop())
	r := gin.New()
	r.GET("/api/projects", h.List)
	r.GET("/api/projects/:id", h.GetByID)
	r.POST("/api/projects", h.Create)
	r.PUT("/api/projects/:id", h.Update)
	r.DELETE("/api/projects/:id", h.Delete)
	return r
}

func perform(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListProjects(t *testing.T) {
	repo := &projectRepo{
		listFn: func(ctx context.Context) ([]api.Project, error) {
			return []api.Project{{ID: 2, Name: "second"}, {ID: 1, Name: "first"}}, nil
		},
	}
	w := perform(newProjectRouter(repo), http.MethodGet, "/api/projects", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var projects []api.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &projects))
	require.Len(t, projects, 2)
	assert.Equal(t, 2, projects[0].ID)
}

func TestListProjectsEmpty(t *testing.T) {
	repo := &projectRepo{
		listFn: func(ctx context.Context) ([]api.Project, error) {
			return []api.Project{}, nil
		},
	}
	w := perform(newProjectRouter(repo), http.MethodGet, "/api/projects", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestListProjectsPersistenceFailure(t *testing.T) {
	repo := &projectRepo{
		listFn: func(ctx context.Context) ([]api.Project, error) {
			return nil, errors.New("connection refused")
		},
	}
	w := perform(newProjectRouter(repo), http.MethodGet, "/api/projects", nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Error fetching projects", body["message"])
	assert.Equal(t, "connection refused", body["error"])
}

func TestGetProjectNotFound(t *testing.T) {
	repo := &projectRepo{
		getFn: func(ctx context.Context, id int) (api.Project, error) {
			return api.Project{}, repository.ErrNotFound
		},
	}
	w := perform(newProjectRouter(repo), http.MethodGet, "/api/projects/42", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Project not found", body["message"])
}

func TestGetProjectInvalidID(t *testing.T) {
	repo := &projectRepo{}
	w := perform(newProjectRouter(repo), http.MethodGet, "/api/projects/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTaskAppliesDefaults(t *testing.T) {
	var seen api.CreateTaskRequest
	repo := &taskRepo{
		createFn: func(ctx context.Context, req api.CreateTaskRequest) (api.Task, error) {
			seen = req
			return api.Task{
				ID:        7,
				Name:      req.Name,
				Type:      req.Type,
				Status:    req.Status,
				Progress:  *req.Progress,
				CreatedAt: *req.CreatedAt,
			}, nil
		},
	}
	w := perform(newTaskRouter(repo, nil), http.MethodPost, "/api/tasks", map[string]any{"name": "Write spec"})

	require.Equal(t, http.StatusCreated, w.Code)
	var created api.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 7, created.ID)
	assert.Equal(t, "task", created.Type)
	assert.Equal(t, "todo", created.Status)
	assert.Equal(t, 0, created.Progress)
	assert.False(t, created.CreatedAt.IsZero())

	require.NotNil(t, seen.CreatedAt)
	require.NotNil(t, seen.Progress)
}

func TestCreateTaskMissingNameSkipsPersistence(t *testing.T) {
	repo := &taskRepo{
		createFn: func(ctx context.Context, req api.CreateTaskRequest) (api.Task, error) {
			return api.Task{}, nil
		},
	}
	w := perform(newTaskRouter(repo, nil), http.MethodPost, "/api/tasks", map[string]any{"description": "no name"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Task name is required", body["message"])
	assert.Zero(t, repo.createCalls)
}

func TestCreateTaskBlankNameRejected(t *testing.T) {
	repo := &taskRepo{
		createFn: func(ctx context.Context, req api.CreateTaskRequest) (api.Task, error) {
			return api.Task{}, nil
		},
	}
	w := perform(newTaskRouter(repo, nil), http.MethodPost, "/api/tasks", map[string]any{"name": "   "})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, repo.createCalls)
}

func TestCreateTaskProgressOutOfRange(t *testing.T) {
	repo := &taskRepo{
		createFn: func(ctx context.Context, req api.CreateTaskRequest) (api.Task, error) {
			return api.Task{}, nil
		},
	}
	w := perform(newTaskRouter(repo, nil), http.MethodPost, "/api/tasks", map[string]any{"name": "x", "progress": 150})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, repo.createCalls)
}

func TestCreateTaskInvalidStatus(t *testing.T) {
	repo := &taskRepo{
		createFn: func(ctx context.Context, req api.CreateTaskRequest) (api.Task, error) {
			return api.Task{}, nil
		},
	}
	w := perform(newTaskRouter(repo, nil), http.MethodPost, "/api/tasks", map[string]any{"name": "x", "status": "paused"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, repo.createCalls)
}

func TestCreateProjectPersistenceFailure(t *testing.T) {
	repo := &projectRepo{
		createFn: func(ctx context.Context, req api.CreateProjectRequest) (api.Project, error) {
			return api.Project{}, errors.New("insert failed")
		},
	}
	w := perform(newProjectRouter(repo), http.MethodPost, "/api/projects", map[string]any{"name": "p"})

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Error creating project", body["message"])
}

func TestUpdateTaskNotFound(t *testing.T) {
	repo := &taskRepo{
		updateFn: func(ctx context.Context, id int, req api.UpdateTaskRequest) (api.Task, error) {
			return api.Task{}, repository.ErrNotFound
		},
	}
	w := perform(newTaskRouter(repo, nil), http.MethodPut, "/api/tasks/99", map[string]any{"name": "renamed"})

	require.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Task not found", body["message"])
}

func TestUpdateTaskAllowsClearingName(t *testing.T) {
	var seen api.UpdateTaskRequest
	repo := &taskRepo{
		updateFn: func(ctx context.Context, id int, req api.UpdateTaskRequest) (api.Task, error) {
			seen = req
			return api.Task{ID: id, Name: *req.Name}, nil
		},
	}
	w := perform(newTaskRouter(repo, nil), http.MethodPut, "/api/tasks/5", map[string]any{"name": ""})

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen.Name)
	assert.Equal(t, "", *seen.Name)
}

func TestDeleteTaskIdempotent(t *testing.T) {
	repo := &taskRepo{
		deleteFn: func(ctx context.Context, id int) error { return nil },
	}
	r := newTaskRouter(repo, nil)

	first := perform(r, http.MethodDelete, "/api/tasks/3", nil)
	second := perform(r, http.MethodDelete, "/api/tasks/3", nil)

	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Empty(t, first.Body.String())
	assert.Equal(t, http.StatusNoContent, second.Code)
}

func TestDeleteProjectMissingStill204(t *testing.T) {
	repo := &projectRepo{
		deleteFn: func(ctx context.Context, id int) error { return nil },
	}
	w := perform(newProjectRouter(repo), http.MethodDelete, "/api/projects/12345", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDeleteTaskPersistenceFailure(t *testing.T) {
	repo := &taskRepo{
		deleteFn: func(ctx context.Context, id int) error { return errors.New("boom") },
	}
	w := perform(newTaskRouter(repo, nil), http.MethodDelete, "/api/tasks/3", nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Error deleting task", body["message"])
}

func TestMutationsPublishLifecycleEvents(t *testing.T) {
	pub := &fakePublisher{}
	repo := &taskRepo{
		createFn: func(ctx context.Context, req api.CreateTaskRequest) (api.Task, error) {
			return api.Task{ID: 1, Name: req.Name}, nil
		},
		updateFn: func(ctx context.Context, id int, req api.UpdateTaskRequest) (api.Task, error) {
			return api.Task{ID: id}, nil
		},
		deleteFn: func(ctx context.Context, id int) error { return nil },
	}
	r := newTaskRouter(repo, pub)

	perform(r, http.MethodPost, "/api/tasks", map[string]any{"name": "t"})
	perform(r, http.MethodPut, "/api/tasks/1", map[string]any{"progress": 50})
	perform(r, http.MethodDelete, "/api/tasks/1", nil)

	require.Len(t, pub.events, 3)
	assert.Equal(t, "task.created", pub.events[0].routingKey)
	assert.Equal(t, "task.updated", pub.events[1].routingKey)
	assert.Equal(t, "task.deleted", pub.events[2].routingKey)
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	repo := &taskRepo{
		createFn: func(ctx context.Context, req api.CreateTaskRequest) (api.Task, error) {
			return api.Task{ID: 1, Name: req.Name}, nil
		},
	}
	w := perform(newTaskRouter(repo, pub), http.MethodPost, "/api/tasks", map[string]any{"name": "t"})
	assert.Equal(t, http.StatusCreated, w.Code)
}
