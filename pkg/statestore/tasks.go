package statestore

import (
	"context"

	"projectboard/contracts/api"
	"projectboard/pkg/apiclient"

	"go.uber.org/zap"
)

// TaskStore mirrors the server's task collection.
type TaskStore struct {
	client *apiclient.Client
	c      collection[api.Task]
	logger *zap.Logger
}

func NewTaskStore(client *apiclient.Client, logger *zap.Logger) *TaskStore {
	return &TaskStore{
		client: client,
		c:      newCollection(func(t api.Task) int { return t.ID }),
		logger: logger,
	}
}

// Fetch replaces the mirror wholesale. A failure lands in the error slot and
// is not returned; list failures never abort caller flow.
func (s *TaskStore) Fetch(ctx context.Context) {
	s.c.begin()
	tasks, err := s.client.ListTasks(ctx)
	defer s.c.finish(err)
	if err != nil {
		s.logger.Error("Error fetching tasks", zap.Error(err))
		return
	}
	s.c.replaceAll(tasks)
}

func (s *TaskStore) Create(ctx context.Context, req api.CreateTaskRequest) (api.Task, error) {
	s.c.begin()
	created, err := s.client.CreateTask(ctx, req)
	defer s.c.finish(err)
	if err != nil {
		s.logger.Error("Error creating task", zap.Error(err))
		return api.Task{}, err
	}
	s.c.add(created)
	return created, nil
}

func (s *TaskStore) Update(ctx context.Context, id int, req api.UpdateTaskRequest) (api.Task, error) {
	s.c.begin()
	updated, err := s.client.UpdateTask(ctx, id, req)
	defer s.c.finish(err)
	if err != nil {
		s.logger.Error("Error updating task", zap.Int("id", id), zap.Error(err))
		return api.Task{}, err
	}
	s.c.replaceByID(updated)
	return updated, nil
}

func (s *TaskStore) Delete(ctx context.Context, id int) error {
	s.c.begin()
	err := s.client.DeleteTask(ctx, id)
	defer s.c.finish(err)
	if err != nil {
		s.logger.Error("Error deleting task", zap.Int("id", id), zap.Error(err))
		return err
	}
	s.c.removeByID(id)
	return nil
}

// Tasks returns a copy of the mirrored collection.
func (s *TaskStore) Tasks() []api.Task {
	return s.c.snapshot()
}

func (s *TaskStore) TaskByID(id int) (api.Task, bool) {
	return s.c.byID(id)
}

// TasksByProject filters the mirror down to the tasks owned by one project.
func (s *TaskStore) TasksByProject(projectID int) []api.Task {
	out := []api.Task{}
	for _, t := range s.c.snapshot() {
		if t.ProjectID != nil && *t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out
}

func (s *TaskStore) Loading() bool {
	return s.c.isLoading()
}

// Err is the last error recorded by a store call, or nil.
func (s *TaskStore) Err() error {
	return s.c.err()
}
