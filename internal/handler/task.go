package handler

import (
	"time"

	"projectboard/contracts/api"

	"go.uber.org/zap"
)

// TaskHandler serves the five CRUD operations for tasks.
type TaskHandler = Resource[api.Task, api.CreateTaskRequest, api.UpdateTaskRequest]

func NewTaskHandler(repo Repository[api.Task, api.CreateTaskRequest, api.UpdateTaskRequest], publisher EventPublisher, logger *zap.Logger) *TaskHandler {
	desc := Descriptor[api.Task, api.CreateTaskRequest, api.UpdateTaskRequest]{
		Singular: "Task",
		Plural:   "tasks",
		ID:       func(t api.Task) int { return t.ID },
		Prepare: func(req *api.CreateTaskRequest, now time.Time) error {
			if err := req.Validate(); err != nil {
				return err
			}
			req.ApplyDefaults(now)
			return nil
		},
	}
	return NewResource(desc, repo, publisher, logger)
}
