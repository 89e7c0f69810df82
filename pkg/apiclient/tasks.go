package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"projectboard/contracts/api"
)

func (c *Client) ListTasks(ctx context.Context) ([]api.Task, error) {
	var tasks []api.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id int) (api.Task, error) {
	var t api.Task
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d", id), nil, &t); err != nil {
		return api.Task{}, err
	}
	return t, nil
}

func (c *Client) CreateTask(ctx context.Context, req api.CreateTaskRequest) (api.Task, error) {
	var t api.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", req, &t); err != nil {
		return api.Task{}, err
	}
	return t, nil
}

func (c *Client) UpdateTask(ctx context.Context, id int, req api.UpdateTaskRequest) (api.Task, error) {
	var t api.Task
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), req, &t); err != nil {
		return api.Task{}, err
	}
	return t, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil)
}
