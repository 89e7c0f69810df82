package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"projectboard/contracts/api"
)

func (c *Client) ListProjects(ctx context.Context) ([]api.Project, error) {
	var projects []api.Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) GetProject(ctx context.Context, id int) (api.Project, error) {
	var p api.Project
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d", id), nil, &p); err != nil {
		return api.Project{}, err
	}
	return p, nil
}

func (c *Client) CreateProject(ctx context.Context, req api.CreateProjectRequest) (api.Project, error) {
	var p api.Project
	if err := c.do(ctx, http.MethodPost, "/projects", req, &p); err != nil {
		return api.Project{}, err
	}
	return p, nil
}

func (c *Client) UpdateProject(ctx context.Context, id int, req api.UpdateProjectRequest) (api.Project, error) {
	var p api.Project
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/projects/%d", id), req, &p); err != nil {
		return api.Project{}, err
	}
	return p, nil
}

func (c *Client) DeleteProject(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/projects/%d", id), nil, nil)
}
