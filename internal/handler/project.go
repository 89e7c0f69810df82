package handler

import (
	"time"

	"projectboard/contracts/api"

	"go.uber.org/zap"
)

// ProjectHandler serves the five CRUD operations for projects.
type ProjectHandler = Resource[api.Project, api.CreateProjectRequest, api.UpdateProjectRequest]

func NewProjectHandler(repo Repository[api.Project, api.CreateProjectRequest, api.UpdateProjectRequest], publisher EventPublisher, logger *zap.Logger) *ProjectHandler {
	desc := Descriptor[api.Project, api.CreateProjectRequest, api.UpdateProjectRequest]{
		Singular: "Project",
		Plural:   "projects",
		ID:       func(p api.Project) int { return p.ID },
		Prepare: func(req *api.CreateProjectRequest, _ time.Time) error {
			if err := req.Validate(); err != nil {
				return err
			}
			req.ApplyDefaults()
			return nil
		},
	}
	return NewResource(desc, repo, publisher, logger)
}
