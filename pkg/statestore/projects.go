package statestore

import (
	"context"

	"projectboard/contracts/api"
	"projectboard/pkg/apiclient"

	"go.uber.org/zap"
)

// ProjectStore mirrors the server's project collection. Construct one at
// startup and pass it by reference; there is no package-level instance.
type ProjectStore struct {
	client *apiclient.Client
	c      collection[api.Project]
	logger *zap.Logger
}

func NewProjectStore(client *apiclient.Client, logger *zap.Logger) *ProjectStore {
	return &ProjectStore{
		client: client,
		c:      newCollection(func(p api.Project) int { return p.ID }),
		logger: logger,
	}
}

// Fetch replaces the mirror wholesale. A failure lands in the error slot and
// is not returned; list failures never abort caller flow.
func (s *ProjectStore) Fetch(ctx context.Context) {
	s.c.begin()
	projects, err := s.client.ListProjects(ctx)
	defer s.c.finish(err)
	if err != nil {
		s.logger.Error("Error fetching projects", zap.Error(err))
		return
	}
	s.c.replaceAll(projects)
}

func (s *ProjectStore) Create(ctx context.Context, req api.CreateProjectRequest) (api.Project, error) {
	s.c.begin()
	created, err := s.client.CreateProject(ctx, req)
	defer s.c.finish(err)
	if err != nil {
		s.logger.Error("Error creating project", zap.Error(err))
		return api.Project{}, err
	}
	s.c.add(created)
	return created, nil
}

func (s *ProjectStore) Update(ctx context.Context, id int, req api.UpdateProjectRequest) (api.Project, error) {
	s.c.begin()
	updated, err := s.client.UpdateProject(ctx, id, req)
	defer s.c.finish(err)
	if err != nil {
		s.logger.Error("Error updating project", zap.Int("id", id), zap.Error(err))
		return api.Project{}, err
	}
	s.c.replaceByID(updated)
	return updated, nil
}

func (s *ProjectStore) Delete(ctx context.Context, id int) error {
	s.c.begin()
	err := s.client.DeleteProject(ctx, id)
	defer s.c.finish(err)
	if err != nil {
		s.logger.Error("Error deleting project", zap.Int("id", id), zap.Error(err))
		return err
	}
	s.c.removeByID(id)
	return nil
}

// Projects returns a copy of the mirrored collection.
func (s *ProjectStore) Projects() []api.Project {
	return s.c.snapshot()
}

func (s *ProjectStore) ProjectByID(id int) (api.Project, bool) {
	return s.c.byID(id)
}

func (s *ProjectStore) Loading() bool {
	return s.c.isLoading()
}

// Err is the last error recorded by a store call, or nil.
func (s *ProjectStore) Err() error {
	return s.c.err()
}
