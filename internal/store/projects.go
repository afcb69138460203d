package store

import (
	"context"
	"strings"

	"github.com/ccumaco/ai-frontend/internal/api"
	"github.com/ccumaco/ai-frontend/internal/bus"
	"go.uber.org/zap"
)

// ProjectsAPI is the backend surface the projects store needs.
type ProjectsAPI interface {
	ListProjects(ctx context.Context) ([]api.Project, error)
	CreateProject(ctx context.Context, req api.CreateProjectRequest) (api.Project, error)
}

// Projects is the shared projects collection.
type Projects struct {
	*Collection[api.Project]
	client ProjectsAPI
}

// NewProjects creates an empty projects store.
func NewProjects(client ProjectsAPI, b *bus.Bus, logger *zap.Logger) *Projects {
	return &Projects{
		Collection: NewCollection[api.Project]("projects", bus.KindProjectsChanged, b, logger),
		client:     client,
	}
}

// FetchAll replaces the list with the server's.
func (p *Projects) FetchAll(ctx context.Context) error {
	return runFetch(ctx, p.Collection, "Failed to fetch projects", p.client.ListProjects)
}

// Create validates req locally, then creates the project and appends it.
// A validation failure returns a *ValidationError and leaves state untouched.
func (p *Projects) Create(ctx context.Context, req api.CreateProjectRequest) (api.Project, error) {
	if err := ValidateProject(req); err != nil {
		return api.Project{}, err
	}
	req.Name = strings.TrimSpace(req.Name)
	return runCreate(ctx, p.Collection, "Failed to create project", func(ctx context.Context) (api.Project, error) {
		return p.client.CreateProject(ctx, req)
	})
}
