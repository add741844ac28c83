package mailtrap

import (
	"context"
	"net/http"

	"github.com/mailtrap/client-go/validation"
)

// Project groups testing inboxes.
type Project struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	ShareLinks  *ProjectShareLinks  `json:"share_links,omitempty"`
	Inboxes     []Inbox             `json:"inboxes"`
	Permissions ResourcePermissions `json:"permissions"`
}

// ProjectShareLinks are the invitation links of a project.
type ProjectShareLinks struct {
	Admin  string `json:"admin"`
	Viewer string `json:"viewer"`
}

// ResourcePermissions describes what the token may do with a resource.
type ResourcePermissions struct {
	CanRead    bool `json:"can_read"`
	CanUpdate  bool `json:"can_update"`
	CanDestroy bool `json:"can_destroy"`
	CanLeave   bool `json:"can_leave"`
}

// ProjectRequest creates or renames a project.
type ProjectRequest struct {
	Name string `json:"name"`
}

// Validate checks the request before it is sent.
func (r ProjectRequest) Validate() validation.Result {
	return validation.Check(validation.Length("name", r.Name, 2, 100))
}

// ProjectsResource is the collection of projects.
type ProjectsResource struct {
	res resource
}

// List returns every project with its inboxes.
func (p *ProjectsResource) List(ctx context.Context) ([]Project, error) {
	out, err := execJSON[[]Project](ctx, p.res, http.MethodGet, nil, nil)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// Create creates a project.
func (p *ProjectsResource) Create(ctx context.Context, req ProjectRequest) (*Project, error) {
	return execJSON[Project](ctx, p.res, http.MethodPost, nil, nest("project", req))
}

// ProjectResource is a single project.
type ProjectResource struct {
	res resource
}

// Get fetches the project.
func (p *ProjectResource) Get(ctx context.Context) (*Project, error) {
	return execJSON[Project](ctx, p.res, http.MethodGet, nil, nil)
}

// Update renames the project.
func (p *ProjectResource) Update(ctx context.Context, req ProjectRequest) (*Project, error) {
	return execJSON[Project](ctx, p.res, http.MethodPatch, nil, nest("project", req))
}

// Delete removes the project and all its inboxes.
func (p *ProjectResource) Delete(ctx context.Context) error {
	_, err := execJSON[struct {
		ID int64 `json:"id"`
	}](ctx, p.res, http.MethodDelete, nil, nil)
	return err
}

// CreateInboxRequest creates an inbox inside a project.
type CreateInboxRequest struct {
	Name string `json:"name"`
}

// Validate checks the request before it is sent.
func (r CreateInboxRequest) Validate() validation.Result {
	return validation.Check(validation.Length("name", r.Name, 1, 100))
}

// CreateInbox creates an inbox in the project.
func (p *ProjectResource) CreateInbox(ctx context.Context, req CreateInboxRequest) (*Inbox, error) {
	return execJSON[Inbox](ctx, p.res.with(ResourceInbox, "inboxes"), http.MethodPost, nil, nest("inbox", req))
}
