package mailtrap

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mailtrap/client-go/validation"
)

// Permission resource types.
const (
	PermissionAccount       = "account"
	PermissionBilling       = "billing"
	PermissionProject       = "project"
	PermissionInbox         = "inbox"
	PermissionSendingDomain = "sending_domain"
)

// Access levels.
const (
	AccessOwner         = "owner"
	AccessAdmin         = "admin"
	AccessViewer        = "viewer"
	AccessIndeterminate = "indeterminate"
)

var (
	permissionResourceTypes = []string{PermissionAccount, PermissionBilling, PermissionProject, PermissionInbox, PermissionSendingDomain}
	accessLevels            = []string{AccessOwner, AccessAdmin, AccessViewer, AccessIndeterminate}
)

// AccessSpecifier is the user, invite or API token an access belongs to.
type AccessSpecifier struct {
	ID                             int64  `json:"id"`
	Email                          string `json:"email,omitempty"`
	Name                           string `json:"name,omitempty"`
	TwoFactorAuthenticationEnabled bool   `json:"two_factor_authentication_enabled,omitempty"`
	Token                          string `json:"token,omitempty"`
	ExpiresAt                      string `json:"expires_at,omitempty"`
}

// AccessResourceGrant is a single resource an access is granted on.
type AccessResourceGrant struct {
	ResourceID   int64  `json:"resource_id"`
	ResourceType string `json:"resource_type"`
	AccessLevel  int    `json:"access_level"`
}

// AccessPermissions describes what the token may do with an access.
type AccessPermissions struct {
	CanRead    bool `json:"can_read"`
	CanUpdate  bool `json:"can_update"`
	CanDestroy bool `json:"can_destroy"`
	CanLeave   bool `json:"can_leave"`
}

// AccountAccess grants a user, invite or API token access to resources.
type AccountAccess struct {
	ID            int64                 `json:"id"`
	SpecifierType string                `json:"specifier_type"`
	Specifier     AccessSpecifier       `json:"specifier"`
	Resources     []AccessResourceGrant `json:"resources"`
	Permissions   AccessPermissions     `json:"permissions"`
}

// AccessFilter narrows List to accesses on the given resources.
type AccessFilter struct {
	DomainIDs  []int64
	InboxIDs   []int64
	ProjectIDs []int64
}

func (f AccessFilter) values() url.Values {
	q := url.Values{}
	add := func(key string, ids []int64) {
		for _, id := range ids {
			q.Add(key, strconv.FormatInt(id, 10))
		}
	}
	add("domain_ids[]", f.DomainIDs)
	add("inbox_ids[]", f.InboxIDs)
	add("project_ids[]", f.ProjectIDs)
	return q
}

// AccessesResource is the collection of account accesses.
type AccessesResource struct {
	res resource
}

// List returns the accesses of the account, optionally filtered.
func (a *AccessesResource) List(ctx context.Context, filter AccessFilter) ([]AccountAccess, error) {
	out, err := execJSON[[]AccountAccess](ctx, a.res, http.MethodGet, filter.values(), nil)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// AccessResource is a single account access.
type AccessResource struct {
	res resource
}

// Delete removes the access. The API answers with the removed ID.
func (a *AccessResource) Delete(ctx context.Context) error {
	_, err := execJSON[struct {
		ID int64 `json:"id"`
	}](ctx, a.res, http.MethodDelete, nil, nil)
	return err
}

// PermissionChange grants, changes or revokes access to one resource.
type PermissionChange struct {
	ResourceID   string `json:"resource_id"`
	ResourceType string `json:"resource_type"`
	AccessLevel  string `json:"access_level,omitempty"`
	// Destroy revokes the access instead of setting a level.
	Destroy bool `json:"_destroy,omitempty"`
}

// Validate checks a single change.
func (p PermissionChange) Validate() validation.Result {
	return validation.Check(
		validation.Required("resource_id", p.ResourceID),
		validation.OneOf("resource_type", p.ResourceType, permissionResourceTypes...),
		validation.When(!p.Destroy, validation.OneOf("access_level", p.AccessLevel, accessLevels...)),
	)
}

// UpdatePermissionsRequest changes several permissions at once.
type UpdatePermissionsRequest struct {
	Permissions []PermissionChange `json:"permissions"`
}

// Validate checks the request before it is sent.
func (r UpdatePermissionsRequest) Validate() validation.Result {
	res := validation.Check(validation.MinItems("permissions", len(r.Permissions), 1))
	return res.Merge("", validation.Each("permissions", r.Permissions, PermissionChange.Validate))
}

// UpdatePermissions applies the changes in bulk and returns the server's
// confirmation message.
func (a *AccessResource) UpdatePermissions(ctx context.Context, req UpdatePermissionsRequest) (string, error) {
	out, err := execJSON[struct {
		Message string `json:"message"`
	}](ctx, a.res.with(ResourceAccountAccess, "permissions", "bulk"), http.MethodPut, nil, req)
	if err != nil {
		return "", err
	}
	return out.Message, nil
}

// PermissionResource is a node in the account's resource tree.
type PermissionResource struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	Type        string               `json:"type"`
	AccessLevel int                  `json:"access_level"`
	Resources   []PermissionResource `json:"resources"`
}

// Walk calls fn for the node and every descendant, depth first.
func (p PermissionResource) Walk(fn func(PermissionResource)) {
	fn(p)
	for _, child := range p.Resources {
		child.Walk(fn)
	}
}

// PermissionsResource exposes the account's permission tree.
type PermissionsResource struct {
	res resource
}

// Resources returns the top level resources with their nested children.
func (p *PermissionsResource) Resources(ctx context.Context) ([]PermissionResource, error) {
	out, err := execJSON[[]PermissionResource](ctx, p.res.with(ResourceAccount, "resources"), http.MethodGet, nil, nil)
	if err != nil {
		return nil, err
	}
	return *out, nil
}
