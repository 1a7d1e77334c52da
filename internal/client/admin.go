// internal/client/admin.go
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"storefront/internal/domain/admin"
	"storefront/internal/domain/auth"
)

func (c *Client) Dashboard(ctx context.Context) (*admin.DashboardStats, error) {
	var out admin.DashboardStats
	if err := c.Do(ctx, http.MethodGet, "/admin/dashboard", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Users(ctx context.Context, f admin.ListFilters) (*admin.Page[auth.User], error) {
	var out admin.Page[auth.User]
	if err := c.Do(ctx, http.MethodGet, "/admin/users"+listQuery(f), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateUser(ctx context.Context, req admin.CreateUserRequest) (*auth.User, error) {
	var out auth.User
	if err := c.Do(ctx, http.MethodPost, "/admin/users", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int64, req admin.UpdateUserRequest) (*auth.User, error) {
	var out auth.User
	if err := c.Do(ctx, http.MethodPut, fmt.Sprintf("/admin/users/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/admin/users/%d", id), nil, nil)
}

// AssignRole replaces the roles of a user.
func (c *Client) AssignRole(ctx context.Context, userID int64, roles ...string) (*auth.User, error) {
	var out auth.User
	if err := c.Do(ctx, http.MethodPut, fmt.Sprintf("/admin/users/%d/roles", userID), admin.AssignRoleRequest{Roles: roles}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Roles(ctx context.Context) ([]auth.Role, error) {
	var out []auth.Role
	if err := c.Do(ctx, http.MethodGet, "/admin/roles", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateRole(ctx context.Context, req admin.RoleRequest) (*auth.Role, error) {
	var out auth.Role
	if err := c.Do(ctx, http.MethodPost, "/admin/roles", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRole(ctx context.Context, id int64, req admin.RoleRequest) (*auth.Role, error) {
	var out auth.Role
	if err := c.Do(ctx, http.MethodPut, fmt.Sprintf("/admin/roles/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteRole(ctx context.Context, id int64) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/admin/roles/%d", id), nil, nil)
}

func (c *Client) Permissions(ctx context.Context) ([]auth.Permission, error) {
	var out []auth.Permission
	if err := c.Do(ctx, http.MethodGet, "/admin/permissions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreatePermission(ctx context.Context, name string) (*auth.Permission, error) {
	var out auth.Permission
	if err := c.Do(ctx, http.MethodPost, "/admin/permissions", admin.PermissionRequest{Name: name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePermission(ctx context.Context, id int64, name string) (*auth.Permission, error) {
	var out auth.Permission
	if err := c.Do(ctx, http.MethodPut, fmt.Sprintf("/admin/permissions/%d", id), admin.PermissionRequest{Name: name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePermission(ctx context.Context, id int64) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/admin/permissions/%d", id), nil, nil)
}

func listQuery(f admin.ListFilters) string {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Role != "" {
		q.Set("role", f.Role)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(f.PerPage))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
