// internal/domain/admin/dto.go
package admin

// CreateUserRequest creates an account with the given roles.
type CreateUserRequest struct {
	Name     string   `json:"name" binding:"required,max=255"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8"`
	Roles    []string `json:"roles"`
}

// UpdateUserRequest is a partial update; nil fields are left untouched.
type UpdateUserRequest struct {
	Name     *string  `json:"name,omitempty" binding:"omitempty,max=255"`
	Email    *string  `json:"email,omitempty" binding:"omitempty,email"`
	Password *string  `json:"password,omitempty" binding:"omitempty,min=8"`
	Roles    []string `json:"roles,omitempty"`
}

// RoleRequest creates or replaces a role and its permission set.
type RoleRequest struct {
	Name        string   `json:"name" binding:"required,max=64"`
	Permissions []string `json:"permissions"`
}

// PermissionRequest creates or renames a permission.
type PermissionRequest struct {
	Name string `json:"name" binding:"required,max=128"`
}

// AssignRoleRequest replaces a user's roles.
type AssignRoleRequest struct {
	Roles []string `json:"roles" binding:"required"`
}

// ListFilters are the query parameters of admin list screens.
type ListFilters struct {
	Search  string `form:"search"`
	Role    string `form:"role"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
