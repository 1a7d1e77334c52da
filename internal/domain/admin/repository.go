// internal/domain/admin/repository.go
package admin

import (
	"context"

	"storefront/internal/domain/auth"
)

// Repository is the account store behind authentication and admin screens.
type Repository interface {
	CreateUser(ctx context.Context, u *UserRecord) error
	UpdateUser(ctx context.Context, u *UserRecord) error
	DeleteUser(ctx context.Context, id int64) error
	FindUserByID(ctx context.Context, id int64) (*UserRecord, error)
	FindUserByEmail(ctx context.Context, email string) (*UserRecord, error)
	ListUsers(ctx context.Context) ([]auth.User, error)

	CreateRole(ctx context.Context, r *auth.Role) error
	UpdateRole(ctx context.Context, r *auth.Role) error
	DeleteRole(ctx context.Context, id int64) error
	FindRoleByID(ctx context.Context, id int64) (*auth.Role, error)
	FindRoleByName(ctx context.Context, name string) (*auth.Role, error)
	ListRoles(ctx context.Context) ([]auth.Role, error)

	CreatePermission(ctx context.Context, p *auth.Permission) error
	UpdatePermission(ctx context.Context, p *auth.Permission) error
	DeletePermission(ctx context.Context, id int64) error
	FindPermissionByName(ctx context.Context, name string) (*auth.Permission, error)
	ListPermissions(ctx context.Context) ([]auth.Permission, error)
}
