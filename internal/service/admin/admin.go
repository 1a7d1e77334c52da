// internal/service/admin/admin.go
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain/admin"
	"storefront/internal/domain/auth"
	xerrors "storefront/internal/pkg/errors"
	authsvc "storefront/internal/service/auth"

	"go.uber.org/zap"
)

// StatsSource produces the dashboard counters.
type StatsSource interface {
	Dashboard(ctx context.Context) (*admin.DashboardStats, error)
}

type AdminService struct {
	repo   admin.Repository
	stats  StatsSource
	logger *zap.Logger
}

func NewAdminService(repo admin.Repository, stats StatsSource, logger *zap.Logger) *AdminService {
	return &AdminService{
		repo:   repo,
		stats:  stats,
		logger: logger,
	}
}

func (s *AdminService) Dashboard(ctx context.Context) (*admin.DashboardStats, error) {
	return s.stats.Dashboard(ctx)
}

// ========== Users ==========

// ListUsers filters by name/email substring and role, then paginates.
func (s *AdminService) ListUsers(ctx context.Context, f admin.ListFilters) (*admin.Page[auth.User], error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	matched := make([]auth.User, 0, len(users))
	for _, u := range users {
		if search != "" && !strings.Contains(strings.ToLower(u.Name), search) && !strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		if f.Role != "" && !u.HasRole(f.Role) {
			continue
		}
		matched = append(matched, u)
	}

	page := admin.NewPage(matched, f.Page, f.PerPage)
	return &page, nil
}

func (s *AdminService) CreateUser(ctx context.Context, req *admin.CreateUserRequest) (*auth.User, error) {
	roles, err := s.resolveRoles(ctx, req.Roles)
	if err != nil {
		return nil, err
	}
	hashed, err := authsvc.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	record := &admin.UserRecord{
		User:         auth.User{Name: strings.TrimSpace(req.Name), Email: req.Email, Roles: roles},
		PasswordHash: hashed,
	}
	if err := s.repo.CreateUser(ctx, record); err != nil {
		if errors.Is(err, xerrors.ErrConflict) {
			return nil, xerrors.WithMessage(xerrors.ErrConflict, "The email has already been taken.")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created", zap.Int64("user_id", record.ID), zap.Strings("roles", req.Roles))
	return &record.User, nil
}

func (s *AdminService) UpdateUser(ctx context.Context, id int64, req *admin.UpdateUserRequest) (*auth.User, error) {
	record, err := s.repo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		record.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		record.Email = *req.Email
	}
	if req.Password != nil {
		hashed, err := authsvc.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		record.PasswordHash = hashed
	}
	if req.Roles != nil {
		roles, err := s.resolveRoles(ctx, req.Roles)
		if err != nil {
			return nil, err
		}
		record.Roles = roles
	}

	if err := s.repo.UpdateUser(ctx, record); err != nil {
		if errors.Is(err, xerrors.ErrConflict) {
			return nil, xerrors.WithMessage(xerrors.ErrConflict, "The email has already been taken.")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("user updated", zap.Int64("user_id", id))
	return &record.User, nil
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return xerrors.WithMessage(xerrors.ErrForbidden, "You cannot delete your own account.")
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.Int64("user_id", id), zap.Int64("actor_id", actorID))
	return nil
}

// AssignRoles replaces the user's roles.
func (s *AdminService) AssignRoles(ctx context.Context, id int64, names []string) (*auth.User, error) {
	return s.UpdateUser(ctx, id, &admin.UpdateUserRequest{Roles: append([]string{}, names...)})
}

func (s *AdminService) resolveRoles(ctx context.Context, names []string) ([]auth.Role, error) {
	roles := make([]auth.Role, 0, len(names))
	for _, name := range names {
		r, err := s.repo.FindRoleByName(ctx, name)
		if err != nil {
			if errors.Is(err, xerrors.ErrNotFound) {
				return nil, xerrors.WithMessage(xerrors.ErrInvalidInput, fmt.Sprintf("The role %q does not exist.", name))
			}
			return nil, err
		}
		roles = append(roles, *r)
	}
	return roles, nil
}

// ========== Roles ==========

func (s *AdminService) ListRoles(ctx context.Context) ([]auth.Role, error) {
	return s.repo.ListRoles(ctx)
}

func (s *AdminService) CreateRole(ctx context.Context, req *admin.RoleRequest) (*auth.Role, error) {
	perms, err := s.resolvePermissions(ctx, req.Permissions)
	if err != nil {
		return nil, err
	}
	role := &auth.Role{Name: req.Name, Permissions: perms}
	if err := s.repo.CreateRole(ctx, role); err != nil {
		if errors.Is(err, xerrors.ErrConflict) {
			return nil, xerrors.WithMessage(xerrors.ErrConflict, "The role name has already been taken.")
		}
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	s.logger.Info("role created", zap.Int64("role_id", role.ID), zap.String("name", role.Name))
	return role, nil
}

func (s *AdminService) UpdateRole(ctx context.Context, id int64, req *admin.RoleRequest) (*auth.Role, error) {
	perms, err := s.resolvePermissions(ctx, req.Permissions)
	if err != nil {
		return nil, err
	}
	role := &auth.Role{ID: id, Name: req.Name, Permissions: perms}
	if err := s.repo.UpdateRole(ctx, role); err != nil {
		if errors.Is(err, xerrors.ErrConflict) {
			return nil, xerrors.WithMessage(xerrors.ErrConflict, "The role name has already been taken.")
		}
		return nil, err
	}
	s.logger.Info("role updated", zap.Int64("role_id", id))
	return role, nil
}

func (s *AdminService) DeleteRole(ctx context.Context, id int64) error {
	if err := s.repo.DeleteRole(ctx, id); err != nil {
		return err
	}
	s.logger.Info("role deleted", zap.Int64("role_id", id))
	return nil
}

func (s *AdminService) resolvePermissions(ctx context.Context, names []string) ([]auth.Permission, error) {
	perms := make([]auth.Permission, 0, len(names))
	for _, name := range names {
		p, err := s.repo.FindPermissionByName(ctx, name)
		if err != nil {
			if errors.Is(err, xerrors.ErrNotFound) {
				return nil, xerrors.WithMessage(xerrors.ErrInvalidInput, fmt.Sprintf("The permission %q does not exist.", name))
			}
			return nil, err
		}
		perms = append(perms, *p)
	}
	return perms, nil
}

// ========== Permissions ==========

func (s *AdminService) ListPermissions(ctx context.Context) ([]auth.Permission, error) {
	return s.repo.ListPermissions(ctx)
}

func (s *AdminService) CreatePermission(ctx context.Context, req *admin.PermissionRequest) (*auth.Permission, error) {
	p := &auth.Permission{Name: req.Name}
	if err := s.repo.CreatePermission(ctx, p); err != nil {
		if errors.Is(err, xerrors.ErrConflict) {
			return nil, xerrors.WithMessage(xerrors.ErrConflict, "The permission name has already been taken.")
		}
		return nil, fmt.Errorf("failed to create permission: %w", err)
	}
	s.logger.Info("permission created", zap.Int64("permission_id", p.ID), zap.String("name", p.Name))
	return p, nil
}

func (s *AdminService) UpdatePermission(ctx context.Context, id int64, req *admin.PermissionRequest) (*auth.Permission, error) {
	p := &auth.Permission{ID: id, Name: req.Name}
	if err := s.repo.UpdatePermission(ctx, p); err != nil {
		if errors.Is(err, xerrors.ErrConflict) {
			return nil, xerrors.WithMessage(xerrors.ErrConflict, "The permission name has already been taken.")
		}
		return nil, err
	}
	return p, nil
}

func (s *AdminService) DeletePermission(ctx context.Context, id int64) error {
	if err := s.repo.DeletePermission(ctx, id); err != nil {
		return err
	}
	s.logger.Info("permission deleted", zap.Int64("permission_id", id))
	return nil
}
