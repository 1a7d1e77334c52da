// internal/repository/memory/account_repo.go
package memory

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/domain/admin"
	"storefront/internal/domain/auth"
	xerrors "storefront/internal/pkg/errors"
)

// AccountRepository stores users, roles and permissions.
type AccountRepository struct {
	db *DB
}

func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

var _ admin.Repository = (*AccountRepository)(nil)

// ========== Users ==========

func (r *AccountRepository) CreateUser(_ context.Context, u *admin.UserRecord) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u.Email = normalizeEmail(u.Email)
	if r.emailTakenLocked(u.Email, 0) {
		return fmt.Errorf("email %s: %w", u.Email, xerrors.ErrConflict)
	}
	roleIDs, err := r.roleIDsLocked(u.Roles)
	if err != nil {
		return err
	}

	u.ID = r.db.nextID("users")
	row := &userRow{record: *u, roleIDs: roleIDs}
	row.record.User = *u.User.Clone()
	r.db.users[u.ID] = row
	u.User = r.db.userLocked(row)
	return nil
}

// UpdateUser replaces name, email, password hash, verification and roles.
func (r *AccountRepository) UpdateUser(_ context.Context, u *admin.UserRecord) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	row, ok := r.db.users[u.ID]
	if !ok {
		return fmt.Errorf("user %d: %w", u.ID, xerrors.ErrNotFound)
	}
	u.Email = normalizeEmail(u.Email)
	if r.emailTakenLocked(u.Email, u.ID) {
		return fmt.Errorf("email %s: %w", u.Email, xerrors.ErrConflict)
	}
	roleIDs, err := r.roleIDsLocked(u.Roles)
	if err != nil {
		return err
	}

	row.record = *u
	row.record.User = *u.User.Clone()
	row.roleIDs = roleIDs
	u.User = r.db.userLocked(row)
	return nil
}

func (r *AccountRepository) DeleteUser(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[id]; !ok {
		return fmt.Errorf("user %d: %w", id, xerrors.ErrNotFound)
	}
	delete(r.db.users, id)
	delete(r.db.carts, id)
	return nil
}

func (r *AccountRepository) FindUserByID(_ context.Context, id int64) (*admin.UserRecord, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	row, ok := r.db.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, xerrors.ErrNotFound)
	}
	return &admin.UserRecord{User: r.db.userLocked(row), PasswordHash: row.record.PasswordHash}, nil
}

func (r *AccountRepository) FindUserByEmail(_ context.Context, email string) (*admin.UserRecord, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	email = normalizeEmail(email)
	for _, row := range r.db.users {
		if row.record.Email == email {
			return &admin.UserRecord{User: r.db.userLocked(row), PasswordHash: row.record.PasswordHash}, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, xerrors.ErrNotFound)
}

// ListUsers returns every user ordered by id.
func (r *AccountRepository) ListUsers(_ context.Context) ([]auth.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]auth.User, 0, len(r.db.users))
	for _, id := range sortedKeys(r.db.users) {
		out = append(out, r.db.userLocked(r.db.users[id]))
	}
	return out, nil
}

func (r *AccountRepository) emailTakenLocked(email string, except int64) bool {
	for id, row := range r.db.users {
		if id != except && row.record.Email == email {
			return true
		}
	}
	return false
}

func (r *AccountRepository) roleIDsLocked(roles []auth.Role) ([]int64, error) {
	ids := make([]int64, 0, len(roles))
	for _, role := range roles {
		if _, ok := r.db.roles[role.ID]; !ok {
			return nil, fmt.Errorf("role %q: %w", role.Name, xerrors.ErrNotFound)
		}
		ids = append(ids, role.ID)
	}
	return ids, nil
}

// ========== Roles ==========

func (r *AccountRepository) CreateRole(_ context.Context, role *auth.Role) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	role.Name = strings.ToLower(strings.TrimSpace(role.Name))
	if r.roleByNameLocked(role.Name) != nil {
		return fmt.Errorf("role %q: %w", role.Name, xerrors.ErrConflict)
	}
	permIDs, err := r.permissionIDsLocked(role.Permissions)
	if err != nil {
		return err
	}

	role.ID = r.db.nextID("roles")
	row := &roleRow{role: auth.Role{ID: role.ID, Name: role.Name}, permissionIDs: permIDs}
	r.db.roles[role.ID] = row
	*role = r.db.roleLocked(row)
	return nil
}

// UpdateRole renames a role and replaces its permission set.
func (r *AccountRepository) UpdateRole(_ context.Context, role *auth.Role) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	row, ok := r.db.roles[role.ID]
	if !ok {
		return fmt.Errorf("role %d: %w", role.ID, xerrors.ErrNotFound)
	}
	role.Name = strings.ToLower(strings.TrimSpace(role.Name))
	if other := r.roleByNameLocked(role.Name); other != nil && other.role.ID != role.ID {
		return fmt.Errorf("role %q: %w", role.Name, xerrors.ErrConflict)
	}
	permIDs, err := r.permissionIDsLocked(role.Permissions)
	if err != nil {
		return err
	}

	row.role.Name = role.Name
	row.permissionIDs = permIDs
	*role = r.db.roleLocked(row)
	return nil
}

// DeleteRole removes the role and detaches it from every user.
func (r *AccountRepository) DeleteRole(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.roles[id]; !ok {
		return fmt.Errorf("role %d: %w", id, xerrors.ErrNotFound)
	}
	delete(r.db.roles, id)
	for _, u := range r.db.users {
		u.roleIDs = removeID(u.roleIDs, id)
	}
	return nil
}

func (r *AccountRepository) FindRoleByID(_ context.Context, id int64) (*auth.Role, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	row, ok := r.db.roles[id]
	if !ok {
		return nil, fmt.Errorf("role %d: %w", id, xerrors.ErrNotFound)
	}
	role := r.db.roleLocked(row)
	return &role, nil
}

func (r *AccountRepository) FindRoleByName(_ context.Context, name string) (*auth.Role, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	row := r.roleByNameLocked(strings.ToLower(strings.TrimSpace(name)))
	if row == nil {
		return nil, fmt.Errorf("role %q: %w", name, xerrors.ErrNotFound)
	}
	role := r.db.roleLocked(row)
	return &role, nil
}

func (r *AccountRepository) ListRoles(_ context.Context) ([]auth.Role, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]auth.Role, 0, len(r.db.roles))
	for _, id := range sortedKeys(r.db.roles) {
		out = append(out, r.db.roleLocked(r.db.roles[id]))
	}
	return out, nil
}

func (r *AccountRepository) roleByNameLocked(name string) *roleRow {
	for _, row := range r.db.roles {
		if row.role.Name == name {
			return row
		}
	}
	return nil
}

func (r *AccountRepository) permissionIDsLocked(perms []auth.Permission) ([]int64, error) {
	ids := make([]int64, 0, len(perms))
	for _, p := range perms {
		if _, ok := r.db.permissions[p.ID]; !ok {
			return nil, fmt.Errorf("permission %q: %w", p.Name, xerrors.ErrNotFound)
		}
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// ========== Permissions ==========

func (r *AccountRepository) CreatePermission(_ context.Context, p *auth.Permission) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p.Name = strings.TrimSpace(p.Name)
	if r.permissionByNameLocked(p.Name) != nil {
		return fmt.Errorf("permission %q: %w", p.Name, xerrors.ErrConflict)
	}
	p.ID = r.db.nextID("permissions")
	stored := *p
	r.db.permissions[p.ID] = &stored
	return nil
}

func (r *AccountRepository) UpdatePermission(_ context.Context, p *auth.Permission) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.permissions[p.ID]
	if !ok {
		return fmt.Errorf("permission %d: %w", p.ID, xerrors.ErrNotFound)
	}
	p.Name = strings.TrimSpace(p.Name)
	if other := r.permissionByNameLocked(p.Name); other != nil && other.ID != p.ID {
		return fmt.Errorf("permission %q: %w", p.Name, xerrors.ErrConflict)
	}
	stored.Name = p.Name
	return nil
}

// DeletePermission removes the permission from the catalog and every role.
func (r *AccountRepository) DeletePermission(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.permissions[id]; !ok {
		return fmt.Errorf("permission %d: %w", id, xerrors.ErrNotFound)
	}
	delete(r.db.permissions, id)
	for _, role := range r.db.roles {
		role.permissionIDs = removeID(role.permissionIDs, id)
	}
	return nil
}

func (r *AccountRepository) FindPermissionByName(_ context.Context, name string) (*auth.Permission, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p := r.permissionByNameLocked(strings.TrimSpace(name))
	if p == nil {
		return nil, fmt.Errorf("permission %q: %w", name, xerrors.ErrNotFound)
	}
	out := *p
	return &out, nil
}

func (r *AccountRepository) ListPermissions(_ context.Context) ([]auth.Permission, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]auth.Permission, 0, len(r.db.permissions))
	for _, id := range sortedKeys(r.db.permissions) {
		out = append(out, *r.db.permissions[id])
	}
	return out, nil
}

func (r *AccountRepository) permissionByNameLocked(name string) *auth.Permission {
	for _, p := range r.db.permissions {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func removeID(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
