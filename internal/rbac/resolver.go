package rbac

import (
	"context"
	"strings"

	"storefront/internal/domain/auth"
	"storefront/internal/pkg/session"
)

// Grant reports which source granted a permission. The two sources may
// disagree; HasPermission accepts either.
type Grant struct {
	FromRoles bool
	FromTable bool
}

func (g Grant) Allowed() bool { return g.FromRoles || g.FromTable }

// Conflicting is true when exactly one source grants the permission.
func (g Grant) Conflicting() bool { return g.FromRoles != g.FromTable }

// Resolver answers access questions for one session snapshot. It performs no I/O.
type Resolver struct {
	user *auth.User
	role string
}

// New builds a resolver for user; nil means an anonymous session.
func New(user *auth.User) *Resolver {
	return &Resolver{user: user, role: user.EffectiveRole()}
}

// FromStore snapshots the cached user once.
func FromStore(ctx context.Context, r session.Reader) *Resolver {
	user, _ := r.User(ctx)
	return New(user)
}

// Role is the effective role, lowercased, or "".
func (r *Resolver) Role() string {
	return r.role
}

func (r *Resolver) PermissionSources(name string) Grant {
	var g Grant
	for _, p := range r.user.PermissionNames() {
		if p == name {
			g.FromRoles = true
			break
		}
	}
	for _, p := range rolePermissions[r.role] {
		if p == name {
			g.FromTable = true
			break
		}
	}
	return g
}

func (r *Resolver) HasPermission(name string) bool {
	return r.PermissionSources(name).Allowed()
}

// CanAccessRoute allows unmatched paths; matched paths require the effective role.
func (r *Resolver) CanAccessRoute(path string) bool {
	for _, rule := range routeRules {
		if !matchPrefix(path, rule.prefix) {
			continue
		}
		return containsRole(rule.roles, r.role)
	}
	return true
}

// CanPerformAction refuses any action/resource pair missing from the table.
func (r *Resolver) CanPerformAction(action, resource string) bool {
	resources, ok := actionRoles[strings.ToLower(action)]
	if !ok {
		return false
	}
	roles, ok := resources[strings.ToLower(resource)]
	if !ok {
		return false
	}
	return containsRole(roles, r.role)
}

// AccessibleRoutes returns the role's screens, or "/" without a known role.
func (r *Resolver) AccessibleRoutes() []string {
	routes, ok := accessibleRoutes[r.role]
	if !ok {
		return []string{"/"}
	}
	return append([]string(nil), routes...)
}

// HomeRoute is where a user lands after login.
func (r *Resolver) HomeRoute() string {
	return r.AccessibleRoutes()[0]
}

func matchPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}

func containsRole(roles []string, role string) bool {
	if role == "" {
		return false
	}
	for _, r := range roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}
