// internal/domain/auth/entity.go
package auth

import (
	"strings"
	"time"
)

// Permission is a named capability attached to a role.
type Permission struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Role groups permissions. Only Name is consulted for routing decisions.
type Role struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Permissions []Permission `json:"permissions,omitempty"`
}

// User is the cached account snapshot kept in the session.
type User struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	Roles           []Role     `json:"roles"`
	// Role is a legacy single-role field some endpoints still return.
	Role string `json:"role,omitempty"`
}

// EffectiveRole returns the lowercased name of the role used for routing:
// the first entry of Roles, else the Role field, else "".
func (u *User) EffectiveRole() string {
	if u == nil {
		return ""
	}
	if len(u.Roles) > 0 && u.Roles[0].Name != "" {
		return strings.ToLower(u.Roles[0].Name)
	}
	return strings.ToLower(strings.TrimSpace(u.Role))
}

// HasRole checks role membership across all assigned roles, case-insensitively.
func (u *User) HasRole(name string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if strings.EqualFold(r.Name, name) {
			return true
		}
	}
	return u.Role != "" && strings.EqualFold(u.Role, name)
}

// PermissionNames flattens the permissions of every role, keeping first-seen order.
func (u *User) PermissionNames() []string {
	if u == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var names []string
	for _, r := range u.Roles {
		for _, p := range r.Permissions {
			if _, ok := seen[p.Name]; ok {
				continue
			}
			seen[p.Name] = struct{}{}
			names = append(names, p.Name)
		}
	}
	return names
}

// IsVerified reports whether the email address was confirmed.
func (u *User) IsVerified() bool {
	return u != nil && u.EmailVerifiedAt != nil
}

// Clone returns a deep copy so callers cannot mutate a shared snapshot.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	if u.EmailVerifiedAt != nil {
		t := *u.EmailVerifiedAt
		out.EmailVerifiedAt = &t
	}
	if u.Roles != nil {
		out.Roles = make([]Role, len(u.Roles))
		for i, r := range u.Roles {
			out.Roles[i] = r
			if r.Permissions != nil {
				out.Roles[i].Permissions = append([]Permission(nil), r.Permissions...)
			}
		}
	}
	return &out
}
