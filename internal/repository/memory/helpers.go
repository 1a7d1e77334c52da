// internal/repository/memory/helpers.go
package memory

import (
	"sort"
	"strings"

	"storefront/internal/domain/auth"
	"storefront/internal/domain/bill"
	"storefront/internal/domain/catalog"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sortedKeys[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// roleLocked joins a role with its live permissions. Caller holds mu.
func (db *DB) roleLocked(row *roleRow) auth.Role {
	r := row.role
	r.Permissions = make([]auth.Permission, 0, len(row.permissionIDs))
	for _, pid := range row.permissionIDs {
		if p, ok := db.permissions[pid]; ok {
			r.Permissions = append(r.Permissions, *p)
		}
	}
	return r
}

// userLocked joins a user with its live roles. Caller holds mu.
func (db *DB) userLocked(row *userRow) auth.User {
	u := *row.record.User.Clone()
	u.Roles = make([]auth.Role, 0, len(row.roleIDs))
	for _, rid := range row.roleIDs {
		if r, ok := db.roles[rid]; ok {
			u.Roles = append(u.Roles, db.roleLocked(r))
		}
	}
	u.Role = ""
	if len(u.Roles) > 0 {
		u.Role = u.Roles[0].Name
	}
	return u
}

func cloneProduct(p *catalog.Product) catalog.Product {
	return *p
}

func cloneBill(b *bill.Bill) bill.Bill {
	out := *b
	out.Items = append([]bill.Item(nil), b.Items...)
	return out
}
