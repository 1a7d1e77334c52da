package rbac

import (
	"sort"
	"strings"

	"storefront/internal/domain/auth"
)

// Permission display categories, derived from the name prefix only.
const (
	CategoryView   = "view"
	CategoryCreate = "create"
	CategoryEdit   = "edit"
	CategoryManage = "manage"
	CategoryDelete = "delete"
	CategoryOther  = "other"
)

var categoryPrefixes = []string{CategoryView, CategoryCreate, CategoryEdit, CategoryManage, CategoryDelete}

// Category groups a permission for display. It has no bearing on enforcement.
func Category(name string) string {
	n := strings.ToLower(name)
	for _, c := range categoryPrefixes {
		if strings.HasPrefix(n, c+"-") {
			return c
		}
	}
	return CategoryOther
}

// GroupPermissions buckets permissions by Category, each bucket sorted by name.
func GroupPermissions(perms []auth.Permission) map[string][]auth.Permission {
	out := make(map[string][]auth.Permission)
	for _, p := range perms {
		c := Category(p.Name)
		out[c] = append(out[c], p)
	}
	for _, bucket := range out {
		sort.Slice(bucket, func(i, j int) bool { return bucket[i].Name < bucket[j].Name })
	}
	return out
}
