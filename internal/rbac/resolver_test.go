package rbac

import (
	"context"
	"testing"

	"storefront/internal/domain/auth"
	"storefront/internal/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userWithRole(name string, perms ...string) *auth.User {
	role := auth.Role{ID: 1, Name: name}
	for i, p := range perms {
		role.Permissions = append(role.Permissions, auth.Permission{ID: int64(i + 1), Name: p})
	}
	return &auth.User{ID: 1, Name: "Test", Email: "t@example.com", Roles: []auth.Role{role}}
}

func TestEffectiveRole(t *testing.T) {
	tests := []struct {
		name string
		user *auth.User
		want string
	}{
		{"nil user", nil, ""},
		{"first of roles", &auth.User{Roles: []auth.Role{{Name: "Seller"}, {Name: "admin"}}}, "seller"},
		{"fallback field", &auth.User{Role: "BUYER"}, "buyer"},
		{"roles win over field", &auth.User{Roles: []auth.Role{{Name: "admin"}}, Role: "buyer"}, "admin"},
		{"no role", &auth.User{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.user).Role())
		})
	}
}

func TestCanAccessRoute(t *testing.T) {
	tests := []struct {
		path string
		role string
		want bool
	}{
		{"/admin/x", "buyer", false},
		{"/admin/x", "admin", true},
		{"/admin", "ADMIN", true},
		{"/administrator", "buyer", true},
		{"/seller/products", "seller", true},
		{"/seller/products", "admin", false},
		{"/cart", "buyer", true},
		{"/cart", "seller", false},
		{"/orders/12", "seller", true},
		{"/unmapped/path", "buyer", true},
		{"/unmapped/path", "", true},
		{"/admin/users", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.role+tt.path, func(t *testing.T) {
			var u *auth.User
			if tt.role != "" {
				u = userWithRole(tt.role)
			}
			assert.Equal(t, tt.want, New(u).CanAccessRoute(tt.path))
		})
	}
}

func TestCanPerformAction(t *testing.T) {
	assert.False(t, New(userWithRole("seller")).CanPerformAction("delete", "user"))
	assert.True(t, New(userWithRole("admin")).CanPerformAction("delete", "user"))
	assert.True(t, New(userWithRole("seller")).CanPerformAction("Update", "Product"))
	assert.True(t, New(userWithRole("buyer")).CanPerformAction("checkout", "cart"))
	assert.False(t, New(userWithRole("admin")).CanPerformAction("checkout", "cart"))

	// Pairs absent from the table are refused for every role.
	for _, role := range []string{"admin", "seller", "buyer"} {
		assert.False(t, New(userWithRole(role)).CanPerformAction("archive", "product"), role)
		assert.False(t, New(userWithRole(role)).CanPerformAction("delete", "order"), role)
	}
	assert.False(t, New(nil).CanPerformAction("view", "product"))
}

func TestRouteDefaultAllowActionDefaultDeny(t *testing.T) {
	r := New(userWithRole("buyer"))
	assert.True(t, r.CanAccessRoute("/nowhere"))
	assert.False(t, r.CanPerformAction("nowhere", "nothing"))
}

func TestAccessibleRoutes(t *testing.T) {
	assert.Equal(t, []string{"/"}, New(nil).AccessibleRoutes())
	assert.Equal(t, []string{"/"}, New(userWithRole("auditor")).AccessibleRoutes())
	assert.Equal(t, "/admin/dashboard", New(userWithRole("admin")).HomeRoute())
	assert.Equal(t, []string{"/products", "/cart", "/orders", "/profile"}, New(userWithRole("buyer")).AccessibleRoutes())

	routes := New(userWithRole("seller")).AccessibleRoutes()
	routes[0] = "/mutated"
	assert.Equal(t, "/seller/dashboard", New(userWithRole("seller")).HomeRoute())
}

func TestHasPermissionFromEitherSource(t *testing.T) {
	// Granted by the role payload only.
	r := New(userWithRole("buyer", "export-reports"))
	assert.True(t, r.HasPermission("export-reports"))

	// Granted by the static table only.
	r = New(userWithRole("buyer"))
	assert.True(t, r.HasPermission("checkout"))

	// Granted by neither.
	assert.False(t, r.HasPermission("manage-users"))
	assert.False(t, New(nil).HasPermission("view-products"))
}

// Which source is authoritative is undecided; these cases pin the current
// union behaviour and flag where the two sources disagree.
func TestPermissionSourcesDisagreement(t *testing.T) {
	tests := []struct {
		name       string
		user       *auth.User
		permission string
		want       Grant
	}{
		{"role payload only", userWithRole("seller", "export-reports"), "export-reports", Grant{FromRoles: true}},
		{"static table only", userWithRole("seller"), "create-products", Grant{FromTable: true}},
		{"both agree", userWithRole("admin", "manage-users"), "manage-users", Grant{FromRoles: true, FromTable: true}},
		{"neither", userWithRole("buyer"), "delete-users", Grant{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.user).PermissionSources(tt.permission)
			assert.Equal(t, tt.want, g)
			assert.Equal(t, tt.want.FromRoles != tt.want.FromTable, g.Conflicting())
		})
	}
}

func TestPermissionsFlattenedAcrossRoles(t *testing.T) {
	u := &auth.User{Roles: []auth.Role{
		{Name: "buyer"},
		{Name: "auditor", Permissions: []auth.Permission{{Name: "view-audit"}}},
	}}
	r := New(u)
	assert.Equal(t, "buyer", r.Role())
	assert.True(t, r.HasPermission("view-audit"))
}

func TestFromStore(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	assert.False(t, FromStore(ctx, store).CanAccessRoute("/admin"))

	require.NoError(t, store.SetSession(ctx, "tok", userWithRole("admin")))
	assert.True(t, FromStore(ctx, store).CanAccessRoute("/admin"))
}

func TestCategory(t *testing.T) {
	assert.Equal(t, CategoryView, Category("view-products"))
	assert.Equal(t, CategoryManage, Category("Manage-Users"))
	assert.Equal(t, CategoryDelete, Category("delete-roles"))
	assert.Equal(t, CategoryOther, Category("checkout"))
	assert.Equal(t, CategoryOther, Category("viewer"))

	groups := GroupPermissions([]auth.Permission{{Name: "view-users"}, {Name: "view-cart"}, {Name: "checkout"}})
	require.Len(t, groups[CategoryView], 2)
	assert.Equal(t, "view-cart", groups[CategoryView][0].Name)
	assert.Len(t, groups[CategoryOther], 1)
}
