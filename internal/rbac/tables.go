// Package rbac gates routes and actions from the cached session. It is
// advisory only: the backend remains the authority on every request.
package rbac

const (
	RoleAdmin  = "admin"
	RoleSeller = "seller"
	RoleBuyer  = "buyer"
)

// rolePermissions is the static fallback consulted by HasPermission.
var rolePermissions = map[string][]string{
	RoleAdmin: {
		"view-dashboard",
		"view-users", "create-users", "edit-users", "delete-users", "manage-users",
		"view-roles", "manage-roles",
		"view-permissions", "manage-permissions",
		"view-products", "manage-products", "delete-products",
		"view-orders", "manage-orders",
	},
	RoleSeller: {
		"view-dashboard",
		"view-products", "create-products", "edit-products", "delete-products", "manage-products",
		"view-orders",
	},
	RoleBuyer: {
		"view-products",
		"view-cart", "manage-cart", "checkout",
		"view-orders",
	},
}

// DefaultPermissions lists the permissions a role is granted by the static table.
func DefaultPermissions(role string) []string {
	return append([]string(nil), rolePermissions[role]...)
}

type routeRule struct {
	prefix string
	roles  []string
}

// routeRules are matched in order; the first matching prefix decides.
var routeRules = []routeRule{
	{prefix: "/admin", roles: []string{RoleAdmin}},
	{prefix: "/seller", roles: []string{RoleSeller}},
	{prefix: "/buyer", roles: []string{RoleBuyer}},
	{prefix: "/cart", roles: []string{RoleBuyer}},
	{prefix: "/checkout", roles: []string{RoleBuyer}},
	{prefix: "/orders", roles: []string{RoleBuyer, RoleSeller, RoleAdmin}},
	{prefix: "/dashboard", roles: []string{RoleAdmin, RoleSeller, RoleBuyer}},
	{prefix: "/profile", roles: []string{RoleAdmin, RoleSeller, RoleBuyer}},
}

// Actions and resources used by CanPerformAction.
const (
	ActionCreate   = "create"
	ActionView     = "view"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionCheckout = "checkout"

	ResourceUser       = "user"
	ResourceRole       = "role"
	ResourcePermission = "permission"
	ResourceProduct    = "product"
	ResourceOrder      = "order"
	ResourceCart       = "cart"
)

// actionRoles is default-deny: a missing action/resource pair is refused.
var actionRoles = map[string]map[string][]string{
	ActionCreate: {
		ResourceUser:       {RoleAdmin},
		ResourceRole:       {RoleAdmin},
		ResourcePermission: {RoleAdmin},
		ResourceProduct:    {RoleAdmin, RoleSeller},
		ResourceCart:       {RoleBuyer},
	},
	ActionView: {
		ResourceUser:       {RoleAdmin},
		ResourceRole:       {RoleAdmin},
		ResourcePermission: {RoleAdmin},
		ResourceProduct:    {RoleAdmin, RoleSeller, RoleBuyer},
		ResourceOrder:      {RoleAdmin, RoleSeller, RoleBuyer},
		ResourceCart:       {RoleBuyer},
	},
	ActionUpdate: {
		ResourceUser:       {RoleAdmin},
		ResourceRole:       {RoleAdmin},
		ResourcePermission: {RoleAdmin},
		ResourceProduct:    {RoleAdmin, RoleSeller},
		ResourceCart:       {RoleBuyer},
	},
	ActionDelete: {
		ResourceUser:       {RoleAdmin},
		ResourceRole:       {RoleAdmin},
		ResourcePermission: {RoleAdmin},
		ResourceProduct:    {RoleAdmin, RoleSeller},
		ResourceCart:       {RoleBuyer},
	},
	ActionCheckout: {
		ResourceCart: {RoleBuyer},
	},
}

// accessibleRoutes are the top-level screens per role, in menu order.
var accessibleRoutes = map[string][]string{
	RoleAdmin:  {"/admin/dashboard", "/admin/users", "/admin/roles", "/admin/permissions", "/admin/products", "/profile"},
	RoleSeller: {"/seller/dashboard", "/seller/products", "/seller/orders", "/profile"},
	RoleBuyer:  {"/products", "/cart", "/orders", "/profile"},
}
