// internal/service/admin/seed.go
package admin

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain/admin"
	"storefront/internal/domain/auth"
	"storefront/internal/domain/catalog"
	xerrors "storefront/internal/pkg/errors"
	"storefront/internal/rbac"
	authsvc "storefront/internal/service/auth"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "password123"

// SeedAccount is one of the accounts created on first start.
type SeedAccount struct {
	Name  string
	Email string
	Role  string
}

var SeedAccounts = []SeedAccount{
	{Name: "Ada Admin", Email: "admin@storefront.test", Role: rbac.RoleAdmin},
	{Name: "Sam Seller", Email: "seller@storefront.test", Role: rbac.RoleSeller},
	{Name: "Bea Buyer", Email: "buyer@storefront.test", Role: rbac.RoleBuyer},
}

var seedProducts = []catalog.Product{
	{Title: "Mechanical Keyboard", Description: "Tenkeyless, brown switches", Price: decimal.RequireFromString("89.90"), Quantity: 12},
	{Title: "USB-C Hub", Description: "7 ports, 100W passthrough", Price: decimal.RequireFromString("34.50"), Quantity: 3},
	{Title: "Desk Lamp", Description: "Dimmable LED", Price: decimal.RequireFromString("19.99"), Quantity: 0},
}

// EnsureSeedData creates the permission catalog, the three standard roles,
// one account per role and a few products owned by the seller. It is a no-op
// when the admin account already exists.
func (s *AdminService) EnsureSeedData(ctx context.Context, products catalog.Repository) error {
	if _, err := s.repo.FindUserByEmail(ctx, SeedAccounts[0].Email); err == nil {
		s.logger.Info("seed data already present, skipping")
		return nil
	} else if !errors.Is(err, xerrors.ErrNotFound) {
		return fmt.Errorf("failed to check seed data: %w", err)
	}

	perms := make(map[string]auth.Permission)
	for _, role := range []string{rbac.RoleAdmin, rbac.RoleSeller, rbac.RoleBuyer} {
		granted := make([]auth.Permission, 0)
		for _, name := range rbac.DefaultPermissions(role) {
			p, ok := perms[name]
			if !ok {
				p = auth.Permission{Name: name}
				if err := s.repo.CreatePermission(ctx, &p); err != nil {
					return fmt.Errorf("failed to seed permission %s: %w", name, err)
				}
				perms[name] = p
			}
			granted = append(granted, p)
		}
		if err := s.repo.CreateRole(ctx, &auth.Role{Name: role, Permissions: granted}); err != nil {
			return fmt.Errorf("failed to seed role %s: %w", role, err)
		}
	}

	hashed, err := authsvc.HashPassword(SeedPassword)
	if err != nil {
		return err
	}

	var seller *auth.User
	for _, acct := range SeedAccounts {
		role, err := s.repo.FindRoleByName(ctx, acct.Role)
		if err != nil {
			return fmt.Errorf("failed to load role %s: %w", acct.Role, err)
		}
		record := &admin.UserRecord{
			User:         auth.User{Name: acct.Name, Email: acct.Email, Roles: []auth.Role{*role}},
			PasswordHash: hashed,
		}
		if err := s.repo.CreateUser(ctx, record); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", acct.Email, err)
		}
		if acct.Role == rbac.RoleSeller {
			seller = &record.User
		}
	}

	for _, p := range seedProducts {
		p.Seller = catalog.Seller{ID: seller.ID, Name: seller.Name, Email: seller.Email}
		if err := products.Create(ctx, &p); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.Title, err)
		}
	}

	s.logger.Info("seed data created",
		zap.Int("accounts", len(SeedAccounts)),
		zap.Int("products", len(seedProducts)),
	)
	return nil
}
