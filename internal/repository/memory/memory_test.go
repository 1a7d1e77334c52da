package memory

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/admin"
	"storefront/internal/domain/auth"
	"storefront/internal/domain/catalog"
	xerrors "storefront/internal/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProduct(t *testing.T, repo *ProductRepository, title, price string, qty int) *catalog.Product {
	t.Helper()
	p := &catalog.Product{Title: title, Price: decimal.RequireFromString(price), Quantity: qty}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestCartAddMergesAndRespectsStock(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	products := NewProductRepository(db)
	carts := NewCartRepository(db)
	p := seedProduct(t, products, "Hub", "10.00", 3)

	require.NoError(t, carts.Add(ctx, 1, p.ID, 2))
	require.NoError(t, carts.Add(ctx, 1, p.ID, 1))

	err := carts.Add(ctx, 1, p.ID, 1)
	assert.ErrorIs(t, err, xerrors.ErrInsufficientStock)
	assert.Equal(t, StockMessage, err.Error())

	items, err := carts.Items(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)

	assert.ErrorIs(t, carts.SetQuantity(ctx, 1, 999, 1), xerrors.ErrNotFound)
	assert.ErrorIs(t, carts.SetQuantity(ctx, 2, p.ID, 1), xerrors.ErrNotFound)
}

func TestCheckoutIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	products := NewProductRepository(db)
	carts := NewCartRepository(db)
	a := seedProduct(t, products, "A", "5.00", 5)
	b := seedProduct(t, products, "B", "7.50", 2)

	require.NoError(t, carts.Add(ctx, 1, a.ID, 2))
	require.NoError(t, carts.Add(ctx, 1, b.ID, 2))

	// Stock drops underneath the cart.
	b.Quantity = 1
	require.NoError(t, products.Update(ctx, b))

	_, _, err := carts.Checkout(ctx, 1, "k1", "REF-1")
	assert.ErrorIs(t, err, xerrors.ErrInsufficientStock)

	stillA, err := products.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stillA.Quantity)
	items, _ := carts.Items(ctx, 1)
	assert.Len(t, items, 2)
}

func TestCheckoutSnapshotsAndDedupes(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	products := NewProductRepository(db)
	carts := NewCartRepository(db)
	bills := NewBillRepository(db)
	a := seedProduct(t, products, "A", "5.00", 5)

	require.NoError(t, carts.Add(ctx, 1, a.ID, 2))
	first, replayed, err := carts.Checkout(ctx, 1, "k1", "REF-1")
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.True(t, first.TotalAmount.Equal(decimal.RequireFromString("10")))

	a.Price = decimal.RequireFromString("6.00")
	require.NoError(t, products.Update(ctx, a))

	again, replayed, err := carts.Checkout(ctx, 1, "k1", "REF-2")
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, first.ID, again.ID)
	assert.True(t, again.Items[0].PriceAtTime.Equal(decimal.RequireFromString("5.00")))

	_, _, err = carts.Checkout(ctx, 1, "k2", "REF-3")
	assert.ErrorIs(t, err, xerrors.ErrEmptyCart)

	list, err := bills.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	left, err := products.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, left.Quantity)
}

func TestDeletingProductDropsCartLines(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	products := NewProductRepository(db)
	carts := NewCartRepository(db)
	a := seedProduct(t, products, "A", "1.00", 5)

	require.NoError(t, carts.Add(ctx, 1, a.ID, 1))
	require.NoError(t, products.Delete(ctx, a.ID))
	items, err := carts.Items(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRoleAndPermissionCascades(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(NewDB())

	perm := &auth.Permission{Name: "view-products"}
	require.NoError(t, repo.CreatePermission(ctx, perm))
	role := &auth.Role{Name: "Buyer", Permissions: []auth.Permission{*perm}}
	require.NoError(t, repo.CreateRole(ctx, role))
	assert.Equal(t, "buyer", role.Name)

	user := &admin.UserRecord{User: auth.User{Name: "Bea", Email: " Bea@Example.com ", Roles: []auth.Role{*role}}, PasswordHash: "x"}
	require.NoError(t, repo.CreateUser(ctx, user))
	assert.Equal(t, "bea@example.com", user.Email)
	assert.Equal(t, "buyer", user.Role)

	dup := &admin.UserRecord{User: auth.User{Email: "bea@example.com"}}
	assert.ErrorIs(t, repo.CreateUser(ctx, dup), xerrors.ErrConflict)

	require.NoError(t, repo.DeletePermission(ctx, perm.ID))
	found, err := repo.FindUserByEmail(ctx, "BEA@example.com")
	require.NoError(t, err)
	require.Len(t, found.Roles, 1)
	assert.Empty(t, found.Roles[0].Permissions)

	require.NoError(t, repo.DeleteRole(ctx, role.ID))
	found, err = repo.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Roles)
	assert.Equal(t, "", found.EffectiveRole())
}

func TestRevocation(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	tokens := NewTokenRepository(db)

	require.NoError(t, tokens.Revoke(ctx, "jti-1", db.now().Add(-1)))
	require.NoError(t, tokens.Revoke(ctx, "jti-2", db.now().Add(time.Hour)))

	revoked, err := tokens.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.True(t, revoked)

	// jti-1 had already expired and was pruned by the second write.
	revoked, err = tokens.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
