package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/client"
	"storefront/internal/config"
	"storefront/internal/domain/admin"
	"storefront/internal/domain/catalog"
	xerrors "storefront/internal/pkg/errors"
	"storefront/internal/pkg/session"
	"storefront/internal/rbac"
	adminUsecase "storefront/internal/service/admin"
	"storefront/internal/workflow/account"
	cartflow "storefront/internal/workflow/cart"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticToken string

func (s staticToken) Token(context.Context) (string, bool) { return string(s), s != "" }

func newBackend(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.AppConfig{}
	cfg.DevAPI.JWTSecret = "test-secret-0123456789"
	cfg.DevAPI.JWTIssuer = "storefront-test"
	cfg.DevAPI.Seed = true
	cfg.Sanitize()

	srv, err := NewServer(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL + "/api"
}

type actor struct {
	store   *session.MemoryStore
	api     *client.Client
	account *account.Service
}

func login(t *testing.T, baseURL, email string) *actor {
	t.Helper()
	store := session.NewMemoryStore()
	api := client.New(baseURL, store, nil)
	acct := account.NewService(api, store, nil)
	_, err := acct.Login(context.Background(), email, adminUsecase.SeedPassword)
	require.NoError(t, err)
	return &actor{store: store, api: api, account: acct}
}

func productByTitle(t *testing.T, products []catalog.Product, title string) catalog.Product {
	t.Helper()
	for _, p := range products {
		if p.Title == title {
			return p
		}
	}
	t.Fatalf("product %q not found", title)
	return catalog.Product{}
}

func TestLoginStoresSessionAndDrivesRBAC(t *testing.T) {
	ctx := context.Background()
	base := newBackend(t)
	buyer := login(t, base, "buyer@storefront.test")

	snap := session.Snapshot(ctx, buyer.store)
	require.True(t, snap.Authenticated())
	assert.Equal(t, "buyer", snap.User.EffectiveRole())

	r := rbac.FromStore(ctx, buyer.store)
	assert.True(t, r.CanAccessRoute("/cart"))
	assert.False(t, r.CanAccessRoute("/admin/users"))
	assert.True(t, r.HasPermission("checkout"))
	assert.True(t, r.PermissionSources("checkout").FromRoles)
}

func TestBadCredentials(t *testing.T) {
	base := newBackend(t)
	store := session.NewMemoryStore()
	acct := account.NewService(client.New(base, store, nil), store, nil)

	_, err := acct.Login(context.Background(), "buyer@storefront.test", "wrong-password")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
	assert.True(t, xerrors.IsUnauthorized(err))
	assert.False(t, session.Snapshot(context.Background(), store).Authenticated())
}

func TestPublicCatalog(t *testing.T) {
	base := newBackend(t)
	products, err := client.New(base, nil, nil).Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)

	hub := productByTitle(t, products, "USB-C Hub")
	assert.True(t, hub.Price.Equal(decimal.RequireFromString("34.50")))
	assert.Equal(t, 3, hub.Quantity)
	assert.Equal(t, "Sam Seller", hub.Seller.Name)
}

func TestCartWorkflowAgainstBackend(t *testing.T) {
	ctx := context.Background()
	base := newBackend(t)
	buyer := login(t, base, "buyer@storefront.test")
	wf := cartflow.NewWorkflow(buyer.api, nil)

	products, err := buyer.api.Products(ctx)
	require.NoError(t, err)
	hub := productByTitle(t, products, "USB-C Hub")
	lamp := productByTitle(t, products, "Desk Lamp")

	_, err = wf.Add(ctx, lamp, 1)
	msg, ok := cartflow.StockMessage(err)
	require.True(t, ok)
	assert.Equal(t, "This product is out of stock", msg)

	items, err := wf.Add(ctx, hub, 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	items, err = wf.Increment(ctx, items[0])
	require.NoError(t, err)
	assert.Equal(t, 3, items[0].Quantity)

	_, err = wf.Increment(ctx, items[0])
	msg, ok = cartflow.StockMessage(err)
	require.True(t, ok)
	assert.Equal(t, "Only 3 left in stock", msg)

	// A stale product snapshot lets the request through; the server refuses it.
	err = buyer.api.AddToCart(ctx, hub.ID, 1)
	require.Error(t, err)
	re, ok := client.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, re.Status)
	assert.Equal(t, xerrors.CodeInsufficientStock, re.Code)
	assert.Equal(t, "Not enough quantity available", re.Message)
	assert.True(t, xerrors.IsStockError(err))
	assert.Equal(t, 3, wf.Items()[0].Quantity)
}

func TestCheckoutEmptiesCartAndSnapshotsPrices(t *testing.T) {
	ctx := context.Background()
	base := newBackend(t)
	buyer := login(t, base, "buyer@storefront.test")
	wf := cartflow.NewWorkflow(buyer.api, nil)

	products, err := buyer.api.Products(ctx)
	require.NoError(t, err)
	keyboard := productByTitle(t, products, "Mechanical Keyboard")
	hub := productByTitle(t, products, "USB-C Hub")

	_, err = wf.Add(ctx, keyboard, 1)
	require.NoError(t, err)
	_, err = wf.Add(ctx, hub, 2)
	require.NoError(t, err)
	assert.Equal(t, "158.9", wf.Subtotal().String())

	b, items, err := wf.Checkout(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	require.Len(t, b.Items, 2)
	assert.True(t, b.TotalAmount.Equal(decimal.RequireFromString("158.90")))
	assert.NotEmpty(t, b.Reference)

	after, err := buyer.api.Product(ctx, hub.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.Quantity)

	bills, err := buyer.api.Bills(ctx)
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, b.ID, bills[0].ID)
	for _, it := range bills[0].Items {
		if it.Product.ID == hub.ID {
			assert.True(t, it.PriceAtTime.Equal(hub.Price))
		}
	}

	_, _, err = wf.Checkout(ctx)
	require.Error(t, err)
	re, ok := client.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, "empty_cart", re.Code)
}

func TestCheckoutReplayIsIdempotent(t *testing.T) {
	ctx := context.Background()
	base := newBackend(t)
	buyer := login(t, base, "buyer@storefront.test")

	products, err := buyer.api.Products(ctx)
	require.NoError(t, err)
	keyboard := productByTitle(t, products, "Mechanical Keyboard")
	require.NoError(t, buyer.api.AddToCart(ctx, keyboard.ID, 2))

	first, err := buyer.api.Checkout(ctx, "01HZXKEY")
	require.NoError(t, err)
	second, err := buyer.api.Checkout(ctx, "01HZXKEY")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	after, err := buyer.api.Product(ctx, keyboard.ID)
	require.NoError(t, err)
	assert.Equal(t, keyboard.Quantity-2, after.Quantity)
}

func TestLogoutRevokesTokenAndClearsSession(t *testing.T) {
	ctx := context.Background()
	base := newBackend(t)
	buyer := login(t, base, "buyer@storefront.test")
	token, ok := buyer.store.Token(ctx)
	require.True(t, ok)

	require.NoError(t, buyer.account.Logout(ctx))
	assert.False(t, session.Snapshot(ctx, buyer.store).Authenticated())

	_, err := client.New(base, staticToken(token), nil).Profile(ctx)
	require.Error(t, err)
	assert.True(t, xerrors.IsUnauthorized(err))
}

func TestUnauthorizedResponseClearsSession(t *testing.T) {
	ctx := context.Background()
	base := newBackend(t)
	buyer := login(t, base, "buyer@storefront.test")

	token, _ := buyer.store.Token(ctx)
	err := client.New(base, staticToken(token), nil).Do(ctx, http.MethodPost, "/logout", nil, nil)
	require.NoError(t, err)

	_, err = buyer.account.RefreshProfile(ctx)
	require.Error(t, err)
	assert.False(t, session.Snapshot(ctx, buyer.store).Authenticated())
}

func TestRoleGates(t *testing.T) {
	ctx := context.Background()
	base := newBackend(t)
	buyer := login(t, base, "buyer@storefront.test")
	seller := login(t, base, "seller@storefront.test")

	_, err := buyer.api.Users(ctx, admin.ListFilters{})
	re, ok := client.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, re.Status)

	_, err = buyer.api.CreateProduct(ctx, catalog.CreateProductRequest{Title: "Nope", Price: decimal.NewFromInt(1), Quantity: 1})
	re, ok = client.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, re.Status)

	_, err = seller.api.Cart(ctx)
	re, ok = client.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, re.Status)
}

func TestSellerManagesOwnProducts(t *testing.T) {
	ctx := context.Background()
	base := newBackend(t)
	seller := login(t, base, "seller@storefront.test")

	p, err := seller.api.CreateProduct(ctx, catalog.CreateProductRequest{
		Title:    "Monitor Arm",
		Price:    decimal.RequireFromString("45.00"),
		Quantity: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sam Seller", p.Seller.Name)

	qty := 9
	updated, err := seller.api.UpdateProduct(ctx, p.ID, catalog.UpdateProductRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Quantity)

	mine, err := seller.api.SellerProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, mine, 4)

	require.NoError(t, seller.api.DeleteProduct(ctx, p.ID))
	_, err = seller.api.Product(ctx, p.ID)
	re, ok := client.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, re.Status)
}

func TestAdminManagesUsersRolesPermissions(t *testing.T) {
	ctx := context.Background()
	base := newBackend(t)
	adm := login(t, base, "admin@storefront.test")

	page, err := adm.api.Users(ctx, admin.ListFilters{Role: "buyer"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	perm, err := adm.api.CreatePermission(ctx, "view-reports")
	require.NoError(t, err)

	role, err := adm.api.CreateRole(ctx, admin.RoleRequest{Name: "Auditor", Permissions: []string{perm.Name}})
	require.NoError(t, err)
	assert.Equal(t, "auditor", role.Name)
	require.Len(t, role.Permissions, 1)

	user, err := adm.api.CreateUser(ctx, admin.CreateUserRequest{
		Name:     "Carl Checker",
		Email:    "carl@storefront.test",
		Password: "long-enough",
		Roles:    []string{"buyer"},
	})
	require.NoError(t, err)

	user, err = adm.api.AssignRole(ctx, user.ID, "auditor", "buyer")
	require.NoError(t, err)
	assert.Equal(t, "auditor", user.EffectiveRole())
	assert.Contains(t, user.PermissionNames(), "view-reports")

	_, err = adm.api.CreateUser(ctx, admin.CreateUserRequest{Name: "Dup", Email: "carl@storefront.test", Password: "long-enough"})
	re, ok := client.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, re.Status)

	require.NoError(t, adm.api.DeletePermission(ctx, perm.ID))
	roles, err := adm.api.Roles(ctx)
	require.NoError(t, err)
	for _, r := range roles {
		if r.ID == role.ID {
			assert.Empty(t, r.Permissions)
		}
	}

	stats, err := adm.api.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Users)
	assert.Equal(t, 1, stats.OutOfStock)

	require.NoError(t, adm.api.DeleteUser(ctx, user.ID))
}
