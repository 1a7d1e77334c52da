package account

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"storefront/internal/domain/auth"
	xerrors "storefront/internal/pkg/errors"
	"storefront/internal/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) Login(ctx context.Context, email, password string) (*auth.LoginResponse, error) {
	args := m.Called(ctx, email, password)
	resp, _ := args.Get(0).(*auth.LoginResponse)
	return resp, args.Error(1)
}

func (m *mockAPI) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockAPI) Profile(ctx context.Context) (*auth.User, error) {
	args := m.Called(ctx)
	u, _ := args.Get(0).(*auth.User)
	return u, args.Error(1)
}

func (m *mockAPI) UpdateProfile(ctx context.Context, req auth.UpdateProfileRequest) (*auth.User, error) {
	args := m.Called(ctx, req)
	u, _ := args.Get(0).(*auth.User)
	return u, args.Error(1)
}

func buyer() auth.User {
	return auth.User{ID: 7, Name: "Bea", Email: "bea@example.com", Roles: []auth.Role{{ID: 3, Name: "buyer"}}}
}

func loggedIn(t *testing.T) (*Service, *mockAPI, *session.MemoryStore) {
	t.Helper()
	api := &mockAPI{}
	store := session.NewMemoryStore()
	u := buyer()
	require.NoError(t, store.SetSession(context.Background(), "tok", &u))
	return NewService(api, store, nil), api, store
}

func TestLoginStoresSession(t *testing.T) {
	ctx := context.Background()
	api := &mockAPI{}
	store := session.NewMemoryStore()
	svc := NewService(api, store, nil)

	api.On("Login", mock.Anything, "bea@example.com", "secret").
		Return(&auth.LoginResponse{Token: "tok", User: buyer()}, nil).Once()

	user, err := svc.Login(ctx, "bea@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "buyer", user.EffectiveRole())

	token, ok := store.Token(ctx)
	require.True(t, ok)
	assert.Equal(t, "tok", token)
	stored, ok := store.User(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(7), stored.ID)
}

func TestLoginFailureLeavesSessionEmpty(t *testing.T) {
	ctx := context.Background()
	api := &mockAPI{}
	store := session.NewMemoryStore()
	svc := NewService(api, store, nil)

	api.On("Login", mock.Anything, "bea@example.com", "wrong").
		Return(nil, xerrors.NewRequestError(http.StatusUnauthorized, "", "Invalid credentials")).Once()

	_, err := svc.Login(ctx, "bea@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
	assert.False(t, session.Snapshot(ctx, store).Authenticated())
}

func TestLoginRequiresCredentials(t *testing.T) {
	api := &mockAPI{}
	svc := NewService(api, session.NewMemoryStore(), nil)

	_, err := svc.Login(context.Background(), "", "x")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	api.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogoutClearsEvenWhenServerFails(t *testing.T) {
	ctx := context.Background()
	svc, api, store := loggedIn(t)

	boom := errors.New("connection refused")
	api.On("Logout", mock.Anything).Return(boom).Once()

	err := svc.Logout(ctx)
	assert.ErrorIs(t, err, boom)
	_, ok := store.Token(ctx)
	assert.False(t, ok)
	_, ok = store.User(ctx)
	assert.False(t, ok)
}

func TestLogoutSuccess(t *testing.T) {
	ctx := context.Background()
	svc, api, store := loggedIn(t)
	api.On("Logout", mock.Anything).Return(nil).Once()

	require.NoError(t, svc.Logout(ctx))
	assert.False(t, session.Snapshot(ctx, store).Authenticated())
}

func TestRefreshProfileKeepsToken(t *testing.T) {
	ctx := context.Background()
	svc, api, store := loggedIn(t)

	updated := buyer()
	updated.Name = "Beatrice"
	api.On("Profile", mock.Anything).Return(&updated, nil).Once()

	user, err := svc.RefreshProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Beatrice", user.Name)

	snap := session.Snapshot(ctx, store)
	assert.Equal(t, "tok", snap.Token)
	assert.Equal(t, "Beatrice", snap.User.Name)
}

func TestUnauthorizedClearsSession(t *testing.T) {
	ctx := context.Background()
	svc, api, store := loggedIn(t)

	api.On("Profile", mock.Anything).
		Return(nil, xerrors.NewRequestError(http.StatusUnauthorized, "", "Unauthenticated.")).Once()

	_, err := svc.RefreshProfile(ctx)
	require.Error(t, err)
	assert.True(t, xerrors.IsUnauthorized(err))
	assert.False(t, session.Snapshot(ctx, store).Authenticated())
}

func TestOtherFailuresKeepSession(t *testing.T) {
	ctx := context.Background()
	svc, api, store := loggedIn(t)

	api.On("Profile", mock.Anything).
		Return(nil, xerrors.NewRequestError(http.StatusInternalServerError, "", "")).Once()

	_, err := svc.RefreshProfile(ctx)
	require.Error(t, err)
	assert.True(t, session.Snapshot(ctx, store).Authenticated())
}

func TestUpdateProfileChecksConfirmation(t *testing.T) {
	svc, api, _ := loggedIn(t)

	_, err := svc.UpdateProfile(context.Background(), auth.UpdateProfileRequest{
		CurrentPassword:      "old",
		Password:             "new-password",
		PasswordConfirmation: "typo",
	})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	api.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything)
}

func TestUpdateProfileRestoresUser(t *testing.T) {
	ctx := context.Background()
	svc, api, store := loggedIn(t)

	name := "Bee"
	req := auth.UpdateProfileRequest{Name: &name}
	updated := buyer()
	updated.Name = name
	api.On("UpdateProfile", mock.Anything, req).Return(&updated, nil).Once()

	_, err := svc.UpdateProfile(ctx, req)
	require.NoError(t, err)
	u, ok := store.User(ctx)
	require.True(t, ok)
	assert.Equal(t, "Bee", u.Name)
}
