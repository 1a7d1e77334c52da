package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"storefront/internal/domain/auth"
	xerrors "storefront/internal/pkg/errors"
	"storefront/internal/pkg/session"
	"storefront/internal/workflow/account"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// unauthorizedServer answers every request with a 401 envelope.
func unauthorizedServer(t *testing.T, message string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"status":"error","message":"`+message+`","code":"unauthorized"}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// seededSession points the CLI at a file session holding a logged-in buyer.
func seededSession(t *testing.T) *session.FileStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	t.Setenv("SESSION_BACKEND", "file")
	t.Setenv("SESSION_PATH", path)
	t.Setenv("LOG_LEVEL", "error")

	store := session.NewFileStore(path, nil)
	require.NoError(t, store.SetSession(context.Background(), "old-token", &auth.User{ID: 3, Email: "buyer@storefront.test"}))
	return store
}

func TestFailedLoginKeepsExistingSession(t *testing.T) {
	store := seededSession(t)
	srv := unauthorizedServer(t, "Invalid credentials")

	err := newRootCommand().Run(context.Background(), []string{
		"storefront", "--api-url", srv.URL, "login", "--email", "buyer@storefront.test", "--password", "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())

	token, ok := store.Token(context.Background())
	require.True(t, ok)
	assert.Equal(t, "old-token", token)
}

func TestUnauthorizedCommandClearsSession(t *testing.T) {
	store := seededSession(t)
	srv := unauthorizedServer(t, "Unauthenticated.")

	err := newRootCommand().Run(context.Background(), []string{
		"storefront", "--api-url", srv.URL, "profile", "show",
	})
	require.Error(t, err)
	assert.True(t, xerrors.IsUnauthorized(err))

	_, ok := store.Token(context.Background())
	assert.False(t, ok)
}

func TestHandleFailure(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	e := &env{store: store, account: account.NewService(nil, store, zap.NewNop())}

	require.NoError(t, store.SetSession(ctx, "tok", &auth.User{ID: 1}))
	var out bytes.Buffer
	e.handleFailure(ctx, errors.New("network down"), &out)
	assert.Empty(t, out.String())
	_, ok := store.Token(ctx)
	assert.True(t, ok)

	e.handleFailure(ctx, xerrors.NewRequestError(http.StatusUnauthorized, "", "Unauthenticated."), &out)
	assert.Contains(t, out.String(), "storefront login")
	_, ok = store.Token(ctx)
	assert.False(t, ok)
}
