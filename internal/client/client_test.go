package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/domain/admin"
	"storefront/internal/domain/auth"
	xerrors "storefront/internal/pkg/errors"
	"storefront/internal/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) (*Client, *session.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	store := session.NewMemoryStore()
	return New(srv.URL, store, nil, opts...), store
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestHeadersWithToken(t *testing.T) {
	var got http.Header
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		writeJSON(w, http.StatusOK, `{"status":"success","data":[]}`)
	})
	require.NoError(t, store.SetSession(context.Background(), "secret-token", &auth.User{ID: 1}))

	_, err := c.Products(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, "Bearer secret-token", got.Get("Authorization"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))
}

func TestNoAuthorizationWithoutToken(t *testing.T) {
	var got http.Header
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		writeJSON(w, http.StatusOK, `{"status":"success","data":[]}`)
	})

	_, err := c.Products(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
}

func TestBodyOmittedWhenAbsent(t *testing.T) {
	var body []byte
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		writeJSON(w, http.StatusOK, `{"status":"success"}`)
	})

	_, err := c.Checkout(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, body)
}

func TestBodySerialized(t *testing.T) {
	var payload map[string]any
	var method, path string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		writeJSON(w, http.StatusOK, `{"status":"success"}`)
	})

	require.NoError(t, c.UpdateCartQuantity(context.Background(), 9, 3))
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/cart/update-quantity", path)
	assert.Equal(t, map[string]any{"product_id": float64(9), "quantity": float64(3)}, payload)
}

func TestNon2xxWithMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"status":"error","message":"Unauthenticated."}`)
	})

	_, err := c.Profile(context.Background())
	require.Error(t, err)
	re, ok := AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, "Unauthenticated.", re.Error())
	assert.Equal(t, http.StatusUnauthorized, re.Status)
	assert.True(t, xerrors.IsUnauthorized(err))
}

func TestNon2xxWithoutJSON(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "<html>oops</html>")
	})

	_, err := c.Profile(context.Background())
	require.EqualError(t, err, "HTTP error 500")
}

func TestLogicalErrorAt200(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"status":"error","message":"Not enough quantity available"}`)
	})

	err := c.UpdateCartQuantity(context.Background(), 1, 10)
	require.EqualError(t, err, "Not enough quantity available")
	assert.True(t, xerrors.IsStockError(err))
}

func TestStructuredCodePreserved(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, `{"status":"error","message":"Only 2 left","code":"insufficient_stock"}`)
	})

	err := c.AddToCart(context.Background(), 1, 5)
	re, ok := AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, xerrors.CodeInsufficientStock, re.Code)
	assert.True(t, xerrors.IsStockError(err))
}

func TestDataDecoded(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"status":"success","data":[
			{"id":1,"title":"Mug","price":"12.50","quantity":4,"seller":{"id":2,"name":"Sam"}},
			{"id":2,"title":"Pen","price":3,"quantity":0,"seller":{"id":2,"name":"Sam"}}
		]}`)
	})

	products, err := c.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "12.5", products[0].Price.String())
	assert.Equal(t, "3", products[1].Price.String())
	assert.False(t, products[1].InStock())
}

func TestEmptySuccessBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.DeleteProduct(context.Background(), 3))
}

func TestMalformedEnvelope(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `not json`)
	})
	_, err := c.Profile(context.Background())
	require.EqualError(t, err, "malformed response envelope")
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, nil, nil)
	_, err := c.Products(context.Background())
	re, ok := AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, 0, re.Status)
	assert.NotEmpty(t, re.Message)
}

func TestNoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Products(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRetriesIdempotentGetOnly(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, `{"status":"success","data":[]}`)
	}, WithMaxRetries(3, time.Millisecond))

	_, err := c.Cart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())

	calls.Store(0)
	err = c.AddToCart(context.Background(), 1, 1)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCancelledContext(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Cart(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCheckoutSendsIdempotencyKey(t *testing.T) {
	var key string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		key = r.Header.Get(IdempotencyHeader)
		writeJSON(w, http.StatusOK, `{"status":"success","data":{"id":5,"total_amount":"25.00","items":[]}}`)
	})

	b, err := c.Checkout(context.Background(), "01J0000000000000000000000A")
	require.NoError(t, err)
	assert.Equal(t, "01J0000000000000000000000A", key)
	require.NotNil(t, b)
	assert.Equal(t, int64(5), b.ID)
}

func TestListQuery(t *testing.T) {
	var raw string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw = r.URL.RawQuery
		writeJSON(w, http.StatusOK, `{"status":"success","data":{"data":[],"current_page":2,"last_page":2,"per_page":5,"total":6}}`)
	})

	page, err := c.Users(context.Background(), admin.ListFilters{Search: "sel", Page: 2, PerPage: 5})
	require.NoError(t, err)
	assert.Equal(t, "page=2&per_page=5&search=sel", raw)
	assert.Equal(t, 6, page.Total)
}
