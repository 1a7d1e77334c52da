package xerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRequestErrorSynthesizesMessage(t *testing.T) {
	err := NewRequestError(http.StatusBadGateway, "", "")
	assert.Equal(t, "HTTP error 502", err.Error())

	err = NewRequestError(http.StatusNotFound, "not_found", "product not found")
	assert.Equal(t, "product not found", err.Error())
}

func TestIsStockError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"structured code", &RequestError{Status: 422, Code: CodeInsufficientStock, Message: "nope"}, true},
		{"not enough substring", &RequestError{Status: 200, Message: "Not enough quantity available"}, true},
		{"insufficient substring", &RequestError{Status: 422, Message: "Insufficient stock for item"}, true},
		{"sentinel wrapped", fmt.Errorf("update: %w", ErrInsufficientStock), true},
		{"unrelated request error", &RequestError{Status: 500, Message: "database down"}, false},
		{"plain error mentioning stock", errors.New("not enough coffee"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStockError(tt.err))
		})
	}
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(&RequestError{Status: http.StatusUnauthorized, Message: "Unauthenticated."}))
	assert.True(t, IsUnauthorized(fmt.Errorf("wrap: %w", ErrSessionExpired)))
	assert.False(t, IsUnauthorized(&RequestError{Status: http.StatusForbidden, Message: "forbidden"}))
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(&RequestError{Status: 0, Message: "dial tcp: refused", Err: errors.New("refused")}))
	assert.True(t, IsTransient(&RequestError{Status: http.StatusServiceUnavailable, Message: "HTTP error 503"}))
	assert.False(t, IsTransient(&RequestError{Status: http.StatusUnprocessableEntity, Message: "invalid"}))
	assert.False(t, IsTransient(&RequestError{Status: 0, Message: "canceled", Err: context.Canceled}))
	assert.False(t, IsTransient(nil))
}

func TestStatusAndCodeFor(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(ErrInsufficientStock))
	assert.Equal(t, CodeInsufficientStock, CodeFor(fmt.Errorf("x: %w", ErrInsufficientStock)))
	assert.Equal(t, http.StatusNotFound, StatusFor(ErrNotFound))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))
	assert.Empty(t, CodeFor(errors.New("boom")))
}

func TestWithMessage(t *testing.T) {
	err := WithMessage(ErrInsufficientStock, "Not enough quantity available")
	assert.Equal(t, "Not enough quantity available", err.Error())
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(err))
	assert.Equal(t, CodeInsufficientStock, CodeFor(err))
}
