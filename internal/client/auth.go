// internal/client/auth.go
package client

import (
	"context"
	"net/http"

	"storefront/internal/domain/auth"
)

// Login exchanges credentials for a token and user snapshot.
func (c *Client) Login(ctx context.Context, email, password string) (*auth.LoginResponse, error) {
	var out auth.LoginResponse
	if err := c.Do(ctx, http.MethodPost, "/login", auth.LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the current token server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.Do(ctx, http.MethodPost, "/logout", nil, nil)
}

// Profile returns the authenticated user.
func (c *Client) Profile(ctx context.Context) (*auth.User, error) {
	var out auth.User
	if err := c.Do(ctx, http.MethodGet, "/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile applies a partial profile update and returns the stored user.
func (c *Client) UpdateProfile(ctx context.Context, req auth.UpdateProfileRequest) (*auth.User, error) {
	var out auth.User
	if err := c.Do(ctx, http.MethodPut, "/profile", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
