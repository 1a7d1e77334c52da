// Package account owns the login lifecycle. It is the only writer of the
// session store; the API client only reads the token from it.
package account

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain/auth"
	xerrors "storefront/internal/pkg/errors"
	"storefront/internal/pkg/session"

	"go.uber.org/zap"
)

// API is the slice of the REST client the account flow needs.
type API interface {
	Login(ctx context.Context, email, password string) (*auth.LoginResponse, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*auth.User, error)
	UpdateProfile(ctx context.Context, req auth.UpdateProfileRequest) (*auth.User, error)
}

type Service struct {
	api    API
	store  session.Store
	logger *zap.Logger
}

func NewService(api API, store session.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, store: store, logger: logger}
}

// Login authenticates and stores the returned token and user.
func (s *Service) Login(ctx context.Context, email, password string) (*auth.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", xerrors.ErrInvalidInput)
	}

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.logger.Info("login failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: login response missing token", xerrors.ErrInternal)
	}

	user := &resp.User
	if err := s.store.SetSession(ctx, resp.Token, user); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	s.logger.Info("logged in",
		zap.Int64("user_id", user.ID),
		zap.String("role", user.EffectiveRole()),
	)
	return user, nil
}

// Logout revokes the token server-side and clears the local session even
// when the server call fails. The server error is still returned.
func (s *Service) Logout(ctx context.Context) error {
	apiErr := s.api.Logout(ctx)
	if apiErr != nil {
		s.logger.Warn("server logout failed, clearing local session", zap.Error(apiErr))
	}
	if err := s.store.ClearSession(ctx); err != nil {
		return errors.Join(apiErr, fmt.Errorf("failed to clear session: %w", err))
	}
	return apiErr
}

// RefreshProfile reloads the user and stores it alongside the current token.
func (s *Service) RefreshProfile(ctx context.Context) (*auth.User, error) {
	user, err := s.api.Profile(ctx)
	if err != nil {
		return nil, s.HandleAuthFailure(ctx, err)
	}
	return user, s.restore(ctx, user)
}

func (s *Service) UpdateProfile(ctx context.Context, req auth.UpdateProfileRequest) (*auth.User, error) {
	if req.ChangesPassword() && req.Password != req.PasswordConfirmation {
		return nil, fmt.Errorf("%w: password confirmation does not match", xerrors.ErrInvalidInput)
	}
	user, err := s.api.UpdateProfile(ctx, req)
	if err != nil {
		return nil, s.HandleAuthFailure(ctx, err)
	}
	return user, s.restore(ctx, user)
}

// Current returns the stored user, if any.
func (s *Service) Current(ctx context.Context) (*auth.User, bool) {
	return s.store.User(ctx)
}

// HandleAuthFailure clears the session when err says the token is no
// longer accepted. err is returned unchanged.
func (s *Service) HandleAuthFailure(ctx context.Context, err error) error {
	if !xerrors.IsUnauthorized(err) {
		return err
	}
	s.logger.Info("token rejected, clearing session", zap.Error(err))
	if clearErr := s.store.ClearSession(ctx); clearErr != nil {
		s.logger.Warn("failed to clear session", zap.Error(clearErr))
	}
	return err
}

func (s *Service) restore(ctx context.Context, user *auth.User) error {
	token, ok := s.store.Token(ctx)
	if !ok {
		return xerrors.ErrSessionExpired
	}
	if err := s.store.SetSession(ctx, token, user); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}
