// internal/service/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain/admin"
	"storefront/internal/domain/auth"
	xerrors "storefront/internal/pkg/errors"
	"storefront/internal/pkg/jwt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TokenStore remembers revoked tokens until they expire.
type TokenStore interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type AuthService struct {
	users      admin.Repository
	tokens     TokenStore
	jwtManager *jwt.Manager
	logger     *zap.Logger
}

func NewAuthService(users admin.Repository, tokens TokenStore, jwtManager *jwt.Manager, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// ========== Login / Logout ==========

// Login verifies credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	record, err := s.users.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.WithMessage(xerrors.ErrUnauthorized, "Invalid credentials")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(req.Password)); err != nil {
		return nil, xerrors.WithMessage(xerrors.ErrUnauthorized, "Invalid credentials")
	}

	roles := make([]string, 0, len(record.Roles))
	for _, r := range record.Roles {
		roles = append(roles, r.Name)
	}

	token, jti, err := s.jwtManager.Generator.Generate(record.ID, record.Email, roles)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("user logged in",
		zap.Int64("user_id", record.ID),
		zap.String("jti", jti),
		zap.Strings("roles", roles),
	)

	return &auth.LoginResponse{Token: token, User: record.User}, nil
}

// ValidateToken verifies signature, expiry and revocation.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.jwtManager.Verifier.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xerrors.ErrUnauthorized, err)
	}

	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check revocation: %w", err)
	}
	if revoked {
		return nil, xerrors.ErrSessionExpired
	}
	return claims, nil
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *jwt.Claims) error {
	expiresAt := time.Now().Add(24 * time.Hour)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.tokens.Revoke(ctx, claims.ID, expiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.logger.Info("user logged out", zap.Int64("user_id", claims.UserID), zap.String("jti", claims.ID))
	return nil
}

// ========== Profile ==========

func (s *AuthService) Profile(ctx context.Context, userID int64) (*auth.User, error) {
	record, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &record.User, nil
}

// UpdateProfile applies name/email changes and, when requested, a password
// change that requires the current password.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req *auth.UpdateProfileRequest) (*auth.User, error) {
	record, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, xerrors.WithMessage(xerrors.ErrInvalidInput, "The name field is required.")
		}
		record.Name = name
	}
	if req.Email != nil {
		record.Email = *req.Email
	}

	if req.ChangesPassword() {
		if req.Password != req.PasswordConfirmation {
			return nil, xerrors.WithMessage(xerrors.ErrInvalidInput, "The password confirmation does not match.")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			return nil, xerrors.WithMessage(xerrors.ErrInvalidInput, "The current password is incorrect.")
		}
		hashed, err := HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		record.PasswordHash = hashed
	}

	if err := s.users.UpdateUser(ctx, record); err != nil {
		if errors.Is(err, xerrors.ErrConflict) {
			return nil, xerrors.WithMessage(xerrors.ErrConflict, "The email has already been taken.")
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("profile updated",
		zap.Int64("user_id", userID),
		zap.Bool("password_changed", req.ChangesPassword()),
	)
	return &record.User, nil
}
