// internal/repository/memory/token_repo.go
package memory

import (
	"context"
	"time"
)

// TokenRepository is the revocation list for logged-out tokens, keyed by JTI.
type TokenRepository struct {
	db *DB
}

func NewTokenRepository(db *DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Revoke blocks jti until expiresAt. Expired entries are pruned on write.
func (r *TokenRepository) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := r.db.now()
	for k, exp := range r.db.revoked {
		if now.After(exp) {
			delete(r.db.revoked, k)
		}
	}
	r.db.revoked[jti] = expiresAt
	return nil
}

func (r *TokenRepository) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	_, ok := r.db.revoked[jti]
	return ok, nil
}
