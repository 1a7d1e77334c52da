// internal/pkg/session/redis_store.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain/auth"
	"storefront/internal/pkg/jwt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore keeps the session in Redis so several processes (CLI, workers)
// can share one login. Token and user live under two keys written separately.
type RedisStore struct {
	client    *redis.Client
	namespace string
	logger    *zap.Logger
}

func NewRedisStore(client *redis.Client, namespace string, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{client: client, namespace: namespace, logger: logger}
}

// SetSession stores token then user. A JWT token bounds both keys by its exp
// claim. A nil user leaves no user key behind.
func (r *RedisStore) SetSession(ctx context.Context, token string, user *auth.User) error {
	var ttl time.Duration
	if exp, ok := jwt.ExpiresAt(token); ok {
		ttl = time.Until(exp)
		if ttl <= 0 {
			return fmt.Errorf("session already expired")
		}
	}

	if err := r.client.Set(ctx, r.tokenKey(), token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session token in redis: %w", err)
	}
	if user == nil {
		if err := r.client.Del(ctx, r.userKey()).Err(); err != nil {
			return fmt.Errorf("failed to delete session user from redis: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal session user: %w", err)
	}
	if err := r.client.Set(ctx, r.userKey(), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session user in redis: %w", err)
	}
	return nil
}

func (r *RedisStore) Token(ctx context.Context) (string, bool) {
	token, err := r.client.Get(ctx, r.tokenKey()).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("redis session token read failed", zap.Error(err))
		}
		return "", false
	}
	return token, token != ""
}

func (r *RedisStore) User(ctx context.Context) (*auth.User, bool) {
	data, err := r.client.Get(ctx, r.userKey()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("redis session user read failed", zap.Error(err))
		}
		return nil, false
	}
	var user *auth.User
	if err := json.Unmarshal(data, &user); err != nil {
		r.logger.Warn("redis session user corrupt", zap.Error(err))
		return nil, false
	}
	return user, user != nil
}

func (r *RedisStore) ClearSession(ctx context.Context) error {
	if err := r.client.Del(ctx, r.tokenKey(), r.userKey()).Err(); err != nil {
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	return nil
}

func (r *RedisStore) tokenKey() string {
	return fmt.Sprintf("storefront:session:%s:token", r.namespace)
}

func (r *RedisStore) userKey() string {
	return fmt.Sprintf("storefront:session:%s:user", r.namespace)
}
