// internal/pkg/session/store.go
package session

import (
	"storefront/internal/config"
	"storefront/internal/db"

	"go.uber.org/zap"
)

// NewFromConfig builds the configured backend. The returned close func
// releases backend resources and is never nil.
func NewFromConfig(cfg config.SessionConfig, logger *zap.Logger) (Store, func() error, error) {
	switch cfg.Backend {
	case config.SessionBackendRedis:
		client, err := db.NewRedisClient(db.RedisConfig{
			Addresses: []string{cfg.RedisAddr},
			Password:  cfg.RedisPass,
			DB:        cfg.RedisDB,
			PoolSize:  4,
		})
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStore(client, cfg.Namespace, logger), client.Close, nil
	case config.SessionBackendMemory:
		return NewMemoryStore(), noopClose, nil
	default:
		return NewFileStore(cfg.Path, logger), noopClose, nil
	}
}

func noopClose() error { return nil }
